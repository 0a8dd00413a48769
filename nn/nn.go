// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/nn"
	"github.com/born-ml/scalargrad/internal/parallel"
)

// Module interface defines the common interface for all neural network modules.
type Module = nn.Module

// Model is a Module with a Forward pass over an input vector.
type Model = nn.Model

// NamedParameter pairs a parameter with its name.
type NamedParameter = nn.NamedParameter

// Modules

// Neuron computes b + Σ w[i]*x[i].
type Neuron = nn.Neuron

// NewNeuron creates a neuron with nin inputs.
//
// Example:
//
//	g := autodiff.NewGraph()
//	n := nn.NewNeuron(g, 3)
func NewNeuron(g *autodiff.Graph, nin int, opts ...Option) *Neuron {
	return nn.NewNeuron(g, nin, opts...)
}

// Layer is a set of neurons evaluated on the same input.
type Layer = nn.Layer

// NewLayer creates nout neurons with nin inputs each.
func NewLayer(g *autodiff.Graph, nin, nout int, opts ...Option) *Layer {
	return nn.NewLayer(g, nin, nout, opts...)
}

// MLP is a multi-layer perceptron.
type MLP = nn.MLP

// NewMLP creates an MLP with layer sizes [nin, nouts...].
//
// Example:
//
//	g := autodiff.NewGraph()
//	model := nn.NewMLP(g, 2, []int{16, 16, 1})
func NewMLP(g *autodiff.Graph, nin int, nouts []int, opts ...Option) *MLP {
	return nn.NewMLP(g, nin, nouts, opts...)
}

// Options

// Option configures a module constructor.
type Option = nn.Option

// ParallelConfig controls concurrent neuron evaluation.
type ParallelConfig = parallel.Config

// WithInit sets the parameter initializer.
func WithInit(init Initializer) Option {
	return nn.WithInit(init)
}

// WithNonlin sets the (unapplied) nonlinearity flag.
func WithNonlin(nonlin bool) Option {
	return nn.WithNonlin(nonlin)
}

// WithParallel evaluates the neurons of each layer concurrently.
func WithParallel(cfg ParallelConfig) Option {
	return nn.WithParallel(cfg)
}

// DefaultParallelConfig returns a parallel configuration sized to the CPU count.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// Initialization

// Initializer produces initial parameter values.
type Initializer = nn.Initializer

// DefaultInit returns weights 1.0, biases 0.0.
func DefaultInit() Initializer {
	return nn.DefaultInit()
}

// Constant initializes every weight to w and every bias to b.
func Constant(w, b float64) Initializer {
	return nn.Constant(w, b)
}

// Uniform initializes weights from U(-1, 1) with a seeded generator.
func Uniform(seed int64) Initializer {
	return nn.Uniform(seed)
}

// Loss

// Dataset is a set of input vectors with ±1 labels.
type Dataset = nn.Dataset

// LossResult holds the nodes built by MaxMarginLoss.
type LossResult = nn.LossResult

// LossOption configures MaxMarginLoss.
type LossOption = nn.LossOption

// DefaultAlpha is the default L2 regularization strength.
const DefaultAlpha = nn.DefaultAlpha

// WithAlpha sets the L2 regularization strength.
func WithAlpha(alpha float64) LossOption {
	return nn.WithAlpha(alpha)
}

// MaxMarginLoss builds mean(1 + y*score) + alpha*Σp² over ds.
func MaxMarginLoss(model Model, ds Dataset, opts ...LossOption) (*LossResult, error) {
	return nn.MaxMarginLoss(model, ds, opts...)
}

// Errors

// Errors returned by modules and the loss.
var (
	ErrShapeMismatch    = nn.ErrShapeMismatch
	ErrEmptyDataset     = nn.ErrEmptyDataset
	ErrLabelMismatch    = nn.ErrLabelMismatch
	ErrInvalidLabel     = nn.ErrInvalidLabel
	ErrOutputWidth      = nn.ErrOutputWidth
	ErrMissingParameter = nn.ErrMissingParameter
)
