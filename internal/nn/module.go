// Package nn implements neural network modules built from scalar graph nodes.
//
// This package provides:
//   - Module interface: parameters and gradient reset
//   - Neuron: weighted sum of its inputs plus a bias
//   - Layer: independent neurons sharing one input vector
//   - MLP: layers applied in sequence
//   - MaxMarginLoss: hinge-style loss with L2 regularization
//
// Every parameter is a leaf of an autodiff.Graph created once at
// construction; each Forward call appends fresh intermediate nodes.
package nn

import (
	"github.com/born-ml/scalargrad/internal/autodiff"
)

// Module is the capability every NN component provides.
//
// Modules are composed by delegation: a Layer's parameters are its neurons'
// parameters, an MLP's are its layers'.
type Module interface {
	// Parameters returns all trainable leaves of this module, in a stable
	// declaration order.
	Parameters() []autodiff.Value

	// ZeroGrad sets the gradient of every parameter to zero.
	ZeroGrad()
}

// Model is a Module that maps an input vector to an output vector.
// Layer and MLP implement it.
type Model interface {
	Module

	// Forward evaluates the model on x and returns the output nodes.
	Forward(x []autodiff.Value) ([]autodiff.Value, error)

	// Graph returns the graph holding the model's parameters.
	Graph() *autodiff.Graph
}

// NamedParameter pairs a parameter with its position-derived name.
type NamedParameter struct {
	Name  string
	Value autodiff.Value
}

// zeroGrads resets the gradient of every value.
func zeroGrads(params []autodiff.Value) {
	for _, p := range params {
		p.SetGrad(0)
	}
}
