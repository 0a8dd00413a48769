// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network modules built from scalar graph nodes.
//
// # Overview
//
// This package contains:
//   - Modules: Neuron, Layer, MLP
//   - Module interface: Parameters and ZeroGrad
//   - Loss: MaxMarginLoss with L2 regularization
//   - Initialization: DefaultInit, Constant, Uniform
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/scalargrad/autodiff"
//	    "github.com/born-ml/scalargrad/nn"
//	)
//
//	func main() {
//	    g := autodiff.NewGraph()
//	    model := nn.NewMLP(g, 2, []int{16, 16, 1})
//
//	    res, err := nn.MaxMarginLoss(model, nn.Dataset{
//	        X: [][]float64{{1, 2}, {-1, 0.5}},
//	        Y: []float64{1, -1},
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    autodiff.Backward(res.Total)
//
//	    for _, p := range model.Parameters() {
//	        fmt.Println(p.Grad())
//	    }
//	}
//
// # Initialization
//
// Parameters start at weight 1.0 and bias 0.0 unless WithInit is given.
//
// # Nonlinearity
//
// Neurons accept a nonlinearity flag but apply no activation: a neuron's
// output is always b + Σ w[i]*x[i].
//
// # Errors
//
// Forward returns an error wrapping ErrShapeMismatch when the input length
// does not match the module's fan-in.
package nn
