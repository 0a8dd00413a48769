// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides scalar reverse-mode automatic differentiation.
//
// Values are handles to nodes of a Graph. Add and Mul build new nodes from
// existing ones; Backward computes the gradient of a root with respect to
// every node it depends on.
//
// Example:
//
//	import "github.com/born-ml/scalargrad/autodiff"
//
//	func main() {
//	    g := autodiff.NewGraph()
//	    a, b := g.Leaf(1), g.Leaf(2)
//	    c, d := g.Leaf(3), g.Leaf(4)
//
//	    out := autodiff.Add(autodiff.Add(a, b), autodiff.Mul(c, d)) // 15
//	    autodiff.Backward(out)
//
//	    fmt.Println(c.Grad()) // 4
//	}
package autodiff

import (
	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/autodiff/ops"
)

// Graph owns every node of a computation.
type Graph = autodiff.Graph

// Value is a handle to a node of a Graph.
type Value = autodiff.Value

// Checkpoint marks a position in a graph, see Graph.Mark and Graph.Release.
type Checkpoint = autodiff.Checkpoint

// Op identifies the operation that produced a node.
type Op = ops.Kind

// Operation kinds.
const (
	OpLeaf = ops.Leaf
	OpAdd  = ops.Add
	OpMul  = ops.Mul
)

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return autodiff.NewGraph()
}

// Add returns a new node a + b.
func Add(a, b Value) Value {
	return autodiff.Add(a, b)
}

// Mul returns a new node a * b.
func Mul(a, b Value) Value {
	return autodiff.Mul(a, b)
}

// Sum returns v0 + v1 + ... folded left to right.
func Sum(values ...Value) Value {
	return autodiff.Sum(values...)
}

// Dot returns start + Σ a[i]*b[i].
func Dot(start Value, a, b []Value) Value {
	return autodiff.Dot(start, a, b)
}

// Backward computes gradients of root with respect to all its ancestors.
// Gradients accumulate across calls; reset them with ZeroGrad.
//
// Returns the processed nodes, root first.
func Backward(root Value) []Value {
	return autodiff.Backward(root)
}

// TopoSort returns the nodes reachable from root, parents before children.
func TopoSort(root Value) []Value {
	return autodiff.TopoSort(root)
}

// Propagate runs the local gradient rule of a single node.
func Propagate(v Value) {
	autodiff.Propagate(v)
}
