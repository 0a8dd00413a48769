// Package autodiff implements scalar reverse-mode automatic differentiation.
//
// A Graph owns every node; a Value is a handle to one node. Operations consume
// existing values and append a new node recording them as parents, and
// Backward walks the graph from a root to fill in gradients.
//
// Architecture:
//   - Arena: Graph stores nodes by index, Value is an index handle
//   - Operation kinds: each node records an ops.Kind instead of a closure
//   - Backward engine: topological sort + reverse-order propagation
//   - Gradients accumulate: a node used by many consumers gets the sum
//
// Usage:
//
//	g := autodiff.NewGraph()
//	x := g.Leaf(2.0)
//	y := autodiff.Mul(x, x) // y = x²
//
//	autodiff.Backward(y)
//	fmt.Println(x.Grad()) // dy/dx = 2x = 4.0
package autodiff

import (
	"fmt"

	"github.com/born-ml/scalargrad/internal/autodiff/ops"
)

// Leaf creates a node with no parents: an input, a parameter or a constant.
func (g *Graph) Leaf(x float64) Value {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.push(node{
		value:   x,
		kind:    ops.Leaf,
		parents: [2]int32{noParent, noParent},
	})
}

// Leaves creates one leaf per element of xs.
func (g *Graph) Leaves(xs []float64) []Value {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Value, len(xs))
	for i, x := range xs {
		out[i] = g.push(node{
			value:   x,
			kind:    ops.Leaf,
			parents: [2]int32{noParent, noParent},
		})
	}
	return out
}

// Add returns a new node a + b.
//
// Backward: both operands receive the output gradient.
func Add(a, b Value) Value {
	return apply(ops.Add, a, b)
}

// Mul returns a new node a * b.
//
// Backward: a receives b*grad, b receives a*grad.
func Mul(a, b Value) Value {
	return apply(ops.Mul, a, b)
}

// Sum folds values left to right with Add: ((v0 + v1) + v2) + ...
//
// A single value is returned as is. Panics on an empty list.
func Sum(values ...Value) Value {
	if len(values) == 0 {
		panic("autodiff.Sum: no values")
	}
	acc := values[0]
	for _, v := range values[1:] {
		acc = Add(acc, v)
	}
	return acc
}

// Dot returns start + Σ a[i]*b[i], accumulated left to right.
//
// Panics if the slices have different lengths.
func Dot(start Value, a, b []Value) Value {
	if len(a) != len(b) {
		panic(fmt.Sprintf("autodiff.Dot: length mismatch %d vs %d", len(a), len(b)))
	}
	acc := start
	for i := range a {
		acc = Add(acc, Mul(a[i], b[i]))
	}
	return acc
}

// apply records a binary operation. Operand values are read, never written.
func apply(kind ops.Kind, a, b Value) Value {
	g := operandGraph(kind, a, b)

	g.mu.Lock()
	defer g.mu.Unlock()

	na, nb := g.slot(a), g.slot(b)
	return g.push(node{
		value:   ops.Forward(kind, na.value, nb.value),
		kind:    kind,
		parents: [2]int32{a.id, b.id},
	})
}

func operandGraph(kind ops.Kind, a, b Value) *Graph {
	if a.g == nil || b.g == nil {
		panic(fmt.Sprintf("autodiff: %s with a zero Value operand", kind))
	}
	if a.g != b.g {
		panic(fmt.Sprintf("autodiff: %s operands belong to different graphs", kind))
	}
	return a.g
}
