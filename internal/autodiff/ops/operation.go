// Package ops defines the operation kinds recorded on graph nodes and the
// local-gradient rules used during the backward pass.
//
// Every node carries a Kind instead of a captured closure. The rules live here,
// one file per operation, and are reached through two dispatch functions:
//   - Forward: computes a node value from its operand values
//   - Backward: computes the contribution to each operand gradient
//
// Supported operations:
//   - Leaf: inputs, parameters and constants (no operands, no-op backward)
//   - Add: d(a+b)/da = 1, d(a+b)/db = 1
//   - Mul: d(a*b)/da = b, d(a*b)/db = a
package ops

import "fmt"

// Kind identifies the operation that produced a node.
type Kind uint8

const (
	// Leaf marks a node with no operands.
	Leaf Kind = iota
	// Add marks a node produced by a + b.
	Add
	// Mul marks a node produced by a * b.
	Mul
)

// String returns the operator symbol, or "leaf".
func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Add:
		return "+"
	case Mul:
		return "*"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Arity returns the number of operands a node of this kind records.
func (k Kind) Arity() int {
	switch k {
	case Add, Mul:
		return 2
	default:
		return 0
	}
}

// Forward computes the value of a node of kind k from its operand values.
//
// Panics for Leaf and unknown kinds: leaves carry their own value.
func Forward(k Kind, a, b float64) float64 {
	switch k {
	case Add:
		return addForward(a, b)
	case Mul:
		return mulForward(a, b)
	default:
		panic(fmt.Sprintf("ops.Forward: %s has no forward rule", k))
	}
}

// Backward returns the contributions of outputGrad to the gradients of the two
// operands, given their values a and b.
//
// Callers add the results into the operand gradients; Backward itself never
// touches any state. A Leaf yields (0, 0).
func Backward(k Kind, a, b, outputGrad float64) (gradA, gradB float64) {
	switch k {
	case Leaf:
		return 0, 0
	case Add:
		return addBackward(outputGrad)
	case Mul:
		return mulBackward(a, b, outputGrad)
	default:
		panic(fmt.Sprintf("ops.Backward: unknown operation %s", k))
	}
}
