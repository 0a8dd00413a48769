package nn

import (
	"fmt"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

// Neuron computes b + Σ w[i]*x[i] over its inputs.
//
// The weights and the bias are leaves of the neuron's graph, created once by
// NewNeuron. No activation is applied to the output, whatever Nonlin reports.
//
// Example:
//
//	g := autodiff.NewGraph()
//	n := nn.NewNeuron(g, 3)
//	out, err := n.Forward(g.Leaves([]float64{1, 2, 3})) // 1+2+3 = 6
type Neuron struct {
	g      *autodiff.Graph
	w      []autodiff.Value
	b      autodiff.Value
	nonlin bool
}

// NewNeuron creates a neuron with nin inputs on graph g.
//
// Panics if nin is negative.
func NewNeuron(g *autodiff.Graph, nin int, opts ...Option) *Neuron {
	cfg := newConfig(opts)
	return newNeuron(g, nin, cfg)
}

func newNeuron(g *autodiff.Graph, nin int, cfg Config) *Neuron {
	if nin < 0 {
		panic(fmt.Sprintf("NewNeuron: negative input count %d", nin))
	}

	w := make([]autodiff.Value, nin)
	for i := range w {
		w[i] = g.Leaf(cfg.Init.Weight(nin))
	}
	b := g.Leaf(cfg.Init.Bias(nin))

	klog.V(3).Infof("nn: neuron with %d inputs, nonlin=%t", nin, cfg.Nonlin)

	return &Neuron{g: g, w: w, b: b, nonlin: cfg.Nonlin}
}

// Forward computes the neuron output on x.
//
// Returns an error wrapping ErrShapeMismatch if len(x) differs from the
// number of inputs.
func (n *Neuron) Forward(x []autodiff.Value) (autodiff.Value, error) {
	if len(x) != len(n.w) {
		return autodiff.Value{}, errors.Wrapf(ErrShapeMismatch, "neuron: expected %d inputs, got %d", len(n.w), len(x))
	}
	return autodiff.Dot(n.b, n.w, x), nil
}

// MustForward is Forward that panics on error.
func (n *Neuron) MustForward(x []autodiff.Value) autodiff.Value {
	return must.M1(n.Forward(x))
}

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() []autodiff.Value {
	params := make([]autodiff.Value, 0, len(n.w)+1)
	params = append(params, n.w...)
	return append(params, n.b)
}

// ZeroGrad clears the gradients of the weights and the bias.
func (n *Neuron) ZeroGrad() {
	zeroGrads(n.Parameters())
}

// Weights returns the weight parameters.
func (n *Neuron) Weights() []autodiff.Value {
	return n.w
}

// Bias returns the bias parameter.
func (n *Neuron) Bias() autodiff.Value {
	return n.b
}

// NumInputs returns the number of inputs.
func (n *Neuron) NumInputs() int {
	return len(n.w)
}

// Nonlin reports the nonlinearity flag the neuron was built with.
func (n *Neuron) Nonlin() bool {
	return n.nonlin
}

// String implements fmt.Stringer.
func (n *Neuron) String() string {
	kind := "Linear"
	if n.nonlin {
		kind = "ReLU"
	}
	return fmt.Sprintf("%sNeuron(%d)", kind, len(n.w))
}

func (n *Neuron) namedParameters(prefix string) []NamedParameter {
	named := make([]NamedParameter, 0, len(n.w)+1)
	for i, w := range n.w {
		named = append(named, NamedParameter{Name: fmt.Sprintf("%sw.%d", prefix, i), Value: w})
	}
	return append(named, NamedParameter{Name: prefix + "b", Value: n.b})
}
