package nn

import (
	"fmt"
	"strings"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/parallel"
)

// Layer is a set of independent neurons evaluated on the same input.
//
// Example:
//
//	g := autodiff.NewGraph()
//	layer := nn.NewLayer(g, 2, 16)
//	out, err := layer.Forward(g.Leaves([]float64{1, 2})) // 16 outputs
type Layer struct {
	g        *autodiff.Graph
	nin      int
	neurons  []*Neuron
	parallel parallel.Config
}

// NewLayer creates nout neurons with nin inputs each on graph g.
func NewLayer(g *autodiff.Graph, nin, nout int, opts ...Option) *Layer {
	return newLayer(g, nin, nout, newConfig(opts))
}

func newLayer(g *autodiff.Graph, nin, nout int, cfg Config) *Layer {
	if nout < 0 {
		panic(fmt.Sprintf("NewLayer: negative output count %d", nout))
	}

	neurons := make([]*Neuron, nout)
	for i := range neurons {
		neurons[i] = newNeuron(g, nin, cfg)
	}

	return &Layer{
		g:        g,
		nin:      nin,
		neurons:  neurons,
		parallel: cfg.Parallel,
	}
}

// Forward evaluates every neuron on x and returns their outputs in order.
//
// Returns an error wrapping ErrShapeMismatch if len(x) differs from the
// layer's fan-in.
func (l *Layer) Forward(x []autodiff.Value) ([]autodiff.Value, error) {
	if len(x) != l.nin {
		return nil, errors.Wrapf(ErrShapeMismatch, "layer: expected %d inputs, got %d", l.nin, len(x))
	}

	out := make([]autodiff.Value, len(l.neurons))
	err := parallel.ForErr(len(l.neurons), func(i int) error {
		v, err := l.neurons[i].Forward(x)
		if err != nil {
			return errors.WithMessagef(err, "neuron %d", i)
		}
		out[i] = v
		return nil
	}, l.parallel)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MustForward is Forward that panics on error.
func (l *Layer) MustForward(x []autodiff.Value) []autodiff.Value {
	return must.M1(l.Forward(x))
}

// Parameters returns the parameters of every neuron, in neuron order.
func (l *Layer) Parameters() []autodiff.Value {
	var params []autodiff.Value
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}

// ZeroGrad clears the gradients of every neuron.
func (l *Layer) ZeroGrad() {
	for _, n := range l.neurons {
		n.ZeroGrad()
	}
}

// Graph returns the graph holding the layer's parameters.
func (l *Layer) Graph() *autodiff.Graph {
	return l.g
}

// Neurons returns the neurons of the layer.
func (l *Layer) Neurons() []*Neuron {
	return l.neurons
}

// NumInputs returns the layer's fan-in.
func (l *Layer) NumInputs() int {
	return l.nin
}

// NumOutputs returns the number of neurons.
func (l *Layer) NumOutputs() int {
	return len(l.neurons)
}

// String implements fmt.Stringer.
func (l *Layer) String() string {
	parts := make([]string, len(l.neurons))
	for i, n := range l.neurons {
		parts[i] = n.String()
	}
	return "Layer of [" + strings.Join(parts, ", ") + "]"
}

// NamedParameters returns the parameters named "neurons.<i>.w.<j>" and
// "neurons.<i>.b", in Parameters order.
func (l *Layer) NamedParameters() []NamedParameter {
	return l.namedParameters("")
}

func (l *Layer) namedParameters(prefix string) []NamedParameter {
	var named []NamedParameter
	for i, n := range l.neurons {
		named = append(named, n.namedParameters(fmt.Sprintf("%sneurons.%d.", prefix, i))...)
	}
	return named
}
