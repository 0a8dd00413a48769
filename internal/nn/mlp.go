package nn

import (
	"fmt"
	"strings"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

// MLP is a multi-layer perceptron: layers applied one after the other.
//
// Layer sizes come from consecutive pairs of [nin, nouts...]:
//
//	g := autodiff.NewGraph()
//	model := nn.NewMLP(g, 2, []int{16, 16, 1})
//	// Layer(2→16), Layer(16→16), Layer(16→1)
//
// Every layer but the last is flagged nonlinear, as in the reference model;
// the flag has no numerical effect.
type MLP struct {
	g      *autodiff.Graph
	layers []*Layer
}

// NewMLP creates an MLP with nin inputs and one layer per entry of nouts.
//
// A WithNonlin option overrides the per-layer flag for all layers.
func NewMLP(g *autodiff.Graph, nin int, nouts []int, opts ...Option) *MLP {
	sizes := append([]int{nin}, nouts...)

	layers := make([]*Layer, len(nouts))
	for i := range layers {
		layerOpts := append([]Option{WithNonlin(i != len(nouts)-1)}, opts...)
		layers[i] = newLayer(g, sizes[i], sizes[i+1], newConfig(layerOpts))
	}

	klog.V(3).Infof("nn: mlp with sizes %v", sizes)

	return &MLP{g: g, layers: layers}
}

// Forward feeds x through every layer in order and returns the outputs of
// the last one.
func (m *MLP) Forward(x []autodiff.Value) ([]autodiff.Value, error) {
	out := x
	for i, layer := range m.layers {
		var err error
		out, err = layer.Forward(out)
		if err != nil {
			return nil, errors.WithMessagef(err, "mlp layer %d", i)
		}
	}
	return out, nil
}

// MustForward is Forward that panics on error.
func (m *MLP) MustForward(x []autodiff.Value) []autodiff.Value {
	return must.M1(m.Forward(x))
}

// Parameters returns the parameters of every layer, in layer order.
func (m *MLP) Parameters() []autodiff.Value {
	var params []autodiff.Value
	for _, layer := range m.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// ZeroGrad clears the gradients of every layer.
func (m *MLP) ZeroGrad() {
	for _, layer := range m.layers {
		layer.ZeroGrad()
	}
}

// Graph returns the graph holding the model's parameters.
func (m *MLP) Graph() *autodiff.Graph {
	return m.g
}

// Layers returns the layers of the model.
func (m *MLP) Layers() []*Layer {
	return m.layers
}

// String implements fmt.Stringer.
func (m *MLP) String() string {
	parts := make([]string, len(m.layers))
	for i, layer := range m.layers {
		parts[i] = layer.String()
	}
	return "MLP of [" + strings.Join(parts, ", ") + "]"
}

// NamedParameters returns the parameters named "layers.<k>.neurons.<i>.w.<j>"
// and "layers.<k>.neurons.<i>.b", in Parameters order.
func (m *MLP) NamedParameters() []NamedParameter {
	var named []NamedParameter
	for k, layer := range m.layers {
		named = append(named, layer.namedParameters(fmt.Sprintf("layers.%d.", k))...)
	}
	return named
}
