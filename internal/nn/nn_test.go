package nn_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/nn"
	"github.com/born-ml/scalargrad/internal/parallel"
)

// TestNeuron_Forward tests b + Σ w*x with the default initialization.
func TestNeuron_Forward(t *testing.T) {
	g := autodiff.NewGraph()
	n := nn.NewNeuron(g, 3)
	x := g.Leaves([]float64{1, 2, 3})

	out, err := n.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, 6.0, out.Data())

	autodiff.Backward(out)

	for i, w := range n.Weights() {
		assert.Equal(t, x[i].Data(), w.Grad(), "weight %d", i)
		assert.Equal(t, 1.0, x[i].Grad(), "input %d", i)
	}
	assert.Equal(t, 1.0, n.Bias().Grad())
}

// TestNeuron_Parameters tests the weights-then-bias order.
func TestNeuron_Parameters(t *testing.T) {
	g := autodiff.NewGraph()
	n := nn.NewNeuron(g, 2)

	params := n.Parameters()
	require.Len(t, params, 3)
	assert.Equal(t, n.Weights()[0], params[0])
	assert.Equal(t, n.Weights()[1], params[1])
	assert.Equal(t, n.Bias(), params[2])

	assert.Equal(t, 1.0, params[0].Data())
	assert.Equal(t, 1.0, params[1].Data())
	assert.Equal(t, 0.0, params[2].Data())
	assert.Equal(t, 2, n.NumInputs())
}

// TestNeuron_ShapeMismatch tests that a wrong input length fails fast.
func TestNeuron_ShapeMismatch(t *testing.T) {
	g := autodiff.NewGraph()
	n := nn.NewNeuron(g, 3)
	before := g.Len()

	_, err := n.Forward(g.Leaves([]float64{1, 2}))

	require.Error(t, err)
	assert.True(t, errors.Is(err, nn.ErrShapeMismatch))
	assert.Contains(t, err.Error(), "neuron: expected 3 inputs, got 2")
	assert.Equal(t, before+2, g.Len(), "no nodes built besides the inputs")

	assert.Panics(t, func() { n.MustForward(nil) })
	assert.Panics(t, func() { nn.NewNeuron(g, -1) })
}

// TestNeuron_NonlinIsNoOp tests that the flag never changes the output.
func TestNeuron_NonlinIsNoOp(t *testing.T) {
	g := autodiff.NewGraph()
	relu := nn.NewNeuron(g, 2, nn.WithNonlin(true))
	linear := nn.NewNeuron(g, 2, nn.WithNonlin(false))
	x := g.Leaves([]float64{-3, 1})

	a := relu.MustForward(x)
	b := linear.MustForward(x)

	assert.True(t, relu.Nonlin())
	assert.False(t, linear.Nonlin())
	assert.Equal(t, -2.0, a.Data(), "negative output is not clamped")
	assert.Equal(t, a.Data(), b.Data())
	assert.Equal(t, "ReLUNeuron(2)", relu.String())
	assert.Equal(t, "LinearNeuron(2)", linear.String())
}

// TestLayer_Forward tests that every neuron sees the same input.
func TestLayer_Forward(t *testing.T) {
	g := autodiff.NewGraph()
	layer := nn.NewLayer(g, 2, 16)

	out, err := layer.Forward(g.Leaves([]float64{1, 2}))
	require.NoError(t, err)
	require.Len(t, out, 16)
	for i, v := range out {
		assert.Equal(t, 3.0, v.Data(), "neuron %d", i)
	}

	assert.Len(t, layer.Parameters(), 16*3)
	assert.Equal(t, 2, layer.NumInputs())
	assert.Equal(t, 16, layer.NumOutputs())
	assert.Same(t, g, layer.Graph())
}

// TestLayer_ShapeMismatch tests the layer-level length check.
func TestLayer_ShapeMismatch(t *testing.T) {
	g := autodiff.NewGraph()
	layer := nn.NewLayer(g, 2, 4)

	_, err := layer.Forward(g.Leaves([]float64{1, 2, 3}))

	assert.True(t, errors.Is(err, nn.ErrShapeMismatch))
	assert.Contains(t, err.Error(), "layer: expected 2 inputs, got 3")
	assert.Panics(t, func() { layer.MustForward(nil) })
}

// TestMLP_ParameterCount tests MLP(2, [16, 16, 1]).
func TestMLP_ParameterCount(t *testing.T) {
	g := autodiff.NewGraph()
	model := nn.NewMLP(g, 2, []int{16, 16, 1})

	params := model.Parameters()

	assert.Len(t, params, 2*16+16*16+16*1+16+16+1)
	assert.Len(t, model.Layers(), 3)

	// Parameters come back in creation order.
	for i, p := range params {
		assert.Equal(t, i, p.ID())
	}
	assert.Equal(t, params, model.Parameters(), "order is stable across calls")

	named := model.NamedParameters()
	require.Len(t, named, len(params))
	assert.Equal(t, "layers.0.neurons.0.w.0", named[0].Name)
	assert.Equal(t, "layers.0.neurons.0.w.1", named[1].Name)
	assert.Equal(t, "layers.0.neurons.0.b", named[2].Name)
	assert.Equal(t, "layers.2.neurons.0.b", named[len(named)-1].Name)
	for i := range named {
		assert.Equal(t, params[i], named[i].Value)
	}
}

// TestMLP_ForwardBackward tests values and gradients with unit weights:
// h1 = x0+x1, h2 = 16*h1, out = 16*h2.
func TestMLP_ForwardBackward(t *testing.T) {
	g := autodiff.NewGraph()
	model := nn.NewMLP(g, 2, []int{16, 16, 1})
	x := g.Leaves([]float64{1, 2})

	out, err := model.Forward(x)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 768.0, out[0].Data())

	autodiff.Backward(out[0])

	layers := model.Layers()
	for _, n := range layers[2].Neurons() {
		for _, w := range n.Weights() {
			assert.Equal(t, 48.0, w.Grad())
		}
		assert.Equal(t, 1.0, n.Bias().Grad())
	}
	for _, n := range layers[1].Neurons() {
		for _, w := range n.Weights() {
			assert.Equal(t, 3.0, w.Grad())
		}
		assert.Equal(t, 1.0, n.Bias().Grad())
	}
	for _, n := range layers[0].Neurons() {
		assert.Equal(t, 16.0, n.Weights()[0].Grad())
		assert.Equal(t, 32.0, n.Weights()[1].Grad())
		assert.Equal(t, 16.0, n.Bias().Grad())
	}
	assert.Equal(t, 256.0, x[0].Grad())
	assert.Equal(t, 256.0, x[1].Grad())
}

// TestMLP_ShapeMismatch tests that the failing layer is reported.
func TestMLP_ShapeMismatch(t *testing.T) {
	g := autodiff.NewGraph()
	model := nn.NewMLP(g, 3, []int{4, 1})

	_, err := model.Forward(g.Leaves([]float64{1}))

	assert.True(t, errors.Is(err, nn.ErrShapeMismatch))
	assert.Contains(t, err.Error(), "mlp layer 0")
	assert.Panics(t, func() { model.MustForward(nil) })
}

// TestMLP_Nonlin tests the per-layer flags.
func TestMLP_Nonlin(t *testing.T) {
	g := autodiff.NewGraph()
	model := nn.NewMLP(g, 2, []int{2, 1})

	assert.True(t, model.Layers()[0].Neurons()[0].Nonlin())
	assert.False(t, model.Layers()[1].Neurons()[0].Nonlin())
	assert.Equal(t,
		"MLP of [Layer of [ReLUNeuron(2), ReLUNeuron(2)], Layer of [LinearNeuron(2)]]",
		model.String())
}

// TestZeroGrad tests that ZeroGrad leaves every parameter at exactly 0.
func TestZeroGrad(t *testing.T) {
	g := autodiff.NewGraph()
	model := nn.NewMLP(g, 2, []int{4, 4, 1})
	x := g.Leaves([]float64{0.5, -1.5})

	for j := 0; j < 3; j++ {
		autodiff.Backward(model.MustForward(x)[0])
	}

	nonZero := 0
	for _, p := range model.Parameters() {
		if p.Grad() != 0 {
			nonZero++
		}
	}
	require.NotZero(t, nonZero)

	model.ZeroGrad()
	for _, p := range model.Parameters() {
		assert.Zero(t, p.Grad())
	}

	model.ZeroGrad()
	for _, p := range model.Parameters() {
		assert.Zero(t, p.Grad())
	}
	assert.NotZero(t, x[0].Grad(), "inputs are not parameters")
}

// TestZeroGrad_Layer tests ZeroGrad on a single layer.
func TestZeroGrad_Layer(t *testing.T) {
	g := autodiff.NewGraph()
	layer := nn.NewLayer(g, 3, 2)
	out := layer.MustForward(g.Leaves([]float64{1, 2, 3}))
	autodiff.Backward(autodiff.Sum(out...))

	layer.ZeroGrad()

	for _, p := range layer.Parameters() {
		assert.Zero(t, p.Grad())
	}
}

// TestMLP_ParallelMatchesSequential tests that concurrent neuron evaluation
// gives the same values and gradients.
func TestMLP_ParallelMatchesSequential(t *testing.T) {
	input := []float64{0.25, -0.75, 1.5}
	build := func(opts ...nn.Option) (*nn.MLP, autodiff.Value) {
		g := autodiff.NewGraph()
		opts = append(opts, nn.WithInit(nn.Uniform(7)))
		model := nn.NewMLP(g, 3, []int{32, 32, 1}, opts...)
		out := model.MustForward(g.Leaves(input))[0]
		autodiff.Backward(out)
		return model, out
	}

	seqModel, seqOut := build()
	parModel, parOut := build(nn.WithParallel(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}))

	assert.Equal(t, seqOut.Data(), parOut.Data())
	seqParams, parParams := seqModel.Parameters(), parModel.Parameters()
	require.Len(t, parParams, len(seqParams))
	for i := range seqParams {
		assert.Equal(t, seqParams[i].Grad(), parParams[i].Grad(), "parameter %d", i)
	}
}

// TestUniformInit tests the seeded random initializer.
func TestUniformInit(t *testing.T) {
	g := autodiff.NewGraph()
	a := nn.NewMLP(g, 2, []int{8, 1}, nn.WithInit(nn.Uniform(42)))
	b := nn.NewMLP(g, 2, []int{8, 1}, nn.WithInit(nn.Uniform(42)))

	assert.Equal(t, a.StateDict(), b.StateDict())

	for _, p := range a.NamedParameters() {
		v := p.Value.Data()
		if p.Name[len(p.Name)-1] == 'b' {
			assert.Zero(t, v, p.Name)
			continue
		}
		assert.GreaterOrEqual(t, v, -1.0, p.Name)
		assert.Less(t, v, 1.0, p.Name)
	}
}

// TestConstantInit tests a custom constant policy.
func TestConstantInit(t *testing.T) {
	g := autodiff.NewGraph()
	n := nn.NewNeuron(g, 2, nn.WithInit(nn.Constant(0.5, -1)))

	out := n.MustForward(g.Leaves([]float64{2, 4}))

	assert.Equal(t, 2.0, out.Data())
}

// TestMLP_ReleaseBetweenEvaluations tests that parameters survive the
// release of transient nodes.
func TestMLP_ReleaseBetweenEvaluations(t *testing.T) {
	g := autodiff.NewGraph()
	model := nn.NewMLP(g, 2, []int{3, 1})
	mark := g.Mark()
	numParams := g.Len()

	for j := 0; j < 3; j++ {
		out := model.MustForward(g.Leaves([]float64{1, 1}))[0]
		autodiff.Backward(out)
		g.Release(mark)
		assert.Equal(t, numParams, g.Len())
	}

	// Three accumulated passes: d out/d w2 = h1 = 2, d out/d w1 = w2 * x = 1.
	assert.Equal(t, 6.0, model.Layers()[1].Neurons()[0].Weights()[0].Grad())
	assert.Equal(t, 3.0, model.Layers()[0].Neurons()[0].Weights()[0].Grad())
}
