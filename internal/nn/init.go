package nn

import (
	"math/rand"
)

// Initializer produces initial parameter values.
type Initializer interface {
	// Weight returns the initial value of one weight of a neuron with fanIn inputs.
	Weight(fanIn int) float64

	// Bias returns the initial bias of a neuron with fanIn inputs.
	Bias(fanIn int) float64
}

// DefaultInit returns the reference policy: weights 1.0, biases 0.0.
func DefaultInit() Initializer {
	return Constant(1, 0)
}

// Constant initializes every weight to w and every bias to b.
func Constant(w, b float64) Initializer {
	return constantInit{w: w, b: b}
}

type constantInit struct {
	w, b float64
}

func (c constantInit) Weight(int) float64 { return c.w }
func (c constantInit) Bias(int) float64   { return c.b }

// Uniform initializes weights from U(-1, 1) using a generator seeded with
// seed, and biases to zero. Equal seeds yield equal models.
//
// The generator is not safe for concurrent use; modules are constructed on
// one goroutine.
func Uniform(seed int64) Initializer {
	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	return &uniformInit{rng: rand.New(rand.NewSource(seed))}
}

type uniformInit struct {
	rng *rand.Rand
}

func (u *uniformInit) Weight(int) float64 {
	return u.rng.Float64()*2.0 - 1.0
}

func (u *uniformInit) Bias(int) float64 {
	return 0
}
