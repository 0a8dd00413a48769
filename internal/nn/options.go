package nn

import (
	"github.com/born-ml/scalargrad/internal/parallel"
)

// Config holds the construction settings shared by Neuron, Layer and MLP.
type Config struct {
	Init     Initializer     // Parameter initialization (default: Constant(1, 0))
	Nonlin   bool            // Recorded only, never applied (default: true)
	Parallel parallel.Config // Neuron evaluation within a layer (default: sequential)
}

// Option configures a module constructor.
type Option func(*Config)

// WithInit sets the parameter initializer.
func WithInit(init Initializer) Option {
	return func(c *Config) {
		c.Init = init
	}
}

// WithNonlin sets the nonlinearity flag.
//
// The flag is stored and reported by Neuron.Nonlin, but no activation is
// applied either way: outputs are always the raw weighted sum.
func WithNonlin(nonlin bool) Option {
	return func(c *Config) {
		c.Nonlin = nonlin
	}
}

// WithParallel evaluates the neurons of each layer concurrently.
func WithParallel(cfg parallel.Config) Option {
	return func(c *Config) {
		c.Parallel = cfg
	}
}

func newConfig(opts []Option) Config {
	cfg := Config{
		Init:     DefaultInit(),
		Nonlin:   true,
		Parallel: parallel.Sequential(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
