package nn

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

// DefaultAlpha is the default L2 regularization strength.
const DefaultAlpha = 1e-4

// Dataset is a set of input vectors with ±1 labels.
type Dataset struct {
	X [][]float64
	Y []float64
}

// Len returns the number of samples.
func (d Dataset) Len() int {
	return len(d.X)
}

// Validate checks that the dataset is non-empty, that inputs and labels pair
// up and that every label is -1 or +1.
func (d Dataset) Validate() error {
	if len(d.X) == 0 {
		return ErrEmptyDataset
	}
	if len(d.X) != len(d.Y) {
		return errors.Wrapf(ErrLabelMismatch, "%d inputs, %d labels", len(d.X), len(d.Y))
	}
	for i, y := range d.Y {
		if y != 1 && y != -1 {
			return errors.Wrapf(ErrInvalidLabel, "sample %d has label %g", i, y)
		}
	}
	return nil
}

// LossConfig holds MaxMarginLoss settings.
type LossConfig struct {
	Alpha float64 // L2 regularization strength (default: 1e-4)
}

// LossOption configures MaxMarginLoss.
type LossOption func(*LossConfig)

// WithAlpha sets the L2 regularization strength.
func WithAlpha(alpha float64) LossOption {
	return func(c *LossConfig) {
		c.Alpha = alpha
	}
}

// LossResult holds the nodes built by MaxMarginLoss.
type LossResult struct {
	Total    autodiff.Value   // Data + Reg
	Data     autodiff.Value   // mean of the per-sample terms
	Reg      autodiff.Value   // alpha * Σ p²
	Scores   []autodiff.Value // model output per sample
	Accuracy float64          // fraction of samples with sign(score) == label
}

// MaxMarginLoss builds the example classification loss of model over ds:
//
//	Loss = mean_i(1 + y[i]*score[i]) + alpha * Σ_p p²
//
// The per-sample term is used exactly as written: it is neither clamped at
// zero nor sign-flipped, so it is not a conventional hinge loss. Callers that
// need the conventional form must build it themselves.
//
// Inputs become fresh leaves on the model's graph. Run autodiff.Backward on
// Total to fill every parameter gradient in one pass.
func MaxMarginLoss(model Model, ds Dataset, opts ...LossOption) (*LossResult, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	cfg := LossConfig{Alpha: DefaultAlpha}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := model.Graph()
	one := g.Leaf(1)

	scores := make([]autodiff.Value, ds.Len())
	terms := make([]autodiff.Value, ds.Len())
	correct := 0
	for i, row := range ds.X {
		out, err := model.Forward(g.Leaves(row))
		if err != nil {
			return nil, errors.WithMessagef(err, "sample %d", i)
		}
		if len(out) != 1 {
			return nil, errors.Wrapf(ErrOutputWidth, "sample %d: got %d outputs", i, len(out))
		}

		scores[i] = out[0]
		terms[i] = autodiff.Add(one, autodiff.Mul(g.Leaf(ds.Y[i]), scores[i]))

		if (ds.Y[i] > 0) == (scores[i].Data() > 0) {
			correct++
		}
	}

	dataLoss := autodiff.Mul(autodiff.Sum(terms...), g.Leaf(1/float64(ds.Len())))
	regLoss := l2(g, model.Parameters(), cfg.Alpha)
	total := autodiff.Add(dataLoss, regLoss)

	accuracy := float64(correct) / float64(ds.Len())
	klog.V(2).Infof("nn: max-margin loss %g (data %g, reg %g), accuracy %.1f%%",
		total.Data(), dataLoss.Data(), regLoss.Data(), accuracy*100)

	return &LossResult{
		Total:    total,
		Data:     dataLoss,
		Reg:      regLoss,
		Scores:   scores,
		Accuracy: accuracy,
	}, nil
}

// l2 returns alpha * Σ p*p, or a zero leaf when there are no parameters.
func l2(g *autodiff.Graph, params []autodiff.Value, alpha float64) autodiff.Value {
	if len(params) == 0 {
		return g.Leaf(0)
	}
	squares := make([]autodiff.Value, len(params))
	for i, p := range params {
		squares[i] = autodiff.Mul(p, p)
	}
	return autodiff.Mul(g.Leaf(alpha), autodiff.Sum(squares...))
}
