package nn

import "github.com/pkg/errors"

// Common errors. Returned errors wrap one of these; test with errors.Is.
var (
	ErrShapeMismatch    = errors.New("input length does not match module fan-in")
	ErrEmptyDataset     = errors.New("dataset has no samples")
	ErrLabelMismatch    = errors.New("dataset has a different number of inputs and labels")
	ErrInvalidLabel     = errors.New("label must be -1 or +1")
	ErrOutputWidth      = errors.New("model must produce exactly one output")
	ErrMissingParameter = errors.New("parameter missing from state dict")
)
