package cash

import "github.com/dappr/dappr/errors"

// Cash reserves 1040~1049 error codes
var (
	// ErrInsufficientBalance is returned when a wallet does not hold
	// enough of the requested value unit.
	ErrInsufficientBalance = errors.Register(1040, "insufficient balance").Kind(errors.ErrAmount)
)
