package utils

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
)

// Recovery is a decorator to recover from panics in operations,
// so we can log them as errors
type Recovery struct{}

var _ dappr.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx dappr.Context, store dappr.KVStore, msg dappr.Msg, next dappr.Checker) (err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, msg)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx dappr.Context, store dappr.KVStore, msg dappr.Msg, next dappr.Deliverer) (_ *dappr.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, msg)
}
