package dapprtest

import (
	"context"
	"time"

	"github.com/dappr/dappr"
)

// Now is the block time of contexts returned by Context.
var Now = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

// Context returns a context with the block time set to Now and height set
// to 1.
func Context() dappr.Context {
	ctx := dappr.WithHeight(context.Background(), 1)
	return dappr.WithBlockTime(ctx, Now)
}
