package utils

import (
	"context"
	"testing"

	"github.com/dappr/dappr/dapprtest"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/store"
	"github.com/stretchr/testify/assert"
)

func TestRecovery(t *testing.T) {
	var h dapprtest.PanicHandler
	r := NewRecovery()

	ctx := context.Background()
	s := store.MemStore()
	msg := &dapprtest.Msg{RoutePath: "test/panic"}

	// Panic handler panics. Test the test tool.
	assert.Panics(t, func() { _ = h.Check(ctx, s, msg) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, s, msg) })

	// Recovery wrapped handler returns an error.
	err := r.Check(ctx, s, msg, h)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, s, msg, h)
	assert.True(t, errors.ErrPanic.Is(err))
}
