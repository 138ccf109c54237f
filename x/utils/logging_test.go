package utils

import (
	"bytes"
	"testing"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/dapprtest"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx := dappr.WithLogger(dapprtest.Context(), logger)
	kv := store.MemStore()
	msg := &dapprtest.Msg{RoutePath: "test/log"}

	h := &dapprtest.Handler{DeliverResult: dappr.DeliverResult{Log: "all done"}}
	_, err := NewLogging().Deliver(ctx, kv, msg, h)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "all done")
	assert.Contains(t, buf.String(), "test/log")

	buf.Reset()
	h = &dapprtest.Handler{DeliverErr: errors.Wrap(errors.ErrUnrecoverable, "lost write")}
	_, err = NewLogging().Deliver(ctx, kv, msg, h)
	assert.True(t, errors.ErrUnrecoverable.Is(err))
	assert.Contains(t, buf.String(), "unrecoverable=true")
}
