package app

import (
	"testing"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x/escrow"
	"github.com/stretchr/testify/assert"
)

func TestDeliverOrError(t *testing.T) {
	res := &dappr.DeliverResult{
		Data:   []byte("id"),
		Log:    "escrow created",
		Events: []dappr.Event{escrow.EscrowCreated{}},
	}
	assert.Equal(t, Response{
		Log:    "escrow created",
		Data:   []byte("id"),
		Events: []string{"escrow/created"},
	}, DeliverOrError(res, nil, false))

	resp := DeliverOrError(nil, errors.Wrap(escrow.ErrEscrowInactive, "closure completed"), false)
	assert.Equal(t, escrow.ErrEscrowInactive.Code(), resp.Code)
	assert.Equal(t, "cannot deliver: closure completed: escrow not active", resp.Log)

	// Errors without a code are redacted unless debugging.
	resp = DeliverOrError(nil, errInternal{}, false)
	assert.Equal(t, uint32(1), resp.Code)
	assert.Equal(t, "cannot deliver: internal error", resp.Log)
	resp = DeliverOrError(nil, errInternal{}, true)
	assert.Equal(t, "cannot deliver: disk on fire", resp.Log)
}

func TestCheckOrError(t *testing.T) {
	assert.Equal(t, Response{Log: "ok"}, CheckOrError(nil, false))
	resp := CheckOrError(errors.ErrUnauthorized, false)
	assert.Equal(t, errors.ErrUnauthorized.Code(), resp.Code)
}

type errInternal struct{}

func (errInternal) Error() string { return "disk on fire" }
