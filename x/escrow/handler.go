package escrow

import (
	"encoding/binary"
	"fmt"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x"
	"github.com/dappr/dappr/x/cash"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r dappr.Registry, auth x.Authenticator, engine *Engine) {
	r.Handle(CreateMsg{}.Path(), CreateHandler{auth, engine})
	r.Handle(AddMilestoneMsg{}.Path(), AddMilestoneHandler{auth, engine})
	r.Handle(FundMsg{}.Path(), FundHandler{auth, engine})
	r.Handle(CompleteMilestoneMsg{}.Path(), CompleteMilestoneHandler{auth, engine})
	r.Handle(ReleaseMsg{}.Path(), ReleaseHandler{auth, engine})
}

// RegisterQuery registers the escrow queries. Escrows are queried by ID,
// milestones by MilestoneKey.
func RegisterQuery(qr dappr.QueryRegistry) {
	escrows := NewEscrowBucket()
	qr.Register("/escrows", dappr.QueryHandlerFunc(func(db dappr.ReadOnlyKVStore, key []byte) (interface{}, error) {
		return escrows.Get(db, key)
	}))
	milestones := NewMilestoneBucket()
	qr.Register("/milestones", dappr.QueryHandlerFunc(func(db dappr.ReadOnlyKVStore, key []byte) (interface{}, error) {
		if len(key) != IDLength+4 {
			return nil, errors.Wrap(errors.ErrInput, "milestone key")
		}
		return milestones.Get(db, key[:IDLength], binary.BigEndian.Uint32(key[IDLength:]))
	}))
}

// EscrowKey returns the key that guards all records of an escrow.
func EscrowKey(id []byte) []byte {
	return NewEscrowBucket().DBKey(id)
}

// Scope returns the lock keys of an escrow together with the wallets of
// given parties. If the escrow exists its holding account is included, as
// well as the creator and recipient wallets when withParties is set.
func Scope(db dappr.ReadOnlyKVStore, id []byte, withParties bool, wallets ...dappr.Address) [][]byte {
	keys := [][]byte{EscrowKey(id), cash.WalletKey(HoldingAddress(id))}
	for _, w := range wallets {
		keys = append(keys, cash.WalletKey(w))
	}
	if !withParties {
		return keys
	}
	// Parties are immutable so reading them before taking the lock is
	// safe. A missing escrow fails later, when the handler runs.
	if e, err := NewEscrowBucket().Get(db, id); err == nil {
		keys = append(keys, cash.WalletKey(e.Creator), cash.WalletKey(e.Recipient))
	}
	return keys
}

// CreateHandler initiates escrows.
type CreateHandler struct {
	auth   x.Authenticator
	engine *Engine
}

var (
	_ dappr.Handler = CreateHandler{}
	_ dappr.Scoper  = CreateHandler{}
)

func (h CreateHandler) Check(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) error {
	_, err := h.validate(ctx, m)
	return err
}

func (h CreateHandler) Deliver(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) (*dappr.DeliverResult, error) {
	msg, err := h.validate(ctx, m)
	if err != nil {
		return nil, err
	}
	id, _, events, err := h.engine.Initiate(ctx, db, msg.Creator, msg.Recipient, msg.Mint, msg.MilestonesCount)
	if err != nil {
		return nil, err
	}
	return &dappr.DeliverResult{
		Data:   id,
		Log:    fmt.Sprintf("escrow %X created", id),
		Events: events,
	}, nil
}

func (h CreateHandler) LockScope(ctx dappr.Context, db dappr.ReadOnlyKVStore, m dappr.Msg) ([][]byte, error) {
	msg, ok := m.(*CreateMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	return Scope(db, EscrowID(msg.Creator, msg.Recipient, msg.Mint), false), nil
}

func (h CreateHandler) validate(ctx dappr.Context, m dappr.Msg) (*CreateMsg, error) {
	msg, ok := m.(*CreateMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	if !h.auth.HasAddress(ctx, msg.Creator) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "creator signature missing")
	}
	return msg, nil
}

// AddMilestoneHandler allocates milestones.
type AddMilestoneHandler struct {
	auth   x.Authenticator
	engine *Engine
}

var (
	_ dappr.Handler = AddMilestoneHandler{}
	_ dappr.Scoper  = AddMilestoneHandler{}
)

func (h AddMilestoneHandler) Check(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) error {
	_, err := h.validate(ctx, m)
	return err
}

func (h AddMilestoneHandler) Deliver(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) (*dappr.DeliverResult, error) {
	msg, err := h.validate(ctx, m)
	if err != nil {
		return nil, err
	}
	ms, events, err := h.engine.AddMilestone(ctx, db, msg.EscrowID, msg.Creator, msg.Index, msg.Amount, msg.Deadline)
	if err != nil {
		return nil, err
	}
	return result(ms, fmt.Sprintf("milestone %d added", msg.Index), events)
}

func (h AddMilestoneHandler) LockScope(ctx dappr.Context, db dappr.ReadOnlyKVStore, m dappr.Msg) ([][]byte, error) {
	msg, ok := m.(*AddMilestoneMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	return Scope(db, msg.EscrowID, false), nil
}

func (h AddMilestoneHandler) validate(ctx dappr.Context, m dappr.Msg) (*AddMilestoneMsg, error) {
	msg, ok := m.(*AddMilestoneMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	if !h.auth.HasAddress(ctx, msg.Creator) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "creator signature missing")
	}
	return msg, nil
}

// FundHandler deposits funds.
type FundHandler struct {
	auth   x.Authenticator
	engine *Engine
}

var (
	_ dappr.Handler = FundHandler{}
	_ dappr.Scoper  = FundHandler{}
)

func (h FundHandler) Check(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) error {
	_, err := h.validate(ctx, m)
	return err
}

func (h FundHandler) Deliver(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) (*dappr.DeliverResult, error) {
	msg, err := h.validate(ctx, m)
	if err != nil {
		return nil, err
	}
	e, events, err := h.engine.FundEscrow(ctx, db, msg.EscrowID, msg.Funder, msg.Amount)
	if err != nil {
		return nil, err
	}
	return result(e, fmt.Sprintf("funded %d %s", msg.Amount, e.Mint), events)
}

func (h FundHandler) LockScope(ctx dappr.Context, db dappr.ReadOnlyKVStore, m dappr.Msg) ([][]byte, error) {
	msg, ok := m.(*FundMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	return Scope(db, msg.EscrowID, false, msg.Funder), nil
}

func (h FundHandler) validate(ctx dappr.Context, m dappr.Msg) (*FundMsg, error) {
	msg, ok := m.(*FundMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	if !h.auth.HasAddress(ctx, msg.Funder) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "funder signature missing")
	}
	return msg, nil
}

// CompleteMilestoneHandler verifies milestones.
type CompleteMilestoneHandler struct {
	auth   x.Authenticator
	engine *Engine
}

var (
	_ dappr.Handler = CompleteMilestoneHandler{}
	_ dappr.Scoper  = CompleteMilestoneHandler{}
)

func (h CompleteMilestoneHandler) Check(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) error {
	_, err := h.validate(ctx, m)
	return err
}

func (h CompleteMilestoneHandler) Deliver(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) (*dappr.DeliverResult, error) {
	msg, err := h.validate(ctx, m)
	if err != nil {
		return nil, err
	}
	ms, events, err := h.engine.CompleteMilestone(ctx, db, msg.EscrowID, msg.Index, msg.Verifier)
	if err != nil {
		return nil, err
	}
	return result(ms, fmt.Sprintf("milestone %d completed", msg.Index), events)
}

func (h CompleteMilestoneHandler) LockScope(ctx dappr.Context, db dappr.ReadOnlyKVStore, m dappr.Msg) ([][]byte, error) {
	msg, ok := m.(*CompleteMilestoneMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	return Scope(db, msg.EscrowID, false), nil
}

func (h CompleteMilestoneHandler) validate(ctx dappr.Context, m dappr.Msg) (*CompleteMilestoneMsg, error) {
	msg, ok := m.(*CompleteMilestoneMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	if !h.auth.HasAddress(ctx, msg.Verifier) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "verifier signature missing")
	}
	return msg, nil
}

// ReleaseHandler pays milestones out.
type ReleaseHandler struct {
	auth   x.Authenticator
	engine *Engine
}

var (
	_ dappr.Handler = ReleaseHandler{}
	_ dappr.Scoper  = ReleaseHandler{}
)

func (h ReleaseHandler) Check(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) error {
	_, err := h.validate(ctx, m)
	return err
}

func (h ReleaseHandler) Deliver(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) (*dappr.DeliverResult, error) {
	msg, err := h.validate(ctx, m)
	if err != nil {
		return nil, err
	}
	e, events, err := h.engine.ReleaseFunds(ctx, db, msg.EscrowID, msg.Index, msg.Releaser)
	if err != nil {
		return nil, err
	}
	return result(e, fmt.Sprintf("milestone %d released", msg.Index), events)
}

func (h ReleaseHandler) LockScope(ctx dappr.Context, db dappr.ReadOnlyKVStore, m dappr.Msg) ([][]byte, error) {
	msg, ok := m.(*ReleaseMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	return Scope(db, msg.EscrowID, true), nil
}

func (h ReleaseHandler) validate(ctx dappr.Context, m dappr.Msg) (*ReleaseMsg, error) {
	msg, ok := m.(*ReleaseMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	if !h.auth.HasAddress(ctx, msg.Releaser) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "releaser signature missing")
	}
	return msg, nil
}

// result serializes the record an operation updated.
func result(record dappr.Marshaller, log string, events []dappr.Event) (*dappr.DeliverResult, error) {
	data, err := record.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal result")
	}
	return &dappr.DeliverResult{Data: data, Log: log, Events: events}, nil
}
