package emergency

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x"
	"github.com/dappr/dappr/x/escrow"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r dappr.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(InitiateMsg{}.Path(), InitiateHandler{auth, ctrl})
	r.Handle(SignMsg{}.Path(), SignHandler{auth, ctrl})
}

// RegisterQuery registers the emergency withdrawal query, withdrawals are
// queried by escrow ID.
func RegisterQuery(qr dappr.QueryRegistry) {
	withdrawals := NewMultisigBucket()
	qr.Register("/emergency", dappr.QueryHandlerFunc(func(db dappr.ReadOnlyKVStore, key []byte) (interface{}, error) {
		return withdrawals.Get(db, key)
	}))
}

// lockScope covers the escrow, its parties and the withdrawal record.
func lockScope(db dappr.ReadOnlyKVStore, id []byte) [][]byte {
	keys := escrow.Scope(db, id, true)
	return append(keys, NewMultisigBucket().DBKey(id))
}

// InitiateHandler requests emergency withdrawals.
type InitiateHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var (
	_ dappr.Handler = InitiateHandler{}
	_ dappr.Scoper  = InitiateHandler{}
)

func (h InitiateHandler) Check(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) error {
	_, err := h.validate(ctx, m)
	return err
}

func (h InitiateHandler) Deliver(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) (*dappr.DeliverResult, error) {
	msg, err := h.validate(ctx, m)
	if err != nil {
		return nil, err
	}
	ms, events, err := h.ctrl.Initiate(ctx, db, msg.EscrowID, msg.Requester, msg.Signers)
	if err != nil {
		return nil, err
	}
	data, err := ms.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal result")
	}
	return &dappr.DeliverResult{Data: data, Log: "emergency withdrawal requested", Events: events}, nil
}

func (h InitiateHandler) LockScope(ctx dappr.Context, db dappr.ReadOnlyKVStore, m dappr.Msg) ([][]byte, error) {
	msg, ok := m.(*InitiateMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	return lockScope(db, msg.EscrowID), nil
}

func (h InitiateHandler) validate(ctx dappr.Context, m dappr.Msg) (*InitiateMsg, error) {
	msg, ok := m.(*InitiateMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	if !h.auth.HasAddress(ctx, msg.Requester) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "requester signature missing")
	}
	return msg, nil
}

// SignHandler signs emergency withdrawals.
type SignHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var (
	_ dappr.Handler = SignHandler{}
	_ dappr.Scoper  = SignHandler{}
)

func (h SignHandler) Check(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) error {
	_, err := h.validate(ctx, m)
	return err
}

func (h SignHandler) Deliver(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) (*dappr.DeliverResult, error) {
	msg, err := h.validate(ctx, m)
	if err != nil {
		return nil, err
	}
	ms, events, err := h.ctrl.Sign(ctx, db, msg.EscrowID, msg.Signer)
	if err != nil {
		return nil, err
	}
	data, err := ms.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal result")
	}
	log := "emergency withdrawal signed"
	if ms.Executed {
		log = "emergency withdrawal executed"
	}
	return &dappr.DeliverResult{Data: data, Log: log, Events: events}, nil
}

func (h SignHandler) LockScope(ctx dappr.Context, db dappr.ReadOnlyKVStore, m dappr.Msg) ([][]byte, error) {
	msg, ok := m.(*SignMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	return lockScope(db, msg.EscrowID), nil
}

func (h SignHandler) validate(ctx dappr.Context, m dappr.Msg) (*SignMsg, error) {
	msg, ok := m.(*SignMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	if !h.auth.HasAddress(ctx, msg.Signer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "signer signature missing")
	}
	return msg, nil
}
