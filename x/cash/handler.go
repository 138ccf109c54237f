package cash

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r dappr.Registry, auth x.Authenticator, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
	r.Handle(MintMsg{}.Path(), NewMintHandler(auth, control))
	r.Handle(BurnMsg{}.Path(), NewBurnHandler(auth, control))
}

// RegisterQuery registers the wallet query, wallets are queried by
// address.
func RegisterQuery(qr dappr.QueryRegistry) {
	wallets := NewWalletBucket()
	qr.Register("/wallets", dappr.QueryHandlerFunc(func(db dappr.ReadOnlyKVStore, key []byte) (interface{}, error) {
		return wallets.Get(db, key)
	}))
}

// WalletKey returns the key that guards the wallet of given address.
func WalletKey(addr dappr.Address) []byte {
	return NewWalletBucket().DBKey(addr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var (
	_ dappr.Handler = SendHandler{}
	_ dappr.Scoper  = SendHandler{}
)

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check verifies the source signed the message
func (h SendHandler) Check(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) error {
	_, err := h.validate(ctx, m)
	return err
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) (*dappr.DeliverResult, error) {
	msg, err := h.validate(ctx, m)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &dappr.DeliverResult{Log: "sent " + msg.Amount.String()}, nil
}

// LockScope returns both wallets
func (h SendHandler) LockScope(ctx dappr.Context, db dappr.ReadOnlyKVStore, m dappr.Msg) ([][]byte, error) {
	msg, ok := m.(*SendMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	return [][]byte{WalletKey(msg.Source), WalletKey(msg.Destination)}, nil
}

func (h SendHandler) validate(ctx dappr.Context, m dappr.Msg) (*SendMsg, error) {
	msg, ok := m.(*SendMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return msg, nil
}

// MintHandler creates value. Only the configured mint authority may use it.
type MintHandler struct {
	auth    x.Authenticator
	control Controller
}

var (
	_ dappr.Handler = MintHandler{}
	_ dappr.Scoper  = MintHandler{}
)

func NewMintHandler(auth x.Authenticator, control Controller) MintHandler {
	return MintHandler{
		auth:    auth,
		control: control,
	}
}

func (h MintHandler) Check(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) error {
	_, err := h.validate(ctx, db, m)
	return err
}

func (h MintHandler) Deliver(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) (*dappr.DeliverResult, error) {
	msg, err := h.validate(ctx, db, m)
	if err != nil {
		return nil, err
	}
	if err := h.control.Mint(db, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &dappr.DeliverResult{Log: "minted " + msg.Amount.String()}, nil
}

func (h MintHandler) LockScope(ctx dappr.Context, db dappr.ReadOnlyKVStore, m dappr.Msg) ([][]byte, error) {
	msg, ok := m.(*MintMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	return [][]byte{WalletKey(msg.Destination)}, nil
}

func (h MintHandler) validate(ctx dappr.Context, db dappr.ReadOnlyKVStore, m dappr.Msg) (*MintMsg, error) {
	msg, ok := m.(*MintMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	if err := requireAuthority(ctx, db, h.auth); err != nil {
		return nil, err
	}
	return msg, nil
}

// BurnHandler destroys value. Only the configured mint authority may use
// it, burning from any wallet.
type BurnHandler struct {
	auth    x.Authenticator
	control Controller
}

var (
	_ dappr.Handler = BurnHandler{}
	_ dappr.Scoper  = BurnHandler{}
)

func NewBurnHandler(auth x.Authenticator, control Controller) BurnHandler {
	return BurnHandler{
		auth:    auth,
		control: control,
	}
}

func (h BurnHandler) Check(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) error {
	_, err := h.validate(ctx, db, m)
	return err
}

func (h BurnHandler) Deliver(ctx dappr.Context, db dappr.KVStore, m dappr.Msg) (*dappr.DeliverResult, error) {
	msg, err := h.validate(ctx, db, m)
	if err != nil {
		return nil, err
	}
	if err := h.control.Burn(db, msg.Source, msg.Amount); err != nil {
		return nil, err
	}
	return &dappr.DeliverResult{Log: "burned " + msg.Amount.String()}, nil
}

func (h BurnHandler) LockScope(ctx dappr.Context, db dappr.ReadOnlyKVStore, m dappr.Msg) ([][]byte, error) {
	msg, ok := m.(*BurnMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	return [][]byte{WalletKey(msg.Source)}, nil
}

func (h BurnHandler) validate(ctx dappr.Context, db dappr.ReadOnlyKVStore, m dappr.Msg) (*BurnMsg, error) {
	msg, ok := m.(*BurnMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	if err := requireAuthority(ctx, db, h.auth); err != nil {
		return nil, err
	}
	return msg, nil
}

func requireAuthority(ctx dappr.Context, db dappr.ReadOnlyKVStore, auth x.Authenticator) error {
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	if !auth.HasAddress(ctx, conf.MintAuthority) {
		return errors.Wrap(errors.ErrUnauthorized, "mint authority signature missing")
	}
	return nil
}
