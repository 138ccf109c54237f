package escrow

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/coin"
	"github.com/dappr/dappr/x/cash"
)

// Ledger is the value transfer service the engine relies on. Every method
// is all-or-nothing. A transfer exceeding the source balance fails with
// cash.ErrInsufficientBalance.
type Ledger interface {
	Open(db dappr.KVStore, addr dappr.Address) error
	Transfer(db dappr.KVStore, src, dst dappr.Address, amount coin.Coin) error
	Balance(db dappr.ReadOnlyKVStore, addr dappr.Address, ticker string) (uint64, error)
}

var _ Ledger = cash.BaseController{}

// VerifierPolicy decides who may complete a milestone. Return nil to accept
// the verifier.
type VerifierPolicy interface {
	CanVerify(ctx dappr.Context, db dappr.ReadOnlyKVStore, e *Escrow, m *Milestone, verifier dappr.Address) error
}

// VerifierPolicyFunc adapts a function to the VerifierPolicy interface.
type VerifierPolicyFunc func(ctx dappr.Context, db dappr.ReadOnlyKVStore, e *Escrow, m *Milestone, verifier dappr.Address) error

func (fn VerifierPolicyFunc) CanVerify(ctx dappr.Context, db dappr.ReadOnlyKVStore, e *Escrow, m *Milestone, verifier dappr.Address) error {
	return fn(ctx, db, e, m, verifier)
}

// AnyVerifier accepts any authenticated verifier.
type AnyVerifier struct{}

func (AnyVerifier) CanVerify(dappr.Context, dappr.ReadOnlyKVStore, *Escrow, *Milestone, dappr.Address) error {
	return nil
}
