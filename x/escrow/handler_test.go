package escrow

import (
	"testing"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/coin"
	"github.com/dappr/dappr/dapprtest"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/store"
	"github.com/dappr/dappr/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// router collects registered handlers by path.
type router map[string]dappr.Handler

func (r router) Handle(path string, h dappr.Handler) {
	r[path] = h
}

func TestHandlers(t *testing.T) {
	creator := dapprtest.NewCondition()
	recipient := dapprtest.NewCondition()
	verifier := dapprtest.NewCondition()

	db := store.MemStore()
	bank := cash.NewController()
	require.NoError(t, bank.Mint(db, creator.Address(), coin.NewCoin(100, mint)))

	auth := &dapprtest.Auth{Signers: []dappr.Condition{creator, verifier}}
	r := router{}
	RegisterRoutes(r, auth, NewEngine(bank, nil))

	ctx := dapprtest.Context()
	deliver := func(msg dappr.Msg) (*dappr.DeliverResult, error) {
		t.Helper()
		h, ok := r[msg.Path()]
		require.True(t, ok, "no handler for %s", msg.Path())
		if err := h.Check(ctx, db, msg); err != nil {
			return nil, err
		}
		return h.Deliver(ctx, db, msg)
	}

	res, err := deliver(&CreateMsg{Creator: creator.Address(), Recipient: recipient.Address(), Mint: mint, MilestonesCount: 1})
	require.NoError(t, err)
	id := res.Data
	assert.Equal(t, EscrowID(creator.Address(), recipient.Address(), mint), id)
	require.Len(t, res.Events, 1)

	_, err = deliver(&AddMilestoneMsg{EscrowID: id, Creator: creator.Address(), Index: 0, Amount: 100})
	require.NoError(t, err)
	res, err = deliver(&FundMsg{EscrowID: id, Funder: creator.Address(), Amount: 100})
	require.NoError(t, err)

	var e Escrow
	require.NoError(t, e.Unmarshal(res.Data))
	assert.Equal(t, uint64(100), e.DepositedAmount)

	// The recipient did not sign this message.
	_, err = deliver(&ReleaseMsg{EscrowID: id, Index: 0, Releaser: recipient.Address()})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = deliver(&CompleteMilestoneMsg{EscrowID: id, Index: 0, Verifier: verifier.Address()})
	require.NoError(t, err)
	res, err = deliver(&ReleaseMsg{EscrowID: id, Index: 0, Releaser: verifier.Address()})
	require.NoError(t, err)
	require.NoError(t, e.Unmarshal(res.Data))
	assert.False(t, e.Active)
	assert.Len(t, res.Events, 2)

	got, err := bank.Balance(db, recipient.Address(), mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), got)
}

func TestHandlerRejectsUnknownMsg(t *testing.T) {
	h := FundHandler{auth: &dapprtest.Auth{}, engine: NewEngine(cash.NewController(), nil)}
	err := h.Check(dapprtest.Context(), store.MemStore(), &ReleaseMsg{})
	assert.True(t, errors.ErrMsg.Is(err))
}

func TestReleaseLockScope(t *testing.T) {
	f := newFixture(t, 0)
	id := f.initiate(t, 1)

	h := ReleaseHandler{auth: &dapprtest.Auth{}, engine: f.engine}
	keys, err := h.LockScope(f.ctx, f.db, &ReleaseMsg{EscrowID: id, Releaser: f.funder})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{
		EscrowKey(id),
		cash.WalletKey(HoldingAddress(id)),
		cash.WalletKey(f.creator),
		cash.WalletKey(f.recipient),
	}, keys)

	// Unknown escrows only lock their own keys.
	other := EscrowID(f.funder, f.funder, mint)
	keys, err = h.LockScope(f.ctx, f.db, &ReleaseMsg{EscrowID: other, Releaser: f.funder})
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}
