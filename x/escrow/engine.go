package escrow

import (
	"math"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/coin"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x/cash"
)

// Engine owns the escrow aggregate and its milestones. Each method is a
// single atomic operation on one escrow: on error nothing the method
// wrote must be persisted, so callers run it inside a savepoint.
//
// Engine methods are not safe to run concurrently against the same escrow
// on a shared store, callers serialize access (see app.Service).
type Engine struct {
	ledger     Ledger
	policy     VerifierPolicy
	escrows    EscrowBucket
	milestones MilestoneBucket
}

// NewEngine returns an engine moving value through given ledger. A nil
// policy accepts any verifier.
func NewEngine(ledger Ledger, policy VerifierPolicy) *Engine {
	if policy == nil {
		policy = AnyVerifier{}
	}
	return &Engine{
		ledger:     ledger,
		policy:     policy,
		escrows:    NewEscrowBucket(),
		milestones: NewMilestoneBucket(),
	}
}

// Initiate creates a new active escrow with zeroed counters and opens its
// holding account.
func (en *Engine) Initiate(ctx dappr.Context, db dappr.KVStore, creator, recipient dappr.Address, mint string, milestonesCount uint32) ([]byte, *Escrow, []dappr.Event, error) {
	if milestonesCount == 0 {
		return nil, nil, nil, errors.Wrap(ErrInvalidMilestoneCount, "must be positive")
	}
	now, err := dappr.BlockTime(ctx)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "block time")
	}

	id := EscrowID(creator, recipient, mint)
	e := &Escrow{
		Creator:         creator,
		Recipient:       recipient,
		Mint:            mint,
		MilestonesCount: milestonesCount,
		Active:          true,
		CreatedAt:       dappr.AsUnixTime(now),
		Closure:         ClosureNone,
	}
	if err := en.escrows.Create(db, id, e); err != nil {
		return nil, nil, nil, errors.Wrap(err, "create escrow")
	}
	if err := en.ledger.Open(db, HoldingAddress(id)); err != nil {
		return nil, nil, nil, errors.Wrap(err, "open holding account")
	}

	event := EscrowCreated{
		Escrow:    id,
		Creator:   creator,
		Recipient: recipient,
		Mint:      mint,
	}
	return id, e, []dappr.Event{event}, nil
}

// AddMilestone allocates amount to the milestone with given index. Only the
// creator may add milestones and every index can be used once.
func (en *Engine) AddMilestone(ctx dappr.Context, db dappr.KVStore, id []byte, caller dappr.Address, index uint32, amount uint64, deadline dappr.UnixTime) (*Milestone, []dappr.Event, error) {
	e, err := en.escrows.Get(db, id)
	if err != nil {
		return nil, nil, err
	}
	if !caller.Equals(e.Creator) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the creator can add milestones")
	}
	if !e.Active {
		return nil, nil, errors.Wrapf(ErrEscrowInactive, "closure %s", e.Closure)
	}
	if index >= e.MilestonesCount {
		return nil, nil, errors.Wrapf(ErrInvalidMilestoneIndex, "index %d, count %d", index, e.MilestonesCount)
	}

	total, err := checkedAdd(e.TotalAmount, amount)
	if err != nil {
		return nil, nil, errors.Wrap(err, "total amount")
	}
	allocated, err := checkedAdd(e.AllocatedAmount, amount)
	if err != nil {
		return nil, nil, errors.Wrap(err, "allocated amount")
	}

	m := &Milestone{
		Escrow:   id,
		Index:    index,
		Amount:   amount,
		Deadline: deadline,
	}
	if err := en.milestones.Create(db, m); err != nil {
		if errors.ErrDuplicate.Is(err) {
			return nil, nil, errors.Wrapf(ErrInvalidMilestoneIndex, "index %d already used", index)
		}
		return nil, nil, errors.Wrap(err, "create milestone")
	}

	e.TotalAmount = total
	e.AllocatedAmount = allocated
	if err := en.escrows.Put(db, id, e); err != nil {
		return nil, nil, errors.Wrap(err, "save escrow")
	}

	event := MilestoneAdded{
		Escrow:   id,
		Index:    index,
		Amount:   amount,
		Deadline: deadline,
	}
	return m, []dappr.Event{event}, nil
}

// FundEscrow deposits amount from the funder into the holding account.
func (en *Engine) FundEscrow(ctx dappr.Context, db dappr.KVStore, id []byte, funder dappr.Address, amount uint64) (*Escrow, []dappr.Event, error) {
	e, err := en.escrows.Get(db, id)
	if err != nil {
		return nil, nil, err
	}
	if !e.Active {
		return nil, nil, errors.Wrapf(ErrEscrowInactive, "closure %s", e.Closure)
	}

	total, err := checkedAdd(e.TotalAmount, amount)
	if err != nil {
		return nil, nil, errors.Wrap(err, "total amount")
	}
	deposited, err := checkedAdd(e.DepositedAmount, amount)
	if err != nil {
		return nil, nil, errors.Wrap(err, "deposited amount")
	}

	// The ledger does not move zero value.
	if amount > 0 {
		if err := en.transfer(db, funder, HoldingAddress(id), coin.NewCoin(amount, e.Mint)); err != nil {
			return nil, nil, errors.Wrap(err, "deposit")
		}
	}

	e.TotalAmount = total
	e.DepositedAmount = deposited
	if err := en.escrows.Put(db, id, e); err != nil {
		return nil, nil, errors.Wrap(err, "save escrow")
	}

	event := EscrowFunded{
		Escrow: id,
		Funder: funder,
		Amount: amount,
	}
	return e, []dappr.Event{event}, nil
}

// CompleteMilestone marks the milestone at the cursor as completed and
// verified by the verifier.
func (en *Engine) CompleteMilestone(ctx dappr.Context, db dappr.KVStore, id []byte, index uint32, verifier dappr.Address) (*Milestone, []dappr.Event, error) {
	e, err := en.escrows.Get(db, id)
	if err != nil {
		return nil, nil, err
	}
	if !e.Active {
		return nil, nil, errors.Wrapf(ErrEscrowInactive, "closure %s", e.Closure)
	}
	if index != e.CurrentMilestone {
		return nil, nil, errors.Wrapf(ErrInvalidMilestoneIndex, "index %d, current %d", index, e.CurrentMilestone)
	}
	m, err := en.milestones.Get(db, id, index)
	if err != nil {
		return nil, nil, err
	}
	if m.Completed {
		return nil, nil, errors.Wrapf(ErrMilestoneAlreadyCompleted, "index %d", index)
	}
	if err := en.policy.CanVerify(ctx, db, e, m, verifier); err != nil {
		return nil, nil, errors.Append(ErrVerifierRejected, err)
	}
	now, err := dappr.BlockTime(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "block time")
	}

	m.Completed = true
	m.Verified = true
	m.VerifiedAt = dappr.AsUnixTime(now)
	m.VerifiedBy = verifier
	if err := en.milestones.Save(db, m); err != nil {
		return nil, nil, errors.Wrap(err, "save milestone")
	}

	event := MilestoneCompleted{
		Escrow:     id,
		Milestone:  MilestoneKey(id, index),
		Index:      index,
		Amount:     m.Amount,
		VerifiedBy: verifier,
	}
	return m, []dappr.Event{event}, nil
}

// ReleaseFunds pays the milestone at the cursor out to the recipient and
// advances the cursor. Releasing the last milestone closes the escrow.
func (en *Engine) ReleaseFunds(ctx dappr.Context, db dappr.KVStore, id []byte, index uint32, releaser dappr.Address) (*Escrow, []dappr.Event, error) {
	e, err := en.escrows.Get(db, id)
	if err != nil {
		return nil, nil, err
	}
	if !e.Active {
		return nil, nil, errors.Wrapf(ErrEscrowInactive, "closure %s", e.Closure)
	}
	// The cursor is checked before the milestone state, releasing any
	// other index fails the same way whatever its completion.
	if index != e.CurrentMilestone {
		return nil, nil, errors.Wrapf(ErrInvalidMilestoneIndex, "index %d, current %d", index, e.CurrentMilestone)
	}
	m, err := en.milestones.Get(db, id, index)
	if err != nil {
		return nil, nil, err
	}
	if !m.Completed || !m.Verified {
		return nil, nil, errors.Wrapf(ErrMilestoneNotCompleted, "index %d", index)
	}
	// Completion always verifies, so this branch is never taken for now.
	// It is where a deadline based release of unverified milestones goes.
	if !m.Verified && !dappr.IsExpired(ctx, m.Deadline) {
		return nil, nil, errors.Wrapf(ErrDeadlineNotReached, "deadline %s", m.Deadline)
	}

	holding := HoldingAddress(id)
	balance, err := en.ledger.Balance(db, holding, e.Mint)
	if err != nil {
		return nil, nil, errors.Wrap(err, "holding balance")
	}
	if balance < m.Amount {
		return nil, nil, errors.Wrapf(ErrInsufficientFunds, "holding %d, milestone %d", balance, m.Amount)
	}

	released, err := checkedAdd(e.ReleasedAmount, m.Amount)
	if err != nil {
		return nil, nil, errors.Wrap(err, "released amount")
	}
	if released > e.TotalAmount {
		return nil, nil, errors.Wrapf(ErrInsufficientFunds, "release of %d exceeds total %d", released, e.TotalAmount)
	}
	if e.CurrentMilestone == math.MaxUint32 {
		return nil, nil, errors.Wrap(ErrArithmeticOverflow, "milestone cursor")
	}
	cursor := e.CurrentMilestone + 1

	if m.Amount > 0 {
		if err := en.transfer(db, holding, e.Recipient, coin.NewCoin(m.Amount, e.Mint)); err != nil {
			return nil, nil, errors.Wrap(err, "release")
		}
	}

	e.ReleasedAmount = released
	e.CurrentMilestone = cursor
	closed := cursor == e.MilestonesCount
	if closed {
		e.Active = false
		e.Closure = ClosureCompleted
	}
	if err := en.escrows.Put(db, id, e); err != nil {
		// Funds already moved, the state no longer reflects the ledger.
		err = errors.Wrapf(errors.ErrUnrecoverable, "escrow %X not updated after release: %s", id, err)
		dappr.GetLogger(ctx).Error("release state write failed", "escrow", id, "index", index, "err", err)
		return nil, nil, err
	}

	events := []dappr.Event{
		FundsReleased{
			Escrow:    id,
			Milestone: MilestoneKey(id, index),
			Amount:    m.Amount,
			Recipient: e.Recipient,
		},
	}
	if closed {
		events = append(events, EscrowClosed{Escrow: id, Closure: ClosureCompleted})
	}
	return e, events, nil
}

// Terminate closes an active escrow out of band and sweeps the holding
// account back to the creator. It returns the refunded amount.
func (en *Engine) Terminate(ctx dappr.Context, db dappr.KVStore, id []byte) (uint64, []dappr.Event, error) {
	e, err := en.escrows.Get(db, id)
	if err != nil {
		return 0, nil, err
	}
	if !e.Active {
		return 0, nil, errors.Wrapf(ErrEscrowInactive, "closure %s", e.Closure)
	}

	holding := HoldingAddress(id)
	balance, err := en.ledger.Balance(db, holding, e.Mint)
	if err != nil {
		return 0, nil, errors.Wrap(err, "holding balance")
	}
	if balance > 0 {
		if err := en.transfer(db, holding, e.Creator, coin.NewCoin(balance, e.Mint)); err != nil {
			return 0, nil, errors.Wrap(err, "refund")
		}
	}

	e.Active = false
	e.Closure = ClosureEmergency
	if err := en.escrows.Put(db, id, e); err != nil {
		err = errors.Wrapf(errors.ErrUnrecoverable, "escrow %X not updated after refund: %s", id, err)
		dappr.GetLogger(ctx).Error("terminate state write failed", "escrow", id, "err", err)
		return 0, nil, err
	}

	event := EscrowClosed{
		Escrow:   id,
		Closure:  ClosureEmergency,
		Refunded: balance,
	}
	return balance, []dappr.Event{event}, nil
}

// Escrow returns the escrow with given ID.
func (en *Engine) Escrow(db dappr.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	return en.escrows.Get(db, id)
}

// Milestone returns the milestone of an escrow with given index.
func (en *Engine) Milestone(db dappr.ReadOnlyKVStore, id []byte, index uint32) (*Milestone, error) {
	return en.milestones.Get(db, id, index)
}

// HoldingBalance returns the funds currently held for an escrow.
func (en *Engine) HoldingBalance(db dappr.ReadOnlyKVStore, id []byte) (uint64, error) {
	e, err := en.escrows.Get(db, id)
	if err != nil {
		return 0, err
	}
	return en.ledger.Balance(db, HoldingAddress(id), e.Mint)
}

// transfer moves value through the ledger, reporting an overdraft as
// ErrInsufficientFunds.
func (en *Engine) transfer(db dappr.KVStore, src, dst dappr.Address, amount coin.Coin) error {
	err := en.ledger.Transfer(db, src, dst, amount)
	if cash.ErrInsufficientBalance.Is(err) {
		return errors.Wrap(ErrInsufficientFunds, err.Error())
	}
	return err
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum, err := coin.AddAmounts(a, b)
	if err != nil {
		return 0, errors.Wrap(ErrArithmeticOverflow, err.Error())
	}
	return sum, nil
}
