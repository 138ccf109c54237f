package emergency

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x/escrow"
)

// Controller runs the emergency withdrawal state machine. Execution closes
// the escrow through the engine, in the same store transaction.
type Controller struct {
	engine *escrow.Engine
	bucket MultisigBucket
}

// NewController returns a controller terminating escrows with engine.
func NewController(engine *escrow.Engine) *Controller {
	return &Controller{
		engine: engine,
		bucket: NewMultisigBucket(),
	}
}

// Initiate requests the withdrawal of an active escrow. The requester must
// be one of exactly three distinct signers and its signature is recorded.
//
// Initiating again with the same signer set returns the existing request
// unchanged. A different signer set fails with ErrSignersMismatch.
func (c *Controller) Initiate(ctx dappr.Context, db dappr.KVStore, id []byte, requester dappr.Address, signers []dappr.Address) (*Multisig, []dappr.Event, error) {
	e, err := c.engine.Escrow(db, id)
	if err != nil {
		return nil, nil, err
	}
	if !e.Active {
		return nil, nil, errors.Wrapf(escrow.ErrEscrowInactive, "closure %s", e.Closure)
	}
	if err := validateSigners(signers); err != nil {
		return nil, nil, err
	}
	if !contains(signers, requester) {
		return nil, nil, errors.Wrap(ErrInvalidSigner, "requester is not a signer")
	}

	switch existing, err := c.bucket.Get(db, id); {
	case err == nil:
		if existing.Executed {
			return nil, nil, errors.Wrap(ErrAlreadyExecuted, "withdrawal")
		}
		if !sameSet(existing.Signers, signers) {
			return nil, nil, errors.Wrap(ErrSignersMismatch, "withdrawal already requested")
		}
		return existing, nil, nil
	case !errors.ErrNotFound.Is(err):
		return nil, nil, errors.Wrap(err, "load withdrawal")
	}

	ms := &Multisig{
		Escrow:    id,
		Signers:   signers,
		Threshold: Threshold,
		SignedBy:  []dappr.Address{requester},
	}
	if err := c.bucket.Create(db, id, ms); err != nil {
		return nil, nil, errors.Wrap(err, "create withdrawal")
	}

	event := EmergencyWithdrawalRequested{
		Escrow:    id,
		Requester: requester,
		Amount:    e.Remaining(),
	}
	return ms, []dappr.Event{event}, nil
}

// Sign adds the signature of signer. Reaching the threshold executes the
// withdrawal: the escrow is terminated and its holding account refunded to
// the creator.
func (c *Controller) Sign(ctx dappr.Context, db dappr.KVStore, id []byte, signer dappr.Address) (*Multisig, []dappr.Event, error) {
	ms, err := c.bucket.Get(db, id)
	if err != nil {
		return nil, nil, err
	}
	if ms.Executed {
		return nil, nil, errors.Wrap(ErrAlreadyExecuted, "withdrawal")
	}
	if !contains(ms.Signers, signer) {
		return nil, nil, errors.Wrapf(ErrInvalidSigner, "%s", signer)
	}
	if contains(ms.SignedBy, signer) {
		return nil, nil, errors.Wrapf(ErrAlreadySigned, "%s", signer)
	}
	e, err := c.engine.Escrow(db, id)
	if err != nil {
		return nil, nil, err
	}
	if !e.Active {
		return nil, nil, errors.Wrapf(escrow.ErrEscrowInactive, "closure %s", e.Closure)
	}

	ms.SignedBy = append(ms.SignedBy, signer)
	events := []dappr.Event{
		EmergencyWithdrawalSigned{
			Escrow:     id,
			Signer:     signer,
			Signatures: uint32(len(ms.SignedBy)),
		},
	}

	if uint32(len(ms.SignedBy)) >= ms.Threshold {
		refunded, closed, err := c.engine.Terminate(ctx, db, id)
		if err != nil {
			return nil, nil, errors.Wrap(err, "terminate escrow")
		}
		ms.Executed = true
		ms.Refunded = refunded
		events = append(events, closed...)
		events = append(events, EmergencyWithdrawalExecuted{
			Escrow:   id,
			Creator:  e.Creator,
			Refunded: refunded,
		})
	}

	if err := c.bucket.Put(db, id, ms); err != nil {
		return nil, nil, errors.Wrap(err, "save withdrawal")
	}
	return ms, events, nil
}

// Withdrawal returns the emergency withdrawal of an escrow.
func (c *Controller) Withdrawal(db dappr.ReadOnlyKVStore, id []byte) (*Multisig, error) {
	return c.bucket.Get(db, id)
}
