package emergency

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/orm"
	"github.com/dappr/dappr/x/escrow"
)

const (
	// SignersCount is the size of every signer set.
	SignersCount = 3
	// Threshold is the number of signatures that executes a withdrawal.
	Threshold uint32 = 2

	bucketName = "emsig"
)

// Multisig is the emergency withdrawal of a single escrow.
type Multisig struct {
	Escrow    []byte          `json:"escrow"`
	Signers   []dappr.Address `json:"signers"`
	Threshold uint32          `json:"threshold"`
	SignedBy  []dappr.Address `json:"signed_by"`
	Executed  bool            `json:"executed"`
	// Refunded is the amount returned to the creator on execution.
	Refunded uint64 `json:"refunded"`
}

var _ orm.Model = (*Multisig)(nil)

func (m *Multisig) Marshal() ([]byte, error) {
	return orm.Marshal(m)
}

func (m *Multisig) Unmarshal(raw []byte) error {
	return orm.Unmarshal(raw, m)
}

// Validate ensures the signatures are a subset of the signers and that the
// execution state matches the signature count.
func (m *Multisig) Validate() error {
	var errs error
	if len(m.Escrow) != escrow.IDLength {
		errs = errors.Append(errs, errors.Field("Escrow", errors.ErrInput, "invalid escrow id"))
	}
	errs = errors.AppendField(errs, "Signers", validateSigners(m.Signers))
	if m.Threshold == 0 || int(m.Threshold) > len(m.Signers) {
		errs = errors.Append(errs, errors.Field("Threshold", errors.ErrState, "threshold %d of %d signers", m.Threshold, len(m.Signers)))
	}
	for i, s := range m.SignedBy {
		if !contains(m.Signers, s) {
			errs = errors.Append(errs, errors.Field("SignedBy", ErrInvalidSigner, "signature %d not by a signer", i))
		}
		if contains(m.SignedBy[:i], s) {
			errs = errors.Append(errs, errors.Field("SignedBy", ErrAlreadySigned, "signature %d duplicated", i))
		}
	}
	reached := uint32(len(m.SignedBy)) >= m.Threshold
	if m.Executed != reached {
		errs = errors.Append(errs, errors.Field("Executed", errors.ErrState, "executed %v with %d signatures", m.Executed, len(m.SignedBy)))
	}
	if m.Refunded > 0 && !m.Executed {
		errs = errors.Append(errs, errors.Field("Refunded", errors.ErrState, "refund before execution"))
	}
	return errs
}

// validateSigners requires exactly SignersCount distinct valid addresses.
func validateSigners(signers []dappr.Address) error {
	if len(signers) != SignersCount {
		return errors.Wrapf(ErrInvalidSigner, "want %d signers, got %d", SignersCount, len(signers))
	}
	for i, s := range signers {
		if err := s.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidSigner, "signer %d: %s", i, err)
		}
		if contains(signers[:i], s) {
			return errors.Wrapf(ErrInvalidSigner, "signer %d duplicated", i)
		}
	}
	return nil
}

func contains(set []dappr.Address, a dappr.Address) bool {
	for _, s := range set {
		if s.Equals(a) {
			return true
		}
	}
	return false
}

// sameSet returns true if both lists hold the same addresses, in any
// order.
func sameSet(a, b []dappr.Address) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		if !contains(b, x) {
			return false
		}
	}
	return true
}

// MultisigBucket stores withdrawals keyed by the escrow ID.
type MultisigBucket struct {
	orm.ModelBucket
}

// NewMultisigBucket returns a bucket for emergency withdrawals.
func NewMultisigBucket() MultisigBucket {
	return MultisigBucket{
		ModelBucket: orm.NewModelBucket(bucketName),
	}
}

// Get returns the withdrawal of given escrow or ErrNotFound.
func (b MultisigBucket) Get(db dappr.ReadOnlyKVStore, escrowID []byte) (*Multisig, error) {
	var m Multisig
	if err := b.One(db, escrowID, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
