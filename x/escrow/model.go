package escrow

import (
	"encoding/binary"
	"fmt"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/coin"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/orm"
)

const (
	// IDLength is the length of an escrow ID.
	IDLength = dappr.AddressLength

	escrowBucketName    = "esc"
	milestoneBucketName = "mst"
)

// Closure records why an escrow is no longer active.
type Closure uint32

const (
	// ClosureNone is set while the escrow is active.
	ClosureNone Closure = iota
	// ClosureCompleted is set once the last milestone was released.
	ClosureCompleted
	// ClosureEmergency is set when an emergency withdrawal executed.
	ClosureEmergency
)

func (c Closure) String() string {
	switch c {
	case ClosureNone:
		return "none"
	case ClosureCompleted:
		return "completed"
	case ClosureEmergency:
		return "emergency"
	default:
		return fmt.Sprintf("Closure(%d)", uint32(c))
	}
}

// EscrowID returns the ID of the escrow between creator and recipient in
// given mint. There is at most one escrow for each such tuple.
func EscrowID(creator, recipient dappr.Address, mint string) []byte {
	data := make([]byte, 0, len(creator)+len(recipient)+len(mint))
	data = append(data, creator...)
	data = append(data, recipient...)
	data = append(data, mint...)
	return dappr.NewAddress(data)
}

// HoldingCondition returns the condition owning the funds of an escrow.
func HoldingCondition(id []byte) dappr.Condition {
	return dappr.NewCondition("escrow", "hold", id)
}

// HoldingAddress returns the address of the account holding the funds of an
// escrow.
func HoldingAddress(id []byte) dappr.Address {
	return HoldingCondition(id).Address()
}

// Escrow is the aggregate tracking a milestone payment.
type Escrow struct {
	Creator   dappr.Address `json:"creator"`
	Recipient dappr.Address `json:"recipient"`
	Mint      string        `json:"mint"`
	// TotalAmount sums everything committed to the escrow, both milestone
	// allocations and deposits.
	TotalAmount uint64 `json:"total_amount"`
	// AllocatedAmount sums the milestone amounts.
	AllocatedAmount uint64 `json:"allocated_amount"`
	// DepositedAmount sums the funds transferred into the holding account.
	DepositedAmount  uint64         `json:"deposited_amount"`
	ReleasedAmount   uint64         `json:"released_amount"`
	MilestonesCount  uint32         `json:"milestones_count"`
	CurrentMilestone uint32         `json:"current_milestone"`
	Active           bool           `json:"active"`
	CreatedAt        dappr.UnixTime `json:"created_at"`
	Closure          Closure        `json:"closure"`
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Marshal() ([]byte, error) {
	return orm.Marshal(e)
}

func (e *Escrow) Unmarshal(raw []byte) error {
	return orm.Unmarshal(raw, e)
}

// Validate ensures the escrow is consistent.
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Creator", e.Creator.Validate())
	errs = errors.AppendField(errs, "Recipient", e.Recipient.Validate())
	if !coin.IsCC(e.Mint) {
		errs = errors.Append(errs, errors.Field("Mint", errors.ErrCurrency, "invalid mint %q", e.Mint))
	}
	if e.MilestonesCount == 0 {
		errs = errors.Append(errs, errors.Field("MilestonesCount", ErrInvalidMilestoneCount, "must be positive"))
	}
	if e.CurrentMilestone > e.MilestonesCount {
		errs = errors.Append(errs, errors.Field("CurrentMilestone", errors.ErrState, "cursor beyond milestones count"))
	}
	if e.ReleasedAmount > e.TotalAmount {
		errs = errors.Append(errs, errors.Field("ReleasedAmount", errors.ErrState, "released more than total"))
	}
	if sum, err := coin.AddAmounts(e.AllocatedAmount, e.DepositedAmount); err != nil || sum != e.TotalAmount {
		errs = errors.Append(errs, errors.Field("TotalAmount", errors.ErrState, "not the sum of allocated and deposited"))
	}
	if e.CreatedAt.IsZero() {
		errs = errors.Append(errs, errors.Field("CreatedAt", errors.ErrEmpty, "required"))
	}
	errs = errors.AppendField(errs, "CreatedAt", e.CreatedAt.Validate())

	switch {
	case e.Closure > ClosureEmergency:
		errs = errors.Append(errs, errors.Field("Closure", errors.ErrState, "unknown %s", e.Closure))
	case e.Active && e.Closure != ClosureNone:
		errs = errors.Append(errs, errors.Field("Closure", errors.ErrState, "active escrow cannot be closed"))
	case !e.Active && e.Closure == ClosureNone:
		errs = errors.Append(errs, errors.Field("Closure", errors.ErrState, "inactive escrow requires a closure"))
	case e.Closure == ClosureCompleted && e.CurrentMilestone != e.MilestonesCount:
		errs = errors.Append(errs, errors.Field("Closure", errors.ErrState, "completed with milestones left"))
	}
	return errs
}

// Remaining returns the committed amount that was not released yet.
func (e *Escrow) Remaining() uint64 {
	return e.TotalAmount - e.ReleasedAmount
}

// Milestone is a single step of an escrow payment.
type Milestone struct {
	Escrow   []byte         `json:"escrow"`
	Index    uint32         `json:"index"`
	Amount   uint64         `json:"amount"`
	Deadline dappr.UnixTime `json:"deadline"`
	// Completed and Verified are always set together.
	Completed bool `json:"completed"`
	Verified  bool `json:"verified"`
	// VerifiedAt and VerifiedBy are zero until the milestone is verified.
	VerifiedAt dappr.UnixTime `json:"verified_at,omitempty"`
	VerifiedBy dappr.Address  `json:"verified_by,omitempty"`
}

var _ orm.Model = (*Milestone)(nil)

func (m *Milestone) Marshal() ([]byte, error) {
	return orm.Marshal(m)
}

func (m *Milestone) Unmarshal(raw []byte) error {
	return orm.Unmarshal(raw, m)
}

// Validate ensures the milestone is consistent.
func (m *Milestone) Validate() error {
	var errs error
	if len(m.Escrow) != IDLength {
		errs = errors.Append(errs, errors.Field("Escrow", errors.ErrInput, "invalid escrow id"))
	}
	errs = errors.AppendField(errs, "Deadline", m.Deadline.Validate())
	if m.Completed && !m.Verified {
		errs = errors.Append(errs, errors.Field("Verified", errors.ErrState, "completed milestone must be verified"))
	}
	if m.Verified {
		if m.VerifiedAt.IsZero() {
			errs = errors.Append(errs, errors.Field("VerifiedAt", errors.ErrEmpty, "required when verified"))
		}
		errs = errors.AppendField(errs, "VerifiedBy", m.VerifiedBy.Validate())
	} else if !m.VerifiedAt.IsZero() || len(m.VerifiedBy) != 0 {
		errs = errors.Append(errs, errors.Field("Verified", errors.ErrState, "verification data without verification"))
	}
	return errs
}

// EscrowBucket stores escrows keyed by their ID.
type EscrowBucket struct {
	orm.ModelBucket
}

// NewEscrowBucket returns a bucket for escrows.
func NewEscrowBucket() EscrowBucket {
	return EscrowBucket{
		ModelBucket: orm.NewModelBucket(escrowBucketName),
	}
}

// Get returns the escrow with given ID or ErrNotFound.
func (b EscrowBucket) Get(db dappr.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	var e Escrow
	if err := b.One(db, id, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// MilestoneBucket is the keyed storage of milestones. A milestone is
// created once for each (escrow, index) pair and then only its completion
// state may change.
type MilestoneBucket struct {
	orm.ModelBucket
}

// NewMilestoneBucket returns a bucket for milestones.
func NewMilestoneBucket() MilestoneBucket {
	return MilestoneBucket{
		ModelBucket: orm.NewModelBucket(milestoneBucketName),
	}
}

// MilestoneKey returns the key of the milestone with given index.
func MilestoneKey(escrowID []byte, index uint32) []byte {
	key := make([]byte, len(escrowID)+4)
	copy(key, escrowID)
	binary.BigEndian.PutUint32(key[len(escrowID):], index)
	return key
}

// Create stores a new milestone. It fails with ErrDuplicate if the index
// is already used.
func (b MilestoneBucket) Create(db dappr.KVStore, m *Milestone) error {
	return b.ModelBucket.Create(db, MilestoneKey(m.Escrow, m.Index), m)
}

// Get returns the milestone of given escrow and index or ErrNotFound.
func (b MilestoneBucket) Get(db dappr.ReadOnlyKVStore, escrowID []byte, index uint32) (*Milestone, error) {
	var m Milestone
	if err := b.One(db, MilestoneKey(escrowID, index), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Save updates an existing milestone. Identity, amount and deadline cannot
// change and a completed milestone cannot be reverted, ErrImmutable is
// returned otherwise.
func (b MilestoneBucket) Save(db dappr.KVStore, m *Milestone) error {
	old, err := b.Get(db, m.Escrow, m.Index)
	if err != nil {
		return err
	}
	switch {
	case old.Amount != m.Amount:
		return errors.Wrap(errors.ErrImmutable, "milestone amount")
	case old.Deadline != m.Deadline:
		return errors.Wrap(errors.ErrImmutable, "milestone deadline")
	case old.Completed && !m.Completed, old.Verified && !m.Verified:
		return errors.Wrap(errors.ErrImmutable, "milestone completion cannot be reverted")
	}
	return b.Put(db, MilestoneKey(m.Escrow, m.Index), m)
}
