package escrow

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/coin"
	"github.com/dappr/dappr/errors"
)

var (
	_ dappr.Msg = (*CreateMsg)(nil)
	_ dappr.Msg = (*AddMilestoneMsg)(nil)
	_ dappr.Msg = (*FundMsg)(nil)
	_ dappr.Msg = (*CompleteMilestoneMsg)(nil)
	_ dappr.Msg = (*ReleaseMsg)(nil)
)

// CreateMsg initiates an escrow. It must be signed by the creator.
type CreateMsg struct {
	Creator         dappr.Address `json:"creator"`
	Recipient       dappr.Address `json:"recipient"`
	Mint            string        `json:"mint"`
	MilestonesCount uint32        `json:"milestones_count"`
}

func (CreateMsg) Path() string {
	return "escrow/create"
}

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Creator", m.Creator.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	if !coin.IsCC(m.Mint) {
		errs = errors.Append(errs, errors.Field("Mint", errors.ErrCurrency, "invalid mint %q", m.Mint))
	}
	if m.MilestonesCount == 0 {
		errs = errors.Append(errs, errors.Field("MilestonesCount", ErrInvalidMilestoneCount, "must be positive"))
	}
	return errs
}

// AddMilestoneMsg allocates an amount to a milestone. It must be signed by
// the escrow creator.
type AddMilestoneMsg struct {
	EscrowID []byte         `json:"escrow_id"`
	Creator  dappr.Address  `json:"creator"`
	Index    uint32         `json:"index"`
	Amount   uint64         `json:"amount"`
	Deadline dappr.UnixTime `json:"deadline"`
}

func (AddMilestoneMsg) Path() string {
	return "escrow/milestone"
}

func (m *AddMilestoneMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "EscrowID", validateID(m.EscrowID))
	errs = errors.AppendField(errs, "Creator", m.Creator.Validate())
	errs = errors.AppendField(errs, "Deadline", m.Deadline.Validate())
	return errs
}

// FundMsg deposits funds into an escrow. It must be signed by the funder.
type FundMsg struct {
	EscrowID []byte        `json:"escrow_id"`
	Funder   dappr.Address `json:"funder"`
	Amount   uint64        `json:"amount"`
}

func (FundMsg) Path() string {
	return "escrow/fund"
}

func (m *FundMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "EscrowID", validateID(m.EscrowID))
	errs = errors.AppendField(errs, "Funder", m.Funder.Validate())
	return errs
}

// CompleteMilestoneMsg verifies a milestone. It must be signed by the
// verifier.
type CompleteMilestoneMsg struct {
	EscrowID []byte        `json:"escrow_id"`
	Index    uint32        `json:"index"`
	Verifier dappr.Address `json:"verifier"`
}

func (CompleteMilestoneMsg) Path() string {
	return "escrow/complete"
}

func (m *CompleteMilestoneMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "EscrowID", validateID(m.EscrowID))
	errs = errors.AppendField(errs, "Verifier", m.Verifier.Validate())
	return errs
}

// ReleaseMsg pays a completed milestone out. It must be signed by the
// releaser, who can be anyone.
type ReleaseMsg struct {
	EscrowID []byte        `json:"escrow_id"`
	Index    uint32        `json:"index"`
	Releaser dappr.Address `json:"releaser"`
}

func (ReleaseMsg) Path() string {
	return "escrow/release"
}

func (m *ReleaseMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "EscrowID", validateID(m.EscrowID))
	errs = errors.AppendField(errs, "Releaser", m.Releaser.Validate())
	return errs
}

func validateID(id []byte) error {
	if len(id) != IDLength {
		return errors.Wrapf(errors.ErrInput, "escrow id must be %d bytes", IDLength)
	}
	return nil
}
