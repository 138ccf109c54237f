package emergency

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x/escrow"
)

var (
	_ dappr.Msg = (*InitiateMsg)(nil)
	_ dappr.Msg = (*SignMsg)(nil)
)

// InitiateMsg requests an emergency withdrawal. It must be signed by the
// requester.
type InitiateMsg struct {
	EscrowID  []byte          `json:"escrow_id"`
	Requester dappr.Address   `json:"requester"`
	Signers   []dappr.Address `json:"signers"`
}

func (InitiateMsg) Path() string {
	return "emergency/initiate"
}

func (m *InitiateMsg) Validate() error {
	var errs error
	if len(m.EscrowID) != escrow.IDLength {
		errs = errors.Append(errs, errors.Field("EscrowID", errors.ErrInput, "invalid escrow id"))
	}
	errs = errors.AppendField(errs, "Requester", m.Requester.Validate())
	errs = errors.AppendField(errs, "Signers", validateSigners(m.Signers))
	return errs
}

// SignMsg signs an emergency withdrawal. It must be signed by the signer.
type SignMsg struct {
	EscrowID []byte        `json:"escrow_id"`
	Signer   dappr.Address `json:"signer"`
}

func (SignMsg) Path() string {
	return "emergency/sign"
}

func (m *SignMsg) Validate() error {
	var errs error
	if len(m.EscrowID) != escrow.IDLength {
		errs = errors.Append(errs, errors.Field("EscrowID", errors.ErrInput, "invalid escrow id"))
	}
	errs = errors.AppendField(errs, "Signer", m.Signer.Validate())
	return errs
}
