package emergency

import "github.com/dappr/dappr"

var (
	_ dappr.Event = EmergencyWithdrawalRequested{}
	_ dappr.Event = EmergencyWithdrawalSigned{}
	_ dappr.Event = EmergencyWithdrawalExecuted{}
)

// EmergencyWithdrawalRequested is emitted when the first signer requests a
// withdrawal. Amount is the committed value not released yet.
type EmergencyWithdrawalRequested struct {
	Escrow    []byte        `json:"escrow"`
	Requester dappr.Address `json:"requester"`
	Amount    uint64        `json:"amount"`
}

func (EmergencyWithdrawalRequested) EventName() string { return "emergency/requested" }

// EmergencyWithdrawalSigned is emitted for every signature after the
// request.
type EmergencyWithdrawalSigned struct {
	Escrow     []byte        `json:"escrow"`
	Signer     dappr.Address `json:"signer"`
	Signatures uint32        `json:"signatures"`
}

func (EmergencyWithdrawalSigned) EventName() string { return "emergency/signed" }

// EmergencyWithdrawalExecuted is emitted when the threshold is reached and
// the escrow was closed.
type EmergencyWithdrawalExecuted struct {
	Escrow   []byte        `json:"escrow"`
	Creator  dappr.Address `json:"creator"`
	Refunded uint64        `json:"refunded"`
}

func (EmergencyWithdrawalExecuted) EventName() string { return "emergency/executed" }
