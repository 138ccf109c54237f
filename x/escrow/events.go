package escrow

import "github.com/dappr/dappr"

var (
	_ dappr.Event = EscrowCreated{}
	_ dappr.Event = MilestoneAdded{}
	_ dappr.Event = EscrowFunded{}
	_ dappr.Event = MilestoneCompleted{}
	_ dappr.Event = FundsReleased{}
	_ dappr.Event = EscrowClosed{}
)

// EscrowCreated is emitted when a new escrow is initiated.
type EscrowCreated struct {
	Escrow    []byte        `json:"escrow"`
	Creator   dappr.Address `json:"creator"`
	Recipient dappr.Address `json:"recipient"`
	Mint      string        `json:"mint"`
	Amount    uint64        `json:"amount"`
}

func (EscrowCreated) EventName() string { return "escrow/created" }

// MilestoneAdded is emitted when the creator allocates a milestone.
type MilestoneAdded struct {
	Escrow   []byte         `json:"escrow"`
	Index    uint32         `json:"index"`
	Amount   uint64         `json:"amount"`
	Deadline dappr.UnixTime `json:"deadline"`
}

func (MilestoneAdded) EventName() string { return "escrow/milestone_added" }

// EscrowFunded is emitted when funds are deposited into the holding
// account.
type EscrowFunded struct {
	Escrow []byte        `json:"escrow"`
	Funder dappr.Address `json:"funder"`
	Amount uint64        `json:"amount"`
}

func (EscrowFunded) EventName() string { return "escrow/funded" }

// MilestoneCompleted is emitted when a verifier approves a milestone.
type MilestoneCompleted struct {
	Escrow     []byte        `json:"escrow"`
	Milestone  []byte        `json:"milestone"`
	Index      uint32        `json:"milestone_index"`
	Amount     uint64        `json:"amount"`
	VerifiedBy dappr.Address `json:"verified_by"`
}

func (MilestoneCompleted) EventName() string { return "escrow/milestone_completed" }

// FundsReleased is emitted when a milestone amount is paid out.
type FundsReleased struct {
	Escrow    []byte        `json:"escrow"`
	Milestone []byte        `json:"milestone"`
	Amount    uint64        `json:"amount"`
	Recipient dappr.Address `json:"recipient"`
}

func (FundsReleased) EventName() string { return "escrow/funds_released" }

// EscrowClosed is emitted when an escrow becomes inactive.
type EscrowClosed struct {
	Escrow   []byte  `json:"escrow"`
	Closure  Closure `json:"closure"`
	Refunded uint64  `json:"refunded,omitempty"`
}

func (EscrowClosed) EventName() string { return "escrow/closed" }
