package cash

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/coin"
	"github.com/dappr/dappr/errors"
)

const maxMemoSize int = 128

var (
	_ dappr.Msg = (*SendMsg)(nil)
	_ dappr.Msg = (*MintMsg)(nil)
	_ dappr.Msg = (*BurnMsg)(nil)
)

// SendMsg moves value between two wallets.
type SendMsg struct {
	Source      dappr.Address `json:"source"`
	Destination dappr.Address `json:"destination"`
	Amount      coin.Coin     `json:"amount"`
	Memo        string        `json:"memo,omitempty"`
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Source", m.Source.Validate())
	err = errors.AppendField(err, "Destination", m.Destination.Validate())
	err = errors.AppendField(err, "Amount", validateAmount(m.Amount))
	if len(m.Memo) > maxMemoSize {
		err = errors.AppendField(err, "Memo", errors.Wrap(errors.ErrInput, "memo too long"))
	}
	return err
}

// MintMsg creates new value in the destination wallet.
type MintMsg struct {
	Destination dappr.Address `json:"destination"`
	Amount      coin.Coin     `json:"amount"`
}

func (MintMsg) Path() string {
	return "cash/mint"
}

func (m *MintMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Destination", m.Destination.Validate())
	err = errors.AppendField(err, "Amount", validateAmount(m.Amount))
	return err
}

// BurnMsg destroys value held by the source wallet.
type BurnMsg struct {
	Source dappr.Address `json:"source"`
	Amount coin.Coin     `json:"amount"`
}

func (BurnMsg) Path() string {
	return "cash/burn"
}

func (m *BurnMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Source", m.Source.Validate())
	err = errors.AppendField(err, "Amount", validateAmount(m.Amount))
	return err
}
