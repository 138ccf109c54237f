package cash

import (
	"testing"

	"github.com/dappr/dappr/coin"
	"github.com/dappr/dappr/dapprtest"
	"github.com/dappr/dappr/dapprtest/assert"
	"github.com/dappr/dappr/errors"
)

func TestSendMsgValidate(t *testing.T) {
	addr := dapprtest.NewAddress()

	cases := map[string]struct {
		msg       SendMsg
		wantField string
		wantErr   *errors.Error
	}{
		"valid": {
			msg: SendMsg{Source: addr, Destination: addr, Amount: coin.NewCoin(1, "USD")},
		},
		"missing source": {
			msg:       SendMsg{Destination: addr, Amount: coin.NewCoin(1, "USD")},
			wantField: "Source",
			wantErr:   errors.ErrInput,
		},
		"zero amount": {
			msg:       SendMsg{Source: addr, Destination: addr, Amount: coin.NewCoin(0, "USD")},
			wantField: "Amount",
			wantErr:   errors.ErrAmount,
		},
		"bad ticker": {
			msg:       SendMsg{Source: addr, Destination: addr, Amount: coin.NewCoin(1, "$")},
			wantField: "Amount",
			wantErr:   errors.ErrCurrency,
		},
		"long memo": {
			msg:       SendMsg{Source: addr, Destination: addr, Amount: coin.NewCoin(1, "USD"), Memo: string(make([]byte, 129))},
			wantField: "Memo",
			wantErr:   errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}

func TestMintBurnMsgValidate(t *testing.T) {
	addr := dapprtest.NewAddress()

	assert.Nil(t, (&MintMsg{Destination: addr, Amount: coin.NewCoin(1, "GOV")}).Validate())
	assert.FieldError(t, (&MintMsg{Amount: coin.NewCoin(1, "GOV")}).Validate(), "Destination", errors.ErrInput)
	assert.Nil(t, (&BurnMsg{Source: addr, Amount: coin.NewCoin(1, "GOV")}).Validate())
	assert.FieldError(t, (&BurnMsg{Source: addr}).Validate(), "Amount", errors.ErrCurrency)
}
