package escrow

import (
	"testing"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/dapprtest"
	"github.com/dappr/dappr/dapprtest/assert"
	"github.com/dappr/dappr/errors"
)

func TestMsgValidate(t *testing.T) {
	addr := dapprtest.NewAddress()
	id := EscrowID(addr, addr, "DUSD")

	cases := map[string]struct {
		msg       dappr.Msg
		wantField string
		wantErr   *errors.Error
	}{
		"create": {
			msg: &CreateMsg{Creator: addr, Recipient: addr, Mint: "DUSD", MilestonesCount: 1},
		},
		"create without milestones": {
			msg:       &CreateMsg{Creator: addr, Recipient: addr, Mint: "DUSD"},
			wantField: "MilestonesCount",
			wantErr:   ErrInvalidMilestoneCount,
		},
		"create with bad mint": {
			msg:       &CreateMsg{Creator: addr, Recipient: addr, Mint: "usd", MilestonesCount: 1},
			wantField: "Mint",
			wantErr:   errors.ErrCurrency,
		},
		"milestone": {
			msg: &AddMilestoneMsg{EscrowID: id, Creator: addr, Index: 3, Amount: 1, Deadline: 10},
		},
		"milestone without amount": {
			msg: &AddMilestoneMsg{EscrowID: id, Creator: addr},
		},
		"milestone with negative deadline": {
			msg:       &AddMilestoneMsg{EscrowID: id, Creator: addr, Amount: 1, Deadline: -1},
			wantField: "Deadline",
			wantErr:   errors.ErrState,
		},
		"fund": {
			msg: &FundMsg{EscrowID: id, Funder: addr, Amount: 5},
		},
		"fund without amount": {
			msg: &FundMsg{EscrowID: id, Funder: addr},
		},
		"fund with bad id": {
			msg:       &FundMsg{EscrowID: []byte{1, 2}, Funder: addr, Amount: 5},
			wantField: "EscrowID",
			wantErr:   errors.ErrInput,
		},
		"complete": {
			msg: &CompleteMilestoneMsg{EscrowID: id, Verifier: addr},
		},
		"complete without verifier": {
			msg:       &CompleteMilestoneMsg{EscrowID: id},
			wantField: "Verifier",
			wantErr:   errors.ErrInput,
		},
		"release": {
			msg: &ReleaseMsg{EscrowID: id, Releaser: addr, Index: 1},
		},
		"release without releaser": {
			msg:       &ReleaseMsg{EscrowID: id},
			wantField: "Releaser",
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
