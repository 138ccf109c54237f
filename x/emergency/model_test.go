package emergency

import (
	"testing"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/dapprtest"
	"github.com/dappr/dappr/dapprtest/assert"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x/escrow"
)

func TestMultisigValidate(t *testing.T) {
	s := []dappr.Address{dapprtest.NewAddress(), dapprtest.NewAddress(), dapprtest.NewAddress()}
	id := escrow.EscrowID(s[0], s[1], "DUSD")

	cases := map[string]struct {
		ms        Multisig
		wantField string
		wantErr   *errors.Error
	}{
		"requested": {
			ms: Multisig{Escrow: id, Signers: s, Threshold: 2, SignedBy: s[:1]},
		},
		"executed": {
			ms: Multisig{Escrow: id, Signers: s, Threshold: 2, SignedBy: s[1:], Executed: true, Refunded: 4},
		},
		"signature by a stranger": {
			ms:        Multisig{Escrow: id, Signers: s, Threshold: 2, SignedBy: []dappr.Address{dapprtest.NewAddress()}},
			wantField: "SignedBy",
			wantErr:   ErrInvalidSigner,
		},
		"duplicated signature": {
			ms:        Multisig{Escrow: id, Signers: s, Threshold: 3, SignedBy: []dappr.Address{s[0], s[0]}},
			wantField: "SignedBy",
			wantErr:   ErrAlreadySigned,
		},
		"executed early": {
			ms:        Multisig{Escrow: id, Signers: s, Threshold: 2, SignedBy: s[:1], Executed: true},
			wantField: "Executed",
			wantErr:   errors.ErrState,
		},
		"threshold reached but not executed": {
			ms:        Multisig{Escrow: id, Signers: s, Threshold: 2, SignedBy: s[:2]},
			wantField: "Executed",
			wantErr:   errors.ErrState,
		},
		"refund without execution": {
			ms:        Multisig{Escrow: id, Signers: s, Threshold: 2, SignedBy: s[:1], Refunded: 1},
			wantField: "Refunded",
			wantErr:   errors.ErrState,
		},
		"threshold too high": {
			ms:        Multisig{Escrow: id, Signers: s, Threshold: 4, SignedBy: s[:1]},
			wantField: "Threshold",
			wantErr:   errors.ErrState,
		},
		"two signers": {
			ms:        Multisig{Escrow: id, Signers: s[:2], Threshold: 2, SignedBy: s[:1]},
			wantField: "Signers",
			wantErr:   ErrInvalidSigner,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.ms.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}
