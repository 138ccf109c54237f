package dapprtest

import (
	"github.com/dappr/dappr"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convinience attribute when creating an authentication method for a
	// single signer.
	Signer dappr.Condition

	// Signers represents an authentication of multiple signers.
	Signers []dappr.Condition
}

func (a *Auth) GetConditions(dappr.Context) []dappr.Condition {
	if a.Signer != nil {
		return append(a.Signers[:len(a.Signers):len(a.Signers)], a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx dappr.Context, addr dappr.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	if a.Signer == nil {
		return false
	}
	return addr.Equals(a.Signer.Address())
}
