/*
Package x contains some standard extensions and helpers

The escrow core never verifies identities itself. An Authenticator is
injected into every handler and reveals which conditions the caller of the
current operation presented.
*/
package x

import (
	"context"
	"fmt"

	"github.com/dappr/dappr"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding one for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(dappr.Context) []dappr.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(dappr.Context, dappr.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx dappr.Context) []dappr.Condition {
	var res []dappr.Condition
	for _, impl := range m.impls {
		for _, c := range impl.GetConditions(ctx) {
			if !hasPerm(res, c) {
				res = append(res, c)
			}
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx dappr.Context, addr dappr.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// ContextAuth is an Authenticator that reads the conditions stored in the
// context. The surrounding system (ie. the command line client, after it
// verified the caller) stores them with SetConditions.
type ContextAuth struct {
	// Key used to set and retrieve conditions from the context.
	Key string
}

var _ Authenticator = ContextAuth{}

type authKey string

// SetConditions returns a context that authenticates given conditions.
func (a ContextAuth) SetConditions(ctx dappr.Context, conds ...dappr.Condition) dappr.Context {
	return context.WithValue(ctx, authKey(a.Key), conds)
}

// GetConditions returns the conditions stored in the context.
func (a ContextAuth) GetConditions(ctx dappr.Context) []dappr.Condition {
	val := ctx.Value(authKey(a.Key))
	if val == nil {
		return nil
	}
	conds, ok := val.([]dappr.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []dappr.Condition got %T", val))
	}
	return conds
}

// HasAddress returns true if any stored condition matches the address.
func (a ContextAuth) HasAddress(ctx dappr.Context, addr dappr.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx dappr.Context, auth Authenticator) []dappr.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]dappr.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first permission if any, otherwise nil
func MainSigner(ctx dappr.Context, auth Authenticator) dappr.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// AnySigner returns the address of the main signer, or nil when the
// operation was not authenticated.
func AnySigner(ctx dappr.Context, auth Authenticator) dappr.Address {
	if c := MainSigner(ctx, auth); c != nil {
		return c.Address()
	}
	return nil
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx dappr.Context, auth Authenticator, required []dappr.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasNAddresses returns true if at least n elements in requested are
// also in context.
func HasNAddresses(ctx dappr.Context, auth Authenticator, required []dappr.Address, n int) bool {
	if n <= 0 {
		return true
	}

	for _, r := range required {
		if auth.HasAddress(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}

func hasPerm(perms []dappr.Condition, perm dappr.Condition) bool {
	for _, p := range perms {
		if p.Equals(perm) {
			return true
		}
	}
	return false
}
