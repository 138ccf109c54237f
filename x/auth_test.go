package x_test

import (
	"context"
	"testing"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/dapprtest"
	"github.com/dappr/dappr/x"
	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	a := dapprtest.NewCondition()
	b := dapprtest.NewCondition()
	c := dapprtest.NewCondition()
	d := dapprtest.NewCondition()

	ctx := context.Background()
	ctxAuth := x.ContextAuth{Key: "auth"}
	ctx = ctxAuth.SetConditions(ctx, a, b)
	staticAuth := &dapprtest.Auth{Signers: []dappr.Condition{b, c}}

	cases := map[string]struct {
		auth     x.Authenticator
		wantMain dappr.Condition
		wantAll  []dappr.Condition
		has      []dappr.Address
		hasNot   []dappr.Address
	}{
		"empty context": {
			auth: x.ContextAuth{Key: "other"},
			has:  nil,
			hasNot: []dappr.Address{a.Address()},
		},
		"context auth": {
			auth:     ctxAuth,
			wantMain: a,
			wantAll:  []dappr.Condition{a, b},
			has:      []dappr.Address{a.Address(), b.Address()},
			hasNot:   []dappr.Address{c.Address()},
		},
		"chained without duplicates": {
			auth:     x.ChainAuth(ctxAuth, staticAuth),
			wantMain: a,
			wantAll:  []dappr.Condition{a, b, c},
			has:      []dappr.Address{a.Address(), b.Address(), c.Address()},
			hasNot:   []dappr.Address{d.Address()},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantMain, x.MainSigner(ctx, tc.auth))
			assert.Equal(t, tc.wantAll, tc.auth.GetConditions(ctx))
			assert.True(t, x.HasAllAddresses(ctx, tc.auth, tc.has))
			for _, addr := range tc.hasNot {
				assert.False(t, tc.auth.HasAddress(ctx, addr))
			}
			assert.Equal(t, len(tc.has) > 0, x.HasNAddresses(ctx, tc.auth, append(tc.hasNot, tc.has...), 1))
		})
	}
}

func TestAnySigner(t *testing.T) {
	a := dapprtest.NewCondition()
	auth := &dapprtest.Auth{Signer: a}
	assert.Equal(t, a.Address(), x.AnySigner(context.Background(), auth))
	assert.Nil(t, x.AnySigner(context.Background(), &dapprtest.Auth{}))
}
