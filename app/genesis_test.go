package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/dapprtest"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/store"
	"github.com/dappr/dappr/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGenesis(t *testing.T) {
	cases := map[string]struct {
		content string
		wantErr *errors.Error
	}{
		"valid": {
			content: `{"chain_id": "test-chain", "app_state": {"cash": []}}`,
		},
		"missing app state": {
			content: `{"chain_id": "test-chain"}`,
			wantErr: errors.ErrInput,
		},
		"not json": {
			content: `chain_id = "test-chain"`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "genesis.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0600))

			gen, err := LoadGenesis(path)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "want %s, got %+v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "test-chain", gen.ChainID)
			assert.Contains(t, gen.AppState, "cash")
		})
	}

	_, err := LoadGenesis(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.ErrInput.Is(err))
}

func TestInitGenesis(t *testing.T) {
	db := store.MemStore()
	svc, err := NewService(db, NewRouter(), NewQueryRouter())
	require.NoError(t, err)
	ctx := dapprtest.Context()

	err = svc.InitGenesis(ctx, Genesis{ChainID: "x", AppState: dappr.Options{}}, cash.Initializer{})
	assert.True(t, errors.ErrInput.Is(err))
	chainID, err := svc.ChainID()
	require.NoError(t, err)
	assert.Equal(t, "", chainID)

	// A failing initializer leaves no trace, not even the chain ID.
	broken := Genesis{ChainID: "test-chain", AppState: dappr.Options{"cash": []byte(`[{"address": "zz"}]`)}}
	assert.Error(t, svc.InitGenesis(ctx, broken, cash.Initializer{}))
	chainID, err = svc.ChainID()
	require.NoError(t, err)
	assert.Equal(t, "", chainID)

	gen := Genesis{ChainID: "test-chain", AppState: dappr.Options{}}
	require.NoError(t, svc.InitGenesis(ctx, gen, cash.Initializer{}))
	chainID, err = svc.ChainID()
	require.NoError(t, err)
	assert.Equal(t, "test-chain", chainID)

	err = svc.InitGenesis(ctx, gen, cash.Initializer{})
	assert.True(t, errors.ErrUnauthorized.Is(err))
}
