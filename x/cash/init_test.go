package cash

import (
	"encoding/json"
	"testing"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/coin"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/gconf"
	"github.com/dappr/dappr/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	const genesis = `{
		"cash": [
			{"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "coins": ["10 USD", "5 GOV", "2 USD"]},
			{"address": "hex:3C8E6DB502B6A5C9DE29E2EED1AA6F6416207A93", "coins": []}
		],
		"conf": {
			"cash": {"mint_authority": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"}
		}
	}`
	var opts dappr.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	addr, err := dappr.ParseAddress("E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0")
	require.NoError(t, err)
	coins, err := NewController().Coins(db, addr)
	require.NoError(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoin(5, "GOV"), coin.NewCoin(12, "USD")}, coins)

	empty, err := dappr.ParseAddress("3C8E6DB502B6A5C9DE29E2EED1AA6F6416207A93")
	require.NoError(t, err)
	has, err := NewWalletBucket().Has(db, empty)
	require.NoError(t, err)
	assert.True(t, has)

	var conf Configuration
	require.NoError(t, gconf.Load(db, "cash", &conf))
	assert.Equal(t, addr, conf.MintAuthority)
}

func TestGenesisWithoutConfiguration(t *testing.T) {
	opts := dappr.Options{
		"cash": json.RawMessage(`[{"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "coins": ["1 USD"]}]`),
	}
	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	_, err := loadConf(db)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestGenesisInvalidAccount(t *testing.T) {
	opts := dappr.Options{
		"cash": json.RawMessage(`[{"address": "E28A", "coins": ["1 USD"]}]`),
	}
	err := Initializer{}.FromGenesis(opts, store.MemStore())
	assert.True(t, errors.ErrInput.Is(err))
}
