package cash

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/coin"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/gconf"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use dappr.Address, so address in hex, not base64
type GenesisAccount struct {
	Address dappr.Address `json:"address"`
	Coins   coin.Coins    `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ dappr.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database. The package configuration is optional,
// without it minting is disabled.
func (Initializer) FromGenesis(opts dappr.Options, kv dappr.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(kv, opts, optKey, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init config")
	}

	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	bucket := NewWalletBucket()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		coins, err := coin.CombineCoins(acct.Coins...)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := bucket.Save(kv, acct.Address, &Wallet{Coins: coins}); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
