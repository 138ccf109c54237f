package cash

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/gconf"
	"github.com/dappr/dappr/orm"
)

// Configuration is the package configuration, stored with gconf under the
// "cash" key.
type Configuration struct {
	// MintAuthority is the only address allowed to mint and burn.
	MintAuthority dappr.Address `json:"mint_authority"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return orm.Marshal(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return orm.Unmarshal(raw, c)
}

func (c *Configuration) Validate() error {
	if err := c.MintAuthority.Validate(); err != nil {
		return errors.Field("MintAuthority", err, "invalid address")
	}
	return nil
}

// loadConf returns the package configuration. Without a configuration
// nobody is allowed to mint.
func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, optKey, &conf); err != nil {
		if errors.ErrNotFound.Is(err) {
			return conf, errors.Wrap(errors.ErrUnauthorized, "no mint authority configured")
		}
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}
