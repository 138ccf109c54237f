package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/app"
	"github.com/dappr/dappr/coin"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x/cash"
	"github.com/spf13/cobra"
)

func (c *cli) initCmd() *cobra.Command {
	var (
		chainID   string
		authority string
		accounts  []string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and genesis files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(c.home, 0700); err != nil {
				return errors.Wrap(errors.ErrInput, err.Error())
			}

			cfgPath := filepath.Join(c.home, configFile)
			if fileExists(cfgPath) {
				cmd.Printf("Found config file %s\n", cfgPath)
			} else {
				if err := DefaultConfig().Write(cfgPath); err != nil {
					return errors.Wrap(err, "write config")
				}
				cmd.Printf("Generated config file %s\n", cfgPath)
			}

			genPath := filepath.Join(c.home, genesisFile)
			if fileExists(genPath) {
				cmd.Printf("Found genesis file %s\n", genPath)
				return nil
			}
			gen, err := genesisDoc(chainID, authority, accounts)
			if err != nil {
				return err
			}
			raw, err := json.MarshalIndent(gen, "", "  ")
			if err != nil {
				return errors.Wrap(errors.ErrInput, err.Error())
			}
			if err := os.WriteFile(genPath, raw, 0600); err != nil {
				return errors.Wrap(errors.ErrInput, err.Error())
			}
			cmd.Printf("Generated genesis file %s\n", genPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&chainID, "chain-id", "escrowd-local", "chain ID stored on genesis")
	cmd.Flags().StringVar(&authority, "mint-authority", "@admin", "address allowed to mint and burn, empty disables minting")
	cmd.Flags().StringArrayVar(&accounts, "account", nil, `initial balance "<address>=<amount> <ticker>", can be repeated`)
	return cmd
}

// genesisDoc builds the genesis content from the init flags.
func genesisDoc(chainID, authority string, accounts []string) (app.Genesis, error) {
	var byAddr []cash.GenesisAccount
	for _, a := range accounts {
		chunks := strings.SplitN(a, "=", 2)
		if len(chunks) != 2 {
			return app.Genesis{}, errors.Wrapf(errors.ErrInput, "account %q", a)
		}
		addr, err := parseAddress(chunks[0])
		if err != nil {
			return app.Genesis{}, errors.Wrapf(err, "account %q", a)
		}
		c, err := coin.ParseHumanFormat(chunks[1])
		if err != nil {
			return app.Genesis{}, errors.Wrapf(err, "account %q", a)
		}
		byAddr = appendAccount(byAddr, addr, c)
	}
	if byAddr == nil {
		byAddr = []cash.GenesisAccount{}
	}

	state := dappr.Options{}
	raw, err := json.Marshal(byAddr)
	if err != nil {
		return app.Genesis{}, errors.Wrap(errors.ErrInput, err.Error())
	}
	state["cash"] = raw

	if authority != "" {
		addr, err := parseAddress(authority)
		if err != nil {
			return app.Genesis{}, errors.Wrap(err, "mint authority")
		}
		conf, err := json.Marshal(map[string]cash.Configuration{
			"cash": {MintAuthority: addr},
		})
		if err != nil {
			return app.Genesis{}, errors.Wrap(errors.ErrInput, err.Error())
		}
		state["conf"] = conf
	}
	return app.Genesis{ChainID: chainID, AppState: state}, nil
}

func appendAccount(accounts []cash.GenesisAccount, addr dappr.Address, c coin.Coin) []cash.GenesisAccount {
	for i, a := range accounts {
		if a.Address.Equals(addr) {
			accounts[i].Coins = append(accounts[i].Coins, c)
			return accounts
		}
	}
	return append(accounts, cash.GenesisAccount{Address: addr, Coins: coin.Coins{c}})
}

func (c *cli) genesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genesis [file]",
		Short: "Initialize the store from the genesis file",
		Long:  "Initialize the store from the genesis file, by default the one in the home directory. A store can be initialized only once.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(c.home, genesisFile)
			if len(args) == 1 {
				path = args[0]
			}
			gen, err := app.LoadGenesis(path)
			if err != nil {
				return err
			}
			ctx, err := c.context()
			if err != nil {
				return err
			}
			n, err := c.open()
			if err != nil {
				return err
			}
			defer n.close()
			if err := n.svc.InitGenesis(ctx, gen, cash.Initializer{}); err != nil {
				return errors.Redact(err, n.debug)
			}
			return printJSON(cmd, map[string]interface{}{
				"chain_id": gen.ChainID,
				"height":   n.svc.Height(),
			})
		},
	}
}
