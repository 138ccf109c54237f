package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/app"
	"github.com/dappr/dappr/errors"
	"github.com/spf13/cobra"
)

// errFailed is returned when the operation was executed but rejected,
// the response was already printed.
var errFailed = errors.ErrState.New("operation failed")

type cli struct {
	home string
	as   string
	at   string
}

// NewRootCmd returns the escrowd command with all subcommands.
func NewRootCmd(defaultHome string) *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "escrowd",
		Short:         "Milestone escrow over a local store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&c.home, "home", defaultHome, "directory to store files under")
	flags.StringVar(&c.as, "as", "", "name of the identity executing the operation")
	flags.StringVar(&c.at, "time", "", "block time of the operation, unix seconds or RFC3339 (default now)")

	root.AddCommand(
		c.initCmd(),
		c.genesisCmd(),
		c.versionCmd(),
		c.addressCmd(),
		c.queryCmd(),
		c.createCmd(),
		c.milestoneCmd(),
		c.fundCmd(),
		c.completeCmd(),
		c.releaseCmd(),
		c.emergencyCmd(),
		c.sendCmd(),
		c.mintCmd(),
		c.burnCmd(),
	)
	return root
}

func (c *cli) config() (Config, error) {
	return LoadConfig(filepath.Join(c.home, configFile), nil)
}

func (c *cli) open() (*node, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return openNode(c.home, cfg, logger)
}

// caller returns the address of the --as identity.
func (c *cli) caller() (dappr.Address, error) {
	if c.as == "" {
		return nil, errors.Wrap(errors.ErrUnauthorized, "--as is required")
	}
	return identity(c.as).Address(), nil
}

// context returns the context of an operation. The system clock is only
// read here, the handlers get the time from the context.
func (c *cli) context() (dappr.Context, error) {
	now, err := parseTime(c.at)
	if err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	ctx := dappr.WithBlockTime(context.Background(), now)
	if c.as != "" {
		ctx = auth.SetConditions(ctx, identity(c.as))
	}
	return ctx, nil
}

// deliver executes the message and prints the response.
func (c *cli) deliver(cmd *cobra.Command, msg dappr.Msg) error {
	ctx, err := c.context()
	if err != nil {
		return err
	}
	n, err := c.open()
	if err != nil {
		return err
	}
	defer n.close()

	res, err := n.svc.Deliver(ctx, msg)
	resp := app.DeliverOrError(res, err, n.debug)
	if perr := printJSON(cmd, output{
		Code:   resp.Code,
		Log:    resp.Log,
		Data:   hex.EncodeToString(resp.Data),
		Events: resp.Events,
	}); perr != nil {
		return perr
	}
	if err != nil {
		return errFailed
	}
	return nil
}

// output is the printed response, data is hex encoded.
type output struct {
	Code   uint32   `json:"code"`
	Log    string   `json:"log,omitempty"`
	Data   string   `json:"data,omitempty"`
	Events []string `json:"events,omitempty"`
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
	return err
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write([]byte(dappr.Version() + "\n"))
			return err
		},
	}
}

func (c *cli) addressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address <name>",
		Short: "Print the address of a named identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := identity(args[0]).Address()
			return printJSON(cmd, map[string]string{
				"hex":    addr.String(),
				"bech32": addr.Bech32(),
			})
		},
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
