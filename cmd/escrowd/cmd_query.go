package main

import (
	"strconv"

	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x/escrow"
	"github.com/spf13/cobra"
)

func (c *cli) queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print a stored record",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "escrow <escrow id>",
			Short: "Print an escrow",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return c.query(cmd, "/escrows", id)
			},
		},
		&cobra.Command{
			Use:   "milestone <escrow id> <index>",
			Short: "Print a milestone",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				index, err := strconv.ParseUint(args[1], 10, 32)
				if err != nil {
					return errors.Wrapf(errors.ErrInput, "index: %s", err)
				}
				return c.query(cmd, "/milestones", escrow.MilestoneKey(id, uint32(index)))
			},
		},
		&cobra.Command{
			Use:   "emergency <escrow id>",
			Short: "Print the emergency withdrawal of an escrow",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return c.query(cmd, "/emergency", id)
			},
		},
		&cobra.Command{
			Use:   "wallet <address>",
			Short: "Print the balance of an address",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				addr, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				return c.query(cmd, "/wallets", addr)
			},
		},
	)
	return cmd
}

func (c *cli) query(cmd *cobra.Command, path string, key []byte) error {
	n, err := c.open()
	if err != nil {
		return err
	}
	defer n.close()

	res, err := n.svc.Query(path, key)
	if err != nil {
		return errors.Redact(err, n.debug)
	}
	return printJSON(cmd, res)
}
