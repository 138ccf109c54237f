package main

import (
	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x/emergency"
	"github.com/dappr/dappr/x/escrow"
	"github.com/spf13/cobra"
)

func (c *cli) createCmd() *cobra.Command {
	var (
		recipient string
		mint      string
		count     uint32
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an escrow, the caller is the creator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creator, err := c.caller()
			if err != nil {
				return err
			}
			rcpt, err := parseAddress(recipient)
			if err != nil {
				return errors.Wrap(err, "recipient")
			}
			return c.deliver(cmd, &escrow.CreateMsg{
				Creator:         creator,
				Recipient:       rcpt,
				Mint:            mint,
				MilestonesCount: count,
			})
		},
	}
	cmd.Flags().StringVar(&recipient, "recipient", "", "address receiving the released funds")
	cmd.Flags().StringVar(&mint, "mint", "", "ticker of the escrowed value")
	cmd.Flags().Uint32Var(&count, "milestones", 1, "number of milestones")
	return cmd
}

func (c *cli) milestoneCmd() *cobra.Command {
	var (
		index    uint32
		amount   uint64
		deadline string
	)
	cmd := &cobra.Command{
		Use:   "milestone <escrow id>",
		Short: "Allocate an amount to a milestone, the caller must be the creator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			creator, err := c.caller()
			if err != nil {
				return err
			}
			t, err := parseTime(deadline)
			if err != nil {
				return errors.Wrap(err, "deadline")
			}
			var dl dappr.UnixTime
			if !t.IsZero() {
				dl = dappr.AsUnixTime(t)
			}
			return c.deliver(cmd, &escrow.AddMilestoneMsg{
				EscrowID: id,
				Creator:  creator,
				Index:    index,
				Amount:   amount,
				Deadline: dl,
			})
		},
	}
	cmd.Flags().Uint32Var(&index, "index", 0, "milestone index")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "amount allocated to the milestone")
	cmd.Flags().StringVar(&deadline, "deadline", "", "informational deadline, unix seconds or RFC3339")
	return cmd
}

func (c *cli) fundCmd() *cobra.Command {
	var amount uint64
	cmd := &cobra.Command{
		Use:   "fund <escrow id>",
		Short: "Deposit into the escrow holding account from the caller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			funder, err := c.caller()
			if err != nil {
				return err
			}
			return c.deliver(cmd, &escrow.FundMsg{EscrowID: id, Funder: funder, Amount: amount})
		},
	}
	cmd.Flags().Uint64Var(&amount, "amount", 0, "deposited amount")
	return cmd
}

func (c *cli) completeCmd() *cobra.Command {
	var index uint32
	cmd := &cobra.Command{
		Use:   "complete <escrow id>",
		Short: "Mark the current milestone completed, the caller is the verifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			verifier, err := c.caller()
			if err != nil {
				return err
			}
			return c.deliver(cmd, &escrow.CompleteMilestoneMsg{EscrowID: id, Index: index, Verifier: verifier})
		},
	}
	cmd.Flags().Uint32Var(&index, "index", 0, "milestone index")
	return cmd
}

func (c *cli) releaseCmd() *cobra.Command {
	var index uint32
	cmd := &cobra.Command{
		Use:   "release <escrow id>",
		Short: "Pay the completed current milestone to the recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			releaser, err := c.caller()
			if err != nil {
				return err
			}
			return c.deliver(cmd, &escrow.ReleaseMsg{EscrowID: id, Index: index, Releaser: releaser})
		},
	}
	cmd.Flags().Uint32Var(&index, "index", 0, "milestone index")
	return cmd
}

func (c *cli) emergencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emergency",
		Short: "Emergency withdrawal of an escrow, two of three signers return the funds to the creator",
	}

	var signers []string
	initiate := &cobra.Command{
		Use:   "initiate <escrow id>",
		Short: "Request an emergency withdrawal, the caller must be one of the signers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			requester, err := c.caller()
			if err != nil {
				return err
			}
			addrs := make([]dappr.Address, 0, len(signers))
			for _, s := range signers {
				addr, err := parseAddress(s)
				if err != nil {
					return errors.Wrapf(err, "signer %q", s)
				}
				addrs = append(addrs, addr)
			}
			return c.deliver(cmd, &emergency.InitiateMsg{EscrowID: id, Requester: requester, Signers: addrs})
		},
	}
	initiate.Flags().StringSliceVar(&signers, "signers", nil, "comma separated addresses of the three signers")

	sign := &cobra.Command{
		Use:   "sign <escrow id>",
		Short: "Sign an emergency withdrawal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			signer, err := c.caller()
			if err != nil {
				return err
			}
			return c.deliver(cmd, &emergency.SignMsg{EscrowID: id, Signer: signer})
		},
	}

	cmd.AddCommand(initiate, sign)
	return cmd
}
