package main

import (
	"github.com/dappr/dappr/coin"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x/cash"
	"github.com/spf13/cobra"
)

func (c *cli) sendCmd() *cobra.Command {
	var to, amount, memo string
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Transfer value from the caller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.caller()
			if err != nil {
				return err
			}
			dst, err := parseAddress(to)
			if err != nil {
				return errors.Wrap(err, "destination")
			}
			amt, err := coin.ParseHumanFormat(amount)
			if err != nil {
				return err
			}
			return c.deliver(cmd, &cash.SendMsg{Source: src, Destination: dst, Amount: amt, Memo: memo})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination address")
	cmd.Flags().StringVar(&amount, "amount", "", `amount, ie. "10 DUSD"`)
	cmd.Flags().StringVar(&memo, "memo", "", "optional note")
	return cmd
}

func (c *cli) mintCmd() *cobra.Command {
	var to, amount string
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Create value, the caller must be the mint authority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.caller(); err != nil {
				return err
			}
			dst, err := parseAddress(to)
			if err != nil {
				return errors.Wrap(err, "destination")
			}
			amt, err := coin.ParseHumanFormat(amount)
			if err != nil {
				return err
			}
			return c.deliver(cmd, &cash.MintMsg{Destination: dst, Amount: amt})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination address")
	cmd.Flags().StringVar(&amount, "amount", "", `amount, ie. "10 DUSD"`)
	return cmd
}

func (c *cli) burnCmd() *cobra.Command {
	var from, amount string
	cmd := &cobra.Command{
		Use:   "burn",
		Short: "Destroy value, the caller must be the mint authority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.caller()
			if err != nil {
				return err
			}
			if from != "" {
				if src, err = parseAddress(from); err != nil {
					return errors.Wrap(err, "source")
				}
			}
			amt, err := coin.ParseHumanFormat(amount)
			if err != nil {
				return err
			}
			return c.deliver(cmd, &cash.BurnMsg{Source: src, Amount: amt})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "wallet to burn from (default the caller)")
	cmd.Flags().StringVar(&amount, "amount", "", `amount, ie. "10 DUSD"`)
	return cmd
}
