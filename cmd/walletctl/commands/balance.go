package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Print the balance of an account (default account when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd)
			if err != nil {
				return err
			}

			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			owner, err := account(app.Keystore, arg)
			if err != nil {
				return err
			}

			view := app.Balances.GetBalance(cmd.Context(), owner)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", view.Display, symbol(c.cfg.Network.CoinType))
			if !view.Available {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: balance unavailable, full node could not be reached")
			}
			return nil
		},
	}
}
