package commands

import (
	"fmt"
	"strings"

	"sui-transfer-gateway/internal/core/domain"

	"github.com/spf13/cobra"
)

func (c *cli) sendCmd() *cobra.Command {
	var to, amount, from string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Transfer SUI from a keystore account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			grant, err := app.Sessions.Connect(ctx, from)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Sessions.Disconnect(ctx, grant.Token); err != nil {
					c.log.Warn().Err(err).Msg("closing session")
				}
			}()

			session := app.Sessions.Resolve(ctx, grant.Token)
			report := app.Transfers.Send(ctx, session, to, amount)

			fmt.Fprintln(cmd.OutOrStdout(), report.Status.Text)
			if report.State != domain.TransferStateSucceeded {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient address")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in display units, e.g. 1.5")
	cmd.Flags().StringVar(&from, "from", "", "sender address (default account when omitted)")
	return cmd
}

// symbol returns the last segment of a Move coin type, "SUI" for 0x2::sui::SUI.
func symbol(coinType string) string {
	if i := strings.LastIndex(coinType, "::"); i >= 0 {
		return coinType[i+2:]
	}
	return coinType
}
