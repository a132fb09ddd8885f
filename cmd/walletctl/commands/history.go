package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"sui-transfer-gateway/internal/core/units"

	"github.com/spf13/cobra"
)

func (c *cli) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [address]",
		Short: "List journaled transfers sent by an account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.cfg.Database.Enabled {
				return errors.New("transfer journal is disabled (database.enabled=false)")
			}
			app, err := c.open(cmd)
			if err != nil {
				return err
			}

			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			sender, err := account(app.Keystore, arg)
			if err != nil {
				return err
			}

			entries, err := app.Journal.ListBySender(cmd.Context(), sender, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tSTATE\tRECIPIENT\tAMOUNT\tDIGEST / ERROR")
			for _, e := range entries {
				detail := e.Digest
				if detail == "" {
					detail = e.Message
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.Format("2006-01-02 15:04:05"),
					e.State,
					e.Recipient.Short(),
					units.ToDisplayUnits(e.AmountBaseUnits),
					detail,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries")
	return cmd
}
