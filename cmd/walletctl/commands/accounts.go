package commands

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"

	"sui-transfer-gateway/internal/adapter/signer"

	"github.com/spf13/cobra"
)

func (c *cli) accountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List keystore addresses; the first is the default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := signer.LoadKeystore(c.cfg.Keystore.Path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, addr := range ks.Accounts() {
				marker := " "
				if i == 0 {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, addr)
			}
			return nil
		},
	}
}

func (c *cli) newAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new-account",
		Short: "Generate an Ed25519 key and append it to the keystore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.cfg.Keystore.Path
			ks, err := signer.LoadKeystore(path)
			if errors.Is(err, fs.ErrNotExist) {
				ks, err = signer.NewKeystore()
			}
			if err != nil {
				return err
			}

			addr, err := ks.Generate(rand.Reader)
			if err != nil {
				return err
			}
			if err := ks.Save(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
}
