// Package commands implements walletctl, the operator CLI that runs the
// gateway's wallet and transfer pipeline without the HTTP server.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sui-transfer-gateway/config"
	"sui-transfer-gateway/internal/adapter/signer"
	"sui-transfer-gateway/internal/bootstrap"
	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("walletctl: command failed")

type cli struct {
	configPath string
	keystore   string
	verbose    bool

	opts bootstrap.Options
	cfg  *config.Config
	log  zerolog.Logger
	app  *bootstrap.App
}

// Execute runs walletctl with os.Args. Interrupts cancel in-flight
// RPC calls except a submitted transfer, which runs to its outcome.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(bootstrap.Options{})
}

func newRootCommand(opts bootstrap.Options) *cobra.Command {
	c := &cli{opts: opts}

	root := &cobra.Command{
		Use:           "walletctl",
		Short:         "Sui wallet and transfer CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if c.keystore != "" {
				cfg.Keystore.Path = c.keystore
			}
			c.cfg = cfg

			level := "warn"
			if c.verbose {
				level = "debug"
			}
			c.log = logger.NewWithWriter(level, cmd.ErrOrStderr())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.app != nil {
				c.app.Close()
			}
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ./config.yaml)")
	root.PersistentFlags().StringVar(&c.keystore, "keystore", "", "keystore path (overrides keystore.path)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		c.accountsCmd(),
		c.newAccountCmd(),
		c.balanceCmd(),
		c.sendCmd(),
		c.historyCmd(),
	)
	return root
}

// open builds the full application on first use.
func (c *cli) open(cmd *cobra.Command) (*bootstrap.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	app, err := bootstrap.New(cmd.Context(), *c.cfg, c.opts, c.log)
	if err != nil {
		return nil, err
	}
	c.app = app
	return app, nil
}

// account resolves an optional address argument to a keystore account.
func account(ks *signer.Keystore, arg string) (domain.Address, error) {
	if arg == "" {
		accounts := ks.Accounts()
		if len(accounts) == 0 {
			return "", errors.New("keystore holds no accounts")
		}
		return accounts[0], nil
	}
	return domain.Address(arg), nil
}
