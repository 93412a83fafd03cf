// Command fastlane is a local CLI front-end for the matching engine,
// wired against an in-memory store and mock guardian/transport
// collaborators — a dry-run harness for exercising the engine's
// instructions without a real chain on either end, in the same spirit as
// the teacher repo's cmd/cli tree.
package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/synnergy-labs/fastlane-engine/internal/config"
	"github.com/synnergy-labs/fastlane-engine/internal/engine"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/ids"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/store"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/transport"
	"github.com/synnergy-labs/fastlane-engine/internal/guardian"
	"github.com/synnergy-labs/fastlane-engine/pkg/errs"
)

var (
	cliEnv     string
	cliCaller  string
	initOnce   sync.Once
	sharedCtx  *engine.Context
	sharedInit error
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fastlane",
		Short: "Local dry-run harness for the fastlane matching engine",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initOnce.Do(func() { sharedCtx, sharedInit = buildContext() })
			return sharedInit
		},
	}
	root.PersistentFlags().StringVar(&cliEnv, "env", "development", "config environment name")
	root.PersistentFlags().StringVar(&cliCaller, "caller", "", "base58 address signing this command")

	root.AddCommand(custodianCmd())
	root.AddCommand(routerCmd())
	root.AddCommand(orderCmd())
	root.AddCommand(auctionCmd())
	return root
}

func buildContext() (*engine.Context, error) {
	cfg, err := config.Load(cliEnv)
	if err != nil {
		return nil, errs.Wrap(err, "load config")
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return &engine.Context{
		Store:    store.NewMemory(),
		Locks:    store.NewKeyLocks(),
		Clock:    engine.NewWallClock(),
		Logger:   logger,
		Guardian: guardian.NewMockVerifier(),
		Burn:     transport.NewMockBurn(),
		Message:  transport.NewMockMessage(),
	}, nil
}

func callerAddress() (ids.Address, error) {
	if cliCaller == "" {
		return ids.Address{}, fmt.Errorf("--caller is required")
	}
	return ids.ParseAddress(cliCaller)
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
