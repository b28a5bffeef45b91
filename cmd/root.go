package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"labshare_dao/config"
	"labshare_dao/ledger"
	"labshare_dao/logging"
	"labshare_dao/sdk"
)

// Version is stamped at build time with -ldflags "-X labshare_dao/cmd.Version=...".
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "labshare",
	Short:         "LabShareDAO ledger, indexer and HTTP API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openLedger builds the configured store and ledger and applies genesis.
func openLedger(ctx context.Context, cfg *config.Config, log *zap.Logger) (*ledger.Ledger, error) {
	var store ledger.Store
	switch cfg.Store.Backend {
	case config.BackendRedis:
		rs, err := ledger.NewRedisStore(ctx, cfg.Redis.URL, cfg.Redis.Prefix)
		if err != nil {
			return nil, err
		}
		store = rs
	default:
		store = ledger.NewMemStore()
	}

	l, err := ledger.New(ctx, ledger.Options{
		Store:         store,
		Logger:        log,
		FaucetEnabled: cfg.Ledger.FaucetEnabled,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	if cfg.Ledger.GenesisFile != "" {
		g, err := config.LoadGenesis(cfg.Ledger.GenesisFile)
		if err != nil {
			_ = l.Close()
			return nil, err
		}
		allocs := make([]ledger.Allocation, 0, len(g.Accounts))
		for _, a := range g.Accounts {
			allocs = append(allocs, ledger.Allocation{Address: sdk.Address(a.Address), Amount: a.Amount})
		}
		if err := l.Genesis(ctx, allocs); err != nil {
			_ = l.Close()
			return nil, err
		}
	}
	return l, nil
}

func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
