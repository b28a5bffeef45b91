package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"labshare_dao/api"
	"labshare_dao/indexer"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ledger with the indexer and HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		l, err := openLedger(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer l.Close()

		ix, err := indexer.New(l, indexer.Options{
			DedupCacheSize: cfg.Indexer.DedupCacheSize,
			BufferSize:     cfg.Indexer.BufferSize,
			Logger:         log,
		})
		if err != nil {
			return err
		}

		gin.SetMode(gin.ReleaseMode)
		server := &http.Server{
			Addr: cfg.Server.Addr,
			Handler: api.NewRouter(l, ix, api.Options{
				Logger:         log,
				RateLimitRPS:   cfg.API.RateLimitRPS,
				RateLimitBurst: cfg.API.RateLimitBurst,
				CORSOrigins:    cfg.API.CORSOrigins,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return ix.Run(gCtx)
		})
		g.Go(func() error {
			log.Info("http server started", zap.String("addr", cfg.Server.Addr), zap.String("store", cfg.Store.Backend))
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("server exited with error", zap.Error(err))
			return err
		}
		log.Info("shut down gracefully")
		return nil
	},
}
