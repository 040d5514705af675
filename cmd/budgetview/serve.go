package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/janekbaraniewski/budgetview/internal/chart"
	"github.com/janekbaraniewski/budgetview/internal/config"
	"github.com/janekbaraniewski/budgetview/internal/logging"
	"github.com/janekbaraniewski/budgetview/internal/server"
	"github.com/janekbaraniewski/budgetview/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison API from the budget database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.ForServer()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			st, err := store.OpenStore(cfg.Source.Database)
			if err != nil {
				return err
			}
			defer st.Close()

			opts := chart.DefaultOptions()
			opts.Width, opts.Height = cfg.Chart.Width, cfg.Chart.Height
			if len(cfg.Chart.Palette) > 0 {
				opts.Palette = cfg.Chart.Palette
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              cfg.Serve.Addr,
				Handler:           server.NewHandler(st, opts, logger).Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(ctx, srv, logger)
		},
	}
	cmd.Flags().StringVar(&cfg.Serve.Addr, "addr", cfg.Serve.Addr, "listen address")
	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
