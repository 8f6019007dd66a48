package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"coursespider/internal/collector"
	"coursespider/internal/jobs"
	"coursespider/internal/logging"
	"coursespider/internal/notify"
	"coursespider/internal/server"
	"coursespider/internal/store"
	"coursespider/internal/youtube"
)

func newServeCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			// One server per data directory; a second instance would
			// race on the job registry and staging files.
			lock := flock.New(filepath.Join(cfg.Paths.DataDir, "coursespider.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another instance is already serving %s", cfg.Paths.DataDir)
			}
			defer lock.Unlock() //nolint:errcheck

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			st, err := store.Open(cfg.DatabasePath())
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			registry := jobs.NewRegistry()
			col := collector.New(cfg, youtube.New(cfg, logger), st, registry, notify.NewService(cfg), logger)
			srv := server.New(cfg, st, registry, col, logger)

			if err := srv.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", srv.Addr())

			<-ctx.Done()
			srv.Stop()
			logger.Info("shutting down")
			return nil
		},
	}
}
