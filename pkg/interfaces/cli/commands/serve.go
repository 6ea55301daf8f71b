package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vsinha/metalerp/pkg/infrastructure/backup"
	"github.com/vsinha/metalerp/pkg/interfaces/http/router"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()
			return serve(cmd.Context(), app)
		},
	}
}

func serve(ctx context.Context, app *App) error {
	cfg := app.Config

	if cfg.BackupSchedule != "" {
		sink, err := app.BackupSink(ctx)
		if err != nil {
			return fmt.Errorf("failed to set up backup sink: %w", err)
		}
		scheduler := backup.NewScheduler(app.Backups.ExportJSON, sink)
		if err := scheduler.Start(cfg.BackupSchedule); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	r := router.New(router.Options{
		Production:     cfg.IsProduction(),
		AllowedOrigins: cfg.AllowedOrigins(),
	}, router.Deps{
		Store:     app.Store,
		Ledger:    app.Ledger,
		Timesheet: app.Timesheet,
		Backups:   app.Backups,
		Reports:   app.Reports,
		Advisor:   app.Advisor,
		Now:       app.Now,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("metalerp listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info().Msg("server exited")
	return nil
}
