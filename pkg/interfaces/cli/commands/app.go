package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/metalerp/pkg/application/services"
	"github.com/vsinha/metalerp/pkg/config"
	"github.com/vsinha/metalerp/pkg/domain/repositories"
	"github.com/vsinha/metalerp/pkg/infrastructure/backup"
	"github.com/vsinha/metalerp/pkg/infrastructure/events"
	"github.com/vsinha/metalerp/pkg/infrastructure/gemini"
	"github.com/vsinha/metalerp/pkg/infrastructure/repositories/document"
	"github.com/vsinha/metalerp/pkg/infrastructure/repositories/kv"
	"github.com/vsinha/metalerp/pkg/infrastructure/seed"
)

// App wires the store and services shared by every command
type App struct {
	Config    *config.Config
	Store     repositories.BlobStore
	Ledger    *services.LedgerService
	Timesheet *services.TimesheetService
	Backups   *services.BackupService
	Reports   *services.ReportService
	Advisor   *services.AdvisorService
}

// NewApp opens the configured store and loads the documents into the services
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := kv.Open(ctx, kv.Options{
		Driver:      cfg.StoreDriver,
		DataDir:     cfg.DataDir,
		RedisURL:    cfg.RedisURL,
		RedisPrefix: cfg.RedisPrefix,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}

	repo := document.NewRepository(store, seed.MustDefaultLedger)
	activity := events.NewInMemoryEventStore()
	if err := activity.Subscribe([]string{events.AnyType}, events.NewFuncHandler(logActivity)); err != nil {
		store.Close()
		return nil, err
	}
	opts := services.Options{Events: activity}

	ledger, err := services.NewLedgerService(ctx, repo, opts)
	if err != nil {
		store.Close()
		return nil, err
	}
	timesheet, err := services.NewTimesheetService(ctx, repo, cfg.Location(), opts)
	if err != nil {
		store.Close()
		return nil, err
	}

	client := gemini.NewClient(gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})
	if !client.Configured() {
		log.Warn().Msg("GEMINI_API_KEY not set, AI suggestions are disabled")
	}

	return &App{
		Config:    cfg,
		Store:     store,
		Ledger:    ledger,
		Timesheet: timesheet,
		Backups:   services.NewBackupService(store, ledger, timesheet, opts),
		Reports:   services.NewReportService(ledger, opts),
		Advisor:   services.NewAdvisorService(gemini.NewAdvisor(client), ledger, timesheet),
	}, nil
}

// logActivity mirrors the activity log into the debug log
func logActivity(e events.Event) error {
	log.Debug().Str("event", e.Type()).Str("stream", e.StreamID()).Int("version", e.Version()).Interface("data", e.Data()).Msg("activity")
	return nil
}

// BackupSink returns the object store sink when MinIO is configured, otherwise BACKUP_DIR
func (a *App) BackupSink(ctx context.Context) (backup.Sink, error) {
	if a.Config.MinioEnabled() {
		return backup.NewMinioSink(ctx, backup.MinioConfig{
			Endpoint:  a.Config.MinioEndpoint,
			AccessKey: a.Config.MinioAccessKey,
			SecretKey: a.Config.MinioSecretKey,
			Bucket:    a.Config.MinioBucket,
			UseSSL:    a.Config.MinioUseSSL,
		})
	}
	return backup.NewDirSink(a.Config.BackupDir)
}

// Now is the wall clock in the configured time zone
func (a *App) Now() time.Time {
	return time.Now().In(a.Config.Location())
}

func (a *App) Close() error {
	return a.Store.Close()
}
