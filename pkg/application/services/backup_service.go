package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/domain/repositories"
	"github.com/vsinha/metalerp/pkg/infrastructure/events"
)

// BackupService exports and restores the raw persisted documents
type BackupService struct {
	store     repositories.BlobStore
	ledger    *LedgerService
	timesheet *TimesheetService
	now       func() time.Time
	events    events.EventStore
}

// NewBackupService creates a backup service over store. The ledger and timesheet
// services are reloaded after every restore or reset.
func NewBackupService(store repositories.BlobStore, ledger *LedgerService, timesheet *TimesheetService, opts Options) *BackupService {
	opts = opts.withDefaults()
	return &BackupService{store: store, ledger: ledger, timesheet: timesheet, now: opts.Now, events: opts.Events}
}

// bundleFields pairs every storage key with its slot in the bundle
func bundleFields(b *dto.BackupBundle) []struct {
	key  string
	slot **string
} {
	return []struct {
		key  string
		slot **string
	}{
		{repositories.KeyProjects, &b.Projects},
		{repositories.KeyProcesses, &b.Processes},
		{repositories.KeyJobHistory, &b.History},
		{repositories.KeyActiveJobs, &b.ActiveJobs},
		{repositories.KeyEmployees, &b.Employees},
		{repositories.KeyMachines, &b.Machines},
	}
}

// Export collects every stored document verbatim. Keys never written are null.
func (s *BackupService) Export(ctx context.Context) (*dto.BackupBundle, error) {
	bundle := &dto.BackupBundle{Version: dto.BackupVersion, Date: s.now().UTC().Format(recordDateLayout)}
	for _, f := range bundleFields(bundle) {
		value, ok, err := s.store.Load(ctx, f.key)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.key, err)
		}
		if ok {
			v := value
			*f.slot = &v
		}
	}
	return bundle, nil
}

// ExportJSON is Export encoded as an indented JSON file body
func (s *BackupService) ExportJSON(ctx context.Context) ([]byte, error) {
	bundle, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(bundle, "", "  ")
}

// Restore validates a bundle and writes every present key verbatim, then reloads the
// in-memory state. A bundle without a version is rejected before anything is written.
func (s *BackupService) Restore(ctx context.Context, data []byte, confirm bool) error {
	var bundle dto.BackupBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if bundle.Version == "" {
		return ErrInvalidBackup
	}
	if !confirm {
		return ErrConfirmationRequired
	}

	restored := 0
	for _, f := range bundleFields(&bundle) {
		if *f.slot == nil {
			continue
		}
		if err := s.store.Save(ctx, f.key, **f.slot); err != nil {
			return fmt.Errorf("failed to restore %s: %w", f.key, err)
		}
		restored++
	}
	if err := s.reload(ctx); err != nil {
		return err
	}

	log.Info().Str("version", bundle.Version).Str("date", bundle.Date).Int("keys", restored).Msg("backup restored")
	s.emitReplaced(events.LedgerRestoredEvent)
	return nil
}

// Reset empties projects, processes, job history and active jobs. Rosters are kept.
func (s *BackupService) Reset(ctx context.Context, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	for _, key := range []string{repositories.KeyProjects, repositories.KeyProcesses, repositories.KeyJobHistory, repositories.KeyActiveJobs} {
		if err := s.store.Save(ctx, key, "[]"); err != nil {
			return fmt.Errorf("failed to reset %s: %w", key, err)
		}
	}
	if err := s.reload(ctx); err != nil {
		return err
	}
	log.Warn().Msg("all data reset")
	s.emitReplaced(events.LedgerResetEvent)
	return nil
}

func (s *BackupService) reload(ctx context.Context) error {
	if s.ledger != nil {
		if err := s.ledger.Reload(ctx); err != nil {
			return err
		}
	}
	if s.timesheet != nil {
		if err := s.timesheet.Reload(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) emitReplaced(eventType string) {
	projects := 0
	if s.ledger != nil {
		projects = len(s.ledger.Projects())
	}
	event := events.NewEvent(eventType, events.LedgerStream, events.LedgerReplaced{Projects: projects}, s.now())
	if err := s.events.AppendEvent(events.LedgerStream, event); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("failed to record event")
	}
}
