package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/domain/repositories"
	domain "github.com/vsinha/metalerp/pkg/domain/services"
	"github.com/vsinha/metalerp/pkg/infrastructure/events"
	"github.com/vsinha/metalerp/pkg/infrastructure/repositories/csv"
)

// Options injects the collaborators that make the services deterministic in tests
type Options struct {
	Now    func() time.Time
	NewID  func() string
	Events events.EventStore
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = func() string { return uuid.NewString() }
	}
	if o.Events == nil {
		o.Events = events.NewInMemoryEventStore()
	}
	return o
}

// LedgerService owns the project ledger and the process palette.
// Every mutation runs on a copy and is persisted before it becomes visible.
type LedgerService struct {
	mu      sync.RWMutex
	repo    repositories.LedgerRepository
	ledger  *entities.Ledger
	palette entities.Palette

	now    func() time.Time
	newID  func() string
	events events.EventStore

	reconciler *domain.Reconciler
	pipeline   *domain.Pipeline
	aggregator *domain.PurchasingAggregator
	tracker    *domain.ProductionTracker
	validator  *domain.MaterialValidator
	importer   *csv.Importer
}

// NewLedgerService loads the ledger and palette from repo
func NewLedgerService(ctx context.Context, repo repositories.LedgerRepository, opts Options) (*LedgerService, error) {
	opts = opts.withDefaults()
	s := &LedgerService{
		repo:       repo,
		now:        opts.Now,
		newID:      opts.NewID,
		events:     opts.Events,
		reconciler: domain.NewReconciler(),
		pipeline:   domain.NewPipeline(),
		aggregator: domain.NewPurchasingAggregator(),
		tracker:    domain.NewProductionTracker(opts.NewID),
		validator:  domain.NewMaterialValidator(),
		importer:   csv.NewImporter(opts.NewID),
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory ledger and palette with the persisted documents
func (s *LedgerService) Reload(ctx context.Context) error {
	ledger, err := s.repo.LoadLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	palette, err := s.repo.LoadPalette(ctx)
	if err != nil {
		return fmt.Errorf("failed to load process palette: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = ledger
	s.palette = palette
	log.Info().Int("projects", len(ledger.Projects)).Int("processes", len(palette)).Msg("ledger loaded")
	return nil
}

// Events exposes the activity log
func (s *LedgerService) Events() events.EventStore {
	return s.events
}

// mutate applies fn to a copy of the ledger, persists it and swaps it in.
// When fn fails or reports no change nothing is written.
func (s *LedgerService) mutate(ctx context.Context, fn func(l *entities.Ledger) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.ledger.Clone()
	changed, err := fn(working)
	if err != nil || !changed {
		return err
	}
	if err := s.repo.SaveLedger(ctx, working); err != nil {
		return fmt.Errorf("failed to persist ledger: %w", err)
	}
	s.ledger = working
	return nil
}

// mutateProject is mutate scoped to a single project
func (s *LedgerService) mutateProject(ctx context.Context, projectID string, fn func(p *entities.Project) (bool, error)) error {
	return s.mutate(ctx, func(l *entities.Ledger) (bool, error) {
		p, ok := l.Find(projectID)
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		return fn(p)
	})
}

func (s *LedgerService) savePalette(ctx context.Context, palette entities.Palette) error {
	if err := s.repo.SavePalette(ctx, palette); err != nil {
		return fmt.Errorf("failed to persist process palette: %w", err)
	}
	s.palette = palette
	return nil
}

func (s *LedgerService) emit(eventType, streamID string, data interface{}) {
	if err := s.events.AppendEvent(streamID, events.NewEvent(eventType, streamID, data, s.now())); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("failed to record event")
	}
}

// view runs fn under the read lock
func (s *LedgerService) view(fn func(l *entities.Ledger)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.ledger)
}

// Projects returns a copy of every project in ledger order
func (s *LedgerService) Projects() []entities.Project {
	var out []entities.Project
	s.view(func(l *entities.Ledger) {
		out = l.Filter(func(*entities.Project) bool { return true })
	})
	return out
}

// Project returns a copy of one project
func (s *LedgerService) Project(id string) (*entities.Project, error) {
	var (
		out *entities.Project
		err error
	)
	s.view(func(l *entities.Ledger) {
		p, ok := l.Find(id)
		if !ok {
			err = fmt.Errorf("%w: %s", ErrProjectNotFound, id)
			return
		}
		c := p.Clone()
		out = &c
	})
	return out, err
}

// ProjectEvents returns the activity log of one project
func (s *LedgerService) ProjectEvents(id string) ([]events.Event, error) {
	if _, err := s.Project(id); err != nil {
		return nil, err
	}
	return s.events.ReadEvents(id, 1)
}

// Snapshot returns a deep copy of the ledger
func (s *LedgerService) Snapshot() *entities.Ledger {
	var out *entities.Ledger
	s.view(func(l *entities.Ledger) { out = l.Clone() })
	return out
}
