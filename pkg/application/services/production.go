package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/domain/entities"
	domain "github.com/vsinha/metalerp/pkg/domain/services"
	"github.com/vsinha/metalerp/pkg/infrastructure/events"
	"github.com/vsinha/metalerp/pkg/infrastructure/report"
)

// ProductionQueue lists the projects on the shop floor with their visible bar items
func (s *LedgerService) ProductionQueue() []dto.ProductionProject {
	out := []dto.ProductionProject{}
	s.view(func(l *entities.Ledger) {
		for i := range l.Projects {
			p := &l.Projects[i]
			if !s.tracker.IsProductionProject(p) {
				continue
			}
			sheets := 0
			for j := range p.Materials {
				if p.Materials[j].Type == entities.MaterialSheet && p.Materials[j].InStock {
					sheets++
				}
			}
			bars := s.tracker.VisibleBars(p)
			if bars == nil {
				bars = []entities.MaterialItem{}
			}
			out = append(out, dto.ProductionProject{
				ProjectID:     p.ID,
				OPNumber:      p.OPNumber,
				Client:        p.Client,
				Description:   p.Description,
				Status:        p.Status,
				Progress:      s.tracker.Progress(p),
				ReadyToStart:  p.IsReadyToStart(),
				Bars:          bars,
				SheetsInStock: sheets,
			})
		}
	})
	return out
}

// ChangeProductionStatus moves an item, or the selection containing it, to a production status
func (s *LedgerService) ChangeProductionStatus(ctx context.Context, projectID string, in dto.ProductionStatusInput) (*domain.ChangeResult, error) {
	change := domain.StatusChange{
		ItemID:    in.ItemID,
		Status:    entities.ProductionStatus(in.Status),
		Selection: in.Selection,
		User:      in.User,
		At:        s.now(),
	}

	var result domain.ChangeResult
	err := s.mutateProject(ctx, projectID, func(p *entities.Project) (bool, error) {
		var err error
		result, err = s.tracker.ChangeStatus(p, s.palette, change)
		return len(result.Updated) > 0, err
	})
	if err != nil {
		return nil, err
	}
	s.logProductionChange(projectID, change.Status.Normalize(), in.User, result)
	return &result, nil
}

// BulkProductionStatus applies one production status to a list of items
func (s *LedgerService) BulkProductionStatus(ctx context.Context, projectID string, ids []string, status entities.ProductionStatus, user string) (*domain.ChangeResult, error) {
	var result domain.ChangeResult
	err := s.mutateProject(ctx, projectID, func(p *entities.Project) (bool, error) {
		var err error
		result, err = s.tracker.BulkChange(p, s.palette, ids, status, s.now(), user)
		return len(result.Updated) > 0, err
	})
	if err != nil {
		return nil, err
	}
	s.logProductionChange(projectID, status.Normalize(), user, result)
	return &result, nil
}

func (s *LedgerService) logProductionChange(projectID string, status entities.ProductionStatus, user string, result domain.ChangeResult) {
	if len(result.Updated) == 0 {
		log.Debug().Str("project_id", projectID).Str("status", string(status)).Int("skipped", len(result.Skipped)).Msg("production change skipped")
		return
	}
	log.Info().Str("project_id", projectID).Str("status", string(status)).Int("items", len(result.Updated)).Msg("production status changed")
	s.emit(events.ProductionStatusChangedEvent, projectID, events.ProductionStatusChanged{
		MaterialIDs: result.Updated,
		Status:      status,
		User:        user,
	})
}

// SplitBatch replaces a multi-unit item with single-unit items that can be tracked separately.
// An item that cannot be split returns no ids and leaves the ledger untouched.
func (s *LedgerService) SplitBatch(ctx context.Context, projectID, materialID string, confirm bool) ([]string, error) {
	if !confirm {
		return nil, ErrConfirmationRequired
	}
	var ids []string
	err := s.mutateProject(ctx, projectID, func(p *entities.Project) (bool, error) {
		var err error
		ids, err = s.tracker.SplitBatch(p, materialID)
		return len(ids) > 0, err
	})
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		log.Info().Str("project_id", projectID).Str("material_id", materialID).Int("pieces", len(ids)).Msg("batch split")
		s.emit(events.BatchSplitEvent, projectID, events.BatchSplit{MaterialID: materialID, NewIDs: ids})
	}
	return ids, nil
}

// Progress is the production completion percentage of a project
func (s *LedgerService) Progress(projectID string) (int, error) {
	p, err := s.Project(projectID)
	if err != nil {
		return 0, err
	}
	return s.tracker.Progress(p), nil
}

// Palette returns a copy of the configured production processes
func (s *LedgerService) Palette() entities.Palette {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(entities.Palette{}, s.palette...)
}

// AddProcess appends a production process to the palette
func (s *LedgerService) AddProcess(ctx context.Context, in dto.ProcessInput) (*entities.ProductionProcess, error) {
	proc, err := entities.NewProductionProcess(in.Name, entities.ProcessColor(in.Color))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.palette.Find(proc.ID); exists {
		return nil, fmt.Errorf("%w: %s", ErrProcessExists, proc.ID)
	}
	if err := s.savePalette(ctx, append(append(entities.Palette{}, s.palette...), *proc)); err != nil {
		return nil, err
	}
	log.Info().Str("process_id", proc.ID).Msg("production process added")
	return proc, nil
}

// RemoveProcess drops a process from the palette. Items already in that status keep it.
func (s *LedgerService) RemoveProcess(ctx context.Context, id string, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(entities.Palette, 0, len(s.palette))
	for _, proc := range s.palette {
		if proc.ID != id {
			next = append(next, proc)
		}
	}
	if len(next) == len(s.palette) {
		return fmt.Errorf("%w: %s", ErrProcessNotFound, id)
	}
	if err := s.savePalette(ctx, next); err != nil {
		return err
	}
	log.Info().Str("process_id", id).Msg("production process removed")
	return nil
}

// Label returns the traceability label content of one material line
func (s *LedgerService) Label(projectID, materialID string) (*report.Label, error) {
	p, err := s.Project(projectID)
	if err != nil {
		return nil, err
	}
	m, ok := p.Material(materialID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMaterialNotFound, materialID)
	}
	return &report.Label{OPNumber: p.OPNumber, ItemID: m.ID, Name: m.Name, DrawingNumber: m.DrawingNumber}, nil
}
