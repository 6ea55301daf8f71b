package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/domain/entities"
	domain "github.com/vsinha/metalerp/pkg/domain/services"
	"github.com/vsinha/metalerp/pkg/infrastructure/events"
)

// ParseStatusFilter accepts ALL, IN_STOCK or a purchase status; empty means ALL
func ParseStatusFilter(s string) (domain.StatusFilter, error) {
	filter := domain.StatusFilter(strings.ToUpper(strings.TrimSpace(s)))
	switch filter {
	case "":
		return domain.FilterAll, nil
	case domain.FilterAll, domain.FilterInStock:
		return filter, nil
	}
	if status := entities.PurchaseStatus(filter); status != entities.PurchaseNone && status.Valid() {
		return filter, nil
	}
	return "", fmt.Errorf("%w: unknown purchasing filter %q", ErrInvalidInput, s)
}

// PurchasingQueue lists the projects purchasing works on, with their relevant lines
// grouped and split by material type. Projects left with no lines are omitted.
func (s *LedgerService) PurchasingQueue(filter domain.StatusFilter, search string) []dto.PurchasingProject {
	out := []dto.PurchasingProject{}
	s.view(func(l *entities.Ledger) {
		for i := range l.Projects {
			p := &l.Projects[i]
			if !s.aggregator.IsPurchasingProject(p) {
				continue
			}
			items := s.aggregator.RelevantItems(p, filter, search)
			if len(items) == 0 {
				continue
			}

			row := dto.PurchasingProject{
				ProjectID:    p.ID,
				OPNumber:     p.OPNumber,
				Client:       p.Client,
				Status:       p.Status,
				Bars:         []domain.MaterialGroup{},
				Sheets:       []domain.MaterialGroup{},
				Commercial:   []domain.MaterialGroup{},
				MissingCount: len(p.MissingMaterials()),
			}
			for _, g := range s.aggregator.Group(items) {
				switch g.Type {
				case entities.MaterialBar:
					row.Bars = append(row.Bars, g)
				case entities.MaterialSheet:
					row.Sheets = append(row.Sheets, g)
				default:
					row.Commercial = append(row.Commercial, g)
				}
			}
			out = append(out, row)
		}
	})
	return out
}

// forEachMaterial visits every listed material across the ledger and returns
// the visited ids keyed by project id
func forEachMaterial(l *entities.Ledger, ids []string, fn func(p *entities.Project, m *entities.MaterialItem)) map[string][]string {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	touched := map[string][]string{}
	for i := range l.Projects {
		p := &l.Projects[i]
		for j := range p.Materials {
			m := &p.Materials[j]
			if wanted[m.ID] {
				fn(p, m)
				touched[p.ID] = append(touched[p.ID], m.ID)
			}
		}
	}
	return touched
}

func countTouched(touched map[string][]string) int {
	n := 0
	for _, ids := range touched {
		n += len(ids)
	}
	return n
}

// BulkSetStatus moves every listed line, across projects, to a purchase status.
// DELIVERED tops stock up to the requirement.
func (s *LedgerService) BulkSetStatus(ctx context.Context, in dto.BulkStatusInput) (*dto.BulkResult, error) {
	status := entities.PurchaseStatus(strings.ToUpper(string(in.Status)))
	if status == entities.PurchaseNone || !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPurchaseStatus, in.Status)
	}
	opts := domain.PurchaseOptions{}
	if status == entities.PurchaseOrdered {
		opts.DeliveryForecast = in.DeliveryForecast
	}

	now := s.now()
	var touched map[string][]string
	err := s.mutate(ctx, func(l *entities.Ledger) (bool, error) {
		touched = forEachMaterial(l, in.IDs, func(_ *entities.Project, m *entities.MaterialItem) {
			s.reconciler.ApplyPurchaseStatus(m, status, opts, now)
		})
		return len(touched) > 0, nil
	})
	if err != nil {
		return nil, err
	}

	for projectID, ids := range touched {
		s.emit(events.PurchaseStatusChangedEvent, projectID, events.PurchaseStatusChanged{MaterialIDs: ids, Status: status})
	}
	n := countTouched(touched)
	log.Info().Str("status", string(status)).Int("items", n).Msg("purchase status applied")
	return &dto.BulkResult{Updated: n, Applied: n > 0}, nil
}

// SetGroupObservation writes one observation onto every line of a purchasing group
func (s *LedgerService) SetGroupObservation(ctx context.Context, ids []string, text string) (*dto.BulkResult, error) {
	var touched map[string][]string
	err := s.mutate(ctx, func(l *entities.Ledger) (bool, error) {
		touched = forEachMaterial(l, ids, func(_ *entities.Project, m *entities.MaterialItem) {
			m.Observation = text
		})
		return len(touched) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	n := countTouched(touched)
	return &dto.BulkResult{Updated: n, Applied: n > 0}, nil
}

// DeleteItems removes every listed line across projects
func (s *LedgerService) DeleteItems(ctx context.Context, ids []string, confirm bool) (*dto.BulkResult, error) {
	if !confirm {
		return nil, ErrConfirmationRequired
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	removed := map[string]int{}
	remaining := map[string]int{}
	err := s.mutate(ctx, func(l *entities.Ledger) (bool, error) {
		for i := range l.Projects {
			p := &l.Projects[i]
			kept := p.Materials[:0]
			for _, m := range p.Materials {
				if wanted[m.ID] {
					removed[p.ID]++
					continue
				}
				kept = append(kept, m)
			}
			p.Materials = kept
			remaining[p.ID] = len(kept)
		}
		return len(removed) > 0, nil
	})
	if err != nil {
		return nil, err
	}

	n := 0
	for projectID, count := range removed {
		n += count
		log.Info().Str("project_id", projectID).Int("items", count).Msg("purchasing items deleted")
		s.emit(events.MaterialsReplacedEvent, projectID, events.MaterialsReplaced{Count: remaining[projectID]})
	}
	return &dto.BulkResult{Updated: n, Applied: n > 0}, nil
}
