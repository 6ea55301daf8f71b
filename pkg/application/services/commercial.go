package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/domain/entities"
	domain "github.com/vsinha/metalerp/pkg/domain/services"
	"github.com/vsinha/metalerp/pkg/infrastructure/events"
)

// Stage views of the ledger
const (
	ViewCommercial  = "commercial"
	ViewEngineering = "engineering"
	ViewPCP         = "pcp"
)

// ListProjects returns the projects shown in a stage view. An empty view lists the whole ledger.
// The commercial view is sorted by creation time, newest first.
func (s *LedgerService) ListProjects(view string) ([]entities.Project, error) {
	var projects []entities.Project
	switch view {
	case "":
		return s.Projects(), nil
	case ViewCommercial:
		projects = s.Projects()
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].CreatedAt.After(projects[j].CreatedAt)
		})
	case ViewEngineering:
		s.view(func(l *entities.Ledger) {
			projects = l.Filter(func(p *entities.Project) bool { return p.Status.AtLeast(entities.StatusEngineering) })
		})
	case ViewPCP:
		s.view(func(l *entities.Ledger) {
			projects = l.Filter(func(p *entities.Project) bool { return p.Status.AtLeast(entities.StatusPCP) })
		})
	default:
		return nil, fmt.Errorf("%w: unknown project view %q", ErrInvalidInput, view)
	}
	if projects == nil {
		projects = []entities.Project{}
	}
	return projects, nil
}

func projectItems(newID func() string, inputs []dto.ProjectItemInput) []entities.ProjectItem {
	items := make([]entities.ProjectItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, entities.ProjectItem{ID: newID(), Description: in.Description, Quantity: in.Quantity})
	}
	return items
}

// CreateProject opens a new production order in the commercial stage at the head of the ledger
func (s *LedgerService) CreateProject(ctx context.Context, in dto.ProjectInput) (*entities.Project, error) {
	p, err := entities.NewProject(s.newID(), in.OPNumber, in.Client, in.Description, in.ImplantationDate,
		projectItems(s.newID, in.Items), s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.mutate(ctx, func(l *entities.Ledger) (bool, error) {
		l.Prepend(p.Clone())
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("project_id", p.ID).Str("op", p.OPNumber).Msg("project created")
	s.emit(events.ProjectCreatedEvent, p.ID, events.ProjectChanged{OPNumber: p.OPNumber, Client: p.Client})
	return p, nil
}

// UpdateProject re-edits the commercial fields. Status and materials are never touched.
func (s *LedgerService) UpdateProject(ctx context.Context, id string, in dto.ProjectInput) (*entities.Project, error) {
	// Reuse the constructor for validation and the description default
	draft, err := entities.NewProject(id, in.OPNumber, in.Client, in.Description, in.ImplantationDate,
		projectItems(s.newID, in.Items), s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var updated entities.Project
	err = s.mutateProject(ctx, id, func(p *entities.Project) (bool, error) {
		p.OPNumber = draft.OPNumber
		p.Client = draft.Client
		p.Description = draft.Description
		p.Items = draft.Items
		p.ImplantationDate = draft.ImplantationDate
		updated = p.Clone()
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("project_id", id).Msg("project updated")
	s.emit(events.ProjectUpdatedEvent, id, events.ProjectChanged{OPNumber: updated.OPNumber, Client: updated.Client})
	return &updated, nil
}

// DeleteProject removes a project from the ledger
func (s *LedgerService) DeleteProject(ctx context.Context, id string, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	err := s.mutate(ctx, func(l *entities.Ledger) (bool, error) {
		if !l.Remove(id) {
			return false, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	log.Info().Str("project_id", id).Msg("project deleted")
	s.emit(events.ProjectDeletedEvent, id, nil)
	return nil
}

// confirmedTransitions move a project past the point where materials can be revised
var confirmedTransitions = map[domain.Transition]bool{
	domain.FinalizePCP:      true,
	domain.FinishPurchasing: true,
	domain.CompleteProject:  true,
}

// ApplyTransition runs a pipeline action on a project. Actions from the wrong stage
// are reported with Applied false and leave the ledger untouched.
func (s *LedgerService) ApplyTransition(ctx context.Context, id string, t domain.Transition, confirm bool) (*dto.TransitionOutcome, error) {
	if !knownTransition(t) {
		return nil, fmt.Errorf("%w: unknown transition %q", ErrInvalidInput, t)
	}
	if confirmedTransitions[t] && !confirm {
		return nil, ErrConfirmationRequired
	}

	var (
		result   domain.TransitionResult
		progress int
	)
	err := s.mutateProject(ctx, id, func(p *entities.Project) (bool, error) {
		var err error
		result, err = s.pipeline.Apply(p, t)
		progress = s.tracker.Progress(p)
		return result.Applied, err
	})
	if err != nil {
		return nil, err
	}

	outcome := &dto.TransitionOutcome{
		ProjectID: id,
		Action:    string(t),
		From:      result.From,
		To:        result.To,
		Applied:   result.Applied,
	}
	if t == domain.CompleteProject {
		outcome.Progress = &progress
	}
	if result.Applied {
		log.Info().Str("project_id", id).Str("from", string(result.From)).Str("to", string(result.To)).Msg("project status changed")
		s.emit(events.ProjectStatusChangedEvent, id, events.ProjectStatusChanged{Transition: string(t), From: result.From, To: result.To})
	} else {
		log.Debug().Str("project_id", id).Str("transition", string(t)).Str("status", string(result.From)).Msg("transition ignored")
	}
	return outcome, nil
}

// AvailableTransitions lists the actions that currently apply to a project
func (s *LedgerService) AvailableTransitions(id string) ([]domain.Transition, error) {
	p, err := s.Project(id)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Available(p), nil
}

func knownTransition(t domain.Transition) bool {
	for _, candidate := range domain.AllTransitions {
		if candidate == t {
			return true
		}
	}
	return false
}
