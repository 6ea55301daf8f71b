package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/domain/entities"
	domain "github.com/vsinha/metalerp/pkg/domain/services"
	"github.com/vsinha/metalerp/pkg/infrastructure/events"
)

// newMaterial builds a PCP material line from manual input
func (s *LedgerService) newMaterial(in dto.MaterialInput) (*entities.MaterialItem, error) {
	materialType := entities.MaterialBar
	if strings.TrimSpace(in.Type) != "" {
		t, err := entities.ParseMaterialType(in.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		materialType = t
	}
	quantity := in.Quantity
	if !quantity.IsPositive() {
		quantity = decimal.NewFromInt(1)
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "un"
	}

	item, err := entities.NewMaterialItem(s.newID(), in.Name, materialType, quantity, unit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	item.StockNumber = in.StockNumber
	item.DrawingNumber = in.DrawingNumber
	item.Details = in.Details
	item.Material = in.Material
	item.Observation = in.Observation
	item.PurchaseStatus = entities.PurchasePending
	if materialType == entities.MaterialCommercial {
		item.AssignedTo = in.AssignedTo
	}
	if materialType == entities.MaterialBar && in.LengthMm.IsPositive() {
		item.SetCutLength(in.LengthMm)
	}
	if in.QtyInStock.IsPositive() {
		item.QtyInStock = in.QtyInStock
	}
	item.RefreshStock()
	return item, nil
}

// AddMaterial appends a manually entered line to a project's bill of materials
func (s *LedgerService) AddMaterial(ctx context.Context, projectID string, in dto.MaterialInput) (*entities.MaterialItem, error) {
	item, err := s.newMaterial(in)
	if err != nil {
		return nil, err
	}
	if err := s.AppendMaterials(ctx, projectID, []entities.MaterialItem{*item}); err != nil {
		return nil, err
	}
	log.Info().Str("project_id", projectID).Str("material_id", item.ID).Msg("material added")
	return item, nil
}

// AppendMaterials adds already built lines (bulk import, suggestions) to a project
func (s *LedgerService) AppendMaterials(ctx context.Context, projectID string, items []entities.MaterialItem) error {
	if len(items) == 0 {
		return nil
	}
	var count int
	err := s.mutateProject(ctx, projectID, func(p *entities.Project) (bool, error) {
		for _, item := range items {
			p.Materials = append(p.Materials, item.Clone())
		}
		count = len(p.Materials)
		return true, nil
	})
	if err != nil {
		return err
	}
	log.Debug().Str("project_id", projectID).Int("added", len(items)).Msg("materials appended")
	s.emit(events.MaterialsReplacedEvent, projectID, events.MaterialsReplaced{Count: count})
	return nil
}

// ImportMaterials parses tab separated paste text and appends the rows to the project
func (s *LedgerService) ImportMaterials(ctx context.Context, projectID string, materialType entities.MaterialType, text string) ([]entities.MaterialItem, error) {
	items, err := s.importer.ParseText(text, materialType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.AppendMaterials(ctx, projectID, items); err != nil {
		return nil, err
	}
	log.Info().Str("project_id", projectID).Int("rows", len(items)).Str("type", string(materialType)).Msg("materials imported")
	return items, nil
}

// AddSuggestedMaterials turns advisor suggestions into pending material lines
func (s *LedgerService) AddSuggestedMaterials(ctx context.Context, projectID string, suggestions []entities.MaterialSuggestion) ([]entities.MaterialItem, error) {
	items := make([]entities.MaterialItem, 0, len(suggestions))
	for _, sg := range suggestions {
		item, err := s.newMaterial(dto.MaterialInput{
			Name:     sg.Name,
			Type:     string(sg.Type),
			Quantity: sg.Quantity,
			Unit:     sg.Unit,
		})
		if err != nil {
			log.Debug().Err(err).Str("name", sg.Name).Msg("suggestion skipped")
			continue
		}
		items = append(items, *item)
	}
	if err := s.AppendMaterials(ctx, projectID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetStockQuantity records counted stock for a line. Unparsable input counts as zero.
func (s *LedgerService) SetStockQuantity(ctx context.Context, projectID, materialID, raw string) (*entities.MaterialItem, error) {
	qty := domain.ParseQuantity(raw)

	var updated entities.MaterialItem
	err := s.mutateProject(ctx, projectID, func(p *entities.Project) (bool, error) {
		m, ok := p.Material(materialID)
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrMaterialNotFound, materialID)
		}
		s.reconciler.SetStockQuantity(m, qty)
		updated = m.Clone()
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Str("project_id", projectID).Str("material_id", materialID).Str("qty", qty.String()).Bool("in_stock", updated.InStock).Msg("stock quantity set")
	s.emit(events.MaterialStockSetEvent, projectID, events.MaterialStockSet{MaterialID: materialID, Quantity: qty.String(), InStock: updated.InStock})
	return &updated, nil
}

// UpdateObservation replaces the free-text note of one line
func (s *LedgerService) UpdateObservation(ctx context.Context, projectID, materialID, text string) error {
	return s.mutateProject(ctx, projectID, func(p *entities.Project) (bool, error) {
		m, ok := p.Material(materialID)
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrMaterialNotFound, materialID)
		}
		m.Observation = text
		return true, nil
	})
}

// RemoveMaterial deletes one line from a project
func (s *LedgerService) RemoveMaterial(ctx context.Context, projectID, materialID string, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	var count int
	err := s.mutateProject(ctx, projectID, func(p *entities.Project) (bool, error) {
		idx := p.MaterialIndex(materialID)
		if idx < 0 {
			return false, fmt.Errorf("%w: %s", ErrMaterialNotFound, materialID)
		}
		p.Materials = append(p.Materials[:idx], p.Materials[idx+1:]...)
		count = len(p.Materials)
		return true, nil
	})
	if err != nil {
		return err
	}
	log.Info().Str("project_id", projectID).Str("material_id", materialID).Msg("material removed")
	s.emit(events.MaterialsReplacedEvent, projectID, events.MaterialsReplaced{Count: count})
	return nil
}

// SearchMaterials filters a project's lines by name, details, stock number, drawing number or observation
func (s *LedgerService) SearchMaterials(projectID, term string) ([]entities.MaterialItem, error) {
	p, err := s.Project(projectID)
	if err != nil {
		return nil, err
	}
	out := []entities.MaterialItem{}
	for i := range p.Materials {
		if p.Materials[i].Matches(term) {
			out = append(out, p.Materials[i])
		}
	}
	return out, nil
}

// SendSelectedToPurchasing flags the selected lines that stock does not cover.
// Returns the ids that were flagged.
func (s *LedgerService) SendSelectedToPurchasing(ctx context.Context, projectID string, ids []string) ([]string, error) {
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	var flagged []string
	err := s.mutateProject(ctx, projectID, func(p *entities.Project) (bool, error) {
		for i := range p.Materials {
			m := &p.Materials[i]
			if selected[m.ID] && s.reconciler.RequestShortfall(m) {
				flagged = append(flagged, m.ID)
			}
		}
		return len(flagged) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	if len(flagged) > 0 {
		log.Info().Str("project_id", projectID).Int("items", len(flagged)).Msg("purchase requested")
		s.emit(events.PurchaseRequestedEvent, projectID, events.PurchaseRequested{MaterialIDs: flagged})
	}
	return flagged, nil
}

// SendToPurchasing flags one line for purchasing whatever its current status
func (s *LedgerService) SendToPurchasing(ctx context.Context, projectID, materialID string) error {
	err := s.mutateProject(ctx, projectID, func(p *entities.Project) (bool, error) {
		m, ok := p.Material(materialID)
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrMaterialNotFound, materialID)
		}
		s.reconciler.RequestPurchase(m)
		return true, nil
	})
	if err != nil {
		return err
	}
	log.Info().Str("project_id", projectID).Str("material_id", materialID).Msg("purchase requested")
	s.emit(events.PurchaseRequestedEvent, projectID, events.PurchaseRequested{MaterialIDs: []string{materialID}})
	return nil
}

// ValidateMaterials checks a project's lines against the derived-field rules
func (s *LedgerService) ValidateMaterials(projectID string) (*domain.ValidationResult, error) {
	p, err := s.Project(projectID)
	if err != nil {
		return nil, err
	}
	return s.validator.Validate(p.Materials, s.Palette()), nil
}
