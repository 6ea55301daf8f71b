package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

// StatusChange is a requested production status transition
type StatusChange struct {
	ItemID    string
	Status    entities.ProductionStatus
	Selection []string
	User      string
	At        time.Time
}

// ChangeResult reports which items a status change touched
type ChangeResult struct {
	Updated          []string `json:"updated"`
	Skipped          []string `json:"skipped"`
	SelectionCleared bool     `json:"selectionCleared"`
}

// ProductionTracker applies production-stage transitions and batch splits
type ProductionTracker struct {
	newID func() string
}

// NewProductionTracker creates a tracker that mints split item ids with newID
func NewProductionTracker(newID func() string) *ProductionTracker {
	return &ProductionTracker{newID: newID}
}

// Transition moves a single item to status and appends one history entry.
// DONE items are never changed.
func (t *ProductionTracker) Transition(item *entities.MaterialItem, status entities.ProductionStatus, at time.Time, user string) bool {
	if item.IsDone() {
		return false
	}
	item.ProductionStatus = status.Normalize()
	item.ProductionHistory = append(item.ProductionHistory, entities.HistoryEntry{
		Status:    item.ProductionStatus,
		Timestamp: at.UTC(),
		User:      user,
	})
	return true
}

// ChangeStatus applies change to a project. When the target item is part of the
// selection the change is broadcast to every selected item and the selection is
// consumed; otherwise only the target changes. DONE items are skipped silently.
func (t *ProductionTracker) ChangeStatus(p *entities.Project, palette entities.Palette, change StatusChange) (ChangeResult, error) {
	var result ChangeResult

	status := change.Status.Normalize()
	if !palette.Allows(status) {
		return result, fmt.Errorf("%w: %s", ErrUnknownProcess, status)
	}
	target, ok := p.Material(change.ItemID)
	if !ok {
		return result, fmt.Errorf("%w: %s", ErrMaterialNotFound, change.ItemID)
	}
	if target.IsDone() {
		result.Skipped = append(result.Skipped, target.ID)
		return result, nil
	}

	ids := map[string]bool{change.ItemID: true}
	for _, id := range change.Selection {
		if id == change.ItemID {
			result.SelectionCleared = true
		}
	}
	if result.SelectionCleared {
		for _, id := range change.Selection {
			ids[id] = true
		}
	}

	for i := range p.Materials {
		m := &p.Materials[i]
		if !ids[m.ID] {
			continue
		}
		if t.Transition(m, status, change.At, change.User) {
			result.Updated = append(result.Updated, m.ID)
		} else {
			result.Skipped = append(result.Skipped, m.ID)
		}
	}
	return result, nil
}

// BulkChange applies status to every listed item, skipping DONE items
func (t *ProductionTracker) BulkChange(p *entities.Project, palette entities.Palette, ids []string, status entities.ProductionStatus, at time.Time, user string) (ChangeResult, error) {
	result := ChangeResult{SelectionCleared: true}

	status = status.Normalize()
	if !palette.Allows(status) {
		return ChangeResult{}, fmt.Errorf("%w: %s", ErrUnknownProcess, status)
	}
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	for i := range p.Materials {
		m := &p.Materials[i]
		if !selected[m.ID] {
			continue
		}
		if t.Transition(m, status, at, user) {
			result.Updated = append(result.Updated, m.ID)
		} else {
			result.Skipped = append(result.Skipped, m.ID)
		}
	}
	return result, nil
}

// SplitBatch replaces a BAR item of quantity N > 1 with N single-unit clones in place.
// Returns the new ids, or nil when the item cannot be split. DONE items never split.
func (t *ProductionTracker) SplitBatch(p *entities.Project, itemID string) ([]string, error) {
	idx := p.MaterialIndex(itemID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMaterialNotFound, itemID)
	}
	original := p.Materials[idx]
	if original.IsDone() || original.Type != entities.MaterialBar {
		return nil, nil
	}
	if !original.Quantity.IsInteger() || original.Quantity.LessThanOrEqual(decimal.NewFromInt(1)) {
		return nil, nil
	}

	n := original.Quantity.IntPart()
	qty := original.Quantity

	unitLength := original.TotalLengthCalc
	if original.HasCutLength() {
		unitLength = decimal.NewNullDecimal(original.LengthMm.Decimal.Add(decimal.NewFromInt(entities.KerfAllowanceMm)))
	} else if original.TotalLengthCalc.Valid {
		unitLength = decimal.NewNullDecimal(original.TotalLengthCalc.Decimal.Div(qty))
	}

	unitStock := original.QtyInStock.Div(qty)
	if original.TotalLengthCalc.Valid && original.TotalLengthCalc.Decimal.IsPositive() {
		unitStock = original.TotalLengthCalc.Decimal.Div(qty)
	}

	clones := make([]entities.MaterialItem, 0, n)
	ids := make([]string, 0, n)
	for i := int64(0); i < n; i++ {
		c := original.Clone()
		c.ID = t.newID()
		c.Quantity = decimal.NewFromInt(1)
		c.TotalLengthCalc = unitLength
		c.ProductionStatus = entities.StatusWaiting
		c.ProductionHistory = []entities.HistoryEntry{}
		c.InStock = true
		c.QtyInStock = unitStock
		clones = append(clones, c)
		ids = append(ids, c.ID)
	}

	materials := make([]entities.MaterialItem, 0, len(p.Materials)+len(clones)-1)
	materials = append(materials, p.Materials[:idx]...)
	materials = append(materials, clones...)
	materials = append(materials, p.Materials[idx+1:]...)
	p.Materials = materials
	return ids, nil
}

// Progress is the rounded percentage of eligible bar items that are DONE.
// Before official production only in-stock bars are eligible.
func (t *ProductionTracker) Progress(p *entities.Project) int {
	partial := !p.IsOfficialProduction()

	total, done := 0, 0
	for i := range p.Materials {
		m := &p.Materials[i]
		if m.Type != entities.MaterialBar || (partial && !m.InStock) {
			continue
		}
		total++
		if m.IsDone() {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return (done*200 + total) / (2 * total)
}

// VisibleBars lists the bar items shown on the shop floor for p
func (t *ProductionTracker) VisibleBars(p *entities.Project) []entities.MaterialItem {
	all := p.IsOfficialProduction() || p.IsReadyToStart()
	var out []entities.MaterialItem
	for i := range p.Materials {
		m := &p.Materials[i]
		if m.Type == entities.MaterialBar && (all || m.InStock) {
			out = append(out, m.Clone())
		}
	}
	return out
}

// IsProductionProject reports whether p belongs in the production queue
func (t *ProductionTracker) IsProductionProject(p *entities.Project) bool {
	switch p.Status {
	case entities.StatusProduction, entities.StatusCompleted:
		return true
	case entities.StatusPCP, entities.StatusPurchasing:
		for i := range p.Materials {
			m := &p.Materials[i]
			if m.InStock && (m.Type == entities.MaterialBar || m.Type == entities.MaterialSheet) {
				return true
			}
		}
	}
	return false
}
