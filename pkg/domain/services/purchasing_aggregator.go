package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

// StatusFilter narrows the purchasing queue. It is ALL, IN_STOCK or a purchase status.
type StatusFilter string

const (
	FilterAll     StatusFilter = "ALL"
	FilterInStock StatusFilter = "IN_STOCK"
)

// ReportKind selects which items a purchasing report lists and how quantities are shown
type ReportKind string

const (
	ReportAll         ReportKind = "ALL"
	ReportPendingOnly ReportKind = "PENDING_ONLY"
	ReportInStock     ReportKind = "IN_STOCK"
	ReportQuoting     ReportKind = ReportKind(entities.PurchaseQuoting)
	ReportOrdered     ReportKind = ReportKind(entities.PurchaseOrdered)
	ReportDelivered   ReportKind = ReportKind(entities.PurchaseDelivered)
)

// ParseReportKind validates a report kind; empty means PENDING_ONLY
func ParseReportKind(s string) (ReportKind, error) {
	kind := ReportKind(strings.ToUpper(strings.TrimSpace(s)))
	switch kind {
	case "":
		return ReportPendingOnly, nil
	case ReportAll, ReportPendingOnly, ReportInStock:
		return kind, nil
	}
	if status := entities.PurchaseStatus(kind); status != entities.PurchaseNone && status.Valid() {
		return kind, nil
	}
	return "", fmt.Errorf("unknown report kind: %q", s)
}

// MaterialGroup is one purchasing row: items merged by name, status and observation
type MaterialGroup struct {
	Name             string                  `json:"name"`
	PurchaseStatus   entities.PurchaseStatus `json:"purchaseStatus,omitempty"`
	Observation      string                  `json:"observation,omitempty"`
	Type             entities.MaterialType   `json:"type"`
	Unit             string                  `json:"unit"`
	Details          string                  `json:"details,omitempty"`
	StockNumber      string                  `json:"stockNumber,omitempty"`
	DeliveryForecast string                  `json:"deliveryForecast,omitempty"`
	Quantity         decimal.Decimal         `json:"quantity"`
	TotalLengthCalc  decimal.Decimal         `json:"totalLengthCalc"`
	QtyInStock       decimal.Decimal         `json:"qtyInStock"`
	OriginalIDs      []string                `json:"originalIds"`
}

// IsBarWithLength reports whether the group is measured in millimetres
func (g *MaterialGroup) IsBarWithLength() bool {
	return g.Type == entities.MaterialBar && g.TotalLengthCalc.IsPositive()
}

// Required is the group's summed requirement
func (g *MaterialGroup) Required() decimal.Decimal {
	if g.IsBarWithLength() {
		return g.TotalLengthCalc
	}
	return g.Quantity
}

// ReportLine is a grouped, quantity-adjusted line of a purchasing report
type ReportLine struct {
	MaterialGroup
	DisplayQuantity decimal.Decimal `json:"displayQuantity"`
	DisplayUnit     string          `json:"displayUnit"`
}

// PurchasingAggregator groups material lines for bulk purchasing actions and reports
type PurchasingAggregator struct{}

// NewPurchasingAggregator creates a new purchasing aggregator
func NewPurchasingAggregator() *PurchasingAggregator {
	return &PurchasingAggregator{}
}

type groupKey struct {
	name        string
	status      entities.PurchaseStatus
	observation string
}

// Group merges items sharing (name, purchase status, observation), in order of first appearance
func (a *PurchasingAggregator) Group(items []entities.MaterialItem) []MaterialGroup {
	return group(items, func(m *entities.MaterialItem) groupKey {
		return groupKey{name: m.Name, status: m.PurchaseStatus, observation: m.Observation}
	})
}

// GroupForReport merges items sharing (name, observation); purchase status is ignored
func (a *PurchasingAggregator) GroupForReport(items []entities.MaterialItem) []MaterialGroup {
	return group(items, func(m *entities.MaterialItem) groupKey {
		return groupKey{name: m.Name, observation: m.Observation}
	})
}

func group(items []entities.MaterialItem, keyOf func(*entities.MaterialItem) groupKey) []MaterialGroup {
	index := make(map[groupKey]int)
	var groups []MaterialGroup

	for i := range items {
		m := &items[i]
		key := keyOf(m)
		pos, exists := index[key]
		if !exists {
			index[key] = len(groups)
			groups = append(groups, MaterialGroup{
				Name:             m.Name,
				PurchaseStatus:   key.status,
				Observation:      m.Observation,
				Type:             m.Type,
				Unit:             m.Unit,
				Details:          m.Details,
				StockNumber:      m.StockNumber,
				DeliveryForecast: m.DeliveryForecast,
				Quantity:         decimal.Zero,
				TotalLengthCalc:  decimal.Zero,
				QtyInStock:       decimal.Zero,
			})
			pos = len(groups) - 1
		}
		g := &groups[pos]
		g.Quantity = g.Quantity.Add(m.Quantity)
		if m.TotalLengthCalc.Valid {
			g.TotalLengthCalc = g.TotalLengthCalc.Add(m.TotalLengthCalc.Decimal)
		}
		g.QtyInStock = g.QtyInStock.Add(m.QtyInStock)
		g.OriginalIDs = append(g.OriginalIDs, m.ID)
	}
	return groups
}

// IsPurchasingProject reports whether p belongs in the purchasing queue
func (a *PurchasingAggregator) IsPurchasingProject(p *entities.Project) bool {
	if p.Status == entities.StatusPurchasing {
		return true
	}
	for i := range p.Materials {
		switch p.Materials[i].PurchaseStatus {
		case entities.PurchaseNone, entities.PurchasePending, entities.PurchaseCompleted:
		default:
			return true
		}
	}
	return false
}

// IsRelevant reports whether m should be listed for p under filter
func (a *PurchasingAggregator) IsRelevant(p *entities.Project, m *entities.MaterialItem, filter StatusFilter) bool {
	relevant := m.PurchaseStatus.IsActive() ||
		(p.Status == entities.StatusPurchasing && !m.InStock) ||
		(m.InStock && filter == FilterInStock)
	if !relevant {
		return false
	}

	switch filter {
	case "", FilterAll:
		return true
	case FilterInStock:
		return m.InStock
	case StatusFilter(entities.PurchaseRequested):
		return m.PurchaseStatus == entities.PurchaseRequested ||
			m.PurchaseStatus == entities.PurchasePending ||
			(m.PurchaseStatus == entities.PurchaseNone && !m.InStock)
	default:
		return string(m.PurchaseStatus) == string(filter)
	}
}

// RelevantItems returns the items of p listed under filter, narrowed by a search term.
// A term matching the project's OP number or client keeps every item.
func (a *PurchasingAggregator) RelevantItems(p *entities.Project, filter StatusFilter, search string) []entities.MaterialItem {
	term := strings.ToLower(strings.TrimSpace(search))
	projectMatches := term == "" ||
		strings.Contains(strings.ToLower(p.OPNumber), term) ||
		strings.Contains(strings.ToLower(p.Client), term)

	var out []entities.MaterialItem
	for i := range p.Materials {
		m := &p.Materials[i]
		if !a.IsRelevant(p, m, filter) {
			continue
		}
		if !projectMatches &&
			!strings.Contains(strings.ToLower(m.Name), term) &&
			!strings.Contains(strings.ToLower(m.Details), term) {
			continue
		}
		out = append(out, m.Clone())
	}
	return out
}

// IncludeInReport reports whether m is listed by a report of the given kind
func (a *PurchasingAggregator) IncludeInReport(m *entities.MaterialItem, kind ReportKind) bool {
	switch kind {
	case ReportPendingOnly:
		return m.PurchaseStatus == entities.PurchaseNone ||
			m.PurchaseStatus == entities.PurchaseRequested ||
			m.PurchaseStatus == entities.PurchasePending
	case ReportInStock:
		return m.InStock
	case ReportAll:
		return true
	default:
		return string(m.PurchaseStatus) == string(kind)
	}
}

// ReportQuantity applies the quantity selection rule for a report kind
func ReportQuantity(kind ReportKind, required, stock decimal.Decimal) decimal.Decimal {
	switch kind {
	case ReportPendingOnly:
		return decimal.Max(decimal.Zero, required.Sub(stock))
	case ReportInStock:
		q := decimal.Min(required, stock)
		if q.IsZero() && stock.IsPositive() {
			q = stock
		}
		return q
	default:
		return required
	}
}

// ReportLines filters, groups and quantity-adjusts items for a report.
// typeFilter may be empty for every type. Lines showing nothing are dropped.
func (a *PurchasingAggregator) ReportLines(items []entities.MaterialItem, kind ReportKind, typeFilter entities.MaterialType) []ReportLine {
	var eligible []entities.MaterialItem
	for i := range items {
		m := &items[i]
		if typeFilter != "" && m.Type != typeFilter {
			continue
		}
		if a.IncludeInReport(m, kind) {
			eligible = append(eligible, *m)
		}
	}

	var lines []ReportLine
	for _, g := range a.GroupForReport(eligible) {
		qty := ReportQuantity(kind, g.Required(), g.QtyInStock)
		if !qty.IsPositive() {
			continue
		}
		unit := g.Unit
		if g.IsBarWithLength() {
			unit = "mm"
		}
		lines = append(lines, ReportLine{MaterialGroup: g, DisplayQuantity: qty, DisplayUnit: unit})
	}
	return lines
}
