package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// KerfAllowanceMm is the saw blade allowance added to every cut piece
const KerfAllowanceMm = 4

var kerf = decimal.NewFromInt(KerfAllowanceMm)

// MaterialType represents the procurement category of a material line
type MaterialType string

const (
	MaterialBar        MaterialType = "BARRA"
	MaterialSheet      MaterialType = "CHAPA"
	MaterialCommercial MaterialType = "COMERCIAL_PART"
)

// String method for MaterialType enum
func (t MaterialType) String() string {
	switch t {
	case MaterialBar:
		return "Bar"
	case MaterialSheet:
		return "Sheet"
	case MaterialCommercial:
		return "Commercial"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is one of the known material types
func (t MaterialType) Valid() bool {
	switch t {
	case MaterialBar, MaterialSheet, MaterialCommercial:
		return true
	}
	return false
}

// ParseMaterialType accepts both the stored values and their English names
func ParseMaterialType(s string) (MaterialType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BAR", "BARRA":
		return MaterialBar, nil
	case "SHEET", "CHAPA":
		return MaterialSheet, nil
	case "COMMERCIAL", "COMERCIAL", "COMERCIAL_PART":
		return MaterialCommercial, nil
	default:
		return "", fmt.Errorf("unknown material type: %q", s)
	}
}

// PurchaseStatus tracks a material line through purchasing.
// The zero value means the line was never flagged for purchase.
type PurchaseStatus string

const (
	PurchaseNone      PurchaseStatus = ""
	PurchasePending   PurchaseStatus = "PENDING"
	PurchaseRequested PurchaseStatus = "REQUESTED"
	PurchaseQuoting   PurchaseStatus = "QUOTING"
	PurchaseOrdered   PurchaseStatus = "ORDERED"
	PurchaseDelivered PurchaseStatus = "DELIVERED"
	PurchaseCompleted PurchaseStatus = "COMPLETED"
)

// Valid reports whether s is a known purchase status (including none)
func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchaseNone, PurchasePending, PurchaseRequested, PurchaseQuoting,
		PurchaseOrdered, PurchaseDelivered, PurchaseCompleted:
		return true
	}
	return false
}

// IsActive reports whether purchasing is actively working the line
func (s PurchaseStatus) IsActive() bool {
	switch s {
	case PurchaseRequested, PurchaseQuoting, PurchaseOrdered, PurchaseDelivered:
		return true
	}
	return false
}

// MaterialItem is one line of a project's bill of materials
type MaterialItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     MaterialType    `json:"type"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`

	InStock    bool            `json:"inStock"`
	QtyInStock decimal.Decimal `json:"qtyInStock"`

	AssignedTo    string `json:"assignedTo,omitempty"`
	StockNumber   string `json:"stockNumber,omitempty"`
	DrawingNumber string `json:"drawingNumber,omitempty"`
	Details       string `json:"details,omitempty"`
	Material      string `json:"material,omitempty"`
	Observation   string `json:"observation,omitempty"`

	PurchaseStatus       PurchaseStatus `json:"purchaseStatus,omitempty"`
	QuotationStartedDate string         `json:"quotationStartedDate,omitempty"`
	PurchaseOrderDate    string         `json:"purchaseOrderDate,omitempty"`
	DeliveryForecast     string         `json:"deliveryForecast,omitempty"`
	DeliveredDate        string         `json:"deliveredDate,omitempty"`

	BaseDescription string              `json:"baseDescription,omitempty"`
	Gauge           string              `json:"gauge,omitempty"`
	LengthMm        decimal.NullDecimal `json:"lengthMm"`
	TotalLengthCalc decimal.NullDecimal `json:"totalLengthCalc"`

	ProductionStatus  ProductionStatus `json:"productionStatus,omitempty"`
	ProductionHistory []HistoryEntry   `json:"productionHistory,omitempty"`
}

// NewMaterialItem creates a validated MaterialItem with its length and stock figures derived
func NewMaterialItem(id, name string, materialType MaterialType, quantity decimal.Decimal, unit string) (*MaterialItem, error) {
	if id == "" {
		return nil, fmt.Errorf("material id cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("material name cannot be empty")
	}
	if !materialType.Valid() {
		return nil, fmt.Errorf("invalid material type: %q", materialType)
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity cannot be negative, got %s", quantity)
	}

	item := &MaterialItem{
		ID:         id,
		Name:       strings.TrimSpace(name),
		Type:       materialType,
		Quantity:   quantity,
		Unit:       unit,
		QtyInStock: decimal.Zero,
	}
	item.RefreshStock()
	return item, nil
}

// SetCutLength stores the per-piece cut length and recomputes the total length
func (m *MaterialItem) SetCutLength(lengthMm decimal.Decimal) {
	m.LengthMm = decimal.NewNullDecimal(lengthMm)
	m.RecalculateLength()
}

// HasCutLength reports whether the item carries a positive per-piece cut length
func (m *MaterialItem) HasCutLength() bool {
	return m.LengthMm.Valid && m.LengthMm.Decimal.IsPositive()
}

// RecalculateLength applies the kerf rule: total = quantity × (length + kerf)
func (m *MaterialItem) RecalculateLength() {
	if m.Type != MaterialBar || !m.HasCutLength() {
		return
	}
	total := m.Quantity.Mul(m.LengthMm.Decimal.Add(kerf))
	m.TotalLengthCalc = decimal.NewNullDecimal(total)
}

// IsBarWithLength reports whether stock for this line is measured in millimetres
func (m *MaterialItem) IsBarWithLength() bool {
	return m.Type == MaterialBar && m.TotalLengthCalc.Valid && m.TotalLengthCalc.Decimal.IsPositive()
}

// RequiredAmount is the figure stock is compared against
func (m *MaterialItem) RequiredAmount() decimal.Decimal {
	if m.IsBarWithLength() {
		return m.TotalLengthCalc.Decimal
	}
	return m.Quantity
}

// RefreshStock recomputes InStock from QtyInStock
func (m *MaterialItem) RefreshStock() {
	m.InStock = m.QtyInStock.GreaterThanOrEqual(m.RequiredAmount())
}

// CurrentProductionStatus returns the production status, treating unset as waiting
func (m *MaterialItem) CurrentProductionStatus() ProductionStatus {
	return m.ProductionStatus.Normalize()
}

// IsDone reports whether production on the item is finished
func (m *MaterialItem) IsDone() bool {
	return m.CurrentProductionStatus() == StatusDone
}

// Clone returns a deep copy of the item
func (m *MaterialItem) Clone() MaterialItem {
	c := *m
	if m.ProductionHistory != nil {
		c.ProductionHistory = make([]HistoryEntry, len(m.ProductionHistory))
		copy(c.ProductionHistory, m.ProductionHistory)
	}
	return c
}

// Matches reports whether the search term appears in any of the searchable fields
func (m *MaterialItem) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range []string{m.Name, m.Details, m.StockNumber, m.DrawingNumber, m.Observation} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// MaterialSuggestion is an estimated material line proposed for a set of project items
type MaterialSuggestion struct {
	Name     string          `json:"name"`
	Type     MaterialType    `json:"type"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}
