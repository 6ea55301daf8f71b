package services

import (
	"fmt"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

// MaterialValidator checks a bill of materials for structural problems
type MaterialValidator struct{}

// NewMaterialValidator creates a new material validator
func NewMaterialValidator() *MaterialValidator {
	return &MaterialValidator{}
}

// ValidationResult contains the results of material validation
type ValidationResult struct {
	DuplicateIDs    []string
	LengthMismatch  []string
	StockMismatch   []string
	InvalidTypes    []string
	UnknownStatuses []string
	Errors          []string
}

// Valid reports whether no problems were found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate checks ids are unique, types are known, and derived length and stock
// figures agree with the kerf and stock rules. palette may be nil to skip status checks.
func (v *MaterialValidator) Validate(materials []entities.MaterialItem, palette entities.Palette) *ValidationResult {
	result := &ValidationResult{
		DuplicateIDs:    make([]string, 0),
		LengthMismatch:  make([]string, 0),
		StockMismatch:   make([]string, 0),
		InvalidTypes:    make([]string, 0),
		UnknownStatuses: make([]string, 0),
		Errors:          make([]string, 0),
	}

	seen := make(map[string]bool, len(materials))
	for i := range materials {
		m := materials[i]

		if seen[m.ID] {
			result.DuplicateIDs = append(result.DuplicateIDs, m.ID)
		}
		seen[m.ID] = true

		if !m.Type.Valid() {
			result.InvalidTypes = append(result.InvalidTypes, m.ID)
		}

		if m.Type == entities.MaterialBar && m.HasCutLength() {
			expected := m
			expected.RecalculateLength()
			if !m.TotalLengthCalc.Valid || !m.TotalLengthCalc.Decimal.Equal(expected.TotalLengthCalc.Decimal) {
				result.LengthMismatch = append(result.LengthMismatch, m.ID)
			}
		}

		if m.PurchaseStatus != entities.PurchaseDelivered && m.ProductionStatus == "" {
			expected := m
			expected.RefreshStock()
			if expected.InStock != m.InStock {
				result.StockMismatch = append(result.StockMismatch, m.ID)
			}
		}

		if palette != nil && !palette.Allows(m.ProductionStatus) {
			result.UnknownStatuses = append(result.UnknownStatuses, m.ID)
		}
	}

	if len(result.DuplicateIDs) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d duplicate material ids: %v", len(result.DuplicateIDs), result.DuplicateIDs))
	}
	if len(result.InvalidTypes) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d materials with an unknown type: %v", len(result.InvalidTypes), result.InvalidTypes))
	}
	if len(result.LengthMismatch) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d bars whose total length disagrees with the kerf rule: %v", len(result.LengthMismatch), result.LengthMismatch))
	}
	if len(result.StockMismatch) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d materials whose stock flag disagrees with the counted stock: %v", len(result.StockMismatch), result.StockMismatch))
	}
	if len(result.UnknownStatuses) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d materials in a process missing from the palette: %v", len(result.UnknownStatuses), result.UnknownStatuses))
	}

	return result
}
