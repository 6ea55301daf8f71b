package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

// ProjectInput carries the commercial fields of a project
type ProjectInput struct {
	OPNumber         string             `json:"opNumber" validate:"required"`
	Client           string             `json:"client" validate:"required"`
	Description      string             `json:"description"`
	ImplantationDate string             `json:"implantationDate"`
	Items            []ProjectItemInput `json:"items" validate:"required,min=1,dive"`
}

type ProjectItemInput struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// MaterialInput is a manually entered material line
type MaterialInput struct {
	Name          string          `json:"name" validate:"required"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	QtyInStock    decimal.Decimal `json:"qtyInStock"`
	LengthMm      decimal.Decimal `json:"lengthMm"`
	AssignedTo    string          `json:"assignedTo"`
	StockNumber   string          `json:"stockNumber"`
	DrawingNumber string          `json:"drawingNumber"`
	Details       string          `json:"details"`
	Material      string          `json:"material"`
	Observation   string          `json:"observation"`
}

// TransitionOutcome is returned by pipeline actions
type TransitionOutcome struct {
	ProjectID string                 `json:"projectId"`
	Action    string                 `json:"action"`
	From      entities.ProjectStatus `json:"from"`
	To        entities.ProjectStatus `json:"to"`
	Applied   bool                   `json:"applied"`
	Progress  *int                   `json:"progress,omitempty"`
}
