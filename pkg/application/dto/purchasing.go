package dto

import (
	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/domain/services"
)

// PurchasingProject is one project in the purchasing queue with its relevant items grouped by type
type PurchasingProject struct {
	ProjectID    string                   `json:"projectId"`
	OPNumber     string                   `json:"opNumber"`
	Client       string                   `json:"client"`
	Status       entities.ProjectStatus   `json:"status"`
	Bars         []services.MaterialGroup `json:"bars"`
	Sheets       []services.MaterialGroup `json:"sheets"`
	Commercial   []services.MaterialGroup `json:"commercial"`
	MissingCount int                      `json:"missingCount"`
}

// BulkStatusInput applies one purchase status to many items across projects
type BulkStatusInput struct {
	IDs              []string                `json:"ids" validate:"required,min=1"`
	Status           entities.PurchaseStatus `json:"status" validate:"required"`
	DeliveryForecast string                  `json:"deliveryForecast"`
}

// BulkResult reports how many items an action touched
type BulkResult struct {
	Updated int  `json:"updated"`
	Applied bool `json:"applied"`
}
