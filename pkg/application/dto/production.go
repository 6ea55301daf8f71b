package dto

import (
	"github.com/vsinha/metalerp/pkg/domain/entities"
)

// ProductionProject is one project in the production queue
type ProductionProject struct {
	ProjectID     string                  `json:"projectId"`
	OPNumber      string                  `json:"opNumber"`
	Client        string                  `json:"client"`
	Description   string                  `json:"description"`
	Status        entities.ProjectStatus  `json:"status"`
	Progress      int                     `json:"progress"`
	ReadyToStart  bool                    `json:"readyToStart"`
	Bars          []entities.MaterialItem `json:"bars"`
	SheetsInStock int                     `json:"sheetsInStock"`
}

// ProductionStatusInput changes the status of one item, optionally broadcasting to a selection
type ProductionStatusInput struct {
	ItemID    string   `json:"itemId" validate:"required"`
	Status    string   `json:"status" validate:"required"`
	Selection []string `json:"selection"`
	User      string   `json:"user"`
}

// ProcessInput adds a production process to the palette
type ProcessInput struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}
