package dto

import (
	"github.com/vsinha/metalerp/pkg/domain/entities"
)

// Dashboard summarizes the ledger
type Dashboard struct {
	TotalProjects      int                            `json:"totalProjects"`
	ByStatus           map[entities.ProjectStatus]int `json:"byStatus"`
	InProduction       int                            `json:"inProduction"`
	WaitingPurchasing  int                            `json:"waitingPurchasing"`
	InCommercial       int                            `json:"inCommercial"`
	CompletedThisMonth int                            `json:"completedThisMonth"`
	RecentProjects     []ProjectSummary               `json:"recentProjects"`
}

// ProjectSummary is a compact project row
type ProjectSummary struct {
	ID          string                 `json:"id"`
	OPNumber    string                 `json:"opNumber"`
	Client      string                 `json:"client"`
	Description string                 `json:"description"`
	Status      entities.ProjectStatus `json:"status"`
	Materials   int                    `json:"materials"`
	Missing     int                    `json:"missing"`
	Progress    int                    `json:"progress"`
}
