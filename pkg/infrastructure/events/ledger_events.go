package events

import (
	"github.com/vsinha/metalerp/pkg/domain/entities"
)

const (
	ProjectCreatedEvent       = "project.created"
	ProjectUpdatedEvent       = "project.updated"
	ProjectDeletedEvent       = "project.deleted"
	ProjectStatusChangedEvent = "project.status_changed"

	MaterialsReplacedEvent     = "materials.replaced"
	MaterialStockSetEvent      = "material.stock_set"
	PurchaseRequestedEvent     = "purchase.requested"
	PurchaseStatusChangedEvent = "purchase.status_changed"

	ProductionStatusChangedEvent = "production.status_changed"
	BatchSplitEvent              = "production.batch_split"

	JobStartedEvent = "timesheet.job_started"
	JobStoppedEvent = "timesheet.job_stopped"

	LedgerRestoredEvent = "ledger.restored"
	LedgerResetEvent    = "ledger.reset"
)

// TimesheetStream is the stream id used for labor tracking events
const TimesheetStream = "timesheet"

// LedgerStream is the stream id used for whole-ledger events
const LedgerStream = "ledger"

type ProjectChanged struct {
	OPNumber string `json:"opNumber"`
	Client   string `json:"client"`
}

type ProjectStatusChanged struct {
	Transition string                 `json:"transition"`
	From       entities.ProjectStatus `json:"from"`
	To         entities.ProjectStatus `json:"to"`
}

type MaterialsReplaced struct {
	Count int `json:"count"`
}

type MaterialStockSet struct {
	MaterialID string `json:"materialId"`
	Quantity   string `json:"quantity"`
	InStock    bool   `json:"inStock"`
}

type PurchaseRequested struct {
	MaterialIDs []string `json:"materialIds"`
}

type PurchaseStatusChanged struct {
	MaterialIDs []string                `json:"materialIds"`
	Status      entities.PurchaseStatus `json:"status"`
}

type ProductionStatusChanged struct {
	MaterialIDs []string                  `json:"materialIds"`
	Status      entities.ProductionStatus `json:"status"`
	User        string                    `json:"user"`
}

type BatchSplit struct {
	MaterialID string   `json:"materialId"`
	NewIDs     []string `json:"newIds"`
}

type JobEvent struct {
	JobID    string `json:"jobId"`
	Employee string `json:"employee"`
	OPNumber string `json:"op"`
}

type LedgerReplaced struct {
	Projects int `json:"projects"`
}
