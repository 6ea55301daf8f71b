package dto

import (
	"github.com/vsinha/metalerp/pkg/domain/entities"
)

// RecordFilter narrows the job history. Empty fields match everything.
type RecordFilter struct {
	Employee    string `form:"employee" json:"employee"`
	Machine     string `form:"machine" json:"machine"`
	ServiceType string `form:"serviceType" json:"serviceType"`
	Client      string `form:"client" json:"client"`
}

// Matches applies exact matching on employee, machine and service type and
// a case-insensitive substring match on client
func (f RecordFilter) Matches(r *entities.JobRecord) bool {
	if f.Employee != "" && r.Employee != f.Employee {
		return false
	}
	if f.Machine != "" && r.Machine != f.Machine {
		return false
	}
	if f.ServiceType != "" && r.ServiceType != f.ServiceType {
		return false
	}
	if f.Client != "" && !containsFold(r.Client, f.Client) {
		return false
	}
	return true
}

// RecordUpdate carries editable record fields; nil fields are left unchanged
type RecordUpdate struct {
	Employee    *string          `json:"funcionario"`
	OPNumber    *string          `json:"op"`
	Drawing     *string          `json:"desenho"`
	Client      *string          `json:"cliente"`
	Machine     *string          `json:"maquina"`
	ServiceType *string          `json:"serviceType"`
	StartTime   *entities.Millis `json:"startTime"`
	EndTime     *entities.Millis `json:"endTime"`
}

// ActiveJobView is a running job with its elapsed time
type ActiveJobView struct {
	entities.ActiveJob
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	Elapsed        string `json:"elapsed"`
}
