package repositories

import (
	"context"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

// TimesheetRepository provides access to labor tracking documents
type TimesheetRepository interface {
	LoadTimesheet(ctx context.Context) (*entities.Timesheet, error)
	SaveHistory(ctx context.Context, history []entities.JobRecord) error
	SaveActiveJobs(ctx context.Context, jobs []entities.ActiveJob) error
	SaveEmployees(ctx context.Context, employees entities.Roster) error
	SaveMachines(ctx context.Context, machines entities.Roster) error
}
