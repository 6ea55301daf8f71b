package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/domain/repositories"
	"github.com/vsinha/metalerp/pkg/infrastructure/events"
	"github.com/vsinha/metalerp/pkg/infrastructure/repositories/csv"
)

const recordDateLayout = "2006-01-02T15:04:05.000Z"

// TimesheetService runs the labor stopwatch and keeps the job history
type TimesheetService struct {
	mu     sync.Mutex
	repo   repositories.TimesheetRepository
	sheet  *entities.Timesheet
	loc    *time.Location
	now    func() time.Time
	newID  func() string
	events events.EventStore
}

// NewTimesheetService loads the timesheet documents from repo.
// loc is the shop's local time zone used by the CSV export.
func NewTimesheetService(ctx context.Context, repo repositories.TimesheetRepository, loc *time.Location, opts Options) (*TimesheetService, error) {
	opts = opts.withDefaults()
	if loc == nil {
		loc = time.UTC
	}
	s := &TimesheetService{repo: repo, loc: loc, now: opts.Now, newID: opts.NewID, events: opts.Events}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the cached timesheet with the persisted documents
func (s *TimesheetService) Reload(ctx context.Context) error {
	sheet, err := s.repo.LoadTimesheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to load timesheet: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheet = sheet
	return nil
}

func (s *TimesheetService) emit(eventType string, data interface{}) {
	if err := s.events.AppendEvent(events.TimesheetStream, events.NewEvent(eventType, events.TimesheetStream, data, s.now())); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("failed to record event")
	}
}

// Employees returns the sorted employee roster
func (s *TimesheetService) Employees() entities.Roster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(entities.Roster{}, s.sheet.Employees...)
}

// Machines returns the sorted machine roster
func (s *TimesheetService) Machines() entities.Roster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(entities.Roster{}, s.sheet.Machines...)
}

// AddEmployee registers an employee; blank and duplicate names are ignored
func (s *TimesheetService) AddEmployee(ctx context.Context, name string) (entities.Roster, error) {
	return s.updateRoster(ctx, employees, s.repo.SaveEmployees, func(r entities.Roster) entities.Roster { return r.Add(name) })
}

// RemoveEmployee drops an employee from the roster
func (s *TimesheetService) RemoveEmployee(ctx context.Context, name string) (entities.Roster, error) {
	return s.updateRoster(ctx, employees, s.repo.SaveEmployees, func(r entities.Roster) entities.Roster { return r.Remove(name) })
}

// AddMachine registers a machine; blank and duplicate names are ignored
func (s *TimesheetService) AddMachine(ctx context.Context, name string) (entities.Roster, error) {
	return s.updateRoster(ctx, machines, s.repo.SaveMachines, func(r entities.Roster) entities.Roster { return r.Add(name) })
}

// RemoveMachine drops a machine from the roster
func (s *TimesheetService) RemoveMachine(ctx context.Context, name string) (entities.Roster, error) {
	return s.updateRoster(ctx, machines, s.repo.SaveMachines, func(r entities.Roster) entities.Roster { return r.Remove(name) })
}

func employees(ts *entities.Timesheet) *entities.Roster { return &ts.Employees }

func machines(ts *entities.Timesheet) *entities.Roster { return &ts.Machines }

func (s *TimesheetService) updateRoster(ctx context.Context, pick func(*entities.Timesheet) *entities.Roster, save func(context.Context, entities.Roster) error, fn func(entities.Roster) entities.Roster) (entities.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roster := pick(s.sheet)
	next := fn(*roster)
	if err := save(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to persist roster: %w", err)
	}
	*roster = next
	return append(entities.Roster{}, next...), nil
}

// StartJob starts a stopwatch. Several jobs may run at once.
func (s *TimesheetService) StartJob(ctx context.Context, data entities.JobData) (*entities.ActiveJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sheet.Employees) == 0 || len(s.sheet.Machines) == 0 {
		return nil, ErrRosterEmpty
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	job := entities.ActiveJob{ID: s.newID(), Data: data, StartTime: entities.MillisOf(s.now())}
	next := append(append([]entities.ActiveJob{}, s.sheet.ActiveJobs...), job)
	if err := s.repo.SaveActiveJobs(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to persist active jobs: %w", err)
	}
	s.sheet.ActiveJobs = next

	log.Info().Str("job_id", job.ID).Str("employee", data.Employee).Str("op", data.OPNumber).Msg("job started")
	s.emit(events.JobStartedEvent, events.JobEvent{JobID: job.ID, Employee: data.Employee, OPNumber: data.OPNumber})
	return &job, nil
}

// StopJob stops a running job and logs it at the head of the history
func (s *TimesheetService) StopJob(ctx context.Context, id string) (*entities.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, job := range s.sheet.ActiveJobs {
		if job.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	now := s.now()
	job := s.sheet.ActiveJobs[idx]
	record := entities.JobRecord{
		JobData:   job.Data,
		ID:        job.ID,
		StartTime: job.StartTime,
		EndTime:   entities.MillisOf(now),
		Date:      now.UTC().Format(recordDateLayout),
	}
	record.Recompute()

	history := append([]entities.JobRecord{record}, s.sheet.History...)
	active := make([]entities.ActiveJob, 0, len(s.sheet.ActiveJobs)-1)
	active = append(active, s.sheet.ActiveJobs[:idx]...)
	active = append(active, s.sheet.ActiveJobs[idx+1:]...)

	if err := s.repo.SaveHistory(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to persist job history: %w", err)
	}
	if err := s.repo.SaveActiveJobs(ctx, active); err != nil {
		if rbErr := s.repo.SaveHistory(ctx, s.sheet.History); rbErr != nil {
			log.Error().Err(rbErr).Str("job_id", id).Msg("failed to roll back job history")
		}
		return nil, fmt.Errorf("failed to persist active jobs: %w", err)
	}
	s.sheet.History = history
	s.sheet.ActiveJobs = active

	log.Info().Str("job_id", id).Int64("duration_seconds", record.DurationSeconds).Msg("job stopped")
	s.emit(events.JobStoppedEvent, events.JobEvent{JobID: id, Employee: record.Employee, OPNumber: record.OPNumber})
	return &record, nil
}

// ActiveJobs lists the running jobs with their elapsed time
func (s *TimesheetService) ActiveJobs() []dto.ActiveJobView {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := entities.MillisOf(s.now())
	out := make([]dto.ActiveJobView, 0, len(s.sheet.ActiveJobs))
	for _, job := range s.sheet.ActiveJobs {
		elapsed := entities.DurationBetween(job.StartTime, now)
		out = append(out, dto.ActiveJobView{ActiveJob: job, ElapsedSeconds: elapsed, Elapsed: entities.FormatDuration(elapsed)})
	}
	return out
}

// Records returns the history entries matching filter, newest first
func (s *TimesheetService) Records(filter dto.RecordFilter) []entities.JobRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []entities.JobRecord{}
	for i := range s.sheet.History {
		if filter.Matches(&s.sheet.History[i]) {
			out = append(out, s.sheet.History[i])
		}
	}
	return out
}

// UpdateRecord edits a logged job and recomputes its duration
func (s *TimesheetService) UpdateRecord(ctx context.Context, id string, changes dto.RecordUpdate) (*entities.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append([]entities.JobRecord{}, s.sheet.History...)
	idx := recordIndex(history, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}

	r := &history[idx]
	setIf(&r.Employee, changes.Employee)
	setIf(&r.OPNumber, changes.OPNumber)
	setIf(&r.Drawing, changes.Drawing)
	setIf(&r.Client, changes.Client)
	setIf(&r.Machine, changes.Machine)
	setIf(&r.ServiceType, changes.ServiceType)
	if changes.StartTime != nil {
		r.StartTime = *changes.StartTime
	}
	if changes.EndTime != nil {
		r.EndTime = *changes.EndTime
	}
	r.Recompute()

	if err := s.repo.SaveHistory(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to persist job history: %w", err)
	}
	s.sheet.History = history
	updated := *r
	return &updated, nil
}

// DeleteRecord removes a logged job
func (s *TimesheetService) DeleteRecord(ctx context.Context, id string, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := recordIndex(s.sheet.History, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	history := make([]entities.JobRecord, 0, len(s.sheet.History)-1)
	history = append(history, s.sheet.History[:idx]...)
	history = append(history, s.sheet.History[idx+1:]...)
	if err := s.repo.SaveHistory(ctx, history); err != nil {
		return fmt.Errorf("failed to persist job history: %w", err)
	}
	s.sheet.History = history
	log.Info().Str("record_id", id).Msg("job record deleted")
	return nil
}

// ExportCSV writes the filtered history as a spreadsheet-friendly CSV
func (s *TimesheetService) ExportCSV(w io.Writer, filter dto.RecordFilter) error {
	records := s.Records(filter)
	if len(records) == 0 {
		return ErrNoEligibleRecords
	}
	return csv.WriteJobRecords(w, records, s.loc)
}

func recordIndex(history []entities.JobRecord, id string) int {
	for i := range history {
		if history[i].ID == id {
			return i
		}
	}
	return -1
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
