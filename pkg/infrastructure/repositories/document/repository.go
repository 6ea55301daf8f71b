package document

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/domain/repositories"
)

// Repository maps the ledger, palette and timesheet documents onto a blob store.
// Documents that fail to decode fall back to defaults instead of erroring.
type Repository struct {
	store    repositories.BlobStore
	defaults func() *entities.Ledger
}

var numericDecimals sync.Once

// UseNumericDecimals makes decimals marshal as plain JSON numbers, the format
// stored documents and backups use. It flips a process wide decimal setting,
// so composition roots call it at startup.
func UseNumericDecimals() {
	numericDecimals.Do(func() { decimal.MarshalJSONWithoutQuotes = true })
}

// NewRepository creates a document repository; defaults supplies the initial ledger.
// Calls UseNumericDecimals.
func NewRepository(store repositories.BlobStore, defaults func() *entities.Ledger) *Repository {
	UseNumericDecimals()
	if defaults == nil {
		defaults = func() *entities.Ledger { return &entities.Ledger{Projects: []entities.Project{}} }
	}
	return &Repository{store: store, defaults: defaults}
}

// Verify interface compliance
var (
	_ repositories.LedgerRepository    = (*Repository)(nil)
	_ repositories.TimesheetRepository = (*Repository)(nil)
)

// LoadLedger loads the project ledger, falling back to the defaults when absent or malformed
func (r *Repository) LoadLedger(ctx context.Context) (*entities.Ledger, error) {
	var projects []entities.Project
	found, err := r.load(ctx, repositories.KeyProjects, &projects)
	if err != nil {
		return nil, err
	}
	if !found || projects == nil {
		return r.defaults(), nil
	}
	for i := range projects {
		if projects[i].Materials == nil {
			projects[i].Materials = []entities.MaterialItem{}
		}
	}
	return &entities.Ledger{Projects: projects}, nil
}

// SaveLedger overwrites the whole project document
func (r *Repository) SaveLedger(ctx context.Context, ledger *entities.Ledger) error {
	projects := ledger.Projects
	if projects == nil {
		projects = []entities.Project{}
	}
	return r.save(ctx, repositories.KeyProjects, projects)
}

// LoadPalette loads the process palette. A stored empty palette stays empty.
func (r *Repository) LoadPalette(ctx context.Context) (entities.Palette, error) {
	var palette entities.Palette
	found, err := r.load(ctx, repositories.KeyProcesses, &palette)
	if err != nil {
		return nil, err
	}
	if !found || palette == nil {
		return entities.Palette(entities.DefaultProcesses()), nil
	}
	return palette, nil
}

// SavePalette overwrites the process palette document
func (r *Repository) SavePalette(ctx context.Context, palette entities.Palette) error {
	if palette == nil {
		palette = entities.Palette{}
	}
	return r.save(ctx, repositories.KeyProcesses, palette)
}

// LoadTimesheet loads the four labor tracking documents; missing ones are empty
func (r *Repository) LoadTimesheet(ctx context.Context) (*entities.Timesheet, error) {
	ts := &entities.Timesheet{}
	targets := []struct {
		key  string
		dest interface{}
	}{
		{repositories.KeyJobHistory, &ts.History},
		{repositories.KeyActiveJobs, &ts.ActiveJobs},
		{repositories.KeyEmployees, &ts.Employees},
		{repositories.KeyMachines, &ts.Machines},
	}
	for _, target := range targets {
		if _, err := r.load(ctx, target.key, target.dest); err != nil {
			return nil, err
		}
	}
	if ts.History == nil {
		ts.History = []entities.JobRecord{}
	}
	if ts.ActiveJobs == nil {
		ts.ActiveJobs = []entities.ActiveJob{}
	}
	return ts, nil
}

// SaveHistory overwrites the job history document
func (r *Repository) SaveHistory(ctx context.Context, history []entities.JobRecord) error {
	if history == nil {
		history = []entities.JobRecord{}
	}
	return r.save(ctx, repositories.KeyJobHistory, history)
}

// SaveActiveJobs overwrites the running jobs document
func (r *Repository) SaveActiveJobs(ctx context.Context, jobs []entities.ActiveJob) error {
	if jobs == nil {
		jobs = []entities.ActiveJob{}
	}
	return r.save(ctx, repositories.KeyActiveJobs, jobs)
}

// SaveEmployees overwrites the employee roster
func (r *Repository) SaveEmployees(ctx context.Context, employees entities.Roster) error {
	if employees == nil {
		employees = entities.Roster{}
	}
	return r.save(ctx, repositories.KeyEmployees, employees)
}

// SaveMachines overwrites the machine roster
func (r *Repository) SaveMachines(ctx context.Context, machines entities.Roster) error {
	if machines == nil {
		machines = entities.Roster{}
	}
	return r.save(ctx, repositories.KeyMachines, machines)
}

// load decodes key into dest. Malformed documents are logged and reported as not found.
func (r *Repository) load(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok, err := r.store.Load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("malformed document, using defaults")
		return false, nil
	}
	return true, nil
}

func (r *Repository) save(ctx context.Context, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.store.Save(ctx, key, string(b)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
