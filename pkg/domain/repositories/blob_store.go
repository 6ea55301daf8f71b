package repositories

import (
	"context"
	"errors"
)

// Storage keys for the persisted documents
const (
	KeyProjects   = "metal_erp_projects"
	KeyProcesses  = "production_processes"
	KeyJobHistory = "worktrack_history"
	KeyActiveJobs = "worktrack_active_jobs"
	KeyEmployees  = "worktrack_employees"
	KeyMachines   = "worktrack_machines"
)

// AllKeys lists every persisted document key
var AllKeys = []string{KeyProjects, KeyProcesses, KeyJobHistory, KeyActiveJobs, KeyEmployees, KeyMachines}

// ErrStoreClosed is returned by stores used after Close
var ErrStoreClosed = errors.New("store closed")

// BlobStore persists whole JSON documents under string keys.
// Save overwrites the full value; there are no partial updates.
type BlobStore interface {
	Save(ctx context.Context, key, value string) error
	// Load returns ok=false when the key was never written
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Close() error
}
