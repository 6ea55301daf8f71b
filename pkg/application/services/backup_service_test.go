package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/domain/repositories"
	"github.com/vsinha/metalerp/pkg/infrastructure/events"
	"github.com/vsinha/metalerp/pkg/infrastructure/repositories/kv"
	testhelpers "github.com/vsinha/metalerp/pkg/infrastructure/testing"
)

type backupFixture struct {
	store     *kv.MemoryStore
	ledger    *LedgerService
	timesheet *TimesheetService
	backup    *BackupService
}

func newBackupFixture(t *testing.T) *backupFixture {
	t.Helper()
	ctx := context.Background()
	repo, store := testhelpers.NewDocumentRepository(testhelpers.BuildFabricationLedger())
	opts := Options{Now: testhelpers.FixedClock(testhelpers.FixtureTime), Events: events.NewInMemoryEventStore()}

	ledger, err := NewLedgerService(ctx, repo, opts)
	require.NoError(t, err)
	timesheet, err := NewTimesheetService(ctx, repo, nil, opts)
	require.NoError(t, err)
	return &backupFixture{
		store:     store,
		ledger:    ledger,
		timesheet: timesheet,
		backup:    NewBackupService(store, ledger, timesheet, opts),
	}
}

func TestBackupService_ExportRawDocuments(t *testing.T) {
	f := newBackupFixture(t)
	ctx := context.Background()

	_, err := f.timesheet.AddEmployee(ctx, "Ana")
	require.NoError(t, err)
	require.NoError(t, f.ledger.DeleteProject(ctx, "p-com", true))

	bundle, err := f.backup.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.BackupVersion, bundle.Version)
	assert.Equal(t, "2025-11-20T14:30:00.000Z", bundle.Date)
	require.NotNil(t, bundle.Projects)
	require.NotNil(t, bundle.Employees)
	assert.JSONEq(t, `["Ana"]`, *bundle.Employees)
	assert.Nil(t, bundle.Machines, "never written keys are null")

	raw, _, err := f.store.Load(ctx, repositories.KeyProjects)
	require.NoError(t, err)
	assert.Equal(t, raw, *bundle.Projects)
}

func TestBackupService_RestoreRoundTrip(t *testing.T) {
	f := newBackupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ledger.DeleteProject(ctx, "p-com", true))
	data, err := f.backup.ExportJSON(ctx)
	require.NoError(t, err)

	require.NoError(t, f.ledger.DeleteProject(ctx, "p-pcp", true))
	assert.Len(t, f.ledger.Projects(), 2)

	assert.ErrorIs(t, f.backup.Restore(ctx, data, false), ErrConfirmationRequired)
	assert.Len(t, f.ledger.Projects(), 2)

	require.NoError(t, f.backup.Restore(ctx, data, true))
	assert.Len(t, f.ledger.Projects(), 3)
	_, err = f.ledger.Project("p-pcp")
	assert.NoError(t, err)
}

func TestBackupService_RestoreRejectsMissingVersion(t *testing.T) {
	f := newBackupFixture(t)
	ctx := context.Background()

	data, err := json.Marshal(map[string]string{"projects": "[]"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.backup.Restore(ctx, data, true), ErrInvalidBackup)
	assert.ErrorIs(t, f.backup.Restore(ctx, []byte("not json"), true), ErrInvalidBackup)
	assert.Len(t, f.ledger.Projects(), 4, "nothing written")
}

func TestBackupService_Reset(t *testing.T) {
	f := newBackupFixture(t)
	ctx := context.Background()

	_, err := f.timesheet.AddEmployee(ctx, "Ana")
	require.NoError(t, err)

	assert.ErrorIs(t, f.backup.Reset(ctx, false), ErrConfirmationRequired)
	require.NoError(t, f.backup.Reset(ctx, true))

	assert.Empty(t, f.ledger.Projects())
	assert.Empty(t, f.ledger.Palette())
	assert.Equal(t, entities.Roster{"Ana"}, f.timesheet.Employees(), "rosters survive a reset")
}
