package document

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/domain/repositories"
	"github.com/vsinha/metalerp/pkg/infrastructure/repositories/kv"
	"github.com/vsinha/metalerp/pkg/infrastructure/seed"
)

func newRepo(t *testing.T) (*Repository, *kv.MemoryStore) {
	t.Helper()
	store := kv.NewMemoryStore()
	return NewRepository(store, seed.MustDefaultLedger), store
}

func TestLoadLedger_FallsBackToSeed(t *testing.T) {
	repo, _ := newRepo(t)

	ledger, err := repo.LoadLedger(context.Background())
	require.NoError(t, err)
	assert.Len(t, ledger.Projects, 3)
	assert.Equal(t, "0831-25", ledger.Projects[0].OPNumber)
}

func TestLoadLedger_MalformedFallsBackToSeed(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, repositories.KeyProjects, "{not json"))

	ledger, err := repo.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Len(t, ledger.Projects, 3)
}

func TestLedger_RoundTripKeepsWireFormat(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	item, err := entities.NewMaterialItem("m9", "Barra chata", entities.MaterialBar, decimal.NewFromInt(4), "pç")
	require.NoError(t, err)
	item.SetCutLength(decimal.NewFromInt(1500))
	item.RecalculateLength()

	ledger := &entities.Ledger{Projects: []entities.Project{{
		ID:        "p1",
		OPNumber:  "OP-9",
		Client:    "ACME",
		Status:    entities.StatusPurchasing,
		Items:     []entities.ProjectItem{{ID: "i1", Description: "Suporte", Quantity: decimal.NewFromInt(2)}},
		Materials: []entities.MaterialItem{*item},
	}}}
	require.NoError(t, repo.SaveLedger(ctx, ledger))

	raw, ok, err := store.Load(ctx, repositories.KeyProjects)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"status":"COMPRAS"`)
	assert.Contains(t, raw, `"type":"BARRA"`)
	assert.Contains(t, raw, `"totalLengthCalc":6016`)

	loaded, err := repo.LoadLedger(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Projects, 1)
	m := loaded.Projects[0].Materials[0]
	assert.True(t, m.TotalLengthCalc.Decimal.Equal(decimal.NewFromInt(6016)))
	assert.Equal(t, entities.MaterialBar, m.Type)
}

func TestLoadLedger_EmptyListStaysEmpty(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveLedger(ctx, &entities.Ledger{}))

	ledger, err := repo.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, ledger.Projects)
}

func TestPalette(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	palette, err := repo.LoadPalette(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.Palette(entities.DefaultProcesses()), palette)

	require.NoError(t, repo.SavePalette(ctx, entities.Palette{}))
	palette, err = repo.LoadPalette(ctx)
	require.NoError(t, err)
	assert.Empty(t, palette)

	require.NoError(t, store.Save(ctx, repositories.KeyProcesses, "[[["))
	palette, err = repo.LoadPalette(ctx)
	require.NoError(t, err)
	assert.Len(t, palette, len(entities.DefaultProcesses()))
}

func TestTimesheet(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	ts, err := repo.LoadTimesheet(ctx)
	require.NoError(t, err)
	assert.Empty(t, ts.History)
	assert.Empty(t, ts.ActiveJobs)

	record := entities.JobRecord{
		JobData:   entities.JobData{Employee: "Ana", OPNumber: "OP-1", Machine: "Torno", ServiceType: "Solda"},
		ID:        "r1",
		StartTime: 1000,
		EndTime:   61000,
		Date:      "2025-11-20",
	}
	record.Recompute()
	require.NoError(t, repo.SaveHistory(ctx, []entities.JobRecord{record}))
	require.NoError(t, repo.SaveEmployees(ctx, entities.Roster{"Ana"}))
	require.NoError(t, repo.SaveMachines(ctx, entities.Roster{"Torno"}))
	require.NoError(t, repo.SaveActiveJobs(ctx, []entities.ActiveJob{{ID: "a1", Data: record.JobData, StartTime: 5}}))

	raw, _, err := store.Load(ctx, repositories.KeyJobHistory)
	require.NoError(t, err)
	assert.Contains(t, raw, `"funcionario":"Ana"`)

	ts, err = repo.LoadTimesheet(ctx)
	require.NoError(t, err)
	require.Len(t, ts.History, 1)
	assert.Equal(t, int64(60), ts.History[0].DurationSeconds)
	assert.Equal(t, entities.Roster{"Ana"}, ts.Employees)
	assert.Equal(t, entities.Roster{"Torno"}, ts.Machines)
	assert.Len(t, ts.ActiveJobs, 1)

	require.NoError(t, store.Save(ctx, repositories.KeyMachines, "oops"))
	ts, err = repo.LoadTimesheet(ctx)
	require.NoError(t, err)
	assert.Empty(t, ts.Machines)
}
