package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/infrastructure/report"
)

func TestLedgerService_ProductionQueue(t *testing.T) {
	f := newLedgerFixture(t)

	queue := f.svc.ProductionQueue()
	require.Len(t, queue, 2)

	assert.Equal(t, "p-pcp", queue[0].ProjectID, "a PCP project with a stocked sheet is listed")
	assert.Empty(t, queue[0].Bars, "short bars stay hidden before production")
	assert.Equal(t, 1, queue[0].SheetsInStock)

	assert.Equal(t, "p-prod", queue[1].ProjectID)
	assert.Len(t, queue[1].Bars, 2)
	assert.Equal(t, 50, queue[1].Progress)
}

func TestLedgerService_ChangeProductionStatus(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	result, err := f.svc.ChangeProductionStatus(ctx, "p-prod", dto.ProductionStatusInput{
		ItemID:    "b3",
		Status:    "CUTTING",
		Selection: []string{"b3", "b4"},
		User:      "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b3"}, result.Updated)
	assert.Equal(t, []string{"b4"}, result.Skipped, "done items are terminal")
	assert.True(t, result.SelectionCleared)

	b3, _ := f.persisted(t, "p-prod").Material("b3")
	assert.Equal(t, entities.ProductionStatus("CUTTING"), b3.ProductionStatus)
	require.Len(t, b3.ProductionHistory, 1)
	assert.Equal(t, "Ana", b3.ProductionHistory[0].User)

	_, err = f.svc.ChangeProductionStatus(ctx, "p-prod", dto.ProductionStatusInput{ItemID: "b3", Status: "GALVANIZING"})
	assert.ErrorIs(t, err, ErrUnknownProcess)
}

func TestLedgerService_BulkProductionStatus(t *testing.T) {
	f := newLedgerFixture(t)

	result, err := f.svc.BulkProductionStatus(context.Background(), "p-prod", []string{"b3", "b4"}, entities.StatusDone, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"b3"}, result.Updated)

	progress, err := f.svc.Progress("p-prod")
	require.NoError(t, err)
	assert.Equal(t, 100, progress)
}

func TestLedgerService_SplitBatch(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.svc.SplitBatch(ctx, "p-prod", "b3", false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	ids, err := f.svc.SplitBatch(ctx, "p-prod", "b3", true)
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	p := f.persisted(t, "p-prod")
	require.Len(t, p.Materials, 4)
	assert.Equal(t, ids[0], p.Materials[0].ID, "pieces replace the batch in place")
	assert.Equal(t, "b4", p.Materials[3].ID)

	ids, err = f.svc.SplitBatch(ctx, "p-prod", "b4", true)
	require.NoError(t, err)
	assert.Empty(t, ids, "single pieces cannot be split")
}

func TestLedgerService_ProcessPalette(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	proc, err := f.svc.AddProcess(ctx, dto.ProcessInput{Name: "Jato  de Areia", Color: "teal"})
	require.NoError(t, err)
	assert.Equal(t, "JATO_DE_AREIA", proc.ID)
	assert.Equal(t, entities.ColorBlue, proc.Color)

	_, err = f.svc.AddProcess(ctx, dto.ProcessInput{Name: "jato de areia"})
	assert.ErrorIs(t, err, ErrProcessExists)

	stored, err := f.repo.LoadPalette(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 6)

	_, err = f.svc.ChangeProductionStatus(ctx, "p-prod", dto.ProductionStatusInput{ItemID: "b3", Status: "JATO_DE_AREIA"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.RemoveProcess(ctx, "JATO_DE_AREIA", false), ErrConfirmationRequired)
	require.NoError(t, f.svc.RemoveProcess(ctx, "JATO_DE_AREIA", true))
	assert.ErrorIs(t, f.svc.RemoveProcess(ctx, "JATO_DE_AREIA", true), ErrProcessNotFound)

	b3, _ := f.persisted(t, "p-prod").Material("b3")
	assert.Equal(t, entities.ProductionStatus("JATO_DE_AREIA"), b3.ProductionStatus, "removing a process leaves items alone")
}

func TestLedgerService_Label(t *testing.T) {
	f := newLedgerFixture(t)

	label, err := f.svc.Label("p-prod", "b3")
	require.NoError(t, err)
	assert.Equal(t, "OP:OP-1004|ITEM:b3|NOME:Viga U 4|DES:", label.Payload())

	var buf bytes.Buffer
	require.NoError(t, report.WriteLabelPNG(&buf, *label))
	assert.NotZero(t, buf.Len())

	_, err = f.svc.Label("p-prod", "zz")
	assert.ErrorIs(t, err, ErrMaterialNotFound)
}

func TestLedgerService_Dashboard(t *testing.T) {
	f := newLedgerFixture(t)

	d := f.svc.Dashboard()
	assert.Equal(t, 4, d.TotalProjects)
	assert.Equal(t, 1, d.InProduction)
	assert.Equal(t, 1, d.WaitingPurchasing)
	assert.Equal(t, 1, d.InCommercial)
	assert.Equal(t, 0, d.CompletedThisMonth)
	assert.Len(t, d.ByStatus, len(entities.AllProjectStatuses))
	assert.Len(t, d.RecentProjects, 4)

	_, err := f.svc.ApplyTransition(context.Background(), "p-prod", "complete", true)
	require.NoError(t, err)
	assert.Equal(t, 1, f.svc.Dashboard().CompletedThisMonth)
}
