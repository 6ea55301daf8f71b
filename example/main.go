package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/application/services"
	domain "github.com/vsinha/metalerp/pkg/domain/services"
	"github.com/vsinha/metalerp/pkg/infrastructure/repositories/document"
	"github.com/vsinha/metalerp/pkg/infrastructure/repositories/kv"
	"github.com/vsinha/metalerp/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()

	// Empty in-memory ledger
	repo := document.NewRepository(kv.NewMemoryStore(), nil)
	ledger, err := services.NewLedgerService(ctx, repo, services.Options{})
	if err != nil {
		fmt.Printf("❌ failed to load ledger: %v\n", err)
		return
	}
	reports := services.NewReportService(ledger, services.Options{})

	fmt.Println("🏗️  Registering a mezzanine order...")
	project, err := ledger.CreateProject(ctx, dto.ProjectInput{
		OPNumber:    "OP-2040",
		Client:      "Metalúrgica Sul",
		Description: "Mezanino 6x4m",
		Items:       []dto.ProjectItemInput{{Description: "Mezanino estrutural", Quantity: decimal.NewFromInt(1)}},
	})
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	for _, t := range []domain.Transition{domain.SendToEngineering, domain.ReleaseToPCP} {
		if _, err := ledger.ApplyTransition(ctx, project.ID, t, false); err != nil {
			fmt.Printf("❌ %s: %v\n", t, err)
			return
		}
	}

	// PCP lists what the job needs: 4 beams cut at 2500 mm and 6 floor plates
	beam, err := ledger.AddMaterial(ctx, project.ID, dto.MaterialInput{
		Name: "Viga W 150", Type: "BAR", Quantity: decimal.NewFromInt(4), LengthMm: decimal.NewFromInt(2500),
	})
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	plate, err := ledger.AddMaterial(ctx, project.ID, dto.MaterialInput{
		Name: "Chapa Xadrez 1/4", Type: "SHEET", Quantity: decimal.NewFromInt(6), Unit: "pç",
	})
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	fmt.Printf("  %s needs %s mm including kerf\n", beam.Name, beam.TotalLengthCalc.Decimal)

	// The warehouse has the plates but only part of the beams
	_, _ = ledger.SetStockQuantity(ctx, project.ID, plate.ID, "6")
	_, _ = ledger.SetStockQuantity(ctx, project.ID, beam.ID, "6000")

	outcome, err := ledger.ApplyTransition(ctx, project.ID, domain.FinalizePCP, true)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	fmt.Printf("📋 PCP finalized: %s -> %s\n\n", outcome.From, outcome.To)

	doc, err := reports.Build(services.ReportRequest{ProjectID: project.ID, Kind: string(domain.ReportPendingOnly)})
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	_ = output.WriteReport(os.Stdout, doc, output.FormatText)

	// Purchasing orders the shortfall, it arrives and production starts
	_, _ = ledger.BulkSetStatus(ctx, dto.BulkStatusInput{IDs: []string{beam.ID}, Status: "ORDERED", DeliveryForecast: "2025-12-10"})
	_, _ = ledger.BulkSetStatus(ctx, dto.BulkStatusInput{IDs: []string{beam.ID}, Status: "DELIVERED"})
	if _, err := ledger.ApplyTransition(ctx, project.ID, domain.StartProduction, false); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	progress, _ := ledger.Progress(project.ID)
	p, _ := ledger.Project(project.ID)
	fmt.Printf("\n🔧 %s is now %s, %d%% done\n", p.OPNumber, p.Status, progress)
}
