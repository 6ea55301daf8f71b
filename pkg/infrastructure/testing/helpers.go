package testing

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/infrastructure/repositories/document"
	"github.com/vsinha/metalerp/pkg/infrastructure/repositories/kv"
)

// FixtureTime is the clock reading used by every fixture
var FixtureTime = time.Date(2025, 11, 20, 14, 30, 0, 0, time.UTC)

// FixedClock returns a clock that always reads t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// SequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var n int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, atomic.AddInt64(&n, 1))
	}
}

// Bar builds a bar line with a cut length and counted stock (both in mm)
func Bar(id, name string, qty, lengthMm, stockMm int64) entities.MaterialItem {
	item, err := entities.NewMaterialItem(id, name, entities.MaterialBar, decimal.NewFromInt(qty), "pç")
	if err != nil {
		panic(err)
	}
	item.SetCutLength(decimal.NewFromInt(lengthMm))
	item.QtyInStock = decimal.NewFromInt(stockMm)
	item.RefreshStock()
	return *item
}

// Sheet builds a sheet line counted in pieces
func Sheet(id, name string, qty, stock int64) entities.MaterialItem {
	return counted(id, name, entities.MaterialSheet, "pç", qty, stock)
}

// Commercial builds a commercial part line counted in units
func Commercial(id, name string, qty, stock int64) entities.MaterialItem {
	item := counted(id, name, entities.MaterialCommercial, "un", qty, stock)
	item.AssignedTo = "Almoxarifado"
	return item
}

func counted(id, name string, t entities.MaterialType, unit string, qty, stock int64) entities.MaterialItem {
	item, err := entities.NewMaterialItem(id, name, t, decimal.NewFromInt(qty), unit)
	if err != nil {
		panic(err)
	}
	item.QtyInStock = decimal.NewFromInt(stock)
	item.RefreshStock()
	return *item
}

// ProjectAt builds a project already moved to status
func ProjectAt(id, opNumber string, status entities.ProjectStatus, createdAt time.Time, materials ...entities.MaterialItem) entities.Project {
	items := []entities.ProjectItem{{ID: id + "-item", Description: "Estrutura metálica", Quantity: decimal.NewFromInt(1)}}
	p, err := entities.NewProject(id, opNumber, "Cliente "+opNumber, "", "", items, createdAt)
	if err != nil {
		panic(err)
	}
	p.Status = status
	if materials != nil {
		p.Materials = materials
	}
	return *p
}

// BuildFabricationLedger builds a ledger with one project per pipeline stage of interest:
//
//	p-com   COMERCIAL  no materials
//	p-pcp   PCP        bar b1 short of stock, sheet s1 stocked
//	p-buy   COMPRAS    bar b2 requested, commercial c1 stocked
//	p-prod  PRODUCAO   bar b3 stocked, bar b4 done
func BuildFabricationLedger() *entities.Ledger {
	b2 := Bar("b2", "Barra Chata 1/4 x 2", 2, 1000, 0)
	b2.PurchaseStatus = entities.PurchaseRequested

	b4 := Bar("b4", "Cantoneira 2 x 3/16", 1, 500, 504)
	b4.ProductionStatus = entities.StatusDone

	return &entities.Ledger{Projects: []entities.Project{
		ProjectAt("p-com", "OP-1001", entities.StatusCommercial, FixtureTime),
		ProjectAt("p-pcp", "OP-1002", entities.StatusPCP, FixtureTime.Add(-24*time.Hour),
			Bar("b1", "Tubo Quadrado 50x50", 4, 1500, 1000),
			Sheet("s1", "Chapa 3/8", 2, 2),
		),
		ProjectAt("p-buy", "OP-1003", entities.StatusPurchasing, FixtureTime.Add(-48*time.Hour),
			b2,
			Commercial("c1", "Parafuso M12", 10, 10),
		),
		ProjectAt("p-prod", "OP-1004", entities.StatusProduction, FixtureTime.Add(-72*time.Hour),
			Bar("b3", "Viga U 4", 3, 2000, 6012),
			b4,
		),
	}}
}

// NewDocumentRepository returns a repository over an in-memory store whose
// defaults are a copy of ledger
func NewDocumentRepository(ledger *entities.Ledger) (*document.Repository, *kv.MemoryStore) {
	store := kv.NewMemoryStore()
	return document.NewRepository(store, func() *entities.Ledger { return ledger.Clone() }), store
}
