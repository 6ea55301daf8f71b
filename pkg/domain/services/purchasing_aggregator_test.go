package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

func TestPurchasingAggregator_GroupSumsConstituents(t *testing.T) {
	a := NewPurchasingAggregator()

	items := []entities.MaterialItem{
		barItem("a", 2, 1000, 500),
		sheetItem("b", "Chapa 3/8", 3, 1),
		barItem("c", 1, 1000, 0),
		sheetItem("d", "Chapa 3/8", 4, 2),
	}
	items[1].PurchaseStatus = entities.PurchaseRequested
	items[3].PurchaseStatus = entities.PurchaseRequested

	groups := a.Group(items)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}

	bar := groups[0]
	if !bar.Quantity.Equal(dec(3)) || !bar.TotalLengthCalc.Equal(dec(3012)) || !bar.QtyInStock.Equal(dec(500)) {
		t.Errorf("Expected bar group 3/3012/500, got %s/%s/%s", bar.Quantity, bar.TotalLengthCalc, bar.QtyInStock)
	}
	if len(bar.OriginalIDs) != 2 || bar.OriginalIDs[0] != "a" || bar.OriginalIDs[1] != "c" {
		t.Errorf("Expected ids [a c], got %v", bar.OriginalIDs)
	}

	sheet := groups[1]
	if !sheet.Quantity.Equal(dec(7)) || !sheet.QtyInStock.Equal(dec(3)) {
		t.Errorf("Expected sheet group 7/3, got %s/%s", sheet.Quantity, sheet.QtyInStock)
	}
}

func TestPurchasingAggregator_GroupIsOrderIndependent(t *testing.T) {
	a := NewPurchasingAggregator()

	items := []entities.MaterialItem{
		sheetItem("a", "Chapa", 3, 0),
		sheetItem("b", "Chapa", 5, 0),
		sheetItem("c", "Chapa", 7, 0),
	}
	reversed := []entities.MaterialItem{items[2], items[1], items[0]}

	forward := a.Group(items)
	backward := a.Group(reversed)
	if len(forward) != 1 || len(backward) != 1 {
		t.Fatalf("Expected a single group both ways, got %d and %d", len(forward), len(backward))
	}
	if !forward[0].Quantity.Equal(backward[0].Quantity) || !forward[0].Quantity.Equal(dec(15)) {
		t.Errorf("Expected 15 both ways, got %s and %s", forward[0].Quantity, backward[0].Quantity)
	}
}

func TestPurchasingAggregator_GroupKeySeparates(t *testing.T) {
	a := NewPurchasingAggregator()

	items := []entities.MaterialItem{
		sheetItem("a", "Chapa", 1, 0),
		sheetItem("b", "Chapa", 1, 0),
		sheetItem("c", "Chapa", 1, 0),
	}
	items[1].PurchaseStatus = entities.PurchaseQuoting
	items[2].Observation = "usar inox"

	if groups := a.Group(items); len(groups) != 3 {
		t.Errorf("Expected status and observation to split groups, got %d", len(groups))
	}
	if groups := a.GroupForReport(items); len(groups) != 2 {
		t.Errorf("Expected report grouping to ignore status, got %d", len(groups))
	}
}

func TestReportQuantity(t *testing.T) {
	testCases := []struct {
		name     string
		kind     ReportKind
		required int64
		stock    int64
		expected int64
	}{
		{"pending net need", ReportPendingOnly, 6016, 1000, 5016},
		{"pending covered", ReportPendingOnly, 10, 12, 0},
		{"in stock capped", ReportInStock, 10, 12, 10},
		{"in stock partial", ReportInStock, 10, 4, 4},
		{"in stock fallback", ReportInStock, 0, 5, 5},
		{"status raw", ReportOrdered, 10, 4, 10},
		{"all raw", ReportAll, 7, 0, 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ReportQuantity(tc.kind, dec(tc.required), dec(tc.stock))
			if !got.Equal(dec(tc.expected)) {
				t.Errorf("Expected %d, got %s", tc.expected, got)
			}
		})
	}
}

func TestPurchasingAggregator_ReportLines(t *testing.T) {
	a := NewPurchasingAggregator()

	items := []entities.MaterialItem{
		barItem("a", 4, 1500, 1000),
		barItem("b", 1, 1500, 0),
		sheetItem("c", "Chapa", 5, 5),
		sheetItem("d", "Chapa Ordered", 2, 0),
	}
	items[0].PurchaseStatus = entities.PurchaseRequested
	items[3].PurchaseStatus = entities.PurchaseOrdered

	lines := a.ReportLines(items, ReportPendingOnly, "")
	if len(lines) != 1 {
		t.Fatalf("Expected only the bar shortfall line, got %d", len(lines))
	}
	if !lines[0].DisplayQuantity.Equal(dec(6520)) || lines[0].DisplayUnit != "mm" {
		t.Errorf("Expected 6520 mm, got %s %s", lines[0].DisplayQuantity, lines[0].DisplayUnit)
	}

	lines = a.ReportLines(items, ReportInStock, "")
	if len(lines) != 1 || lines[0].Name != "Chapa" || !lines[0].DisplayQuantity.Equal(dec(5)) {
		t.Errorf("Expected the stocked sheet with 5, got %+v", lines)
	}

	lines = a.ReportLines(items, ReportOrdered, entities.MaterialSheet)
	if len(lines) != 1 || lines[0].Name != "Chapa Ordered" || lines[0].DisplayUnit != "pç" {
		t.Errorf("Expected the ordered sheet in pieces, got %+v", lines)
	}

	if lines = a.ReportLines(items, ReportOrdered, entities.MaterialBar); len(lines) != 0 {
		t.Errorf("Expected no ordered bars, got %d", len(lines))
	}
}

func TestPurchasingAggregator_Relevance(t *testing.T) {
	a := NewPurchasingAggregator()

	purchasing := &entities.Project{Status: entities.StatusPurchasing}
	pcp := &entities.Project{Status: entities.StatusPCP}

	missing := sheetItem("a", "Chapa", 2, 0)
	stocked := sheetItem("b", "Chapa", 2, 2)
	quoting := sheetItem("c", "Chapa", 2, 0)
	quoting.PurchaseStatus = entities.PurchaseQuoting
	pending := sheetItem("d", "Chapa", 2, 0)
	pending.PurchaseStatus = entities.PurchasePending

	testCases := []struct {
		name     string
		project  *entities.Project
		item     entities.MaterialItem
		filter   StatusFilter
		expected bool
	}{
		{"missing in purchasing", purchasing, missing, FilterAll, true},
		{"missing in pcp", pcp, missing, FilterAll, false},
		{"stocked under all", purchasing, stocked, FilterAll, false},
		{"stocked under in stock", pcp, stocked, FilterInStock, true},
		{"active status anywhere", pcp, quoting, FilterAll, true},
		{"requested catches unflagged", purchasing, missing, StatusFilter("REQUESTED"), true},
		{"requested catches pending", purchasing, pending, StatusFilter("REQUESTED"), true},
		{"quoting filter exact", pcp, quoting, StatusFilter("QUOTING"), true},
		{"quoting filter rejects other", purchasing, missing, StatusFilter("QUOTING"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			item := tc.item
			if got := a.IsRelevant(tc.project, &item, tc.filter); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestPurchasingAggregator_QueueMembership(t *testing.T) {
	a := NewPurchasingAggregator()

	p := &entities.Project{Status: entities.StatusPCP, Materials: []entities.MaterialItem{{PurchaseStatus: entities.PurchasePending}}}
	if a.IsPurchasingProject(p) {
		t.Errorf("Expected PENDING-only PCP project to stay out of the queue")
	}
	p.Materials = append(p.Materials, entities.MaterialItem{PurchaseStatus: entities.PurchaseDelivered})
	if !a.IsPurchasingProject(p) {
		t.Errorf("Expected project with a delivered item to be listed")
	}
}

func TestPurchasingAggregator_RelevantItemsSearch(t *testing.T) {
	a := NewPurchasingAggregator()

	p := &entities.Project{
		OPNumber: "OP-1005",
		Client:   "AgroTech",
		Status:   entities.StatusPurchasing,
		Materials: []entities.MaterialItem{
			sheetItem("a", "Chapa 3/8", 1, 0),
			sheetItem("b", "Viga I", 1, 0),
		},
	}

	if got := a.RelevantItems(p, FilterAll, "agro"); len(got) != 2 {
		t.Errorf("Expected client match to keep every item, got %d", len(got))
	}
	if got := a.RelevantItems(p, FilterAll, "viga"); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("Expected only the beam, got %v", got)
	}
}

func TestParseReportKind(t *testing.T) {
	for _, input := range []string{"", "all", "PENDING_ONLY", "in_stock", "QUOTING", "ordered", "DELIVERED"} {
		if _, err := ParseReportKind(input); err != nil {
			t.Errorf("Expected %q to parse, got %v", input, err)
		}
	}
	if _, err := ParseReportKind("LOST"); err == nil {
		t.Errorf("Expected unknown kind to fail")
	}
	if kind, _ := ParseReportKind(""); kind != ReportPendingOnly {
		t.Errorf("Expected default PENDING_ONLY, got %s", kind)
	}
}

func TestMaterialGroup_Required(t *testing.T) {
	g := MaterialGroup{Type: entities.MaterialBar, Quantity: dec(3), TotalLengthCalc: decimal.Zero}
	if !g.Required().Equal(dec(3)) {
		t.Errorf("Expected bar without length to use quantity, got %s", g.Required())
	}
}
