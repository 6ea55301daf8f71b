package services

import (
	"testing"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

func TestPipeline_ForwardTransitions(t *testing.T) {
	pl := NewPipeline()

	testCases := []struct {
		name       string
		from       entities.ProjectStatus
		materials  []entities.MaterialItem
		transition Transition
		expected   entities.ProjectStatus
		applied    bool
	}{
		{"send to engineering", entities.StatusCommercial, nil, SendToEngineering, entities.StatusEngineering, true},
		{"release to pcp", entities.StatusEngineering, nil, ReleaseToPCP, entities.StatusPCP, true},
		{"finish purchasing", entities.StatusPurchasing, nil, FinishPurchasing, entities.StatusProduction, true},
		{"complete", entities.StatusProduction, nil, CompleteProject, entities.StatusCompleted, true},
		{"complete from pcp ignored", entities.StatusPCP, nil, CompleteProject, entities.StatusPCP, false},
		{"engineering twice ignored", entities.StatusEngineering, nil, SendToEngineering, entities.StatusEngineering, false},
		{"finalize outside pcp ignored", entities.StatusProduction, nil, FinalizePCP, entities.StatusProduction, false},
		{
			"start production when stocked", entities.StatusPurchasing,
			[]entities.MaterialItem{{ID: "a", InStock: true}}, StartProduction, entities.StatusProduction, true,
		},
		{
			"start production with shortage ignored", entities.StatusPCP,
			[]entities.MaterialItem{{ID: "a", InStock: false}}, StartProduction, entities.StatusPCP, false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := &entities.Project{ID: "p1", Status: tc.from, Materials: tc.materials}
			result, err := pl.Apply(p, tc.transition)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if result.Applied != tc.applied {
				t.Errorf("Expected applied=%v, got %v", tc.applied, result.Applied)
			}
			if p.Status != tc.expected {
				t.Errorf("Expected status %s, got %s", tc.expected, p.Status)
			}
		})
	}
}

func TestPipeline_FinalizePCPScenario(t *testing.T) {
	pl := NewPipeline()

	p := &entities.Project{
		Status: entities.StatusPCP,
		Materials: []entities.MaterialItem{
			sheetItem("a", "Chapa A", 1, 1),
			sheetItem("b", "Chapa B", 1, 1),
			sheetItem("c", "Chapa C", 2, 1),
		},
	}
	result, err := pl.Apply(p, FinalizePCP)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Status != entities.StatusPurchasing || result.To != entities.StatusPurchasing {
		t.Errorf("Expected PURCHASING with one shortfall, got %s", p.Status)
	}

	p = &entities.Project{
		Status:    entities.StatusPCP,
		Materials: []entities.MaterialItem{sheetItem("a", "Chapa A", 1, 1)},
	}
	if _, err := pl.Apply(p, FinalizePCP); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Status != entities.StatusProduction {
		t.Errorf("Expected PRODUCTION when everything is stocked, got %s", p.Status)
	}
}

func TestPipeline_UnknownTransition(t *testing.T) {
	pl := NewPipeline()
	p := &entities.Project{Status: entities.StatusCommercial}

	if _, err := pl.Apply(p, Transition("rewind")); err == nil {
		t.Errorf("Expected error for unknown transition")
	}
	if p.Status != entities.StatusCommercial {
		t.Errorf("Expected status unchanged, got %s", p.Status)
	}
}

func TestPipeline_NeverMovesBackward(t *testing.T) {
	pl := NewPipeline()

	for _, status := range entities.AllProjectStatuses {
		for _, tr := range AllTransitions {
			p := &entities.Project{Status: status, Materials: []entities.MaterialItem{{ID: "a", InStock: true}}}
			result, _ := pl.Plan(p, tr)
			if result.To.Rank() < status.Rank() {
				t.Errorf("Expected %s from %s never to move backward, got %s", tr, status, result.To)
			}
		}
	}
}

func TestPipeline_Available(t *testing.T) {
	pl := NewPipeline()
	p := &entities.Project{Status: entities.StatusPurchasing, Materials: []entities.MaterialItem{{ID: "a", InStock: true}}}

	available := pl.Available(p)
	if len(available) != 2 || available[0] != StartProduction || available[1] != FinishPurchasing {
		t.Errorf("Expected [start-production finish-purchasing], got %v", available)
	}
}
