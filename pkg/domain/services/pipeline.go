package services

import (
	"fmt"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

// Transition names an operator action on a project's lifecycle
type Transition string

const (
	SendToEngineering Transition = "send-to-engineering"
	ReleaseToPCP      Transition = "release-to-pcp"
	FinalizePCP       Transition = "finalize-pcp"
	StartProduction   Transition = "start-production"
	FinishPurchasing  Transition = "finish-purchasing"
	CompleteProject   Transition = "complete"
)

// AllTransitions lists every transition in pipeline order
var AllTransitions = []Transition{
	SendToEngineering, ReleaseToPCP, FinalizePCP, StartProduction, FinishPurchasing, CompleteProject,
}

// TransitionResult describes the outcome of a transition attempt
type TransitionResult struct {
	Transition Transition             `json:"transition"`
	From       entities.ProjectStatus `json:"from"`
	To         entities.ProjectStatus `json:"to"`
	Applied    bool                   `json:"applied"`
}

type transitionRule struct {
	from   []entities.ProjectStatus
	target func(p *entities.Project) (entities.ProjectStatus, bool)
}

func fixed(status entities.ProjectStatus) func(*entities.Project) (entities.ProjectStatus, bool) {
	return func(*entities.Project) (entities.ProjectStatus, bool) { return status, true }
}

var transitionRules = map[Transition]transitionRule{
	SendToEngineering: {
		from:   []entities.ProjectStatus{entities.StatusCommercial},
		target: fixed(entities.StatusEngineering),
	},
	ReleaseToPCP: {
		from:   []entities.ProjectStatus{entities.StatusEngineering},
		target: fixed(entities.StatusPCP),
	},
	FinalizePCP: {
		from: []entities.ProjectStatus{entities.StatusPCP},
		target: func(p *entities.Project) (entities.ProjectStatus, bool) {
			if len(p.MissingMaterials()) > 0 {
				return entities.StatusPurchasing, true
			}
			return entities.StatusProduction, true
		},
	},
	StartProduction: {
		from: []entities.ProjectStatus{entities.StatusPCP, entities.StatusPurchasing},
		target: func(p *entities.Project) (entities.ProjectStatus, bool) {
			return entities.StatusProduction, p.AllInStock()
		},
	},
	FinishPurchasing: {
		from:   []entities.ProjectStatus{entities.StatusPurchasing},
		target: fixed(entities.StatusProduction),
	},
	CompleteProject: {
		from:   []entities.ProjectStatus{entities.StatusProduction},
		target: fixed(entities.StatusCompleted),
	},
}

// Pipeline is the project lifecycle state machine. Status only moves forward.
type Pipeline struct{}

// NewPipeline creates a new status pipeline
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Plan reports where t would take p without changing it
func (pl *Pipeline) Plan(p *entities.Project, t Transition) (TransitionResult, error) {
	rule, ok := transitionRules[t]
	if !ok {
		return TransitionResult{}, fmt.Errorf("unknown transition: %s", t)
	}

	result := TransitionResult{Transition: t, From: p.Status, To: p.Status}
	if !statusIn(p.Status, rule.from) {
		return result, nil
	}
	target, allowed := rule.target(p)
	if !allowed {
		return result, nil
	}
	result.To = target
	result.Applied = true
	return result, nil
}

// Apply performs t on p. A transition from the wrong stage is a no-op with Applied false.
func (pl *Pipeline) Apply(p *entities.Project, t Transition) (TransitionResult, error) {
	result, err := pl.Plan(p, t)
	if err != nil {
		return result, err
	}
	if result.Applied {
		p.Status = result.To
	}
	return result, nil
}

// Available lists the transitions that would currently apply to p
func (pl *Pipeline) Available(p *entities.Project) []Transition {
	var out []Transition
	for _, t := range AllTransitions {
		if r, _ := pl.Plan(p, t); r.Applied {
			out = append(out, t)
		}
	}
	return out
}

func statusIn(s entities.ProjectStatus, set []entities.ProjectStatus) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}
