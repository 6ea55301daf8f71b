package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus is the lifecycle stage of a production order
type ProjectStatus string

const (
	StatusCommercial  ProjectStatus = "COMERCIAL"
	StatusEngineering ProjectStatus = "PROJETO"
	StatusPCP         ProjectStatus = "PCP"
	StatusPurchasing  ProjectStatus = "COMPRAS"
	StatusProduction  ProjectStatus = "PRODUCAO"
	StatusCompleted   ProjectStatus = "CONCLUIDO"
)

// AllProjectStatuses lists the statuses in pipeline order
var AllProjectStatuses = []ProjectStatus{
	StatusCommercial,
	StatusEngineering,
	StatusPCP,
	StatusPurchasing,
	StatusProduction,
	StatusCompleted,
}

// String method for ProjectStatus enum
func (s ProjectStatus) String() string {
	switch s {
	case StatusCommercial:
		return "Commercial"
	case StatusEngineering:
		return "Engineering"
	case StatusPCP:
		return "PCP"
	case StatusPurchasing:
		return "Purchasing"
	case StatusProduction:
		return "Production"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Rank is the position of s in the pipeline, -1 when unknown
func (s ProjectStatus) Rank() int {
	for i, status := range AllProjectStatuses {
		if status == s {
			return i
		}
	}
	return -1
}

// AtLeast reports whether s has reached other in the pipeline
func (s ProjectStatus) AtLeast(other ProjectStatus) bool {
	return s.Rank() >= other.Rank()
}

// ParseProjectStatus accepts both the stored values and their English names
func ParseProjectStatus(v string) (ProjectStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "COMMERCIAL", "COMERCIAL":
		return StatusCommercial, nil
	case "ENGINEERING", "PROJETO":
		return StatusEngineering, nil
	case "PCP":
		return StatusPCP, nil
	case "PURCHASING", "COMPRAS":
		return StatusPurchasing, nil
	case "PRODUCTION", "PRODUCAO":
		return StatusProduction, nil
	case "COMPLETED", "CONCLUIDO":
		return StatusCompleted, nil
	default:
		return "", fmt.Errorf("unknown project status: %q", v)
	}
}

// ProjectItem is a commercial proposal line
type ProjectItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// Project is a production order tracked end to end
type Project struct {
	ID               string         `json:"id"`
	OPNumber         string         `json:"opNumber"`
	Client           string         `json:"client"`
	Description      string         `json:"description"`
	Items            []ProjectItem  `json:"items"`
	ImplantationDate string         `json:"implantationDate"`
	Status           ProjectStatus  `json:"status"`
	Materials        []MaterialItem `json:"materials"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// NewProject creates a validated Project in the commercial stage
func NewProject(id, opNumber, client, description, implantationDate string, items []ProjectItem, createdAt time.Time) (*Project, error) {
	if id == "" {
		return nil, fmt.Errorf("project id cannot be empty")
	}
	if strings.TrimSpace(opNumber) == "" {
		return nil, fmt.Errorf("op number cannot be empty")
	}
	if strings.TrimSpace(client) == "" {
		return nil, fmt.Errorf("client cannot be empty")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("project must have at least one item")
	}
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			return nil, fmt.Errorf("item %d: description cannot be empty", i+1)
		}
		if !item.Quantity.IsPositive() {
			return nil, fmt.Errorf("item %d: quantity must be positive, got %s", i+1, item.Quantity)
		}
	}
	if strings.TrimSpace(description) == "" {
		description = "Proposta " + strings.TrimSpace(opNumber)
	}

	return &Project{
		ID:               id,
		OPNumber:         strings.TrimSpace(opNumber),
		Client:           strings.TrimSpace(client),
		Description:      description,
		Items:            items,
		ImplantationDate: implantationDate,
		Status:           StatusCommercial,
		Materials:        []MaterialItem{},
		CreatedAt:        createdAt,
	}, nil
}

// MaterialIndex returns the index of the material with the given id, or -1
func (p *Project) MaterialIndex(id string) int {
	for i := range p.Materials {
		if p.Materials[i].ID == id {
			return i
		}
	}
	return -1
}

// Material returns a pointer into the materials slice
func (p *Project) Material(id string) (*MaterialItem, bool) {
	i := p.MaterialIndex(id)
	if i < 0 {
		return nil, false
	}
	return &p.Materials[i], true
}

// AllInStock reports whether the project has materials and every one is in stock
func (p *Project) AllInStock() bool {
	if len(p.Materials) == 0 {
		return false
	}
	for i := range p.Materials {
		if !p.Materials[i].InStock {
			return false
		}
	}
	return true
}

// MissingMaterials returns the materials not yet in stock
func (p *Project) MissingMaterials() []MaterialItem {
	var missing []MaterialItem
	for _, m := range p.Materials {
		if !m.InStock {
			missing = append(missing, m)
		}
	}
	return missing
}

// IsOfficialProduction reports whether the project was released to the shop floor
func (p *Project) IsOfficialProduction() bool {
	return p.Status == StatusProduction || p.Status == StatusCompleted
}

// IsReadyToStart reports whether a not-yet-released project has every material in stock
func (p *Project) IsReadyToStart() bool {
	return !p.IsOfficialProduction() && p.AllInStock()
}

// Clone returns a deep copy of the project
func (p *Project) Clone() Project {
	c := *p
	c.Items = append([]ProjectItem(nil), p.Items...)
	c.Materials = make([]MaterialItem, len(p.Materials))
	for i := range p.Materials {
		c.Materials[i] = p.Materials[i].Clone()
	}
	return c
}
