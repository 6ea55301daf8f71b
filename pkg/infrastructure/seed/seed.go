package seed

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

//go:embed default_projects.yaml
var defaultProjects []byte

type seedFile struct {
	Projects []seedProject `yaml:"projects"`
}

type seedProject struct {
	ID               string         `yaml:"id"`
	OPNumber         string         `yaml:"opNumber"`
	Client           string         `yaml:"client"`
	Description      string         `yaml:"description"`
	ImplantationDate string         `yaml:"implantationDate"`
	Status           string         `yaml:"status"`
	CreatedAt        string         `yaml:"createdAt"`
	Items            []seedItem     `yaml:"items"`
	Materials        []seedMaterial `yaml:"materials"`
}

type seedItem struct {
	ID          string  `yaml:"id"`
	Description string  `yaml:"description"`
	Quantity    float64 `yaml:"quantity"`
}

type seedMaterial struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Quantity float64 `yaml:"quantity"`
	Unit     string  `yaml:"unit"`
	InStock  bool    `yaml:"inStock"`
}

// DefaultLedger decodes the embedded initial ledger
func DefaultLedger() (*entities.Ledger, error) {
	return parse(defaultProjects)
}

// MustDefaultLedger is DefaultLedger for callers that cannot recover from a broken build
func MustDefaultLedger() *entities.Ledger {
	l, err := DefaultLedger()
	if err != nil {
		panic(err)
	}
	return l
}

func parse(data []byte) (*entities.Ledger, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}

	ledger := &entities.Ledger{Projects: make([]entities.Project, 0, len(f.Projects))}
	for _, sp := range f.Projects {
		status, err := entities.ParseProjectStatus(sp.Status)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", sp.ID, err)
		}
		created, err := time.Parse(time.RFC3339, sp.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("project %s: invalid createdAt: %w", sp.ID, err)
		}

		p := entities.Project{
			ID:               sp.ID,
			OPNumber:         sp.OPNumber,
			Client:           sp.Client,
			Description:      sp.Description,
			ImplantationDate: sp.ImplantationDate,
			Status:           status,
			CreatedAt:        created,
			Items:            make([]entities.ProjectItem, 0, len(sp.Items)),
			Materials:        make([]entities.MaterialItem, 0, len(sp.Materials)),
		}
		for _, si := range sp.Items {
			p.Items = append(p.Items, entities.ProjectItem{
				ID:          si.ID,
				Description: si.Description,
				Quantity:    decimal.NewFromFloat(si.Quantity),
			})
		}
		for _, sm := range sp.Materials {
			mt, err := entities.ParseMaterialType(sm.Type)
			if err != nil {
				return nil, fmt.Errorf("material %s: %w", sm.ID, err)
			}
			// stored verbatim: the flag is not derived from a stock count here
			p.Materials = append(p.Materials, entities.MaterialItem{
				ID:         sm.ID,
				Name:       sm.Name,
				Type:       mt,
				Quantity:   decimal.NewFromFloat(sm.Quantity),
				Unit:       sm.Unit,
				InStock:    sm.InStock,
				QtyInStock: decimal.Zero,
			})
		}
		ledger.Projects = append(ledger.Projects, p)
	}
	return ledger, nil
}
