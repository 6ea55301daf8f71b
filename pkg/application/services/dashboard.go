package services

import (
	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/domain/entities"
)

const recentProjects = 5

// Dashboard summarizes the ledger. Completion month is judged by creation time
// because no completion timestamp is recorded.
func (s *LedgerService) Dashboard() *dto.Dashboard {
	now := s.now()
	d := &dto.Dashboard{
		ByStatus:       make(map[entities.ProjectStatus]int, len(entities.AllProjectStatuses)),
		RecentProjects: []dto.ProjectSummary{},
	}
	for _, status := range entities.AllProjectStatuses {
		d.ByStatus[status] = 0
	}

	s.view(func(l *entities.Ledger) {
		d.TotalProjects = len(l.Projects)
		for i := range l.Projects {
			p := &l.Projects[i]
			d.ByStatus[p.Status]++
			if p.Status == entities.StatusCompleted &&
				p.CreatedAt.Year() == now.Year() && p.CreatedAt.Month() == now.Month() {
				d.CompletedThisMonth++
			}
			if i < recentProjects {
				d.RecentProjects = append(d.RecentProjects, dto.ProjectSummary{
					ID:          p.ID,
					OPNumber:    p.OPNumber,
					Client:      p.Client,
					Description: p.Description,
					Status:      p.Status,
					Materials:   len(p.Materials),
					Missing:     len(p.MissingMaterials()),
					Progress:    s.tracker.Progress(p),
				})
			}
		}
	})
	d.InProduction = d.ByStatus[entities.StatusProduction]
	d.WaitingPurchasing = d.ByStatus[entities.StatusPurchasing]
	d.InCommercial = d.ByStatus[entities.StatusCommercial]
	return d
}
