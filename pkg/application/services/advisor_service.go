package services

import (
	"context"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/infrastructure/gemini"
)

// Advisor is the generative AI collaborator
type Advisor interface {
	SuggestMaterials(ctx context.Context, items []entities.ProjectItem) []entities.MaterialSuggestion
	AnalyzeWorkLogs(ctx context.Context, records []entities.JobRecord) string
}

var _ Advisor = (*gemini.Advisor)(nil)

// AdvisorService feeds ledger and timesheet data to the AI collaborator
type AdvisorService struct {
	advisor   Advisor
	ledger    *LedgerService
	timesheet *TimesheetService
}

// NewAdvisorService creates an advisor service
func NewAdvisorService(advisor Advisor, ledger *LedgerService, timesheet *TimesheetService) *AdvisorService {
	return &AdvisorService{advisor: advisor, ledger: ledger, timesheet: timesheet}
}

// SuggestMaterials estimates material lines for a project's commercial items.
// Failures yield an empty list.
func (s *AdvisorService) SuggestMaterials(ctx context.Context, projectID string) ([]entities.MaterialSuggestion, error) {
	p, err := s.ledger.Project(projectID)
	if err != nil {
		return nil, err
	}
	suggestions := s.advisor.SuggestMaterials(ctx, p.Items)
	if suggestions == nil {
		suggestions = []entities.MaterialSuggestion{}
	}
	return suggestions, nil
}

// ApplySuggestions asks for suggestions and adds them to the project as pending lines
func (s *AdvisorService) ApplySuggestions(ctx context.Context, projectID string) ([]entities.MaterialItem, error) {
	suggestions, err := s.SuggestMaterials(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.ledger.AddSuggestedMaterials(ctx, projectID, suggestions)
}

// AnalyzeWorkLogs summarizes the job records matching filter. The returned text carries
// the collaborator's own error messages; only an empty record set is an error.
func (s *AdvisorService) AnalyzeWorkLogs(ctx context.Context, filter dto.RecordFilter) (string, error) {
	records := s.timesheet.Records(filter)
	if len(records) == 0 {
		return "", ErrNoEligibleRecords
	}
	return s.advisor.AnalyzeWorkLogs(ctx, records), nil
}
