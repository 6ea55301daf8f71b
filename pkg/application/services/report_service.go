package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/metalerp/pkg/domain/entities"
	domain "github.com/vsinha/metalerp/pkg/domain/services"
	"github.com/vsinha/metalerp/pkg/infrastructure/report"
)

// ReportRequest selects what a purchasing report lists
type ReportRequest struct {
	ProjectID string
	Kind      string
	Type      string
}

// ReportService builds purchasing reports from the ledger
type ReportService struct {
	ledger     *LedgerService
	aggregator *domain.PurchasingAggregator
	now        func() time.Time
}

// NewReportService creates a report service reading from ledger
func NewReportService(ledger *LedgerService, opts Options) *ReportService {
	opts = opts.withDefaults()
	return &ReportService{ledger: ledger, aggregator: domain.NewPurchasingAggregator(), now: opts.Now}
}

// Build lays out the report for one project. A report with nothing to print
// returns ErrNoEligibleRecords.
func (s *ReportService) Build(req ReportRequest) (*report.Document, error) {
	kind, err := domain.ParseReportKind(req.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	var typeFilter entities.MaterialType
	if strings.TrimSpace(req.Type) != "" && !strings.EqualFold(req.Type, "ALL") {
		if typeFilter, err = entities.ParseMaterialType(req.Type); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	p, err := s.ledger.Project(req.ProjectID)
	if err != nil {
		return nil, err
	}
	lines := s.aggregator.ReportLines(p.Materials, kind, typeFilter)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: %s report for %s", ErrNoEligibleRecords, kind, p.OPNumber)
	}
	return report.NewDocument(p, lines, kind, typeFilter, s.now()), nil
}

// Render writes doc in format (html, pdf or xlsx) and returns the renderer used
func (s *ReportService) Render(w io.Writer, doc *report.Document, format string) (report.Renderer, error) {
	r, err := report.ForFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := r.Render(w, doc); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	log.Debug().Str("op", doc.OPNumber).Str("kind", doc.Kind).Str("format", r.Extension()).Int("lines", doc.LineCount()).Msg("report rendered")
	return r, nil
}
