package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/domain/services"
)

// Document is a printable purchasing report for one project
type Document struct {
	Title         string    `json:"title"`
	QuantityLabel string    `json:"quantityLabel"`
	Note          string    `json:"note"`
	Kind          string    `json:"kind"`
	OPNumber      string    `json:"opNumber"`
	Client        string    `json:"client"`
	Description   string    `json:"description"`
	IssuedAt      time.Time `json:"issuedAt"`
	Sections      []Section `json:"sections"`
}

// Section groups report lines of one material type
type Section struct {
	Title string                `json:"title"`
	Type  entities.MaterialType `json:"type"`
	Lines []services.ReportLine `json:"lines"`
}

var sectionOrder = []struct {
	materialType entities.MaterialType
	title        string
}{
	{entities.MaterialBar, "Barras & Perfis (Metálicos)"},
	{entities.MaterialSheet, "Chapas & Cortes"},
	{entities.MaterialCommercial, "Peças Comerciais & Acessórios"},
}

// NewDocument lays report lines out in sections: bars, sheets, then commercial parts.
// Empty sections are left out.
func NewDocument(project *entities.Project, lines []services.ReportLine, kind services.ReportKind, typeFilter entities.MaterialType, issuedAt time.Time) *Document {
	title, qtyLabel := Titles(kind)
	title += TypeSuffix(typeFilter)

	doc := &Document{
		Title:         title,
		QuantityLabel: qtyLabel,
		Note:          Note(kind),
		Kind:          string(kind),
		OPNumber:      project.OPNumber,
		Client:        project.Client,
		Description:   project.Description,
		IssuedAt:      issuedAt,
	}
	for _, s := range sectionOrder {
		var section []services.ReportLine
		for _, l := range lines {
			if l.Type == s.materialType {
				section = append(section, l)
			}
		}
		if len(section) > 0 {
			doc.Sections = append(doc.Sections, Section{Title: s.title, Type: s.materialType, Lines: section})
		}
	}
	return doc
}

// LineCount returns the number of lines across all sections
func (d *Document) LineCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Lines)
	}
	return n
}

// Titles returns the report title and the quantity column label for a kind
func Titles(kind services.ReportKind) (string, string) {
	switch kind {
	case services.ReportPendingOnly:
		return "Solicitação de Cotação de Materiais", "Qtd Compra"
	case services.ReportQuoting:
		return "Relatório: Itens em Orçamento", "Qtd Orçada"
	case services.ReportOrdered:
		return "Relatório: Itens Comprados (Aguardando Entrega)", "Qtd Comprada"
	case services.ReportDelivered:
		return "Relatório: Itens Entregues / Conferência", "Qtd Recebida"
	case services.ReportInStock:
		return "Relatório: Separação de Estoque Interno", "Qtd Separar"
	default:
		return "Relatório de Materiais", "Qtd"
	}
}

// TypeSuffix is appended to the title when the report is restricted to one material type
func TypeSuffix(t entities.MaterialType) string {
	switch t {
	case entities.MaterialBar:
		return " (Apenas Barras)"
	case entities.MaterialSheet:
		return " (Apenas Chapas)"
	case entities.MaterialCommercial:
		return " (Apenas Comercial)"
	}
	return ""
}

// Note is the banner printed above the tables
func Note(kind services.ReportKind) string {
	switch kind {
	case services.ReportPendingOnly:
		return "NOTA: As quantidades listadas representam a necessidade líquida de compra (descontado o estoque existente)."
	case services.ReportInStock:
		return "ATENÇÃO: Este relatório lista materiais que constam no ESTOQUE INTERNO. Verificar fisicamente antes de liberar produção."
	default:
		return fmt.Sprintf("Relatório gerado filtrando apenas itens com status: %s.", kind)
	}
}

// Renderer writes a document in one output format
type Renderer interface {
	ContentType() string
	Extension() string
	Render(w io.Writer, doc *Document) error
}

// ForFormat returns the renderer for html, pdf or xlsx
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "html":
		return NewHTMLRenderer(), nil
	case "pdf":
		return NewPDFRenderer(), nil
	case "xlsx":
		return NewXLSXRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %q", format)
	}
}

// Filename builds the download name for a document
func Filename(doc *Document, r Renderer) string {
	op := strings.NewReplacer("/", "-", " ", "_").Replace(doc.OPNumber)
	return fmt.Sprintf("relatorio_%s_%s.%s", op, strings.ToLower(doc.Kind), r.Extension())
}
