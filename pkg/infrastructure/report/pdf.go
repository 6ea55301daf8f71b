package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer produces an A4 purchasing report
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Extension() string { return "pdf" }

func (r *PDFRenderer) Render(w io.Writer, doc *Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(contentW, 8, tr(doc.Title), "", "L", false)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr("OP: "+doc.OPNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("Cliente: "+doc.Client), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("Descrição: "+doc.Description), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("Data Emissão: "+doc.IssuedAt.Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	pdf.SetFillColor(255, 253, 231)
	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(contentW, 5, tr(doc.Note), "1", "L", true)
	pdf.Ln(4)

	colDesc := contentW * 0.48
	colQty := contentW * 0.17
	colRef := contentW * 0.15
	colCheck := contentW * 0.20

	for _, section := range doc.Sections {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, tr(section.Title), "B", 1, "L", false, 0, "")
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(colDesc, 6, tr("Descrição / Item"), "1", 0, "L", true, 0, "")
		pdf.CellFormat(colQty, 6, tr(doc.QuantityLabel), "1", 0, "C", true, 0, "")
		pdf.CellFormat(colRef, 6, "Ref/Estoque", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colCheck, 6, "Obs / Marca / Check", "1", 1, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		for _, line := range section.Lines {
			desc := line.Name
			if line.Details != "" {
				desc += " - " + line.Details
			}
			if line.Observation != "" {
				desc += " (OBS: " + line.Observation + ")"
			}
			ref := line.StockNumber
			if ref == "" {
				ref = "-"
			}
			pdf.CellFormat(colDesc, 6, tr(truncate(desc, 60)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(colQty, 6, tr(line.DisplayQuantity.String()+" "+line.DisplayUnit), "1", 0, "C", false, 0, "")
			pdf.CellFormat(colRef, 6, tr(ref), "1", 0, "L", false, 0, "")
			pdf.CellFormat(colCheck, 6, "", "1", 1, "L", false, 0, "")
		}
		pdf.Ln(5)
	}

	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 5, "Gerado automaticamente pelo sistema MetalERP", "T", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF report: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
