package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var purchaseTemplate = template.Must(template.ParseFS(templateFS, "templates/purchase_report.html"))

// HTMLRenderer produces a printable HTML page
type HTMLRenderer struct{}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *HTMLRenderer) Extension() string { return "html" }

func (r *HTMLRenderer) Render(w io.Writer, doc *Document) error {
	if err := purchaseTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}
