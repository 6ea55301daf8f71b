package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/infrastructure/report"
)

// Formats handled here; html, pdf and xlsx go through the report renderers
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// IsTabular reports whether format is rendered by this package
func IsTabular(format string) bool {
	switch format {
	case FormatText, FormatJSON, FormatCSV:
		return true
	}
	return false
}

// ProgressRow is one line of the production progress table
type ProgressRow struct {
	OPNumber string                 `json:"opNumber"`
	Client   string                 `json:"client"`
	Status   entities.ProjectStatus `json:"status"`
	Items    int                    `json:"items"`
	Done     int                    `json:"done"`
	Progress int                    `json:"progress"`
}

// WriteReport writes a purchasing report document in a tabular format
func WriteReport(w io.Writer, doc *report.Document, format string) error {
	switch format {
	case FormatText:
		return writeReportText(w, doc)
	case FormatJSON:
		return writeJSON(w, doc)
	case FormatCSV:
		return writeReportCSV(w, doc)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteProgress writes the production progress table
func WriteProgress(w io.Writer, rows []ProgressRow, format string) error {
	switch format {
	case FormatText:
		return writeProgressText(w, rows)
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatCSV:
		return writeProgressCSV(w, rows)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeReportText(w io.Writer, doc *report.Document) error {
	fmt.Fprintf(w, "%s\n", doc.Title)
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", len([]rune(doc.Title))))
	fmt.Fprintf(w, "OP: %s   Cliente: %s\n", doc.OPNumber, doc.Client)
	if doc.Description != "" {
		fmt.Fprintf(w, "Obra: %s\n", doc.Description)
	}
	fmt.Fprintf(w, "Emitido: %s\n\n", doc.IssuedAt.Format("02/01/2006 15:04"))
	fmt.Fprintf(w, "%s\n\n", doc.Note)

	for _, section := range doc.Sections {
		fmt.Fprintf(w, "%s\n", section.Title)
		fmt.Fprintf(w, "%-40s %-14s %-6s %-20s\n", "Material", doc.QuantityLabel, "Un", "Observação")
		fmt.Fprintf(w, "%-40s %-14s %-6s %-20s\n",
			strings.Repeat("-", 40), strings.Repeat("-", 14), strings.Repeat("-", 6), strings.Repeat("-", 20))
		for _, line := range section.Lines {
			fmt.Fprintf(w, "%-40s %-14s %-6s %-20s\n",
				line.Name, line.DisplayQuantity.String(), line.DisplayUnit, line.Observation)
		}
		fmt.Fprintln(w)
	}
	_, err := fmt.Fprintf(w, "Itens: %d\n", doc.LineCount())
	return err
}

func writeReportCSV(w io.Writer, doc *report.Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"section", "name", "type", "quantity", "unit", "status", "observation", "ids"}); err != nil {
		return err
	}
	for _, section := range doc.Sections {
		for _, line := range section.Lines {
			if err := cw.Write([]string{
				section.Title,
				line.Name,
				string(line.Type),
				line.DisplayQuantity.String(),
				line.DisplayUnit,
				string(line.PurchaseStatus),
				line.Observation,
				strings.Join(line.OriginalIDs, " "),
			}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeProgressText(w io.Writer, rows []ProgressRow) error {
	fmt.Fprintf(w, "%-12s %-30s %-10s %-8s %-8s %-8s\n", "OP", "Client", "Status", "Items", "Done", "Progress")
	fmt.Fprintf(w, "%-12s %-30s %-10s %-8s %-8s %-8s\n",
		"------------", strings.Repeat("-", 30), "----------", "--------", "--------", "--------")
	for _, r := range rows {
		fmt.Fprintf(w, "%-12s %-30s %-10s %-8d %-8d %3d%%\n", r.OPNumber, r.Client, r.Status, r.Items, r.Done, r.Progress)
	}
	_, err := fmt.Fprintf(w, "\nProjects: %d\n", len(rows))
	return err
}

func writeProgressCSV(w io.Writer, rows []ProgressRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"op", "client", "status", "items", "done", "progress"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.OPNumber, r.Client, string(r.Status),
			fmt.Sprint(r.Items), fmt.Sprint(r.Done), fmt.Sprint(r.Progress),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
