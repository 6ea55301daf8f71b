package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

// utf8BOM lets spreadsheet software detect the encoding
const utf8BOM = "\ufeff"

var jobRecordHeader = []string{"Data", "Funcionário", "Serviço", "OP", "Desenho", "Cliente", "Máquina", "Início", "Fim", "Duração"}

// WriteJobRecords writes job records as semicolon separated CSV in the given location's local time
func WriteJobRecords(w io.Writer, records []entities.JobRecord, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	writer := csv.NewWriter(w)
	writer.Comma = ';'

	if err := writer.Write(jobRecordHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		start := r.StartTime.Time().In(loc)
		end := ""
		if r.EndTime > 0 {
			end = r.EndTime.Time().In(loc).Format("15:04:05")
		}
		row := []string{
			start.Format("02/01/2006"),
			r.Employee,
			r.ServiceType,
			r.OPNumber,
			r.Drawing,
			r.Client,
			r.Machine,
			start.Format("15:04:05"),
			end,
			entities.FormatDuration(r.DurationSeconds),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %s: %w", r.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
