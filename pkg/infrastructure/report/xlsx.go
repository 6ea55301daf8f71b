package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXRenderer produces a workbook with one sheet listing every section
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XLSXRenderer) Extension() string { return "xlsx" }

func (r *XLSXRenderer) Render(w io.Writer, doc *Document) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Relatório"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	sectionStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	rows := [][]interface{}{
		{doc.Title},
		{"OP", doc.OPNumber},
		{"Cliente", doc.Client},
		{"Descrição", doc.Description},
		{"Data Emissão", doc.IssuedAt.Format("02/01/2006")},
		{doc.Note},
	}
	row := 1
	for _, values := range rows {
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	row++

	headers := []interface{}{"Descrição / Item", "Detalhes", "Observação", doc.QuantityLabel, "Unidade", "Ref/Estoque"}
	for _, section := range doc.Sections {
		if err := setRow(f, sheet, row, []interface{}{section.Title}); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellStyle(sheet, cell, cell, sectionStyle)
		row++

		if err := setRow(f, sheet, row, headers); err != nil {
			return err
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(headers), row)
		_ = f.SetCellStyle(sheet, first, last, headerStyle)
		row++

		for _, line := range section.Lines {
			qty, _ := line.DisplayQuantity.Float64()
			values := []interface{}{line.Name, line.Details, line.Observation, qty, line.DisplayUnit, line.StockNumber}
			if err := setRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 40)
	_ = f.SetColWidth(sheet, "B", "C", 30)
	_ = f.SetColWidth(sheet, "D", "F", 14)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to render XLSX report: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
