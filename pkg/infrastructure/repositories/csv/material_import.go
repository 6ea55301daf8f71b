package csv

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/domain/services"
)

// headerKeywords mark a row as a spreadsheet header when found anywhere in it
var headerKeywords = []string{"titulo", "descricao", "qtde", "espessura"}

// Importer turns spreadsheet rows into material lines.
// Column layout depends on the material type:
//
//	BAR:        qty, description, gauge, cut length (mm), stock#, material, drawing#
//	SHEET:      thickness, width, length, qty, title, stock#, material
//	COMMERCIAL: qty, description, material
//
// Header rows, rows with fewer than two columns and rows with no positive quantity are dropped.
type Importer struct {
	newID func() string
}

// NewImporter creates an importer that assigns ids with newID
func NewImporter(newID func() string) *Importer {
	return &Importer{newID: newID}
}

// ParseText parses tab separated text as pasted from a spreadsheet
func (im *Importer) ParseText(text string, materialType entities.MaterialType) ([]entities.MaterialItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []entities.MaterialItem{}, nil
	}
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		rows = append(rows, strings.Split(strings.TrimRight(line, "\r"), "\t"))
	}
	return im.ParseRows(rows, materialType)
}

// ParseXLSX reads the first sheet of a workbook using the same column layout as ParseText
func (im *Importer) ParseXLSX(r io.Reader, materialType entities.MaterialType) ([]entities.MaterialItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return im.ParseRows(rows, materialType)
}

// LoadFile imports a .xlsx workbook or a tab separated text file
func (im *Importer) LoadFile(filename string, materialType entities.MaterialType) ([]entities.MaterialItem, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file %s: %w", filename, err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return im.ParseXLSX(file, materialType)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file %s: %w", filename, err)
	}
	return im.ParseText(string(data), materialType)
}

// ParseRows maps already split rows onto material lines
func (im *Importer) ParseRows(rows [][]string, materialType entities.MaterialType) ([]entities.MaterialItem, error) {
	if !materialType.Valid() {
		return nil, fmt.Errorf("invalid material type: %q", materialType)
	}

	items := make([]entities.MaterialItem, 0, len(rows))
	for _, cols := range rows {
		if isHeader(cols) || len(cols) < 2 {
			continue
		}

		item := entities.MaterialItem{
			ID:             im.newID(),
			Type:           materialType,
			PurchaseStatus: entities.PurchasePending,
			Unit:           "un",
		}
		switch materialType {
		case entities.MaterialSheet:
			parseSheet(&item, cols)
		case entities.MaterialBar:
			parseBar(&item, cols)
		case entities.MaterialCommercial:
			parseCommercial(&item, cols)
		}

		if item.Quantity.IsPositive() {
			items = append(items, item)
		}
	}
	return items, nil
}

func parseSheet(item *entities.MaterialItem, cols []string) {
	thickness := col(cols, 0)
	width := col(cols, 1)
	length := col(cols, 2)

	item.Quantity = services.ParseQuantity(col(cols, 3))
	item.Name = orDefault(col(cols, 4), "Sem Título")
	item.StockNumber = col(cols, 5)
	item.Unit = "pç"
	item.Details = fmt.Sprintf("%s | %smm x %smm x %smm", col(cols, 6), thickness, width, length)
}

func parseBar(item *entities.MaterialItem, cols []string) {
	base := col(cols, 1)
	gauge := col(cols, 2)

	item.Quantity = services.ParseQuantity(col(cols, 0))
	item.Name = orDefault(strings.TrimSpace(base+" "+gauge), "Item Sem Nome")
	item.BaseDescription = base
	item.Gauge = gauge
	item.Unit = "pç"
	item.StockNumber = col(cols, 4)
	item.Details = col(cols, 5)
	item.DrawingNumber = col(cols, 6)

	if length := services.ParseQuantity(col(cols, 3)); length.IsPositive() {
		item.SetCutLength(length)
	}
}

func parseCommercial(item *entities.MaterialItem, cols []string) {
	item.Quantity = services.ParseQuantity(col(cols, 0))
	item.Name = orDefault(col(cols, 1), "Item Comercial")
	item.Details = col(cols, 2)
	item.AssignedTo = "Almoxarifado"
}

func isHeader(cols []string) bool {
	lower := strings.ToLower(strings.Join(cols, "\t"))
	for _, kw := range headerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func col(cols []string, i int) string {
	if i >= len(cols) {
		return ""
	}
	return strings.TrimSpace(cols[i])
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
