package csv

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("imp-%d", n)
	}
}

func TestParseText_Bars(t *testing.T) {
	im := NewImporter(sequence())
	text := "Qtde\tDescricao\tBitola\tComprimento\n" +
		"4\tBarra chata\t1/4\"\t1500\t123\tSAE 1020\tDES-01\n" +
		"0\tBarra zerada\t1\"\t100\n" +
		"2,5\t\t\t0\n" +
		"solo\n"

	items, err := im.ParseText(text, entities.MaterialBar)
	require.NoError(t, err)
	require.Len(t, items, 2)

	bar := items[0]
	assert.Equal(t, "imp-1", bar.ID)
	assert.Equal(t, "Barra chata 1/4\"", bar.Name)
	assert.Equal(t, "pç", bar.Unit)
	assert.Equal(t, "123", bar.StockNumber)
	assert.Equal(t, "SAE 1020", bar.Details)
	assert.Equal(t, "DES-01", bar.DrawingNumber)
	assert.True(t, bar.TotalLengthCalc.Decimal.Equal(decimal.NewFromInt(6016)))
	assert.Equal(t, entities.PurchasePending, bar.PurchaseStatus)
	assert.False(t, bar.InStock)

	unnamed := items[1]
	assert.Equal(t, "Item Sem Nome", unnamed.Name)
	assert.True(t, unnamed.Quantity.Equal(decimal.RequireFromString("2.5")))
	assert.False(t, unnamed.TotalLengthCalc.Valid)
}

func TestParseText_Sheets(t *testing.T) {
	im := NewImporter(sequence())
	text := "Espessura\tLargura\tComprimento\tQtde\tTitulo\n9,53\t1200\t3000\t3\tBase\t77\tA36\r\n6\t100\t100\t1\t\t\tA36"

	items, err := im.ParseText(text, entities.MaterialSheet)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Base", items[0].Name)
	assert.Equal(t, "A36 | 9,53mm x 1200mm x 3000mm", items[0].Details)
	assert.Equal(t, "77", items[0].StockNumber)
	assert.Equal(t, "Sem Título", items[1].Name)
}

func TestParseText_Commercial(t *testing.T) {
	im := NewImporter(sequence())

	items, err := im.ParseText("10\tParafuso M8\tInox\n5\t", entities.MaterialCommercial)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Parafuso M8", items[0].Name)
	assert.Equal(t, "un", items[0].Unit)
	assert.Equal(t, "Almoxarifado", items[0].AssignedTo)
	assert.Equal(t, "Item Comercial", items[1].Name)
}

func TestParseText_QuantityWithUnits(t *testing.T) {
	im := NewImporter(sequence())

	items, err := im.ParseText("4 pç\tParafuso M10\tZincado\n1.500,5\tArruela M10\t", entities.MaterialCommercial)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].Quantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, items[1].Quantity.Equal(decimal.RequireFromString("1.5")))
}

func TestParseText_Empty(t *testing.T) {
	items, err := NewImporter(sequence()).ParseText("   ", entities.MaterialBar)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = NewImporter(sequence()).ParseText("1\tx", entities.MaterialType("TUBO"))
	assert.Error(t, err)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Qtde", "Descricao"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"8", "Arruela", "Zincado"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	items, err := NewImporter(sequence()).ParseXLSX(&buf, entities.MaterialCommercial)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Arruela", items[0].Name)
	assert.True(t, items[0].Quantity.Equal(decimal.NewFromInt(8)))
}
