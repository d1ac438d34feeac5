package importfile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storefront/backend/internal/domain/importing"
)

func TestDelimitedParser_InferredMapping(t *testing.T) {
	data := []byte("Category,Name,Price,SKU,Diameter\n" +
		"Fasteners,Hex Bolt M10,120.50,HB-M10,10\n")

	outcome, err := NewDelimitedParser().Parse(data, ParseOptions{})
	require.NoError(t, err)
	require.Len(t, outcome.Rows, 1)

	row := outcome.Rows[0]
	assert.Equal(t, "Fasteners", row.CategoryName)
	assert.Equal(t, "Hex Bolt M10", row.ProductName)
	assert.Equal(t, "HB-M10", row.SKU)
	assert.False(t, row.SKUGenerated)
	assert.True(t, row.Price.Equal(decimal.RequireFromString("120.50")))
	assert.Equal(t, importing.RowStatusReady, row.Status)
	assert.Equal(t, []string{"Category", "Name", "Price", "SKU", "Diameter"}, outcome.Columns)

	// Unmapped columns survive as normalized attributes.
	assert.Equal(t, "10", row.Attributes["Diameter"])
}

func TestDelimitedParser_MissingPriceRowKeepsParsing(t *testing.T) {
	data := []byte("category,name,price\n" +
		"Fasteners,Hex Bolt M10,100\n" +
		"Fasteners,Hex Bolt M12,\n" +
		"Fasteners,Hex Bolt M14,140\n")

	outcome, err := NewDelimitedParser().Parse(data, ParseOptions{})
	require.NoError(t, err)
	require.Len(t, outcome.Rows, 3)

	ready := 0
	for _, row := range outcome.Rows {
		if row.IsReady() {
			ready++
		}
	}
	assert.Equal(t, 2, ready)

	bad := outcome.Rows[1]
	assert.True(t, bad.HasErrors())
	require.NotEmpty(t, bad.Issues)
	assert.Equal(t, importing.IssueCodeMissingPrice, bad.Issues[0].Code)
}

func TestDelimitedParser_ExplicitMapping(t *testing.T) {
	data := []byte("Gruppe;Bezeichnung;Preis\n" +
		"Schrauben;Sechskantschraube M10;99,90\n")

	outcome, err := NewDelimitedParser(WithDelimiter(';')).Parse(data, ParseOptions{
		ColumnMapping: map[string]string{
			"Gruppe":      FieldCategory,
			"Bezeichnung": FieldName,
			"Preis":       FieldPrice,
		},
	})
	require.NoError(t, err)
	require.Len(t, outcome.Rows, 1)

	row := outcome.Rows[0]
	assert.Equal(t, "Schrauben", row.CategoryName)
	assert.True(t, row.Price.Equal(decimal.RequireFromString("99.90")))
	assert.True(t, row.SKUGenerated)
	assert.True(t, row.NeedsReview, "generated SKU flags review")
}

func TestDelimitedParser_StructuralRejections(t *testing.T) {
	parser := NewDelimitedParser()

	_, err := parser.Parse(nil, ParseOptions{})
	assert.Error(t, err, "empty file is rejected")

	_, err = parser.Parse([]byte{0xff, 0xfe, 0x00}, ParseOptions{})
	assert.Error(t, err, "non-UTF-8 input is rejected")

	_, err = parser.Parse([]byte("name,price\nBolt,10\n"), ParseOptions{})
	assert.Error(t, err, "missing required category column is rejected")
}

func TestDelimitedParser_BOMAndEmptyRows(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("category,name,price\n\n,,\nFasteners,Bolt,5\n")...)

	outcome, err := NewDelimitedParser().Parse(data, ParseOptions{})
	require.NoError(t, err)
	require.Len(t, outcome.Rows, 1)
	assert.Equal(t, "Bolt", outcome.Rows[0].ProductName)
}

func TestDelimitedParser_ZeroPriceFlagsReview(t *testing.T) {
	data := []byte("category,name,price,sku\nFasteners,Bolt,0,B-1\n")

	outcome, err := NewDelimitedParser().Parse(data, ParseOptions{})
	require.NoError(t, err)
	require.Len(t, outcome.Rows, 1)
	assert.True(t, outcome.Rows[0].NeedsReview)
	assert.True(t, outcome.Rows[0].IsReady())
}
