package importfile

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/importing"
	"github.com/xuri/excelize/v2"
)

// Location price columns follow the "price in <location>" header
// convention; the sale column is matched by name.
const (
	locationPricePrefix = "price in "
	salePriceHeader     = "sale price"
)

// attributeHeaders are free-text columns parsed into normalized numeric
// attributes for deduplication and display
var attributeHeaders = []string{"diameter", "thread", "length", "width", "height", "weight", "material", "finish"}

// SpreadsheetParser extracts multi-column per-location price tables from
// xlsx exports
type SpreadsheetParser struct{}

// NewSpreadsheetParser creates a spreadsheet parser
func NewSpreadsheetParser() *SpreadsheetParser {
	return &SpreadsheetParser{}
}

// SourceType identifies the format this parser handles
func (p *SpreadsheetParser) SourceType() importing.SourceType {
	return importing.SourceSpreadsheet
}

type sheetLayout struct {
	fieldIdx    map[string]int
	locationIdx map[string]int // folded location name -> column
	saleIdx     int
	attrIdx     map[int]string
	columns     []string
}

// Parse reads the first sheet. Confidence signals are deliberately
// conservative: a generated SKU, a zero price or a missing image all
// flag the row for review.
func (p *SpreadsheetParser) Parse(data []byte, opts ParseOptions) (*ParseOutcome, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, structuralError("file is not a readable spreadsheet")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, structuralError("spreadsheet contains no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, structuralError("cannot read spreadsheet rows")
	}
	if len(rows) == 0 {
		return nil, structuralError("spreadsheet is empty")
	}

	layout := discoverLayout(rows[0])
	if _, ok := layout.fieldIdx[FieldName]; !ok {
		return nil, structuralError("no product name column found")
	}
	if len(layout.locationIdx) == 0 && layout.saleIdx < 0 {
		if _, ok := layout.fieldIdx[FieldPrice]; !ok {
			return nil, structuralError("no price column found")
		}
	}

	strategy := opts.PriceStrategy
	if !strategy.IsValid() {
		strategy = importing.PriceStrategySale
	}

	outcome := &ParseOutcome{Columns: layout.columns}
	position := 0
	currentCategory := ""
	for _, record := range rows[1:] {
		if recordEmpty(record) {
			continue
		}
		// A row with only the category cell filled starts a new section.
		if section := sectionHeader(record, layout); section != "" {
			currentCategory = section
			continue
		}
		position++
		outcome.Rows = append(outcome.Rows, *p.buildRow(position, record, layout, strategy, opts.WholesaleLocation, currentCategory))
	}

	if len(outcome.Rows) == 0 {
		outcome.Warnings = append(outcome.Warnings,
			importing.NewWarning(importing.IssueCodeLowConfidence, "spreadsheet contains no data rows"))
	}

	return outcome, nil
}

func (p *SpreadsheetParser) buildRow(position int, record []string, layout sheetLayout, strategy importing.PriceStrategy, wholesaleLocation, fallbackCategory string) *importing.ImportRow {
	get := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return importing.CleanSpace(record[idx])
	}
	getField := func(field string) string {
		idx, ok := layout.fieldIdx[field]
		if !ok {
			return ""
		}
		return get(idx)
	}

	category := getField(FieldCategory)
	if category == "" {
		category = fallbackCategory
	}
	name := getField(FieldName)
	row := importing.NewImportRow(position, category, name, baseNameOf(name))
	row.Label = getField(FieldLabel)
	row.ImageURL = getField(FieldImage)

	if category == "" {
		row.AddIssue(importing.NewError(importing.IssueCodeMissingCategory, "category is required"))
	}
	if name == "" {
		row.AddIssue(importing.NewError(importing.IssueCodeMissingName, "product name is required"))
	}

	// Per-location prices.
	row.LocationPrices = make(map[string]decimal.Decimal, len(layout.locationIdx))
	for location, idx := range layout.locationIdx {
		text := get(idx)
		if text == "" {
			continue
		}
		price, err := parsePrice(text)
		if err != nil {
			row.AddIssue(importing.NewWarning(importing.IssueCodeInvalidPrice,
				fmt.Sprintf("unreadable price %q for location %q", text, location)))
			continue
		}
		row.LocationPrices[location] = price
	}

	// Sale price doubles as the base price for the sale strategy.
	if layout.saleIdx >= 0 {
		if text := get(layout.saleIdx); text != "" {
			if price, err := parsePrice(text); err == nil {
				row.Price = price
			}
		}
	}
	if row.Price.IsZero() {
		if text := getField(FieldPrice); text != "" {
			if price, err := parsePrice(text); err == nil {
				row.Price = price
			}
		}
	}

	retail := importing.ResolveRetailPrice(row, strategy)
	row.RetailPrice = &retail
	row.Wholesale = importing.ResolveWholesalePrice(row, wholesaleLocation)

	// Numeric attributes from free-text columns.
	for idx, attrName := range layout.attrIdx {
		if value := get(idx); value != "" {
			row.Attributes[attrName] = importing.NormalizeNumericToken(value)
		}
	}

	// Conservative confidence signals.
	if sku := getField(FieldSKU); sku != "" {
		row.SKU = strings.ToUpper(sku)
	} else if name != "" {
		row.SKU = generateSKU(name, position)
		row.SKUGenerated = true
		row.FlagReview(importing.IssueCodeGeneratedSKU, "SKU was generated from the product name")
	}
	if retail.IsZero() {
		row.FlagReview(importing.IssueCodeZeroPrice, "retail price resolved to zero")
	}
	if row.ImageURL == "" {
		row.FlagReview(importing.IssueCodeMissingImage, "no image reference found")
	}

	return row
}

func discoverLayout(header []string) sheetLayout {
	layout := sheetLayout{
		fieldIdx:    make(map[string]int),
		locationIdx: make(map[string]int),
		saleIdx:     -1,
		attrIdx:     make(map[int]string),
		columns:     make([]string, len(header)),
	}

	for i, col := range header {
		col = importing.CleanSpace(col)
		layout.columns[i] = col
		folded := importing.Fold(col)

		switch {
		case strings.HasPrefix(folded, locationPricePrefix):
			location := importing.Fold(strings.TrimPrefix(folded, locationPricePrefix))
			if location != "" {
				layout.locationIdx[location] = i
			}
		case folded == salePriceHeader:
			layout.saleIdx = i
		default:
			if field, ok := headerAliases[folded]; ok {
				if _, taken := layout.fieldIdx[field]; !taken {
					layout.fieldIdx[field] = i
					continue
				}
			}
			for _, attr := range attributeHeaders {
				if folded == attr {
					layout.attrIdx[i] = attr
					break
				}
			}
		}
	}
	return layout
}

// sectionHeader detects category section rows: only the first cell (or
// the mapped category cell) carries text
func sectionHeader(record []string, layout sheetLayout) string {
	nonEmpty := 0
	first := ""
	for i, cell := range record {
		cell = importing.CleanSpace(cell)
		if cell == "" {
			continue
		}
		nonEmpty++
		if i == 0 || i == layout.fieldIdx[FieldCategory] {
			first = cell
		}
	}
	if nonEmpty == 1 && first != "" {
		if nameIdx, ok := layout.fieldIdx[FieldName]; !ok || nameIdx != 0 {
			return first
		}
	}
	return ""
}

// baseNameOf strips a trailing parenthetical or size suffix from a
// product name for grouping
func baseNameOf(name string) string {
	name = importing.CleanSpace(name)
	if idx := strings.LastIndex(name, "("); idx > 0 && strings.HasSuffix(name, ")") {
		name = importing.CleanSpace(name[:idx])
	}
	return name
}
