package importfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/importing"
)

// headerAliases maps folded header names to canonical fields for
// mapping inference
var headerAliases = map[string]string{
	"category":  FieldCategory,
	"group":     FieldCategory,
	"section":   FieldCategory,
	"name":      FieldName,
	"product":   FieldName,
	"title":     FieldName,
	"price":     FieldPrice,
	"cost":      FieldPrice,
	"retail":    FieldPrice,
	"sku":       FieldSKU,
	"code":      FieldSKU,
	"article":   FieldSKU,
	"label":     FieldLabel,
	"variant":   FieldLabel,
	"size":      FieldLabel,
	"image":     FieldImage,
	"photo":     FieldImage,
	"image url": FieldImage,
}

// DelimitedParser parses delimited text files (CSV and friends) by a
// configurable column mapping
type DelimitedParser struct {
	delimiter rune
}

// DelimitedOption is a functional option for DelimitedParser
type DelimitedOption func(*DelimitedParser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) DelimitedOption {
	return func(p *DelimitedParser) {
		p.delimiter = d
	}
}

// NewDelimitedParser creates a delimited-text parser
func NewDelimitedParser(opts ...DelimitedOption) *DelimitedParser {
	p := &DelimitedParser{delimiter: ','}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SourceType identifies the format this parser handles
func (p *DelimitedParser) SourceType() importing.SourceType {
	return importing.SourceDelimited
}

// Parse parses the raw bytes into canonical rows. Rows missing a
// required field come back with an error-level issue; only structurally
// unreadable input returns a non-nil error.
func (p *DelimitedParser) Parse(data []byte, opts ParseOptions) (*ParseOutcome, error) {
	data = stripBOM(data)
	if len(data) == 0 {
		return nil, structuralError("file is empty")
	}
	if !utf8.Valid(data) {
		return nil, structuralError("file is not valid UTF-8")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = p.delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, structuralError("missing header row")
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = importing.CleanSpace(h)
	}

	mapping := opts.ColumnMapping
	if len(mapping) == 0 {
		mapping = inferMapping(columns)
	}
	fieldIdx, attrIdx := bindColumns(columns, mapping)

	for _, required := range []string{FieldCategory, FieldName, FieldPrice} {
		if _, ok := fieldIdx[required]; !ok {
			return nil, structuralError(fmt.Sprintf("no column mapped to required field %q", required))
		}
	}

	outcome := &ParseOutcome{Columns: columns}
	position := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			position++
			row := importing.NewImportRow(position, "", "", "")
			row.AddIssue(importing.NewError(importing.IssueCodeMalformedRow, err.Error()))
			outcome.Rows = append(outcome.Rows, *row)
			continue
		}
		if recordEmpty(record) {
			continue
		}
		position++
		outcome.Rows = append(outcome.Rows, *p.buildRow(position, record, fieldIdx, attrIdx, columns))
	}

	if len(outcome.Rows) == 0 {
		outcome.Warnings = append(outcome.Warnings,
			importing.NewWarning(importing.IssueCodeLowConfidence, "file contains no data rows"))
	}

	return outcome, nil
}

func (p *DelimitedParser) buildRow(position int, record []string, fieldIdx map[string]int, attrIdx map[int]string, columns []string) *importing.ImportRow {
	get := func(field string) string {
		idx, ok := fieldIdx[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return importing.CleanSpace(record[idx])
	}

	name := get(FieldName)
	row := importing.NewImportRow(position, get(FieldCategory), name, name)
	row.Label = get(FieldLabel)
	row.ImageURL = get(FieldImage)

	if row.CategoryName == "" {
		row.AddIssue(importing.NewError(importing.IssueCodeMissingCategory, "category is required"))
	}
	if name == "" {
		row.AddIssue(importing.NewError(importing.IssueCodeMissingName, "product name is required"))
	}

	priceText := get(FieldPrice)
	if priceText == "" {
		row.AddIssue(importing.NewError(importing.IssueCodeMissingPrice, "price is required"))
	} else if price, err := parsePrice(priceText); err != nil {
		row.AddIssue(importing.NewError(importing.IssueCodeInvalidPrice,
			fmt.Sprintf("cannot parse price %q", priceText)))
	} else {
		row.Price = price
		if price.IsZero() {
			row.FlagReview(importing.IssueCodeZeroPrice, "price resolved to zero")
		}
	}

	if sku := get(FieldSKU); sku != "" {
		row.SKU = strings.ToUpper(sku)
	} else if name != "" {
		row.SKU = generateSKU(name, position)
		row.SKUGenerated = true
		row.FlagReview(importing.IssueCodeGeneratedSKU, "SKU was generated from the product name")
	}

	// Unmapped columns are preserved as free-form attributes.
	for idx, attrName := range attrIdx {
		if idx < len(record) {
			if value := importing.CleanSpace(record[idx]); value != "" {
				row.Attributes[attrName] = importing.NormalizeNumericToken(value)
			}
		}
	}

	return row
}

// inferMapping guesses a column mapping from header names
func inferMapping(columns []string) map[string]string {
	mapping := make(map[string]string)
	bound := make(map[string]bool)
	for _, col := range columns {
		folded := importing.Fold(col)
		if field, ok := headerAliases[folded]; ok && !bound[field] {
			mapping[col] = field
			bound[field] = true
		}
	}
	return mapping
}

// bindColumns resolves the mapping to column indexes; unmapped columns
// become attribute sources keyed by their header name
func bindColumns(columns []string, mapping map[string]string) (map[string]int, map[int]string) {
	fieldIdx := make(map[string]int)
	attrIdx := make(map[int]string)

	folded := make(map[string]string, len(mapping))
	for col, field := range mapping {
		folded[importing.Fold(col)] = field
	}

	for i, col := range columns {
		if field, ok := folded[importing.Fold(col)]; ok {
			if _, taken := fieldIdx[field]; !taken {
				fieldIdx[field] = i
				continue
			}
		}
		if col != "" {
			attrIdx[i] = col
		}
	}
	return fieldIdx, attrIdx
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

func recordEmpty(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
