// Package importfile contains the format parsers of the catalog import
// pipeline. All parsers share one contract: malformed content becomes
// rows carrying error-level issues, while structurally unreadable input
// is rejected with an error before any job is created.
package importfile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/importing"
	"github.com/storefront/backend/internal/domain/shared"
)

// Canonical field names a column mapping may bind
const (
	FieldCategory = "category"
	FieldName     = "name"
	FieldPrice    = "price"
	FieldSKU      = "sku"
	FieldLabel    = "label"
	FieldImage    = "image"
)

// ParseOptions carries per-parse configuration
type ParseOptions struct {
	// ColumnMapping binds column headers to canonical fields for the
	// delimited parser. When absent the mapping is inferred from headers.
	ColumnMapping map[string]string

	// PriceStrategy selects the retail price derivation for spreadsheets
	PriceStrategy importing.PriceStrategy

	// WholesaleLocation names the location column the wholesale price is
	// taken from. Empty leaves the wholesale price absent.
	WholesaleLocation string
}

// ParseOutcome is the common output contract of every parser
type ParseOutcome struct {
	Rows     []importing.ImportRow
	Warnings []importing.Issue
	Errors   []importing.Issue
	Columns  []string
}

// Parser turns raw uploaded bytes into canonical import rows
type Parser interface {
	// SourceType identifies the format this parser handles
	SourceType() importing.SourceType

	// Parse parses the raw bytes. A non-nil error means the input was
	// structurally unreadable as the declared format; no job should be
	// created in that case.
	Parse(data []byte, opts ParseOptions) (*ParseOutcome, error)
}

// ForSource returns the parser for a source type
func ForSource(sourceType importing.SourceType) (Parser, error) {
	switch sourceType {
	case importing.SourceDelimited:
		return NewDelimitedParser(), nil
	case importing.SourceSpreadsheet:
		return NewSpreadsheetParser(), nil
	case importing.SourceDocument:
		return NewDocumentParser(), nil
	default:
		return nil, shared.NewDomainError(importing.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unsupported import format %q", sourceType))
	}
}

// structuralError builds the rejection returned before any job is created
func structuralError(message string) error {
	return shared.NewDomainError(importing.ErrCodeInvalidFile, message)
}

// generateSKU derives a stable placeholder SKU from the row's name and
// position when the source provides none
func generateSKU(name string, position int) string {
	slug := strings.ToUpper(importing.Slug(name))
	slug = strings.ReplaceAll(slug, "-", "")
	if len(slug) > 16 {
		slug = slug[:16]
	}
	if slug == "" {
		slug = "ROW"
	}
	return fmt.Sprintf("IMP-%s-%d", slug, position)
}

// parsePrice parses a price token tolerating thousand separators and
// decimal commas. Returns an error for non-numeric input.
func parsePrice(s string) (decimal.Decimal, error) {
	s = importing.CleanSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty price")
	}
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	s = strings.TrimFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-'
	})
	if s == "" {
		return decimal.Zero, fmt.Errorf("no numeric content")
	}
	return decimal.NewFromString(s)
}
