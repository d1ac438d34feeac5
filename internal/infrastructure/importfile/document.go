package importfile

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/importing"
)

// DocumentParser segments extracted price-list text into
// category/product/variant/price rows. Text extraction from scanned or
// typeset documents is unreliable, so every produced row is flagged for
// review; that is policy, not an oversight.
type DocumentParser struct{}

// NewDocumentParser creates a document-text parser
func NewDocumentParser() *DocumentParser {
	return &DocumentParser{}
}

// SourceType identifies the format this parser handles
func (p *DocumentParser) SourceType() importing.SourceType {
	return importing.SourceDocument
}

// Parse segments the extracted text. Pages are separated by form feeds.
func (p *DocumentParser) Parse(data []byte, _ ParseOptions) (*ParseOutcome, error) {
	data = stripBOM(data)
	if len(data) == 0 {
		return nil, structuralError("document text is empty")
	}
	if !utf8.Valid(data) {
		return nil, structuralError("document text is not valid UTF-8")
	}

	outcome := &ParseOutcome{}
	position := 0
	currentCategory := ""
	currentProduct := ""

	for pageNo, page := range strings.Split(string(data), "\f") {
		for _, line := range strings.Split(page, "\n") {
			line = importing.CleanSpace(line)
			if line == "" {
				continue
			}

			text, price, hasPrice := splitTrailingPrice(line)

			// "Page N" markers from the extractor are noise, not rows.
			if hasPrice && importing.Fold(text) == "page" {
				continue
			}

			if !hasPrice {
				if looksLikeCategory(text) {
					currentCategory = strings.TrimSuffix(text, ":")
					currentProduct = ""
				} else {
					outcome.Warnings = append(outcome.Warnings, importing.NewWarning(
						importing.IssueCodeLowConfidence, "unrecognized line: "+text))
				}
				continue
			}

			position++
			name := text
			label := ""
			if isVariantLine(line) && currentProduct != "" {
				name = currentProduct
				label = strings.TrimLeft(text, "-• ")
			} else {
				currentProduct = text
			}

			row := importing.NewImportRow(position, currentCategory, name, name)
			row.Label = label
			row.Attributes["page"] = strconv.Itoa(pageNo + 1)

			if currentCategory == "" {
				row.AddIssue(importing.NewError(importing.IssueCodeMissingCategory,
					"no category heading precedes this line"))
			}

			if parsed, err := parsePrice(price); err == nil {
				row.Price = parsed
			} else {
				row.AddIssue(importing.NewError(importing.IssueCodeInvalidPrice,
					"cannot parse price "+strconv.Quote(price)))
			}

			row.SKU = generateSKU(name+" "+label, position)
			row.SKUGenerated = true

			// Conservative policy: heuristic extraction always needs a
			// human pass before commit.
			row.FlagReview(importing.IssueCodeLowConfidence, "extracted from document text")

			outcome.Rows = append(outcome.Rows, *row)
		}
	}

	if len(outcome.Rows) == 0 {
		return nil, structuralError("no price lines recognized in document text")
	}

	return outcome, nil
}

// splitTrailingPrice splits "Hex Bolt M10 ..... 120,50" into the text
// part and the trailing price token
func splitTrailingPrice(line string) (text, price string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return line, "", false
	}
	last := fields[len(fields)-1]
	if !looksLikePrice(last) {
		return line, "", false
	}
	text = strings.Join(fields[:len(fields)-1], " ")
	text = strings.TrimRight(text, ". …")
	return importing.CleanSpace(text), last, text != ""
}

func looksLikePrice(token string) bool {
	digits := 0
	for _, r := range token {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',' || r == ' ':
		default:
			return false
		}
	}
	return digits > 0
}

// looksLikeCategory treats short digit-free lines and heading-style
// lines (all caps or trailing colon) as category headings
func looksLikeCategory(line string) bool {
	if strings.HasSuffix(line, ":") {
		return true
	}
	if strings.ContainsAny(line, "0123456789") {
		return false
	}
	if len([]rune(line)) > 60 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				// Mixed-case short lines still count as headings.
				return len(strings.Fields(line)) <= 4
			}
		}
	}
	return hasLetter
}

func isVariantLine(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•")
}
