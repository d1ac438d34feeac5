package importing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// RowStatus is the lifecycle status of an import row. A row starts READY
// (or FAILED when it carries an error-level issue) and receives exactly
// one terminal outcome per commit attempt.
type RowStatus string

const (
	RowStatusReady   RowStatus = "READY"
	RowStatusCreated RowStatus = "CREATED"
	RowStatusUpdated RowStatus = "UPDATED"
	RowStatusSkipped RowStatus = "SKIPPED"
	RowStatusFailed  RowStatus = "FAILED"
)

// ImportRow is one candidate product variant within a job
type ImportRow struct {
	shared.BaseEntity
	JobID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Position     int       `gorm:"not null"` // row index or page number, per source
	CategoryName string    `gorm:"type:varchar(200)"`
	ProductName  string    `gorm:"type:varchar(300)"` // original text
	BaseName     string    `gorm:"type:varchar(300)"` // cleaned, used for grouping
	DisplayName  string    `gorm:"type:varchar(300)"`
	ProductKey   string    `gorm:"type:varchar(512);index"`

	SKU          string           `gorm:"type:varchar(64)"`
	SKUGenerated bool             `gorm:"not null;default:false"`
	Label        string           `gorm:"type:varchar(200)"`
	Price        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	RetailPrice  *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Wholesale    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ImageURL     string           `gorm:"type:varchar(500)"`

	// Attributes is the open-ended free-form attribute map.
	Attributes map[string]string `gorm:"serializer:json"`

	// LocationPrices is the spreadsheet-specific extension: one price per
	// named location column. Empty for other source types.
	LocationPrices map[string]decimal.Decimal `gorm:"serializer:json"`

	Issues      []Issue   `gorm:"serializer:json"`
	NeedsReview bool      `gorm:"not null;default:false"`
	Status      RowStatus `gorm:"type:varchar(16);not null;default:'READY'"`

	// OutcomeMessage is set by the commit engine alongside the terminal status.
	OutcomeMessage string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ImportRow) TableName() string {
	return "import_rows"
}

// NewImportRow creates a row with its grouping key derived from the
// category and base name
func NewImportRow(position int, categoryName, productName, baseName string) *ImportRow {
	row := &ImportRow{
		BaseEntity:   shared.NewBaseEntity(),
		Position:     position,
		CategoryName: CleanSpace(categoryName),
		ProductName:  productName,
		BaseName:     CleanSpace(baseName),
		DisplayName:  CleanSpace(productName),
		Attributes:   make(map[string]string),
		Status:       RowStatusReady,
	}
	row.RecomputeKey()
	return row
}

// RecomputeKey rebuilds ProductKey from the current category and base
// name. Must be called after a category override is applied.
func (r *ImportRow) RecomputeKey() {
	r.ProductKey = ProductKey(r.CategoryName, r.BaseName)
}

// AddIssue attaches an issue; an error-level issue moves the row out of READY
func (r *ImportRow) AddIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
	if issue.Level == IssueError && r.Status == RowStatusReady {
		r.Status = RowStatusFailed
		if r.OutcomeMessage == "" {
			r.OutcomeMessage = issue.Message
		}
	}
}

// FlagReview marks the row as needing explicit human acknowledgement
// before commit, attaching the reason as a warning
func (r *ImportRow) FlagReview(code, message string) {
	r.NeedsReview = true
	r.Issues = append(r.Issues, NewWarning(code, message))
}

// HasErrors reports whether the row carries any error-level issue
func (r *ImportRow) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Level == IssueError {
			return true
		}
	}
	return false
}

// IsReady reports whether the row is eligible for commit
func (r *ImportRow) IsReady() bool {
	return r.Status == RowStatusReady
}

// OverrideCategory applies a category rename and recomputes the grouping key
func (r *ImportRow) OverrideCategory(categoryName string) {
	r.CategoryName = CleanSpace(categoryName)
	r.RecomputeKey()
}

// EffectivePrice returns the retail price when one was resolved,
// otherwise the base price
func (r *ImportRow) EffectivePrice() decimal.Decimal {
	if r.RetailPrice != nil {
		return *r.RetailPrice
	}
	return r.Price
}
