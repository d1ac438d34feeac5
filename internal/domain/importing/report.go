package importing

import "github.com/google/uuid"

// PriceStrategy selects how the spreadsheet parser and commit engine
// derive a row's retail price from per-location columns
type PriceStrategy string

const (
	// PriceStrategySale uses the designated sale-price column
	PriceStrategySale PriceStrategy = "sale"
	// PriceStrategyMaxLocation takes the maximum across location columns
	PriceStrategyMaxLocation PriceStrategy = "maxLocation"
)

// IsValid checks if the price strategy is supported
func (p PriceStrategy) IsValid() bool {
	return p == PriceStrategySale || p == PriceStrategyMaxLocation
}

// CommitOptions are the per-source options supplied at commit time.
// This is an immutable value threaded through the commit call, never
// ambient state.
type CommitOptions struct {
	PriceStrategy     PriceStrategy `json:"price_strategy,omitempty"`
	WholesaleLocation string        `json:"wholesale_location,omitempty"`
	SkipPriceZero     bool          `json:"skip_price_zero"`
	SkipMissingImage  bool          `json:"skip_missing_image"`
}

// RowOutcome is the per-row detail line of a commit report
type RowOutcome struct {
	RowID   uuid.UUID `json:"row_id"`
	SKU     string    `json:"sku"`
	Status  RowStatus `json:"status"`
	Message string    `json:"message,omitempty"`
}

// CommitReport is the commit engine's output: counts, per-row detail,
// and the verbatim set of entity ids created (required by undo)
type CommitReport struct {
	Totals             JobTotals    `json:"totals"`
	Details            []RowOutcome `json:"details"`
	CreatedCategoryIDs []uuid.UUID  `json:"created_category_ids"`
	CreatedProductIDs  []uuid.UUID  `json:"created_product_ids"`
	CreatedVariantIDs  []uuid.UUID  `json:"created_variant_ids"`
}

// HasCreations reports whether the commit created anything undo could revert
func (r *CommitReport) HasCreations() bool {
	if r == nil {
		return false
	}
	return len(r.CreatedCategoryIDs)+len(r.CreatedProductIDs)+len(r.CreatedVariantIDs) > 0
}

// RevertedCounts summarizes what an undo deactivated
type RevertedCounts struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
	Variants   int `json:"variants"`
}
