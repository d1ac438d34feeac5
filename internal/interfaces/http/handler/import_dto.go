package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/importing"
)

// ParseRequest is the multipart form companion of a file upload
type ParseRequest struct {
	Format            string `form:"format" binding:"required,importformat"`
	PriceStrategy     string `form:"price_strategy" binding:"omitempty,oneof=sale maxLocation"`
	WholesaleLocation string `form:"wholesale_location"`
}

// CommitJobRequest is the JSON body of a commit attempt
type CommitJobRequest struct {
	Checksum         string                          `json:"checksum" binding:"required"`
	AllowNeedsReview bool                            `json:"allow_needs_review"`
	Overrides        map[string]GroupOverrideRequest `json:"overrides"`
	Options          *CommitOptionsRequest           `json:"options"`
}

// GroupOverrideRequest routes one product group at commit time
type GroupOverrideRequest struct {
	TargetProductID *uuid.UUID     `json:"target_product_id"`
	CategoryName    string         `json:"category_name"`
	Labels          map[int]string `json:"labels"`
}

// CommitOptionsRequest carries the spreadsheet price and skip settings
type CommitOptionsRequest struct {
	PriceStrategy     string `json:"price_strategy" binding:"omitempty,oneof=sale maxLocation"`
	WholesaleLocation string `json:"wholesale_location"`
	SkipPriceZero     bool   `json:"skip_price_zero"`
	SkipMissingImage  bool   `json:"skip_missing_image"`
}

// UndoRequest optionally names the job to undo. Absent means the most
// recently committed job.
type UndoRequest struct {
	JobID *uuid.UUID `json:"job_id"`
}

// toOverrides converts the request overrides into the domain form
func (r *CommitJobRequest) toOverrides() *importing.Overrides {
	if len(r.Overrides) == 0 {
		return nil
	}
	groups := make(map[string]importing.GroupOverride, len(r.Overrides))
	for key, o := range r.Overrides {
		groups[key] = importing.GroupOverride{
			TargetProductID: o.TargetProductID,
			CategoryName:    o.CategoryName,
			Labels:          o.Labels,
		}
	}
	return &importing.Overrides{Groups: groups}
}

// toOptions converts the request options into the domain form
func (r *CommitJobRequest) toOptions() importing.CommitOptions {
	if r.Options == nil {
		return importing.CommitOptions{}
	}
	return importing.CommitOptions{
		PriceStrategy:     importing.PriceStrategy(r.Options.PriceStrategy),
		WholesaleLocation: r.Options.WholesaleLocation,
		SkipPriceZero:     r.Options.SkipPriceZero,
		SkipMissingImage:  r.Options.SkipMissingImage,
	}
}

// JobSummaryResponse is a job without row detail
type JobSummaryResponse struct {
	ID          uuid.UUID            `json:"id"`
	SourceType  importing.SourceType `json:"source_type"`
	Status      importing.JobStatus  `json:"status"`
	Checksum    string               `json:"checksum"`
	Totals      importing.JobTotals  `json:"totals"`
	FailureNote string               `json:"failure_note,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	CommittedAt *time.Time           `json:"committed_at,omitempty"`
	UndoneAt    *time.Time           `json:"undone_at,omitempty"`
}

// JobDetailResponse is a job with full row detail for review UIs
type JobDetailResponse struct {
	JobSummaryResponse
	Rows     []RowResponse           `json:"rows"`
	Warnings []importing.Issue       `json:"warnings,omitempty"`
	Errors   []importing.Issue       `json:"errors,omitempty"`
	Report   *importing.CommitReport `json:"report,omitempty"`
}

// RowResponse is one import row on the wire
type RowResponse struct {
	ID             uuid.UUID                  `json:"id"`
	Position       int                        `json:"position"`
	CategoryName   string                     `json:"category_name"`
	DisplayName    string                     `json:"display_name"`
	BaseName       string                     `json:"base_name"`
	ProductKey     string                     `json:"product_key"`
	SKU            string                     `json:"sku"`
	SKUGenerated   bool                       `json:"sku_generated"`
	Label          string                     `json:"label,omitempty"`
	Price          decimal.Decimal            `json:"price"`
	RetailPrice    *decimal.Decimal           `json:"retail_price,omitempty"`
	Wholesale      *decimal.Decimal           `json:"wholesale,omitempty"`
	ImageURL       string                     `json:"image_url,omitempty"`
	Attributes     map[string]string          `json:"attributes,omitempty"`
	LocationPrices map[string]decimal.Decimal `json:"location_prices,omitempty"`
	Issues         []importing.Issue          `json:"issues,omitempty"`
	NeedsReview    bool                       `json:"needs_review"`
	Status         importing.RowStatus        `json:"status"`
	OutcomeMessage string                     `json:"outcome_message,omitempty"`
}

func toJobSummary(job *importing.ImportJob) JobSummaryResponse {
	return JobSummaryResponse{
		ID:          job.ID,
		SourceType:  job.SourceType,
		Status:      job.Status,
		Checksum:    job.Checksum,
		Totals:      job.Totals,
		FailureNote: job.FailureNote,
		CreatedAt:   job.CreatedAt,
		CommittedAt: job.CommittedAt,
		UndoneAt:    job.UndoneAt,
	}
}

func toJobDetail(job *importing.ImportJob) JobDetailResponse {
	rows := make([]RowResponse, 0, len(job.Rows))
	for i := range job.Rows {
		rows = append(rows, toRowResponse(&job.Rows[i]))
	}
	return JobDetailResponse{
		JobSummaryResponse: toJobSummary(job),
		Rows:               rows,
		Warnings:           job.Warnings,
		Errors:             job.Errors,
		Report:             job.Report,
	}
}

func toRowResponse(row *importing.ImportRow) RowResponse {
	return RowResponse{
		ID:             row.ID,
		Position:       row.Position,
		CategoryName:   row.CategoryName,
		DisplayName:    row.DisplayName,
		BaseName:       row.BaseName,
		ProductKey:     row.ProductKey,
		SKU:            row.SKU,
		SKUGenerated:   row.SKUGenerated,
		Label:          row.Label,
		Price:          row.Price,
		RetailPrice:    row.RetailPrice,
		Wholesale:      row.Wholesale,
		ImageURL:       row.ImageURL,
		Attributes:     row.Attributes,
		LocationPrices: row.LocationPrices,
		Issues:         row.Issues,
		NeedsReview:    row.NeedsReview,
		Status:         row.Status,
		OutcomeMessage: row.OutcomeMessage,
	}
}
