package importapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/importing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CommitRequest carries everything a commit attempt supplies
type CommitRequest struct {
	// Checksum must equal the staged job's checksum
	Checksum string

	// AllowNeedsReview acknowledges flagged rows. Without it a job with
	// any ready needs-review row is rejected.
	AllowNeedsReview bool

	// Overrides routes product groups at commit time
	Overrides *importing.Overrides

	// Options are the spreadsheet price/skip settings for this commit
	Options importing.CommitOptions
}

// CommitService applies a staged job's ready rows to the catalog inside
// one transaction
type CommitService struct {
	jobs     importing.JobRepository
	uow      importing.UnitOfWork
	resolver *importing.Resolver
	audit    AuditSink
	log      *zap.Logger
}

// NewCommitService creates a commit service
func NewCommitService(
	jobs importing.JobRepository,
	uow importing.UnitOfWork,
	resolver *importing.Resolver,
	audit AuditSink,
	log *zap.Logger,
) *CommitService {
	return &CommitService{
		jobs:     jobs,
		uow:      uow,
		resolver: resolver,
		audit:    audit,
		log:      log.Named("import.commit"),
	}
}

// Commit validates the preconditions and applies the job. On a
// transaction failure the job is marked FAILED and no catalog or row
// state is retained.
func (s *CommitService) Commit(ctx context.Context, jobID uuid.UUID, req CommitRequest) (*importing.CommitReport, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := job.VerifyChecksum(req.Checksum); err != nil {
		return nil, err
	}
	if err := job.EnsureCommittable(); err != nil {
		return nil, err
	}

	ready := job.ReadyRows()
	if !req.AllowNeedsReview {
		for _, row := range ready {
			if row.NeedsReview {
				return nil, shared.NewDomainError(importing.ErrCodeReviewRequired,
					"Job has rows flagged for review; acknowledge them to commit")
			}
		}
	}

	overridesUsed := req.Overrides.Apply(ready)

	if job.SourceType == importing.SourceSpreadsheet {
		s.resolvePrices(ready, req.Options)
	}

	plan := s.partition(job.SourceType, ready, req.Options)

	report := &importing.CommitReport{}
	err = s.uow.Do(ctx, func(tx importing.TxContext) error {
		if err := s.applyGroups(ctx, tx, plan, overridesUsed, report); err != nil {
			return err
		}

		report.Totals.Skipped = len(plan.skipped)
		for _, skip := range plan.skipped {
			report.Details = append(report.Details, importing.RowOutcome{
				RowID:   skip.row.ID,
				SKU:     skip.row.SKU,
				Status:  importing.RowStatusSkipped,
				Message: skip.reason,
			})
		}

		if err := job.MarkCommitted(report.Totals, report, req.Overrides, &req.Options); err != nil {
			return err
		}
		if err := tx.Jobs().SaveCommitOutcome(ctx, job); err != nil {
			return err
		}
		return s.persistRowStatuses(ctx, tx, report)
	})
	if err != nil {
		// Domain rejections surfaced from inside the closure roll the
		// transaction back but are not commit failures.
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}

		s.log.Error("commit transaction failed",
			zap.String("job_id", jobID.String()),
			zap.Error(err))
		note := fmt.Sprintf("commit failed: %v", err)
		if markErr := s.jobs.MarkFailed(ctx, jobID, note); markErr != nil {
			s.log.Error("failed to record commit failure",
				zap.String("job_id", jobID.String()),
				zap.Error(markErr))
		}
		return nil, shared.NewDomainError(importing.ErrCodeCommitFailed,
			"Commit failed; no catalog changes were applied")
	}

	s.log.Info("import job committed",
		zap.String("job_id", jobID.String()),
		zap.Int("created", report.Totals.Created),
		zap.Int("updated", report.Totals.Updated),
		zap.Int("skipped", report.Totals.Skipped),
		zap.Int("failed", report.Totals.Failed))

	if s.audit != nil {
		s.audit.Record(ctx, "import.committed", logger.GetUserID(ctx), map[string]string{
			"job_id":  jobID.String(),
			"created": fmt.Sprintf("%d", report.Totals.Created),
			"updated": fmt.Sprintf("%d", report.Totals.Updated),
			"skipped": fmt.Sprintf("%d", report.Totals.Skipped),
		})
	}

	return report, nil
}

// resolvePrices re-derives retail and wholesale prices under the
// caller-chosen strategy
func (s *CommitService) resolvePrices(rows []importing.ImportRow, options importing.CommitOptions) {
	strategy := options.PriceStrategy
	if !strategy.IsValid() {
		strategy = importing.PriceStrategySale
	}
	for i := range rows {
		retail := importing.ResolveRetailPrice(&rows[i], strategy)
		rows[i].RetailPrice = &retail
		if wholesale := importing.ResolveWholesalePrice(&rows[i], options.WholesaleLocation); wholesale != nil {
			rows[i].Wholesale = wholesale
		}
	}
}

type skippedRow struct {
	row    importing.ImportRow
	reason string
}

type rowGroup struct {
	key  string
	rows []importing.ImportRow
}

type commitPlan struct {
	groups  []rowGroup
	skipped []skippedRow
}

// partition applies the skip rules and groups surviving rows by
// ProductKey in a deterministic order. The skip rules, like price
// re-resolution, only apply to spreadsheet sources; other sources
// carry their rows through unconditionally.
func (s *CommitService) partition(source importing.SourceType, rows []importing.ImportRow, options importing.CommitOptions) commitPlan {
	var plan commitPlan

	skippable := source == importing.SourceSpreadsheet
	byKey := make(map[string][]importing.ImportRow)
	for _, row := range rows {
		if skippable && options.SkipPriceZero && row.EffectivePrice().IsZero() {
			plan.skipped = append(plan.skipped, skippedRow{row: row, reason: "resolved price is zero"})
			continue
		}
		if skippable && options.SkipMissingImage && row.ImageURL == "" {
			plan.skipped = append(plan.skipped, skippedRow{row: row, reason: "row has no image"})
			continue
		}
		byKey[row.ProductKey] = append(byKey[row.ProductKey], row)
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		group := byKey[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Position < group[j].Position
		})
		plan.groups = append(plan.groups, rowGroup{key: key, rows: group})
	}
	return plan
}

// applyGroups creates or updates the target product and variants of
// every group. Row-level domain errors become failed outcomes; only
// infrastructure errors abort the transaction.
func (s *CommitService) applyGroups(
	ctx context.Context,
	tx importing.TxContext,
	plan commitPlan,
	overrides map[string]importing.GroupOverride,
	report *importing.CommitReport,
) error {
	categories := make(map[string]*catalog.Category)

	for _, group := range plan.groups {
		first := group.rows[0]
		override := overrides[group.key]

		category, err := s.ensureCategory(ctx, tx, categories, first.CategoryName, report)
		if err != nil {
			return err
		}

		product, err := s.resolveProduct(ctx, tx, category, first.BaseName, override, report)
		if err != nil {
			return err
		}

		for _, row := range group.rows {
			if err := s.applyRow(ctx, tx, product, row, report); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *CommitService) ensureCategory(
	ctx context.Context,
	tx importing.TxContext,
	cache map[string]*catalog.Category,
	name string,
	report *importing.CommitReport,
) (*catalog.Category, error) {
	folded := importing.Fold(name)
	if category, ok := cache[folded]; ok {
		return category, nil
	}

	category, err := tx.Catalog().FindCategoryByName(ctx, name)
	if err == nil {
		cache[folded] = category
		return category, nil
	}
	if !errorsIsNotFound(err) {
		return nil, err
	}

	category, err = catalog.NewCategory(name, importing.Slug(name))
	if err != nil {
		return nil, err
	}
	if err := tx.Catalog().CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	report.CreatedCategoryIDs = append(report.CreatedCategoryIDs, category.ID)
	cache[folded] = category
	return category, nil
}

// resolveProduct picks the group's target product: an explicit override
// target, the resolver's clear best match, or a fresh product. An
// ambiguous resolution is never auto-picked.
func (s *CommitService) resolveProduct(
	ctx context.Context,
	tx importing.TxContext,
	category *catalog.Category,
	baseName string,
	override importing.GroupOverride,
	report *importing.CommitReport,
) (*catalog.Product, error) {
	if override.TargetProductID != nil {
		return tx.Catalog().FindProductByID(ctx, *override.TargetProductID)
	}

	existing, err := tx.Catalog().FindProductsByCategory(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	candidates := make([]importing.CandidateProduct, 0, len(existing))
	for _, p := range existing {
		candidates = append(candidates, importing.CandidateProduct{ID: p.ID, Name: p.Name})
	}

	if best := s.resolver.Resolve(candidates, baseName).Best(); best != nil {
		return tx.Catalog().FindProductByID(ctx, best.Product.ID)
	}

	product, err := catalog.NewProduct(category.ID, baseName, importing.Slug(baseName))
	if err != nil {
		return nil, err
	}
	if err := tx.Catalog().CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	report.CreatedProductIDs = append(report.CreatedProductIDs, product.ID)
	return product, nil
}

func (s *CommitService) applyRow(
	ctx context.Context,
	tx importing.TxContext,
	product *catalog.Product,
	row importing.ImportRow,
	report *importing.CommitReport,
) error {
	outcome, err := s.upsertVariant(ctx, tx, product, row, report)
	if err != nil {
		return err
	}
	switch outcome.Status {
	case importing.RowStatusCreated:
		report.Totals.Created++
	case importing.RowStatusUpdated:
		report.Totals.Updated++
	case importing.RowStatusFailed:
		report.Totals.Failed++
	}
	report.Details = append(report.Details, outcome)
	return nil
}

func (s *CommitService) upsertVariant(
	ctx context.Context,
	tx importing.TxContext,
	product *catalog.Product,
	row importing.ImportRow,
	report *importing.CommitReport,
) (importing.RowOutcome, error) {
	price := row.EffectivePrice()

	existing, err := tx.Catalog().FindVariantBySKU(ctx, row.SKU)
	if err != nil && !errorsIsNotFound(err) {
		return importing.RowOutcome{}, err
	}

	if existing != nil {
		if err := existing.Update(row.Label, price); err != nil {
			return failedOutcome(row, err), nil
		}
		if err := existing.SetWholesalePrice(row.Wholesale); err != nil {
			return failedOutcome(row, err), nil
		}
		existing.SetAttributes(encodeAttributes(row.Attributes))
		if row.ImageURL != "" {
			existing.SetImage(row.ImageURL)
		}
		if err := tx.Catalog().UpdateVariant(ctx, existing); err != nil {
			return importing.RowOutcome{}, err
		}
		return importing.RowOutcome{
			RowID:   row.ID,
			SKU:     row.SKU,
			Status:  importing.RowStatusUpdated,
			Message: fmt.Sprintf("updated variant %s", existing.SKU),
		}, nil
	}

	variant, err := catalog.NewVariant(product.ID, row.SKU, row.Label, price)
	if err != nil {
		return failedOutcome(row, err), nil
	}
	if err := variant.SetWholesalePrice(row.Wholesale); err != nil {
		return failedOutcome(row, err), nil
	}
	variant.SetAttributes(encodeAttributes(row.Attributes))
	if row.ImageURL != "" {
		variant.SetImage(row.ImageURL)
	}
	if err := tx.Catalog().CreateVariant(ctx, variant); err != nil {
		return importing.RowOutcome{}, err
	}
	report.CreatedVariantIDs = append(report.CreatedVariantIDs, variant.ID)
	return importing.RowOutcome{
		RowID:   row.ID,
		SKU:     variant.SKU,
		Status:  importing.RowStatusCreated,
		Message: fmt.Sprintf("created variant %s", variant.SKU),
	}, nil
}

// persistRowStatuses writes each row's terminal status in the same
// transaction as the job transition
func (s *CommitService) persistRowStatuses(ctx context.Context, tx importing.TxContext, report *importing.CommitReport) error {
	type bucket struct {
		status  importing.RowStatus
		message string
	}
	buckets := make(map[bucket][]uuid.UUID)
	for _, detail := range report.Details {
		b := bucket{status: detail.Status, message: detail.Message}
		buckets[b] = append(buckets[b], detail.RowID)
	}
	// Stable iteration keeps SQL ordering deterministic for tests.
	ordered := make([]bucket, 0, len(buckets))
	for b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].status != ordered[j].status {
			return ordered[i].status < ordered[j].status
		}
		return ordered[i].message < ordered[j].message
	})
	for _, b := range ordered {
		if err := tx.Jobs().UpdateRowStatuses(ctx, buckets[b], b.status, b.message); err != nil {
			return err
		}
	}
	return nil
}

func failedOutcome(row importing.ImportRow, err error) importing.RowOutcome {
	return importing.RowOutcome{
		RowID:   row.ID,
		SKU:     row.SKU,
		Status:  importing.RowStatusFailed,
		Message: err.Error(),
	}
}

func encodeAttributes(attrs map[string]string) string {
	if len(attrs) == 0 {
		return "{}"
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
