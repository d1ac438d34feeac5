package importapp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/importing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/importfile"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuditSink records pipeline events. Failures inside the sink must never
// fail the operation being audited.
type AuditSink interface {
	Record(ctx context.Context, event string, actor string, attrs map[string]string)
}

// ParseResult is what a staged parse returns to the caller
type ParseResult struct {
	JobID            uuid.UUID             `json:"job_id"`
	SourceType       importing.SourceType  `json:"source_type"`
	Checksum         string                `json:"checksum"`
	Rows             []importing.ImportRow `json:"rows"`
	Warnings         []importing.Issue     `json:"warnings,omitempty"`
	Errors           []importing.Issue     `json:"errors,omitempty"`
	Columns          []string              `json:"columns,omitempty"`
	TotalRows        int                   `json:"total_rows"`
	ReadyRows        int                   `json:"ready_rows"`
	NeedsReviewCount int                   `json:"needs_review_count"`
}

// ParseService turns an uploaded file into a staged import job
type ParseService struct {
	jobs        importing.JobRepository
	audit       AuditSink
	log         *zap.Logger
	maxFileSize int64
}

// NewParseService creates a parse service
func NewParseService(jobs importing.JobRepository, audit AuditSink, log *zap.Logger, maxFileSize int64) *ParseService {
	return &ParseService{
		jobs:        jobs,
		audit:       audit,
		log:         log.Named("import.parse"),
		maxFileSize: maxFileSize,
	}
}

// Parse parses raw bytes as the declared format and stages a job. The
// job checksum is the SHA-256 of the raw payload; a later commit must
// present the same checksum.
func (s *ParseService) Parse(ctx context.Context, sourceType importing.SourceType, raw []byte, opts importfile.ParseOptions) (*ParseResult, error) {
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError(importing.ErrCodeUnsupportedFormat, "Unsupported import source type")
	}
	if len(raw) == 0 {
		return nil, shared.NewDomainError(importing.ErrCodeInvalidFile, "Uploaded file is empty")
	}
	if s.maxFileSize > 0 && int64(len(raw)) > s.maxFileSize {
		return nil, shared.NewDomainError(importing.ErrCodeInvalidFile, "Uploaded file exceeds the size limit")
	}

	parser, err := importfile.ForSource(sourceType)
	if err != nil {
		return nil, err
	}

	outcome, err := parser.Parse(raw, opts)
	if err != nil {
		// Structural rejection: no job is created.
		s.log.Warn("import file rejected",
			zap.String("source_type", string(sourceType)),
			zap.Error(err))
		return nil, err
	}

	sum := sha256.Sum256(raw)
	checksum := hex.EncodeToString(sum[:])

	job, err := importing.NewImportJob(sourceType, checksum, outcome.Rows)
	if err != nil {
		return nil, err
	}
	for i := range job.Rows {
		job.Rows[i].JobID = job.ID
	}
	job.ColumnMapping = opts.ColumnMapping
	job.Warnings = outcome.Warnings
	job.Errors = outcome.Errors

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	result := &ParseResult{
		JobID:            job.ID,
		SourceType:       sourceType,
		Checksum:         checksum,
		Rows:             job.Rows,
		Warnings:         outcome.Warnings,
		Errors:           outcome.Errors,
		Columns:          outcome.Columns,
		TotalRows:        len(job.Rows),
		ReadyRows:        len(job.ReadyRows()),
		NeedsReviewCount: job.NeedsReviewCount(),
	}

	s.log.Info("import job staged",
		zap.String("job_id", job.ID.String()),
		zap.String("source_type", string(sourceType)),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("ready_rows", result.ReadyRows),
		zap.Int("needs_review", result.NeedsReviewCount))

	if s.audit != nil {
		s.audit.Record(ctx, "import.staged", logger.GetUserID(ctx), map[string]string{
			"job_id":      job.ID.String(),
			"source_type": string(sourceType),
		})
	}

	return result, nil
}
