package importing

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// SourceType identifies the input format a job was parsed from
type SourceType string

const (
	SourceDelimited   SourceType = "delimited-text"
	SourceSpreadsheet SourceType = "spreadsheet"
	SourceDocument    SourceType = "document"
)

// IsValid checks if the source type is supported
func (s SourceType) IsValid() bool {
	switch s {
	case SourceDelimited, SourceSpreadsheet, SourceDocument:
		return true
	}
	return false
}

// JobStatus is the lifecycle status of an import job. Transitions are
// one-way: STAGED -> COMMITTED -> UNDONE, or STAGED -> FAILED.
type JobStatus string

const (
	JobStatusStaged    JobStatus = "STAGED"
	JobStatusCommitted JobStatus = "COMMITTED"
	JobStatusUndone    JobStatus = "UNDONE"
	JobStatusFailed    JobStatus = "FAILED"
)

// Job-level error codes
const (
	ErrCodeChecksumMismatch  = "ERR_IMPORT_CHECKSUM_MISMATCH"
	ErrCodeAlreadyCommitted  = "ERR_IMPORT_ALREADY_COMMITTED"
	ErrCodeJobNotCommittable = "ERR_IMPORT_JOB_NOT_COMMITTABLE"
	ErrCodeReviewRequired    = "ERR_IMPORT_REVIEW_REQUIRED"
	ErrCodeUndoUnavailable   = "ERR_IMPORT_UNDO_UNAVAILABLE"
	ErrCodeInvalidFile       = "ERR_IMPORT_INVALID_FILE"
	ErrCodeUnsupportedFormat = "ERR_IMPORT_UNSUPPORTED_FORMAT"
	ErrCodeCommitFailed      = "ERR_IMPORT_COMMIT_FAILED"
)

// JobTotals aggregates per-row outcomes of a commit
type JobTotals struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ImportJob is one parsed batch with a lifecycle and a checksum.
// The checksum is immutable once set; a commit must present the same
// checksum or be rejected.
type ImportJob struct {
	shared.BaseEntity
	SourceType SourceType `gorm:"type:varchar(32);not null"`
	Checksum   string     `gorm:"type:varchar(64);not null"`
	Status     JobStatus  `gorm:"type:varchar(16);not null;default:'STAGED';index"`

	Rows []ImportRow `gorm:"foreignKey:JobID;references:ID"`

	ColumnMapping map[string]string `gorm:"serializer:json"`
	Warnings      []Issue           `gorm:"serializer:json"`
	Errors        []Issue           `gorm:"serializer:json"`

	Totals        JobTotals      `gorm:"serializer:json"`
	Report        *CommitReport  `gorm:"serializer:json"`
	OverridesUsed *Overrides     `gorm:"serializer:json"`
	OptionsUsed   *CommitOptions `gorm:"serializer:json"`

	FailureNote string     `gorm:"type:varchar(500)"`
	CommittedAt *time.Time
	UndoneAt    *time.Time
}

// TableName returns the table name for GORM
func (ImportJob) TableName() string {
	return "import_jobs"
}

// NewImportJob stages a freshly parsed batch
func NewImportJob(sourceType SourceType, checksum string, rows []ImportRow) (*ImportJob, error) {
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError(ErrCodeUnsupportedFormat, "Unsupported import source type")
	}
	if checksum == "" {
		return nil, shared.NewDomainError("INVALID_CHECKSUM", "Import job requires a content checksum")
	}

	return &ImportJob{
		BaseEntity: shared.NewBaseEntity(),
		SourceType: sourceType,
		Checksum:   checksum,
		Status:     JobStatusStaged,
		Rows:       rows,
	}, nil
}

// VerifyChecksum rejects a commit request carrying a stale client view
func (j *ImportJob) VerifyChecksum(checksum string) error {
	if checksum != j.Checksum {
		return shared.NewDomainError(ErrCodeChecksumMismatch,
			"Checksum does not match the staged job; re-load the job before committing")
	}
	return nil
}

// EnsureCommittable checks the status precondition for a commit attempt
func (j *ImportJob) EnsureCommittable() error {
	switch j.Status {
	case JobStatusStaged:
		return nil
	case JobStatusCommitted, JobStatusUndone:
		return shared.NewDomainError(ErrCodeAlreadyCommitted, "Job has already been committed")
	default:
		return shared.NewDomainError(ErrCodeJobNotCommittable, "Job is not in a committable state")
	}
}

// ReadyRows returns the rows eligible for commit
func (j *ImportJob) ReadyRows() []ImportRow {
	ready := make([]ImportRow, 0, len(j.Rows))
	for _, row := range j.Rows {
		if row.IsReady() {
			ready = append(ready, row)
		}
	}
	return ready
}

// NeedsReviewCount counts rows awaiting human acknowledgement
func (j *ImportJob) NeedsReviewCount() int {
	n := 0
	for _, row := range j.Rows {
		if row.NeedsReview {
			n++
		}
	}
	return n
}

// MarkCommitted transitions the job to COMMITTED with its outcome
func (j *ImportJob) MarkCommitted(totals JobTotals, report *CommitReport, overrides *Overrides, options *CommitOptions) error {
	if j.Status != JobStatusStaged {
		return shared.NewDomainError(ErrCodeAlreadyCommitted, "Job has already been committed")
	}
	now := time.Now()
	j.Status = JobStatusCommitted
	j.Totals = totals
	j.Report = report
	j.OverridesUsed = overrides
	j.OptionsUsed = options
	j.CommittedAt = &now
	j.UpdatedAt = now
	return nil
}

// MarkFailed transitions the job to the FAILED terminal state with a note
func (j *ImportJob) MarkFailed(note string) error {
	if j.Status != JobStatusStaged {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only a staged job can fail")
	}
	now := time.Now()
	j.Status = JobStatusFailed
	j.FailureNote = note
	j.UpdatedAt = now
	return nil
}

// MarkUndone transitions a committed job to UNDONE
func (j *ImportJob) MarkUndone() error {
	if j.Status != JobStatusCommitted {
		return shared.NewDomainError(ErrCodeUndoUnavailable, "Only a committed job can be undone")
	}
	now := time.Now()
	j.Status = JobStatusUndone
	j.UndoneAt = &now
	j.UpdatedAt = now
	return nil
}
