package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/importing"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ImportJobRepository is the GORM implementation of importing.JobRepository
type ImportJobRepository struct {
	db *gorm.DB
}

// NewImportJobRepository creates an import job repository bound to the
// given DB handle, which may be an open transaction
func NewImportJobRepository(db *gorm.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

// Create persists a freshly staged job with its rows
func (r *ImportJobRepository) Create(ctx context.Context, job *importing.ImportJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID loads a job including its rows, ordered by position
func (r *ImportJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*importing.ImportJob, error) {
	var job importing.ImportJob
	err := r.db.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindRecent lists recent jobs without their rows, newest first
func (r *ImportJobRepository) FindRecent(ctx context.Context, limit int) ([]importing.ImportJob, error) {
	if limit <= 0 {
		limit = 20
	}
	var jobs []importing.ImportJob
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

// FindLatestCommitted returns the most recently committed job
func (r *ImportJobRepository) FindLatestCommitted(ctx context.Context) (*importing.ImportJob, error) {
	var job importing.ImportJob
	err := r.db.WithContext(ctx).
		Where("status = ?", importing.JobStatusCommitted).
		Order("committed_at DESC").
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// UpdateRowStatuses applies one terminal status to a set of rows
func (r *ImportJobRepository) UpdateRowStatuses(ctx context.Context, rowIDs []uuid.UUID, status importing.RowStatus, message string) error {
	if len(rowIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&importing.ImportRow{}).
		Where("id IN ?", rowIDs).
		Updates(map[string]interface{}{
			"status":          status,
			"outcome_message": message,
			"updated_at":      time.Now(),
		}).Error
}

// SaveCommitOutcome persists the job's status transition, totals,
// report and the overrides/options actually used. The write is guarded
// on the status the transition departs from, so two racing commits (or
// undos) that both loaded the same snapshot cannot both apply.
func (r *ImportJobRepository) SaveCommitOutcome(ctx context.Context, job *importing.ImportJob) error {
	var from importing.JobStatus
	switch job.Status {
	case importing.JobStatusCommitted:
		from = importing.JobStatusStaged
	case importing.JobStatusUndone:
		from = importing.JobStatusCommitted
	default:
		return shared.ErrInvalidState
	}

	result := r.db.WithContext(ctx).
		Model(&importing.ImportJob{}).
		Where("id = ? AND status = ?", job.ID, from).
		Select("*").
		Omit("Rows", "CreatedAt").
		Updates(job)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if job.Status == importing.JobStatusCommitted {
			return shared.NewDomainError(importing.ErrCodeAlreadyCommitted,
				"Job was committed by a concurrent request")
		}
		return shared.NewDomainError(importing.ErrCodeUndoUnavailable,
			"Job is no longer in a committed state")
	}
	return nil
}

// MarkFailed records a failed commit attempt. Runs on the repository's
// own handle so the note survives the rollback of the mutation
// transaction.
func (r *ImportJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, note string) error {
	result := r.db.WithContext(ctx).
		Model(&importing.ImportJob{}).
		Where("id = ? AND status = ?", id, importing.JobStatusStaged).
		Updates(map[string]interface{}{
			"status":       importing.JobStatusFailed,
			"failure_note": note,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
