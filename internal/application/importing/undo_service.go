package importapp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/importing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// UndoResult summarizes a compensating undo
type UndoResult struct {
	JobID    uuid.UUID                `json:"job_id"`
	Reverted importing.RevertedCounts `json:"reverted"`
}

// UndoService deactivates the entities a committed job created. Updates
// made during the commit are deliberately left in their post-commit
// state; only creations are reverted.
type UndoService struct {
	jobs  importing.JobRepository
	uow   importing.UnitOfWork
	audit AuditSink
	log   *zap.Logger
}

// NewUndoService creates an undo service
func NewUndoService(jobs importing.JobRepository, uow importing.UnitOfWork, audit AuditSink, log *zap.Logger) *UndoService {
	return &UndoService{
		jobs:  jobs,
		uow:   uow,
		audit: audit,
		log:   log.Named("import.undo"),
	}
}

// Undo reverts the given job, or the most recently committed job when
// jobID is nil. All deactivations happen in one transaction.
func (s *UndoService) Undo(ctx context.Context, jobID *uuid.UUID) (*UndoResult, error) {
	job, err := s.target(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status != importing.JobStatusCommitted {
		return nil, shared.NewDomainError(importing.ErrCodeUndoUnavailable,
			"Only a committed job can be undone")
	}
	if !job.Report.HasCreations() {
		return nil, shared.NewDomainError(importing.ErrCodeUndoUnavailable,
			"Job created nothing to revert")
	}

	report := job.Report
	err = s.uow.Do(ctx, func(tx importing.TxContext) error {
		for _, id := range report.CreatedVariantIDs {
			if err := tx.Catalog().DeactivateVariant(ctx, id); err != nil {
				return fmt.Errorf("deactivate variant %s: %w", id, err)
			}
		}
		for _, id := range report.CreatedProductIDs {
			if err := tx.Catalog().DeactivateProduct(ctx, id); err != nil {
				return fmt.Errorf("deactivate product %s: %w", id, err)
			}
		}
		for _, id := range report.CreatedCategoryIDs {
			if err := tx.Catalog().DeactivateCategory(ctx, id); err != nil {
				return fmt.Errorf("deactivate category %s: %w", id, err)
			}
		}
		if err := job.MarkUndone(); err != nil {
			return err
		}
		return tx.Jobs().SaveCommitOutcome(ctx, job)
	})
	if err != nil {
		s.log.Error("undo failed",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
		return nil, err
	}

	result := &UndoResult{
		JobID: job.ID,
		Reverted: importing.RevertedCounts{
			Categories: len(report.CreatedCategoryIDs),
			Products:   len(report.CreatedProductIDs),
			Variants:   len(report.CreatedVariantIDs),
		},
	}

	s.log.Info("import job undone",
		zap.String("job_id", job.ID.String()),
		zap.Int("categories", result.Reverted.Categories),
		zap.Int("products", result.Reverted.Products),
		zap.Int("variants", result.Reverted.Variants))

	if s.audit != nil {
		s.audit.Record(ctx, "import.undone", logger.GetUserID(ctx), map[string]string{
			"job_id":   job.ID.String(),
			"variants": fmt.Sprintf("%d", result.Reverted.Variants),
		})
	}

	return result, nil
}

func (s *UndoService) target(ctx context.Context, jobID *uuid.UUID) (*importing.ImportJob, error) {
	if jobID != nil {
		return s.jobs.FindByID(ctx, *jobID)
	}
	job, err := s.jobs.FindLatestCommitted(ctx)
	if err != nil {
		if errorsIsNotFound(err) {
			return nil, shared.NewDomainError(importing.ErrCodeUndoUnavailable,
				"No committed job to undo")
		}
		return nil, err
	}
	return job, nil
}
