package importing

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
)

// JobRepository is the staging-store contract for import jobs
type JobRepository interface {
	// Create persists a freshly staged job with its rows
	Create(ctx context.Context, job *ImportJob) error

	// FindByID loads a job including its rows, ordered by position
	FindByID(ctx context.Context, id uuid.UUID) (*ImportJob, error)

	// FindRecent lists recent jobs without their rows, newest first
	FindRecent(ctx context.Context, limit int) ([]ImportJob, error)

	// FindLatestCommitted returns the most recently committed job
	FindLatestCommitted(ctx context.Context) (*ImportJob, error)

	// UpdateRowStatuses applies one terminal status to a set of rows
	UpdateRowStatuses(ctx context.Context, rowIDs []uuid.UUID, status RowStatus, message string) error

	// SaveCommitOutcome persists the job's status transition, totals,
	// report and the overrides/options actually used
	SaveCommitOutcome(ctx context.Context, job *ImportJob) error

	// MarkFailed records a failed commit attempt outside the mutation
	// transaction, so the failure note survives the rollback
	MarkFailed(ctx context.Context, id uuid.UUID, note string) error
}

// TxContext exposes the repositories bound to one open transaction
type TxContext interface {
	Catalog() catalog.Catalog
	Jobs() JobRepository
}

// UnitOfWork runs a function inside a single database transaction.
// If fn returns an error, every mutation made through the TxContext is
// rolled back; otherwise all are committed together.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx TxContext) error) error
}
