package importapp

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/importing"
)

// JobService serves the read side of the pipeline: polling and review UIs
type JobService struct {
	jobs         importing.JobRepository
	defaultLimit int
}

// NewJobService creates a job query service
func NewJobService(jobs importing.JobRepository, defaultLimit int) *JobService {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &JobService{jobs: jobs, defaultLimit: defaultLimit}
}

// GetJob loads a job with its full row detail
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*importing.ImportJob, error) {
	return s.jobs.FindByID(ctx, id)
}

// ListJobs lists recent jobs without row detail, newest first
func (s *JobService) ListJobs(ctx context.Context, limit int) ([]importing.ImportJob, error) {
	if limit <= 0 || limit > 100 {
		limit = s.defaultLimit
	}
	return s.jobs.FindRecent(ctx, limit)
}
