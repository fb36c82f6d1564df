package businessflow

import (
	"context"

	"github.com/amirphl/AdaptMuse/app/dto"
	"github.com/amirphl/AdaptMuse/app/services"
	"github.com/amirphl/AdaptMuse/logger"
	"github.com/amirphl/AdaptMuse/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobFlow reads back previously generated content
type JobFlow interface {
	ListJobs(ctx context.Context, userID string) (*dto.ListResponse[dto.JobDTO], error)
	GetJob(ctx context.Context, userID, jobID string) (*dto.JobDTO, error)
}

type JobFlowImpl struct {
	jobRepo repository.JobRepository
	cache   services.SessionCache
}

func NewJobFlow(jobRepo repository.JobRepository, cache services.SessionCache) JobFlow {
	if cache == nil {
		cache = services.NoopSessionCache{}
	}
	return &JobFlowImpl{jobRepo: jobRepo, cache: cache}
}

// ListJobs returns the caller's jobs, newest first
func (f *JobFlowImpl) ListJobs(ctx context.Context, userID string) (*dto.ListResponse[dto.JobDTO], error) {
	log := logger.FromContext(ctx)

	jobs, hit, err := f.cache.Jobs(ctx, userID)
	if err != nil {
		log.Warn("job cache read failed", zap.Error(err))
	}
	if !hit {
		jobs, err = f.jobRepo.ListByUser(ctx, userID, 0, 0)
		if err != nil {
			return nil, NewBusinessError("JOB_LIST_FAILED", "Failed to list jobs", err)
		}
		if err := f.cache.SetJobs(ctx, userID, jobs); err != nil {
			log.Warn("job cache write failed", zap.Error(err))
		}
	}

	items := make([]dto.JobDTO, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, *ToJobDTO(j))
	}
	return &dto.ListResponse[dto.JobDTO]{Items: items, Total: len(items)}, nil
}

func (f *JobFlowImpl) GetJob(ctx context.Context, userID, jobID string) (*dto.JobDTO, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, NewBusinessError("JOB_NOT_FOUND", "Job not found", ErrJobNotFound)
	}

	job, err := f.jobRepo.ByUserAndID(ctx, userID, jobID)
	if err != nil {
		return nil, NewBusinessError("JOB_LOAD_FAILED", "Failed to load job", err)
	}
	if job == nil {
		return nil, NewBusinessError("JOB_NOT_FOUND", "Job not found", ErrJobNotFound)
	}
	return ToJobDTO(job), nil
}
