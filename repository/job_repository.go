package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/AdaptMuse/models"
	"gorm.io/gorm"
)

// JobRepositoryImpl implements JobRepository
type JobRepositoryImpl struct {
	*BaseRepository[models.Job, models.JobFilter]
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{BaseRepository: NewBaseRepository[models.Job, models.JobFilter](db)}
}

func (r *JobRepositoryImpl) ByUserAndID(ctx context.Context, userID, id string) (*models.Job, error) {
	rows, err := r.ByFilter(ctx, models.JobFilter{ID: &id, UserID: &userID}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *JobRepositoryImpl) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Job, error) {
	return r.ByFilter(ctx, models.JobFilter{UserID: &userID}, "created_at DESC", limit, offset)
}

func (r *JobRepositoryImpl) applyFilter(db *gorm.DB, f models.JobFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.AudienceID != nil {
		db = db.Where("audience_id = ?", *f.AudienceID)
	}
	return db
}

func (r *JobRepositoryImpl) ByFilter(ctx context.Context, filter models.JobFilter, orderBy string, limit, offset int) ([]*models.Job, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Job{}), filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Job
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find jobs by filter: %w", err)
	}
	return rows, nil
}

func (r *JobRepositoryImpl) Count(ctx context.Context, filter models.JobFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Job{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

func (r *JobRepositoryImpl) Exists(ctx context.Context, filter models.JobFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
