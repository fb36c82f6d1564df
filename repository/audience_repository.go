package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/AdaptMuse/models"
	"gorm.io/gorm"
)

// AudienceRepositoryImpl implements AudienceRepository
type AudienceRepositoryImpl struct {
	*BaseRepository[models.Audience, models.AudienceFilter]
}

func NewAudienceRepository(db *gorm.DB) AudienceRepository {
	return &AudienceRepositoryImpl{BaseRepository: NewBaseRepository[models.Audience, models.AudienceFilter](db)}
}

// ByUserAndID retrieves an audience owned by userID; nil when absent
func (r *AudienceRepositoryImpl) ByUserAndID(ctx context.Context, userID, id string) (*models.Audience, error) {
	rows, err := r.ByFilter(ctx, models.AudienceFilter{ID: &id, UserID: &userID}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListByUser lists a user's audiences, newest first
func (r *AudienceRepositoryImpl) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Audience, error) {
	return r.ByFilter(ctx, models.AudienceFilter{UserID: &userID}, "created_at DESC", limit, offset)
}

func (r *AudienceRepositoryImpl) applyFilter(db *gorm.DB, f models.AudienceFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	return db
}

func (r *AudienceRepositoryImpl) ByFilter(ctx context.Context, filter models.AudienceFilter, orderBy string, limit, offset int) ([]*models.Audience, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Audience{}), filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Audience
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find audiences by filter: %w", err)
	}
	return rows, nil
}

func (r *AudienceRepositoryImpl) Count(ctx context.Context, filter models.AudienceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Audience{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count audiences: %w", err)
	}
	return count, nil
}

func (r *AudienceRepositoryImpl) Exists(ctx context.Context, filter models.AudienceFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
