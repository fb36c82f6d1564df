// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/amirphl/AdaptMuse/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id string) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for user accounts
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

// AudienceRepository defines operations for audiences; reads are always scoped to the owning user
type AudienceRepository interface {
	Repository[models.Audience, models.AudienceFilter]
	ByUserAndID(ctx context.Context, userID, id string) (*models.Audience, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Audience, error)
}

// JobRepository defines operations for generated content jobs
type JobRepository interface {
	Repository[models.Job, models.JobFilter]
	ByUserAndID(ctx context.Context, userID, id string) (*models.Job, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Job, error)
}
