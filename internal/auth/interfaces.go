package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
)

// Repository defines persistence operations for cloud user accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUserBusinesses(ctx context.Context, userID uuid.UUID) ([]models.Business, error)
}
