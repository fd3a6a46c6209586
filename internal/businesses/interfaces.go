package businesses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
)

// Repository defines persistence operations for businesses and their
// memberships.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBusiness(ctx context.Context, business *models.Business) (*models.Business, error)
	FindBusinessByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	CreateMembership(ctx context.Context, membership *models.UserBusiness) error
	FindMembership(ctx context.Context, userID, businessID uuid.UUID) (*models.UserBusiness, error)
	ListMemberships(ctx context.Context, businessID uuid.UUID) ([]models.UserBusiness, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Business, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}
