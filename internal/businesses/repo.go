package businesses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a businesses repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBusiness(ctx context.Context, business *models.Business) (*models.Business, error) {
	if err := r.db.WithContext(ctx).Create(business).Error; err != nil {
		return nil, err
	}
	return business, nil
}

func (r *repository) FindBusinessByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var business models.Business
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&business).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateMembership(ctx context.Context, membership *models.UserBusiness) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *repository) FindMembership(ctx context.Context, userID, businessID uuid.UUID) (*models.UserBusiness, error) {
	var membership models.UserBusiness
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND business_id = ?", userID, businessID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *repository) ListMemberships(ctx context.Context, businessID uuid.UUID) ([]models.UserBusiness, error) {
	var memberships []models.UserBusiness
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("business_id = ?", businessID).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Business, error) {
	var businesses []models.Business
	err := r.db.WithContext(ctx).
		Joins("JOIN user_businesses ON user_businesses.business_id = businesses.id").
		Where("user_businesses.user_id = ?", userID).
		Order("businesses.created_at ASC").
		Find(&businesses).Error
	if err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
