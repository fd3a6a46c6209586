package devices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a devices repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateDevice(ctx context.Context, device *models.Device) (*models.Device, error) {
	if err := r.db.WithContext(ctx).Create(device).Error; err != nil {
		return nil, err
	}
	return device, nil
}

func (r *repository) FindDeviceByFingerprint(ctx context.Context, fingerprint string) (*models.Device, error) {
	var device models.Device
	err := r.db.WithContext(ctx).
		Preload("Business").
		Where("fingerprint = ?", fingerprint).
		First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *repository) FindDeviceByID(ctx context.Context, id uuid.UUID) (*models.Device, error) {
	var device models.Device
	err := r.db.WithContext(ctx).
		Preload("Business").
		Where("id = ?", id).
		First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *repository) TouchLastSeen(ctx context.Context, deviceID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Device{}).
		Where("id = ?", deviceID).
		Update("last_seen", at).Error
}

func (r *repository) SetAuthorized(ctx context.Context, deviceID uuid.UUID, authorized bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Device{}).
		Where("id = ?", deviceID).
		Update("authorized", authorized).Error
}

func (r *repository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]models.Device, error) {
	var devices []models.Device
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at ASC").
		Find(&devices).Error
	if err != nil {
		return nil, err
	}
	return devices, nil
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
