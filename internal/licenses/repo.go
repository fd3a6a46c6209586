package licenses

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

// NewRepository builds a licenses repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
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

func (r *repository) FindDeviceForBusiness(ctx context.Context, businessID uuid.UUID, fingerprint string) (*models.Device, error) {
	var device models.Device
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND fingerprint = ?", businessID, fingerprint).
		First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *repository) CountAuthorizedDevices(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Device{}).
		Where("business_id = ? AND authorized = ?", businessID, true).
		Count(&count).Error
	return count, err
}

func (r *repository) SetLastLicenseCheck(ctx context.Context, businessID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("id = ?", businessID).
		Update("last_license_check", at).Error
}

func (r *repository) UpdateBusiness(ctx context.Context, businessID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("id = ?", businessID).
		Updates(updates).Error
}

func (r *repository) AppendLicenseLog(ctx context.Context, entry *models.LicenseLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
