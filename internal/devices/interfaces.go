package devices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
)

// Repository defines persistence operations for devices and the membership
// lookups needed to gate authorization changes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateDevice(ctx context.Context, device *models.Device) (*models.Device, error)
	FindDeviceByFingerprint(ctx context.Context, fingerprint string) (*models.Device, error)
	FindDeviceByID(ctx context.Context, id uuid.UUID) (*models.Device, error)
	TouchLastSeen(ctx context.Context, deviceID uuid.UUID, at time.Time) error
	SetAuthorized(ctx context.Context, deviceID uuid.UUID, authorized bool) error
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]models.Device, error)
	FindBusinessByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	FindMembership(ctx context.Context, userID, businessID uuid.UUID) (*models.UserBusiness, error)
}
