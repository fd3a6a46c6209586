package licenses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
)

// Repository defines persistence operations for license evaluation and
// administration.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBusinessByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	FindDeviceForBusiness(ctx context.Context, businessID uuid.UUID, fingerprint string) (*models.Device, error)
	CountAuthorizedDevices(ctx context.Context, businessID uuid.UUID) (int64, error)
	SetLastLicenseCheck(ctx context.Context, businessID uuid.UUID, at time.Time) error
	UpdateBusiness(ctx context.Context, businessID uuid.UUID, updates map[string]any) error
	AppendLicenseLog(ctx context.Context, entry *models.LicenseLog) error
}
