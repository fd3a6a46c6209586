package models

import (
	"time"

	"github.com/google/uuid"
)

// LicenseLog is the append-only audit trail of license mutations.
// Rows are never updated or deleted.
type LicenseLog struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID uuid.UUID `gorm:"column:business_id;type:uuid;not null;index"`
	Action     string    `gorm:"column:action;not null"`
	Details    string    `gorm:"column:details"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
