package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rvaldezc/poscloud-backend/pkg/enums"
)

// Device is a physical POS terminal. The fingerprint is unique across the
// whole system, not per tenant: one machine, one row.
type Device struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Fingerprint string           `gorm:"column:fingerprint;not null;uniqueIndex"`
	Name        string           `gorm:"column:name;not null"`
	BusinessID  uuid.UUID        `gorm:"column:business_id;type:uuid;not null"`
	Role        enums.DeviceRole `gorm:"column:role;not null;default:'POS'"`
	Authorized  bool             `gorm:"column:authorized;not null;default:false"`
	LastSeen    *time.Time       `gorm:"column:last_seen"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`

	Business *Business `gorm:"foreignKey:BusinessID"`
}
