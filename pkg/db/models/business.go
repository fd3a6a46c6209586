package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rvaldezc/poscloud-backend/pkg/enums"
)

// Business is the tenant root. Every synced entity hangs off one business.
type Business struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string              `gorm:"column:name;not null"`
	Slug             string              `gorm:"column:slug;not null;uniqueIndex"`
	Active           bool                `gorm:"column:active;not null;default:true"`
	Plan             string              `gorm:"column:plan;not null;default:'BASIC'"`
	LicenseStatus    enums.LicenseStatus `gorm:"column:license_status;not null;default:'ACTIVE'"`
	LicenseExpiry    *time.Time          `gorm:"column:license_expiry"`
	MaxDevices       int                 `gorm:"column:max_devices;not null;default:3"`
	LastLicenseCheck *time.Time          `gorm:"column:last_license_check"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Devices []Device       `gorm:"foreignKey:BusinessID"`
	Users   []UserBusiness `gorm:"foreignKey:BusinessID"`
}
