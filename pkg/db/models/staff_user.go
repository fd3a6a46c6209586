package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rvaldezc/poscloud-backend/pkg/enums"
)

// StaffUser is a till operator created on the offline client.
type StaffUser struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID uuid.UUID         `gorm:"column:business_id;type:uuid;not null;uniqueIndex:idx_staff_business_local"`
	LocalID    string            `gorm:"column:local_id;not null;uniqueIndex:idx_staff_business_local"`
	Name       string            `gorm:"column:name;not null"`
	Role       string            `gorm:"column:role;not null"`
	Pin        string            `gorm:"column:pin"`
	Status     enums.StaffStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt  time.Time         `gorm:"column:created_at"`
	UpdatedAt  time.Time         `gorm:"column:updated_at"`
}
