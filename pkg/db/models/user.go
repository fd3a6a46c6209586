package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rvaldezc/poscloud-backend/pkg/enums"
)

// User represents a cloud identity able to own or administer businesses.
type User struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string           `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	Name         string           `gorm:"column:name;not null"`
	Role         enums.SystemRole `gorm:"column:role;not null;default:'user'"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
