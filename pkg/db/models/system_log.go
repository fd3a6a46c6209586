package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemLog captures an audit entry from the offline client. The acting
// user's name and role are denormalized at write time so the log stays
// readable after staff rows are deleted.
type SystemLog struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID uuid.UUID `gorm:"column:business_id;type:uuid;not null;uniqueIndex:idx_logs_business_local"`
	LocalID    string    `gorm:"column:local_id;not null;uniqueIndex:idx_logs_business_local"`
	Action     string    `gorm:"column:action;not null"`
	Details    string    `gorm:"column:details"`
	UserID     string    `gorm:"column:user_id"`
	UserName   string    `gorm:"column:user_name"`
	UserRole   string    `gorm:"column:user_role"`
	LoggedAt   time.Time `gorm:"column:logged_at;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
