package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rvaldezc/poscloud-backend/pkg/enums"
)

// UserBusiness links a user with a business and captures their role.
type UserBusiness struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_user_business"`
	BusinessID uuid.UUID        `gorm:"column:business_id;type:uuid;not null;uniqueIndex:idx_user_business"`
	Role       enums.MemberRole `gorm:"column:role;not null"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`

	User *User `gorm:"foreignKey:UserID"`
}
