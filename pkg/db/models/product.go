package models

import (
	"time"

	"github.com/google/uuid"
)

// Product mirrors the offline catalog entry for one business.
type Product struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID uuid.UUID `gorm:"column:business_id;type:uuid;not null;uniqueIndex:idx_products_business_local"`
	LocalID    string    `gorm:"column:local_id;not null;uniqueIndex:idx_products_business_local"`
	Name       string    `gorm:"column:name;not null"`
	Price      float64   `gorm:"column:price;not null;default:0"`
	Category   string    `gorm:"column:category"`
	Stock      float64   `gorm:"column:stock;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
