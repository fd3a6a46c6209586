package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment records money received against a cloud order. Immutable once synced.
type Payment struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID uuid.UUID `gorm:"column:business_id;type:uuid;not null;uniqueIndex:idx_payments_business_local"`
	LocalID    string    `gorm:"column:local_id;not null;uniqueIndex:idx_payments_business_local"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	Amount     float64   `gorm:"column:amount;not null"`
	Method     string    `gorm:"column:method;not null"`
	Cashier    string    `gorm:"column:cashier"`
	PaidAt     time.Time `gorm:"column:paid_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
