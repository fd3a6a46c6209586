package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is a synced sale. The (business_id, local_id) pair is the
// reconciliation key assigned by the offline client.
type Order struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID  uuid.UUID `gorm:"column:business_id;type:uuid;not null;uniqueIndex:idx_orders_business_local"`
	LocalID     string    `gorm:"column:local_id;not null;uniqueIndex:idx_orders_business_local"`
	CustomID    string    `gorm:"column:custom_id"`
	WaiterName  string    `gorm:"column:waiter_name"`
	Customer    string    `gorm:"column:customer"`
	Status      string    `gorm:"column:status"`
	TotalAmount float64   `gorm:"column:total_amount;not null;default:0"`
	PaidAmount  float64   `gorm:"column:paid_amount;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments []Payment   `gorm:"foreignKey:OrderID"`
}

// OrderItem is a line on an order. Items are replaced wholesale on every
// order update, so rows carry no local identity of their own.
type OrderItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   string    `gorm:"column:product_id"`
	ProductName string    `gorm:"column:product_name;not null"`
	Quantity    float64   `gorm:"column:quantity;not null"`
	Price       float64   `gorm:"column:price;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
