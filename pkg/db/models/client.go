package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer looked up by tax document number across sync
// sessions. LocalID is stored as provenance only; the business key is
// (business_id, num_doc).
type Client struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID  uuid.UUID `gorm:"column:business_id;type:uuid;not null;uniqueIndex:idx_clients_business_numdoc"`
	LocalID     string    `gorm:"column:local_id;not null;index:idx_clients_business_local"`
	TipoDoc     string    `gorm:"column:tipo_doc;not null"`
	NumDoc      string    `gorm:"column:num_doc;not null;uniqueIndex:idx_clients_business_numdoc"`
	RazonSocial string    `gorm:"column:razon_social;not null"`
	Direccion   string    `gorm:"column:direccion"`
	Email       string    `gorm:"column:email"`
	Telefono    string    `gorm:"column:telefono"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
