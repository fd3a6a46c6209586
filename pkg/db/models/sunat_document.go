package models

import (
	"time"

	"github.com/google/uuid"
)

// SunatDocument is an electronic tax document issued for an order. The
// order and client references are cloud identifiers resolved by the client
// before submission.
type SunatDocument struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID   uuid.UUID  `gorm:"column:business_id;type:uuid;not null;uniqueIndex:idx_sunat_docs_business_local"`
	LocalID      string     `gorm:"column:local_id;not null;uniqueIndex:idx_sunat_docs_business_local"`
	OrderID      *uuid.UUID `gorm:"column:order_id;type:uuid"`
	ClientID     *uuid.UUID `gorm:"column:client_id;type:uuid"`
	DocumentType string     `gorm:"column:document_type;not null"`
	Serie        string     `gorm:"column:serie;not null"`
	Correlativo  int        `gorm:"column:correlativo;not null"`
	FullNumber   string     `gorm:"column:full_number;not null"`
	FechaEmision time.Time  `gorm:"column:fecha_emision;not null"`
	Moneda       string     `gorm:"column:moneda;not null;default:'PEN'"`
	Subtotal     float64    `gorm:"column:subtotal;not null;default:0"`
	IGV          float64    `gorm:"column:igv;not null;default:0"`
	Total        float64    `gorm:"column:total;not null;default:0"`
	Status       string     `gorm:"column:status;not null"`
	Provider     string     `gorm:"column:provider"`
	Hash         string     `gorm:"column:hash"`
	PDFURL       string     `gorm:"column:pdf_url"`
	XMLURL       string     `gorm:"column:xml_url"`
	CDRURL       string     `gorm:"column:cdr_url"`
	ErrorMessage string     `gorm:"column:error_message"`
	RetryCount   int        `gorm:"column:retry_count;not null;default:0"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Items []SunatDocumentItem `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// SunatDocumentItem is a line on a tax document, replaced wholesale on
// every document update.
type SunatDocumentItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DocumentID     uuid.UUID `gorm:"column:document_id;type:uuid;not null;index"`
	Descripcion    string    `gorm:"column:descripcion;not null"`
	Cantidad       float64   `gorm:"column:cantidad;not null"`
	ValorUnitario  float64   `gorm:"column:valor_unitario;not null"`
	PrecioUnitario float64   `gorm:"column:precio_unitario;not null"`
	IGV            float64   `gorm:"column:igv;not null"`
	Total          float64   `gorm:"column:total;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
