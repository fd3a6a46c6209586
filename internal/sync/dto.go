package sync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LocalID is the client-assigned reconciliation key. Desktop clients emit it
// either as a JSON string or as a bare number depending on their local
// storage engine, so decoding accepts both.
type LocalID string

func (l *LocalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = LocalID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("local id must be a string or number: %w", err)
	}
	*l = LocalID(n.String())
	return nil
}

func (l LocalID) String() string {
	return string(l)
}

// Request is the envelope every sync endpoint accepts.
type Request struct {
	LocalID LocalID         `json:"localId" validate:"required"`
	Action  string          `json:"action" validate:"required"`
	Data    json.RawMessage `json:"data" validate:"required"`
}

// personRef lets payloads carry either a flattened name/role pair or a
// nested object, matching what different client versions send.
type personRef struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// OrderPayload carries the order fields plus an optional full item set.
type OrderPayload struct {
	CustomID    string             `json:"customId"`
	WaiterName  string             `json:"waiterName"`
	Waiter      *personRef         `json:"waiter"`
	Customer    string             `json:"customer"`
	Status      string             `json:"status"`
	TotalAmount float64            `json:"totalAmount"`
	PaidAmount  float64            `json:"paidAmount"`
	CreatedAt   *time.Time         `json:"createdAt"`
	UpdatedAt   *time.Time         `json:"updatedAt"`
	Items       []OrderItemPayload `json:"items"`
}

func (p OrderPayload) waiterName() string {
	if p.Waiter != nil && p.Waiter.Name != "" {
		return p.Waiter.Name
	}
	return p.WaiterName
}

type orderItemProduct struct {
	Name string `json:"name"`
}

// OrderItemPayload references products by cloud identifier; the client
// resolves local product ids before submitting.
type OrderItemPayload struct {
	ProductID   LocalID           `json:"productId"`
	ProductName string            `json:"productName"`
	Product     *orderItemProduct `json:"product"`
	Quantity    float64           `json:"quantity"`
	Price       float64           `json:"price"`
}

func (p OrderItemPayload) productName() string {
	if p.Product != nil && p.Product.Name != "" {
		return p.Product.Name
	}
	if p.ProductName != "" {
		return p.ProductName
	}
	return "Producto"
}

// PaymentPayload references its parent order by the order's local id.
type PaymentPayload struct {
	OrderID   LocalID    `json:"orderId"`
	Amount    float64    `json:"amount"`
	Method    string     `json:"method"`
	Cashier   string     `json:"cashier"`
	Timestamp *time.Time `json:"timestamp"`
}

// ClientPayload carries the tax-document identity of a customer.
type ClientPayload struct {
	TipoDoc     string `json:"tipoDoc"`
	NumDoc      string `json:"numDoc"`
	RazonSocial string `json:"razonSocial"`
	Direccion   string `json:"direccion"`
	Email       string `json:"email"`
	Telefono    string `json:"telefono"`
}

// StaffPayload mirrors a till operator row.
type StaffPayload struct {
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	Pin       string     `json:"pin"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// ProductPayload mirrors a catalog entry.
type ProductPayload struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Stock    float64 `json:"stock"`
}

// LogPayload carries an audit entry with its acting user denormalized.
type LogPayload struct {
	Action    string     `json:"action"`
	Details   string     `json:"details"`
	UserID    LocalID    `json:"userId"`
	UserName  string     `json:"userName"`
	UserRole  string     `json:"userRole"`
	User      *personRef `json:"user"`
	Timestamp *time.Time `json:"timestamp"`
}

func (p LogPayload) userName() string {
	if p.User != nil && p.User.Name != "" {
		return p.User.Name
	}
	return p.UserName
}

func (p LogPayload) userRole() string {
	if p.User != nil && p.User.Role != "" {
		return p.User.Role
	}
	return p.UserRole
}

// DocumentPayload carries a tax document plus an optional full line set.
// OrderID and ClientID are cloud identifiers; no local translation happens here.
type DocumentPayload struct {
	OrderID      string                `json:"orderId"`
	ClientID     string                `json:"clientId"`
	DocumentType string                `json:"documentType"`
	Serie        string                `json:"serie"`
	Correlativo  int                   `json:"correlativo"`
	FullNumber   string                `json:"fullNumber"`
	FechaEmision *time.Time            `json:"fechaEmision"`
	Moneda       string                `json:"moneda"`
	Subtotal     float64               `json:"subtotal"`
	IGV          float64               `json:"igv"`
	Total        float64               `json:"total"`
	Status       string                `json:"status"`
	Provider     string                `json:"provider"`
	Hash         string                `json:"hash"`
	PDFURL       string                `json:"pdfUrl"`
	XMLURL       string                `json:"xmlUrl"`
	CDRURL       string                `json:"cdrUrl"`
	ErrorMessage string                `json:"errorMessage"`
	RetryCount   int                   `json:"retryCount"`
	Items        []DocumentItemPayload `json:"items"`
}

// DocumentItemPayload is one line on a tax document.
type DocumentItemPayload struct {
	Descripcion    string  `json:"descripcion"`
	Cantidad       float64 `json:"cantidad"`
	ValorUnitario  float64 `json:"valorUnitario"`
	PrecioUnitario float64 `json:"precioUnitario"`
	IGV            float64 `json:"igv"`
	Total          float64 `json:"total"`
}

// ConfigProduct is one element of the bulk recovery sync payload.
type ConfigProduct struct {
	ID       LocalID `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Stock    float64 `json:"stock"`
}

// ConfigStaffUser is one element of the bulk recovery sync payload.
type ConfigStaffUser struct {
	ID     LocalID `json:"id"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	Pin    string  `json:"pin"`
	Status string  `json:"status"`
}

// ElementResult reports the outcome for one element of a bulk sync.
type ElementResult struct {
	LocalID string `json:"localId"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ConfigSyncResult aggregates per-element outcomes for a bulk sync. Elements
// are applied independently; a failure never rolls back prior elements.
type ConfigSyncResult struct {
	Products   []ElementResult `json:"products,omitempty"`
	StaffUsers []ElementResult `json:"staffUsers,omitempty"`
}

// Failed reports whether any element failed.
func (r ConfigSyncResult) Failed() bool {
	for _, e := range r.Products {
		if !e.Success {
			return true
		}
	}
	for _, e := range r.StaffUsers {
		if !e.Success {
			return true
		}
	}
	return false
}

// OrderStats aggregates the headline numbers for a business.
type OrderStats struct {
	TotalOrders  int64   `json:"totalOrders"`
	TodayOrders  int64   `json:"todayOrders"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// LogEntry reshapes a stored system log for read endpoints, rebuilding the
// user object from the denormalized columns.
type LogEntry struct {
	ID       string     `json:"id"`
	Action   string     `json:"action"`
	Details  string     `json:"details"`
	LoggedAt time.Time  `json:"timestamp"`
	User     *personRef `json:"user"`
}
