package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
)

// Repository defines persistence operations for synced entities. Every
// upsert keys on the client-assigned local id so replayed requests
// converge to a single row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	UpsertOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, businessID uuid.UUID, localID string) (int64, error)
	FindOrderByLocalID(ctx context.Context, businessID uuid.UUID, localID string) (*models.Order, error)
	ReplaceOrderItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error

	UpsertPayment(ctx context.Context, payment *models.Payment) error

	UpsertClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, businessID uuid.UUID, localID string) (int64, error)

	UpsertProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, businessID uuid.UUID, localID string) (int64, error)

	UpsertStaffUser(ctx context.Context, staff *models.StaffUser) error
	DeleteStaffUser(ctx context.Context, businessID uuid.UUID, localID string) (int64, error)

	UpsertSystemLog(ctx context.Context, entry *models.SystemLog) error

	UpsertSunatDocument(ctx context.Context, doc *models.SunatDocument) error
	DeleteSunatDocument(ctx context.Context, businessID uuid.UUID, localID string) (int64, error)
	ReplaceSunatDocumentItems(ctx context.Context, documentID uuid.UUID, items []models.SunatDocumentItem) error

	ListOrders(ctx context.Context, businessID uuid.UUID) ([]models.Order, error)
	OrderStats(ctx context.Context, businessID uuid.UUID, todayStart time.Time) (*OrderStats, error)
	ListProducts(ctx context.Context, businessID uuid.UUID) ([]models.Product, error)
	ListStaffUsers(ctx context.Context, businessID uuid.UUID) ([]models.StaffUser, error)
	ListClients(ctx context.Context, businessID uuid.UUID) ([]models.Client, error)
	ListSystemLogs(ctx context.Context, businessID uuid.UUID, limit int) ([]models.SystemLog, error)
	ListSunatDocuments(ctx context.Context, businessID uuid.UUID) ([]models.SunatDocument, error)
}
