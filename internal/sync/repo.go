package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
	"github.com/rvaldezc/poscloud-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sync repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) UpsertOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "business_id"}, {Name: "local_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"custom_id", "waiter_name", "customer", "status",
				"total_amount", "paid_amount", "updated_at",
			}),
		}).
		Create(order).Error
}

func (r *repository) DeleteOrder(ctx context.Context, businessID uuid.UUID, localID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("business_id = ? AND local_id = ?", businessID, localID).
		Delete(&models.Order{})
	return res.RowsAffected, res.Error
}

func (r *repository) FindOrderByLocalID(ctx context.Context, businessID uuid.UUID, localID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("business_id = ? AND local_id = ?", businessID, localID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ReplaceOrderItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error {
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) UpsertPayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "business_id"}, {Name: "local_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"amount", "method", "cashier", "paid_at",
			}),
		}).
		Create(payment).Error
}

func (r *repository) UpsertClient(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "business_id"}, {Name: "num_doc"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"local_id", "tipo_doc", "razon_social", "direccion",
				"email", "telefono", "updated_at",
			}),
		}).
		Create(client).Error
}

func (r *repository) DeleteClient(ctx context.Context, businessID uuid.UUID, localID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("business_id = ? AND local_id = ?", businessID, localID).
		Delete(&models.Client{})
	return res.RowsAffected, res.Error
}

func (r *repository) UpsertProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "business_id"}, {Name: "local_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "price", "category", "stock", "updated_at",
			}),
		}).
		Create(product).Error
}

func (r *repository) DeleteProduct(ctx context.Context, businessID uuid.UUID, localID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("business_id = ? AND local_id = ?", businessID, localID).
		Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

func (r *repository) UpsertStaffUser(ctx context.Context, staff *models.StaffUser) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "business_id"}, {Name: "local_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "role", "pin", "status", "updated_at",
			}),
		}).
		Create(staff).Error
}

func (r *repository) DeleteStaffUser(ctx context.Context, businessID uuid.UUID, localID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("business_id = ? AND local_id = ?", businessID, localID).
		Delete(&models.StaffUser{})
	return res.RowsAffected, res.Error
}

func (r *repository) UpsertSystemLog(ctx context.Context, entry *models.SystemLog) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "business_id"}, {Name: "local_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"action", "details", "user_id", "user_name", "user_role", "logged_at",
			}),
		}).
		Create(entry).Error
}

func (r *repository) UpsertSunatDocument(ctx context.Context, doc *models.SunatDocument) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "business_id"}, {Name: "local_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"order_id", "client_id", "document_type", "serie", "correlativo",
				"full_number", "fecha_emision", "moneda", "subtotal", "igv", "total",
				"status", "provider", "hash", "pdf_url", "xml_url", "cdr_url",
				"error_message", "retry_count", "updated_at",
			}),
		}).
		Create(doc).Error
}

func (r *repository) DeleteSunatDocument(ctx context.Context, businessID uuid.UUID, localID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("business_id = ? AND local_id = ?", businessID, localID).
		Delete(&models.SunatDocument{})
	return res.RowsAffected, res.Error
}

func (r *repository) ReplaceSunatDocumentItems(ctx context.Context, documentID uuid.UUID, items []models.SunatDocumentItem) error {
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&models.SunatDocumentItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) ListOrders(ctx context.Context, businessID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Limit(pagination.DefaultLimit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) OrderStats(ctx context.Context, businessID uuid.UUID, todayStart time.Time) (*OrderStats, error) {
	var stats OrderStats
	base := r.db.WithContext(ctx).Model(&models.Order{}).Where("business_id = ?", businessID)
	if err := base.Session(&gorm.Session{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("created_at >= ?", todayStart).
		Count(&stats.TodayOrders).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *repository) ListProducts(ctx context.Context, businessID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) ListStaffUsers(ctx context.Context, businessID uuid.UUID) ([]models.StaffUser, error) {
	var staff []models.StaffUser
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("name ASC").
		Find(&staff).Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *repository) ListClients(ctx context.Context, businessID uuid.UUID) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("razon_social ASC").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repository) ListSystemLogs(ctx context.Context, businessID uuid.UUID, limit int) ([]models.SystemLog, error) {
	var logs []models.SystemLog
	q := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("logged_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repository) ListSunatDocuments(ctx context.Context, businessID uuid.UUID) ([]models.SunatDocument, error) {
	var docs []models.SunatDocument
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("business_id = ?", businessID).
		Order("fecha_emision DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}
