package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
	"github.com/rvaldezc/poscloud-backend/pkg/enums"
	pkgerrors "github.com/rvaldezc/poscloud-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service applies sync submissions from offline clients. Every operation is
// idempotent: replaying the same request converges to the same stored state.
type Service interface {
	SyncOrder(ctx context.Context, businessID uuid.UUID, req Request) (*models.Order, error)
	SyncPayment(ctx context.Context, businessID uuid.UUID, req Request) (*models.Payment, error)
	SyncClient(ctx context.Context, businessID uuid.UUID, req Request) (*models.Client, error)
	SyncStaffUser(ctx context.Context, businessID uuid.UUID, req Request) (*models.StaffUser, error)
	SyncProduct(ctx context.Context, businessID uuid.UUID, req Request) (*models.Product, error)
	SyncLog(ctx context.Context, businessID uuid.UUID, req Request) (*models.SystemLog, error)
	SyncSunatDocument(ctx context.Context, businessID uuid.UUID, req Request) (*models.SunatDocument, error)
	SyncConfig(ctx context.Context, businessID uuid.UUID, products []ConfigProduct, staff []ConfigStaffUser) (*ConfigSyncResult, error)

	Orders(ctx context.Context, businessID uuid.UUID) ([]models.Order, error)
	Stats(ctx context.Context, businessID uuid.UUID) (*OrderStats, error)
	Products(ctx context.Context, businessID uuid.UUID) ([]models.Product, error)
	StaffUsers(ctx context.Context, businessID uuid.UUID) ([]models.StaffUser, error)
	Clients(ctx context.Context, businessID uuid.UUID) ([]models.Client, error)
	Logs(ctx context.Context, businessID uuid.UUID, limit int) ([]LogEntry, error)
	SunatDocuments(ctx context.Context, businessID uuid.UUID) ([]models.SunatDocument, error)
	RecoveryData(ctx context.Context, businessID uuid.UUID) (*RecoveryData, error)
}

// RecoveryData is the full configuration snapshot a reinstalled client pulls
// to rebuild its local database.
type RecoveryData struct {
	Products   []models.Product   `json:"products"`
	StaffUsers []models.StaffUser `json:"staffUsers"`
	Clients    []models.Client    `json:"clients"`
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService builds a sync service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sync repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

func parseAction(raw string) (enums.SyncAction, error) {
	action, err := enums.ParseSyncAction(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown action")
	}
	return action, nil
}

func parseOptionalUUID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func decodePayload(data json.RawMessage, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed sync payload")
	}
	return nil
}

func (s *service) SyncOrder(ctx context.Context, businessID uuid.UUID, req Request) (*models.Order, error) {
	action, err := parseAction(req.Action)
	if err != nil {
		return nil, err
	}
	localID := req.LocalID.String()
	if action == enums.SyncActionDelete {
		if _, err := s.repo.DeleteOrder(ctx, businessID, localID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting order")
		}
		return nil, nil
	}

	var payload OrderPayload
	if err := decodePayload(req.Data, &payload); err != nil {
		return nil, err
	}

	order := &models.Order{
		BusinessID:  businessID,
		LocalID:     localID,
		CustomID:    payload.CustomID,
		WaiterName:  payload.waiterName(),
		Customer:    payload.Customer,
		Status:      payload.Status,
		TotalAmount: payload.TotalAmount,
		PaidAmount:  payload.PaidAmount,
	}
	if payload.CreatedAt != nil {
		order.CreatedAt = *payload.CreatedAt
	}
	if payload.UpdatedAt != nil {
		order.UpdatedAt = *payload.UpdatedAt
	}

	// The upsert and the item replacement must land together: a reader must
	// never see the order with its items deleted but not yet re-inserted.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpsertOrder(ctx, order); err != nil {
			return err
		}
		if payload.Items == nil {
			return nil
		}
		items := make([]models.OrderItem, 0, len(payload.Items))
		for _, it := range payload.Items {
			items = append(items, models.OrderItem{
				OrderID:     order.ID,
				ProductID:   it.ProductID.String(),
				ProductName: it.productName(),
				Quantity:    it.Quantity,
				Price:       it.Price,
			})
		}
		return repo.ReplaceOrderItems(ctx, order.ID, items)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "syncing order")
	}

	synced, err := s.repo.FindOrderByLocalID(ctx, businessID, localID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading order")
	}
	return synced, nil
}

func (s *service) SyncPayment(ctx context.Context, businessID uuid.UUID, req Request) (*models.Payment, error) {
	action, err := parseAction(req.Action)
	if err != nil {
		return nil, err
	}
	if action != enums.SyncActionCreate {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payments only support CREATE")
	}

	var payload PaymentPayload
	if err := decodePayload(req.Data, &payload); err != nil {
		return nil, err
	}
	if payload.OrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment requires orderId")
	}

	order, err := s.repo.FindOrderByLocalID(ctx, businessID, payload.OrderID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found, sync order first")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving payment order")
	}

	payment := &models.Payment{
		BusinessID: businessID,
		LocalID:    req.LocalID.String(),
		OrderID:    order.ID,
		Amount:     payload.Amount,
		Method:     payload.Method,
		Cashier:    payload.Cashier,
		PaidAt:     s.now(),
	}
	if payload.Timestamp != nil {
		payment.PaidAt = *payload.Timestamp
	}
	if err := s.repo.UpsertPayment(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "syncing payment")
	}
	return payment, nil
}

func (s *service) SyncClient(ctx context.Context, businessID uuid.UUID, req Request) (*models.Client, error) {
	action, err := parseAction(req.Action)
	if err != nil {
		return nil, err
	}
	if action == enums.SyncActionDelete {
		if _, err := s.repo.DeleteClient(ctx, businessID, req.LocalID.String()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting client")
		}
		return nil, nil
	}

	var payload ClientPayload
	if err := decodePayload(req.Data, &payload); err != nil {
		return nil, err
	}
	if payload.NumDoc == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client requires numDoc")
	}

	client := &models.Client{
		BusinessID:  businessID,
		LocalID:     req.LocalID.String(),
		TipoDoc:     payload.TipoDoc,
		NumDoc:      payload.NumDoc,
		RazonSocial: payload.RazonSocial,
		Direccion:   payload.Direccion,
		Email:       payload.Email,
		Telefono:    payload.Telefono,
	}
	if err := s.repo.UpsertClient(ctx, client); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "syncing client")
	}
	return client, nil
}

func (s *service) SyncStaffUser(ctx context.Context, businessID uuid.UUID, req Request) (*models.StaffUser, error) {
	action, err := parseAction(req.Action)
	if err != nil {
		return nil, err
	}
	if action == enums.SyncActionDelete {
		if _, err := s.repo.DeleteStaffUser(ctx, businessID, req.LocalID.String()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting staff user")
		}
		return nil, nil
	}

	var payload StaffPayload
	if err := decodePayload(req.Data, &payload); err != nil {
		return nil, err
	}
	staff := s.buildStaffUser(businessID, req.LocalID.String(), payload)
	if err := s.repo.UpsertStaffUser(ctx, staff); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "syncing staff user")
	}
	return staff, nil
}

func (s *service) buildStaffUser(businessID uuid.UUID, localID string, payload StaffPayload) *models.StaffUser {
	now := s.now()
	staff := &models.StaffUser{
		BusinessID: businessID,
		LocalID:    localID,
		Name:       payload.Name,
		Role:       payload.Role,
		Pin:        payload.Pin,
		Status:     enums.StaffStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if st := enums.StaffStatus(payload.Status); st.IsValid() {
		staff.Status = st
	}
	if payload.CreatedAt != nil {
		staff.CreatedAt = *payload.CreatedAt
	}
	if payload.UpdatedAt != nil {
		staff.UpdatedAt = *payload.UpdatedAt
	}
	return staff
}

func (s *service) SyncProduct(ctx context.Context, businessID uuid.UUID, req Request) (*models.Product, error) {
	action, err := parseAction(req.Action)
	if err != nil {
		return nil, err
	}
	if action == enums.SyncActionDelete {
		if _, err := s.repo.DeleteProduct(ctx, businessID, req.LocalID.String()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
		}
		return nil, nil
	}

	var payload ProductPayload
	if err := decodePayload(req.Data, &payload); err != nil {
		return nil, err
	}
	product := &models.Product{
		BusinessID: businessID,
		LocalID:    req.LocalID.String(),
		Name:       payload.Name,
		Price:      payload.Price,
		Category:   payload.Category,
		Stock:      payload.Stock,
	}
	if err := s.repo.UpsertProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "syncing product")
	}
	return product, nil
}

func (s *service) SyncLog(ctx context.Context, businessID uuid.UUID, req Request) (*models.SystemLog, error) {
	action, err := parseAction(req.Action)
	if err != nil {
		return nil, err
	}
	if !action.IsUpsert() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logs cannot be deleted")
	}

	var payload LogPayload
	if err := decodePayload(req.Data, &payload); err != nil {
		return nil, err
	}

	entry := &models.SystemLog{
		BusinessID: businessID,
		LocalID:    req.LocalID.String(),
		Action:     payload.Action,
		Details:    payload.Details,
		UserID:     payload.UserID.String(),
		UserName:   payload.userName(),
		UserRole:   payload.userRole(),
		LoggedAt:   s.now(),
	}
	if payload.Timestamp != nil {
		entry.LoggedAt = *payload.Timestamp
	}
	if err := s.repo.UpsertSystemLog(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "syncing log")
	}
	return entry, nil
}

func (s *service) SyncSunatDocument(ctx context.Context, businessID uuid.UUID, req Request) (*models.SunatDocument, error) {
	action, err := parseAction(req.Action)
	if err != nil {
		return nil, err
	}
	localID := req.LocalID.String()
	if action == enums.SyncActionDelete {
		if _, err := s.repo.DeleteSunatDocument(ctx, businessID, localID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting document")
		}
		return nil, nil
	}

	var payload DocumentPayload
	if err := decodePayload(req.Data, &payload); err != nil {
		return nil, err
	}

	doc := &models.SunatDocument{
		BusinessID:   businessID,
		LocalID:      localID,
		OrderID:      parseOptionalUUID(payload.OrderID),
		ClientID:     parseOptionalUUID(payload.ClientID),
		DocumentType: payload.DocumentType,
		Serie:        payload.Serie,
		Correlativo:  payload.Correlativo,
		FullNumber:   payload.FullNumber,
		FechaEmision: s.now(),
		Moneda:       payload.Moneda,
		Subtotal:     payload.Subtotal,
		IGV:          payload.IGV,
		Total:        payload.Total,
		Status:       payload.Status,
		Provider:     payload.Provider,
		Hash:         payload.Hash,
		PDFURL:       payload.PDFURL,
		XMLURL:       payload.XMLURL,
		CDRURL:       payload.CDRURL,
		ErrorMessage: payload.ErrorMessage,
		RetryCount:   payload.RetryCount,
	}
	if doc.Moneda == "" {
		doc.Moneda = "PEN"
	}
	if payload.FechaEmision != nil {
		doc.FechaEmision = *payload.FechaEmision
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpsertSunatDocument(ctx, doc); err != nil {
			return err
		}
		if payload.Items == nil {
			return nil
		}
		items := make([]models.SunatDocumentItem, 0, len(payload.Items))
		for _, it := range payload.Items {
			items = append(items, models.SunatDocumentItem{
				DocumentID:     doc.ID,
				Descripcion:    it.Descripcion,
				Cantidad:       it.Cantidad,
				ValorUnitario:  it.ValorUnitario,
				PrecioUnitario: it.PrecioUnitario,
				IGV:            it.IGV,
				Total:          it.Total,
			})
		}
		return repo.ReplaceSunatDocumentItems(ctx, doc.ID, items)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "syncing document")
	}
	return doc, nil
}

// SyncConfig applies a bulk configuration snapshot element by element. There
// is no transaction across the array: each element commits or fails on its
// own and the caller gets a per-element report.
func (s *service) SyncConfig(ctx context.Context, businessID uuid.UUID, products []ConfigProduct, staff []ConfigStaffUser) (*ConfigSyncResult, error) {
	result := &ConfigSyncResult{}
	for _, p := range products {
		el := ElementResult{LocalID: p.ID.String(), Success: true}
		product := &models.Product{
			BusinessID: businessID,
			LocalID:    p.ID.String(),
			Name:       p.Name,
			Price:      p.Price,
			Category:   p.Category,
			Stock:      p.Stock,
		}
		if err := s.repo.UpsertProduct(ctx, product); err != nil {
			el.Success = false
			el.Error = err.Error()
		}
		result.Products = append(result.Products, el)
	}
	for _, u := range staff {
		el := ElementResult{LocalID: u.ID.String(), Success: true}
		staffUser := s.buildStaffUser(businessID, u.ID.String(), StaffPayload{
			Name:   u.Name,
			Role:   u.Role,
			Pin:    u.Pin,
			Status: u.Status,
		})
		if err := s.repo.UpsertStaffUser(ctx, staffUser); err != nil {
			el.Success = false
			el.Error = err.Error()
		}
		result.StaffUsers = append(result.StaffUsers, el)
	}
	return result, nil
}

func (s *service) Orders(ctx context.Context, businessID uuid.UUID) ([]models.Order, error) {
	orders, err := s.repo.ListOrders(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return orders, nil
}

func (s *service) Stats(ctx context.Context, businessID uuid.UUID) (*OrderStats, error) {
	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	stats, err := s.repo.OrderStats(ctx, businessID, todayStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing order stats")
	}
	return stats, nil
}

func (s *service) Products(ctx context.Context, businessID uuid.UUID) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return products, nil
}

func (s *service) StaffUsers(ctx context.Context, businessID uuid.UUID) ([]models.StaffUser, error) {
	staff, err := s.repo.ListStaffUsers(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing staff users")
	}
	return staff, nil
}

func (s *service) Clients(ctx context.Context, businessID uuid.UUID) ([]models.Client, error) {
	clients, err := s.repo.ListClients(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing clients")
	}
	return clients, nil
}

func (s *service) Logs(ctx context.Context, businessID uuid.UUID, limit int) ([]LogEntry, error) {
	logs, err := s.repo.ListSystemLogs(ctx, businessID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing logs")
	}
	entries := make([]LogEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, LogEntry{
			ID:       l.ID.String(),
			Action:   l.Action,
			Details:  l.Details,
			LoggedAt: l.LoggedAt,
			User:     &personRef{Name: l.UserName, Role: l.UserRole},
		})
	}
	return entries, nil
}

func (s *service) SunatDocuments(ctx context.Context, businessID uuid.UUID) ([]models.SunatDocument, error) {
	docs, err := s.repo.ListSunatDocuments(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing documents")
	}
	return docs, nil
}

func (s *service) RecoveryData(ctx context.Context, businessID uuid.UUID) (*RecoveryData, error) {
	products, err := s.repo.ListProducts(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading recovery products")
	}
	staff, err := s.repo.ListStaffUsers(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading recovery staff")
	}
	clients, err := s.repo.ListClients(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading recovery clients")
	}
	return &RecoveryData{Products: products, StaffUsers: staff, Clients: clients}, nil
}
