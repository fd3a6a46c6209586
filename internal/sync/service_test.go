package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
	"github.com/rvaldezc/poscloud-backend/pkg/enums"
	pkgerrors "github.com/rvaldezc/poscloud-backend/pkg/errors"
)

func tenantKey(businessID uuid.UUID, localID string) string {
	return businessID.String() + "/" + localID
}

type stubSyncRepo struct {
	orders     map[string]*models.Order
	orderItems map[uuid.UUID][]models.OrderItem
	payments   map[string]*models.Payment
	clients    map[string]*models.Client
	products   map[string]*models.Product
	staff      map[string]*models.StaffUser
	logs       map[string]*models.SystemLog
	docs       map[string]*models.SunatDocument
	docItems   map[uuid.UUID][]models.SunatDocumentItem

	upsertProductErr func(p *models.Product) error
}

func newStubSyncRepo() *stubSyncRepo {
	return &stubSyncRepo{
		orders:     make(map[string]*models.Order),
		orderItems: make(map[uuid.UUID][]models.OrderItem),
		payments:   make(map[string]*models.Payment),
		clients:    make(map[string]*models.Client),
		products:   make(map[string]*models.Product),
		staff:      make(map[string]*models.StaffUser),
		logs:       make(map[string]*models.SystemLog),
		docs:       make(map[string]*models.SunatDocument),
		docItems:   make(map[uuid.UUID][]models.SunatDocumentItem),
	}
}

func (s *stubSyncRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubSyncRepo) UpsertOrder(ctx context.Context, order *models.Order) error {
	key := tenantKey(order.BusinessID, order.LocalID)
	if existing, ok := s.orders[key]; ok {
		order.ID = existing.ID
		order.CreatedAt = existing.CreatedAt
	} else if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	copied := *order
	s.orders[key] = &copied
	return nil
}

func (s *stubSyncRepo) DeleteOrder(ctx context.Context, businessID uuid.UUID, localID string) (int64, error) {
	key := tenantKey(businessID, localID)
	if _, ok := s.orders[key]; !ok {
		return 0, nil
	}
	delete(s.orders, key)
	return 1, nil
}

func (s *stubSyncRepo) FindOrderByLocalID(ctx context.Context, businessID uuid.UUID, localID string) (*models.Order, error) {
	order, ok := s.orders[tenantKey(businessID, localID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	copied.Items = s.orderItems[order.ID]
	return &copied, nil
}

func (s *stubSyncRepo) ReplaceOrderItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error {
	s.orderItems[orderID] = items
	return nil
}

func (s *stubSyncRepo) UpsertPayment(ctx context.Context, payment *models.Payment) error {
	key := tenantKey(payment.BusinessID, payment.LocalID)
	if existing, ok := s.payments[key]; ok {
		payment.ID = existing.ID
	} else if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	copied := *payment
	s.payments[key] = &copied
	return nil
}

func (s *stubSyncRepo) UpsertClient(ctx context.Context, client *models.Client) error {
	key := tenantKey(client.BusinessID, client.NumDoc)
	if existing, ok := s.clients[key]; ok {
		client.ID = existing.ID
	} else if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	copied := *client
	s.clients[key] = &copied
	return nil
}

func (s *stubSyncRepo) DeleteClient(ctx context.Context, businessID uuid.UUID, localID string) (int64, error) {
	for key, c := range s.clients {
		if c.BusinessID == businessID && c.LocalID == localID {
			delete(s.clients, key)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *stubSyncRepo) UpsertProduct(ctx context.Context, product *models.Product) error {
	if s.upsertProductErr != nil {
		if err := s.upsertProductErr(product); err != nil {
			return err
		}
	}
	key := tenantKey(product.BusinessID, product.LocalID)
	if existing, ok := s.products[key]; ok {
		product.ID = existing.ID
	} else if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	copied := *product
	s.products[key] = &copied
	return nil
}

func (s *stubSyncRepo) DeleteProduct(ctx context.Context, businessID uuid.UUID, localID string) (int64, error) {
	key := tenantKey(businessID, localID)
	if _, ok := s.products[key]; !ok {
		return 0, nil
	}
	delete(s.products, key)
	return 1, nil
}

func (s *stubSyncRepo) UpsertStaffUser(ctx context.Context, staff *models.StaffUser) error {
	key := tenantKey(staff.BusinessID, staff.LocalID)
	if existing, ok := s.staff[key]; ok {
		staff.ID = existing.ID
	} else if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	copied := *staff
	s.staff[key] = &copied
	return nil
}

func (s *stubSyncRepo) DeleteStaffUser(ctx context.Context, businessID uuid.UUID, localID string) (int64, error) {
	key := tenantKey(businessID, localID)
	if _, ok := s.staff[key]; !ok {
		return 0, nil
	}
	delete(s.staff, key)
	return 1, nil
}

func (s *stubSyncRepo) UpsertSystemLog(ctx context.Context, entry *models.SystemLog) error {
	key := tenantKey(entry.BusinessID, entry.LocalID)
	if existing, ok := s.logs[key]; ok {
		entry.ID = existing.ID
	} else if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	copied := *entry
	s.logs[key] = &copied
	return nil
}

func (s *stubSyncRepo) UpsertSunatDocument(ctx context.Context, doc *models.SunatDocument) error {
	key := tenantKey(doc.BusinessID, doc.LocalID)
	if existing, ok := s.docs[key]; ok {
		doc.ID = existing.ID
	} else if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	copied := *doc
	s.docs[key] = &copied
	return nil
}

func (s *stubSyncRepo) DeleteSunatDocument(ctx context.Context, businessID uuid.UUID, localID string) (int64, error) {
	key := tenantKey(businessID, localID)
	if _, ok := s.docs[key]; !ok {
		return 0, nil
	}
	delete(s.docs, key)
	return 1, nil
}

func (s *stubSyncRepo) ReplaceSunatDocumentItems(ctx context.Context, documentID uuid.UUID, items []models.SunatDocumentItem) error {
	s.docItems[documentID] = items
	return nil
}

func (s *stubSyncRepo) ListOrders(ctx context.Context, businessID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.BusinessID == businessID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubSyncRepo) OrderStats(ctx context.Context, businessID uuid.UUID, todayStart time.Time) (*OrderStats, error) {
	stats := &OrderStats{}
	for _, o := range s.orders {
		if o.BusinessID != businessID {
			continue
		}
		stats.TotalOrders++
		stats.TotalRevenue += o.TotalAmount
		if !o.CreatedAt.Before(todayStart) {
			stats.TodayOrders++
		}
	}
	return stats, nil
}

func (s *stubSyncRepo) ListProducts(ctx context.Context, businessID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.BusinessID == businessID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubSyncRepo) ListStaffUsers(ctx context.Context, businessID uuid.UUID) ([]models.StaffUser, error) {
	var out []models.StaffUser
	for _, u := range s.staff {
		if u.BusinessID == businessID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *stubSyncRepo) ListClients(ctx context.Context, businessID uuid.UUID) ([]models.Client, error) {
	var out []models.Client
	for _, c := range s.clients {
		if c.BusinessID == businessID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *stubSyncRepo) ListSystemLogs(ctx context.Context, businessID uuid.UUID, limit int) ([]models.SystemLog, error) {
	var out []models.SystemLog
	for _, l := range s.logs {
		if l.BusinessID == businessID {
			out = append(out, *l)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubSyncRepo) ListSunatDocuments(ctx context.Context, businessID uuid.UUID) ([]models.SunatDocument, error) {
	var out []models.SunatDocument
	for _, d := range s.docs {
		if d.BusinessID == businessID {
			out = append(out, *d)
		}
	}
	return out, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func orderRequest(localID, action string, payload OrderPayload) Request {
	data, _ := json.Marshal(payload)
	return Request{LocalID: LocalID(localID), Action: action, Data: data}
}

func TestSyncOrderReplayConverges(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	req := orderRequest("17", "CREATE", OrderPayload{
		Status:      "PAID",
		TotalAmount: 42.5,
		Items: []OrderItemPayload{
			{ProductName: "Lomo saltado", Quantity: 1, Price: 42.5},
		},
	})

	first, err := svc.SyncOrder(context.Background(), businessID, req)
	if err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	second, err := svc.SyncOrder(context.Background(), businessID, req)
	if err != nil {
		t.Fatalf("replayed sync failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("replay minted a new row: %s vs %s", first.ID, second.ID)
	}
	if len(repo.orders) != 1 {
		t.Fatalf("expected one stored order, got %d", len(repo.orders))
	}
	if len(second.Items) != 1 {
		t.Fatalf("expected one item after replay, got %d", len(second.Items))
	}
}

func TestSyncOrderUpdateReplacesItems(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	_, err := svc.SyncOrder(context.Background(), businessID, orderRequest("5", "CREATE", OrderPayload{
		Items: []OrderItemPayload{
			{ProductName: "Inka Kola", Quantity: 2, Price: 5},
			{ProductName: "Ceviche", Quantity: 1, Price: 30},
		},
	}))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.SyncOrder(context.Background(), businessID, orderRequest("5", "UPDATE", OrderPayload{
		Items: []OrderItemPayload{
			{ProductName: "Ceviche", Quantity: 3, Price: 30},
		},
	}))
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(updated.Items) != 1 {
		t.Fatalf("expected items replaced wholesale, got %d", len(updated.Items))
	}
	if updated.Items[0].Quantity != 3 {
		t.Fatalf("unexpected quantity %v", updated.Items[0].Quantity)
	}
}

func TestSyncOrderUpdateWithoutItemsKeepsExisting(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	_, err := svc.SyncOrder(context.Background(), businessID, orderRequest("9", "CREATE", OrderPayload{
		Items: []OrderItemPayload{{ProductName: "Chicha", Quantity: 1, Price: 8}},
	}))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.SyncOrder(context.Background(), businessID, orderRequest("9", "UPDATE", OrderPayload{
		Status: "PAID",
	}))
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(updated.Items) != 1 {
		t.Fatalf("items should survive an update without an item list, got %d", len(updated.Items))
	}
}

func TestSyncOrderDeleteIdempotent(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	del := Request{LocalID: "404", Action: "DELETE", Data: json.RawMessage(`{}`)}
	if _, err := svc.SyncOrder(context.Background(), businessID, del); err != nil {
		t.Fatalf("deleting a missing order should succeed, got %v", err)
	}
}

func TestSyncOrderUnknownAction(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)

	_, err := svc.SyncOrder(context.Background(), uuid.New(), Request{
		LocalID: "1", Action: "MERGE", Data: json.RawMessage(`{}`),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSyncOrderWaiterNameFallback(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	order, err := svc.SyncOrder(context.Background(), businessID, orderRequest("3", "CREATE", OrderPayload{
		Waiter: &personRef{Name: "Rosa"},
	}))
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if order.WaiterName != "Rosa" {
		t.Fatalf("expected nested waiter name, got %q", order.WaiterName)
	}
}

func TestSyncPaymentRequiresOrder(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	data, _ := json.Marshal(PaymentPayload{OrderID: "17", Amount: 10, Method: "CASH"})
	_, err := svc.SyncPayment(context.Background(), businessID, Request{
		LocalID: "p1", Action: "CREATE", Data: data,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found before order sync, got %v", err)
	}
}

func TestSyncPaymentAfterOrder(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	order, err := svc.SyncOrder(context.Background(), businessID, orderRequest("17", "CREATE", OrderPayload{}))
	if err != nil {
		t.Fatalf("order sync failed: %v", err)
	}

	when := time.Date(2026, 3, 10, 21, 15, 0, 0, time.UTC)
	data, _ := json.Marshal(PaymentPayload{OrderID: "17", Amount: 25, Method: "YAPE", Timestamp: &when})
	payment, err := svc.SyncPayment(context.Background(), businessID, Request{
		LocalID: "p1", Action: "CREATE", Data: data,
	})
	if err != nil {
		t.Fatalf("payment sync failed: %v", err)
	}
	if payment.OrderID != order.ID {
		t.Fatal("payment not linked to the cloud order id")
	}
	if !payment.PaidAt.Equal(when) {
		t.Fatalf("expected client timestamp, got %v", payment.PaidAt)
	}
}

func TestSyncPaymentRejectsUpdate(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)

	_, err := svc.SyncPayment(context.Background(), uuid.New(), Request{
		LocalID: "p1", Action: "UPDATE", Data: json.RawMessage(`{"orderId":"1"}`),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSyncPaymentNumericOrderID(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	if _, err := svc.SyncOrder(context.Background(), businessID, orderRequest("42", "CREATE", OrderPayload{})); err != nil {
		t.Fatalf("order sync failed: %v", err)
	}

	// Clients with numeric local counters send orderId as a bare number.
	raw := json.RawMessage(`{"orderId":42,"amount":12,"method":"CASH"}`)
	if _, err := svc.SyncPayment(context.Background(), businessID, Request{
		LocalID: "p2", Action: "CREATE", Data: raw,
	}); err != nil {
		t.Fatalf("payment with numeric orderId failed: %v", err)
	}
}

func TestSyncClientKeyedByNumDoc(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	mk := func(localID, numDoc, razon string) Request {
		data, _ := json.Marshal(ClientPayload{TipoDoc: "RUC", NumDoc: numDoc, RazonSocial: razon})
		return Request{LocalID: LocalID(localID), Action: "CREATE", Data: data}
	}

	first, err := svc.SyncClient(context.Background(), businessID, mk("c1", "20601030013", "ACME SAC"))
	if err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	second, err := svc.SyncClient(context.Background(), businessID, mk("c9", "20601030013", "ACME S.A.C."))
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("same numDoc from different local ids should converge to one row")
	}
	if len(repo.clients) != 1 {
		t.Fatalf("expected one client row, got %d", len(repo.clients))
	}
	if second.RazonSocial != "ACME S.A.C." {
		t.Fatalf("expected refreshed name, got %q", second.RazonSocial)
	}
}

func TestSyncClientRequiresNumDoc(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)

	_, err := svc.SyncClient(context.Background(), uuid.New(), Request{
		LocalID: "c1", Action: "CREATE", Data: json.RawMessage(`{"razonSocial":"ACME"}`),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSyncStaffUserDefaults(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	data, _ := json.Marshal(StaffPayload{Name: "Maria", Role: "CAJERO"})
	staff, err := svc.SyncStaffUser(context.Background(), businessID, Request{
		LocalID: "s1", Action: "CREATE", Data: data,
	})
	if err != nil {
		t.Fatalf("staff sync failed: %v", err)
	}
	if staff.Status != enums.StaffStatusActive {
		t.Fatalf("expected default ACTIVE status, got %s", staff.Status)
	}
	if staff.CreatedAt.IsZero() || staff.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to default to now")
	}
}

func TestSyncLogDenormalizesUser(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	data, _ := json.Marshal(LogPayload{
		Action: "CASH_DRAWER_OPEN",
		User:   &personRef{Name: "Pedro", Role: "ADMIN"},
	})
	entry, err := svc.SyncLog(context.Background(), businessID, Request{
		LocalID: "l1", Action: "CREATE", Data: data,
	})
	if err != nil {
		t.Fatalf("log sync failed: %v", err)
	}
	if entry.UserName != "Pedro" || entry.UserRole != "ADMIN" {
		t.Fatalf("expected denormalized user, got %q/%q", entry.UserName, entry.UserRole)
	}

	logs, err := svc.Logs(context.Background(), businessID, 0)
	if err != nil {
		t.Fatalf("listing logs failed: %v", err)
	}
	if len(logs) != 1 || logs[0].User == nil || logs[0].User.Name != "Pedro" {
		t.Fatalf("expected rebuilt user object in log read, got %+v", logs)
	}
}

func TestSyncLogRejectsDelete(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)

	_, err := svc.SyncLog(context.Background(), uuid.New(), Request{
		LocalID: "l1", Action: "DELETE", Data: json.RawMessage(`{}`),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSyncSunatDocumentReplacesItems(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	mk := func(items []DocumentItemPayload) Request {
		data, _ := json.Marshal(DocumentPayload{
			DocumentType: "BOLETA",
			Serie:        "B001",
			Correlativo:  15,
			FullNumber:   "B001-15",
			Status:       "ACEPTADO",
			Items:        items,
		})
		return Request{LocalID: "d1", Action: "UPDATE", Data: data}
	}

	doc, err := svc.SyncSunatDocument(context.Background(), businessID, mk([]DocumentItemPayload{
		{Descripcion: "Menu", Cantidad: 2, Total: 24},
	}))
	if err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	if doc.Moneda != "PEN" {
		t.Fatalf("expected default currency, got %q", doc.Moneda)
	}

	if _, err := svc.SyncSunatDocument(context.Background(), businessID, mk([]DocumentItemPayload{
		{Descripcion: "Menu", Cantidad: 2, Total: 24},
		{Descripcion: "Gaseosa", Cantidad: 1, Total: 5},
	})); err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if len(repo.docs) != 1 {
		t.Fatalf("expected one document, got %d", len(repo.docs))
	}
	if got := len(repo.docItems[doc.ID]); got != 2 {
		t.Fatalf("expected replaced item set of 2, got %d", got)
	}
}

func TestSyncConfigReportsPerElement(t *testing.T) {
	repo := newStubSyncRepo()
	repo.upsertProductErr = func(p *models.Product) error {
		if p.LocalID == "2" {
			return fmt.Errorf("price out of range")
		}
		return nil
	}
	svc := newTestService(t, repo)
	businessID := uuid.New()

	result, err := svc.SyncConfig(context.Background(), businessID,
		[]ConfigProduct{
			{ID: "1", Name: "Arroz chaufa", Price: 18},
			{ID: "2", Name: "Parihuela", Price: -1},
			{ID: "3", Name: "Causa", Price: 12},
		},
		[]ConfigStaffUser{{ID: "s1", Name: "Jose", Role: "MOZO"}},
	)
	if err != nil {
		t.Fatalf("config sync failed: %v", err)
	}
	if len(result.Products) != 3 {
		t.Fatalf("expected 3 product results, got %d", len(result.Products))
	}
	if result.Products[0].Success != true || result.Products[1].Success != false || result.Products[2].Success != true {
		t.Fatalf("unexpected per-element outcomes: %+v", result.Products)
	}
	if !result.Failed() {
		t.Fatal("expected aggregate failure flag")
	}
	// Element 3 must commit even though element 2 failed.
	if _, ok := repo.products[tenantKey(businessID, "3")]; !ok {
		t.Fatal("later element was not applied after a mid-array failure")
	}
	if len(result.StaffUsers) != 1 || !result.StaffUsers[0].Success {
		t.Fatalf("unexpected staff results: %+v", result.StaffUsers)
	}
}

func TestCrossTenantIsolation(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	tenantA := uuid.New()
	tenantB := uuid.New()

	if _, err := svc.SyncOrder(context.Background(), tenantA, orderRequest("7", "CREATE", OrderPayload{TotalAmount: 10})); err != nil {
		t.Fatalf("tenant A sync failed: %v", err)
	}
	if _, err := svc.SyncOrder(context.Background(), tenantB, orderRequest("7", "CREATE", OrderPayload{TotalAmount: 99})); err != nil {
		t.Fatalf("tenant B sync failed: %v", err)
	}
	if len(repo.orders) != 2 {
		t.Fatalf("colliding local ids across tenants must stay separate, got %d rows", len(repo.orders))
	}

	ordersA, err := svc.Orders(context.Background(), tenantA)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(ordersA) != 1 || ordersA[0].TotalAmount != 10 {
		t.Fatalf("tenant A read leaked rows: %+v", ordersA)
	}
}

func TestStatsAggregates(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	for i, amount := range []float64{10, 20, 30} {
		req := orderRequest(fmt.Sprintf("o%d", i), "CREATE", OrderPayload{TotalAmount: amount})
		if _, err := svc.SyncOrder(context.Background(), businessID, req); err != nil {
			t.Fatalf("sync failed: %v", err)
		}
	}

	stats, err := svc.Stats(context.Background(), businessID)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalOrders != 3 {
		t.Fatalf("expected 3 orders, got %d", stats.TotalOrders)
	}
	if stats.TotalRevenue != 60 {
		t.Fatalf("expected revenue 60, got %v", stats.TotalRevenue)
	}
}

func TestRecoveryData(t *testing.T) {
	repo := newStubSyncRepo()
	svc := newTestService(t, repo)
	businessID := uuid.New()

	if _, err := svc.SyncConfig(context.Background(), businessID,
		[]ConfigProduct{{ID: "1", Name: "Aji de gallina", Price: 16}},
		[]ConfigStaffUser{{ID: "s1", Name: "Luz", Role: "CAJERO"}},
	); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	data, err := svc.RecoveryData(context.Background(), businessID)
	if err != nil {
		t.Fatalf("recovery failed: %v", err)
	}
	if len(data.Products) != 1 || len(data.StaffUsers) != 1 {
		t.Fatalf("incomplete snapshot: %+v", data)
	}
}

func TestLocalIDAcceptsStringAndNumber(t *testing.T) {
	var req Request
	if err := json.Unmarshal([]byte(`{"localId":123,"action":"CREATE","data":{}}`), &req); err != nil {
		t.Fatalf("numeric local id rejected: %v", err)
	}
	if req.LocalID != "123" {
		t.Fatalf("expected normalized %q, got %q", "123", req.LocalID)
	}
	if err := json.Unmarshal([]byte(`{"localId":"abc","action":"CREATE","data":{}}`), &req); err != nil {
		t.Fatalf("string local id rejected: %v", err)
	}
	if req.LocalID != "abc" {
		t.Fatalf("expected %q, got %q", "abc", req.LocalID)
	}
}
