package devices

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
	"github.com/rvaldezc/poscloud-backend/pkg/enums"
	pkgerrors "github.com/rvaldezc/poscloud-backend/pkg/errors"
)

type stubDevicesRepo struct {
	devices     map[string]*models.Device
	businesses  map[uuid.UUID]*models.Business
	memberships map[string]*models.UserBusiness
	touched     []uuid.UUID

	// raceWinner simulates a concurrent registration landing between the
	// fingerprint lookup and the insert: CreateDevice stores it and fails
	// with a unique violation, as Postgres would for the slower caller.
	raceWinner *models.Device
}

func newStubDevicesRepo() *stubDevicesRepo {
	return &stubDevicesRepo{
		devices:     make(map[string]*models.Device),
		businesses:  make(map[uuid.UUID]*models.Business),
		memberships: make(map[string]*models.UserBusiness),
	}
}

func membershipKey(userID, businessID uuid.UUID) string {
	return userID.String() + "/" + businessID.String()
}

func (s *stubDevicesRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubDevicesRepo) CreateDevice(ctx context.Context, device *models.Device) (*models.Device, error) {
	if s.raceWinner != nil && s.raceWinner.Fingerprint == device.Fingerprint {
		s.devices[s.raceWinner.Fingerprint] = s.raceWinner
		s.raceWinner = nil
		return nil, &pgconn.PgError{Code: "23505", ConstraintName: "idx_devices_fingerprint"}
	}
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	device.Business = s.businesses[device.BusinessID]
	s.devices[device.Fingerprint] = device
	return device, nil
}

func (s *stubDevicesRepo) FindDeviceByFingerprint(ctx context.Context, fingerprint string) (*models.Device, error) {
	device, ok := s.devices[fingerprint]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	device.Business = s.businesses[device.BusinessID]
	return device, nil
}

func (s *stubDevicesRepo) FindDeviceByID(ctx context.Context, id uuid.UUID) (*models.Device, error) {
	for _, device := range s.devices {
		if device.ID == id {
			device.Business = s.businesses[device.BusinessID]
			return device, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubDevicesRepo) TouchLastSeen(ctx context.Context, deviceID uuid.UUID, at time.Time) error {
	s.touched = append(s.touched, deviceID)
	for _, device := range s.devices {
		if device.ID == deviceID {
			device.LastSeen = &at
		}
	}
	return nil
}

func (s *stubDevicesRepo) SetAuthorized(ctx context.Context, deviceID uuid.UUID, authorized bool) error {
	for _, device := range s.devices {
		if device.ID == deviceID {
			device.Authorized = authorized
		}
	}
	return nil
}

func (s *stubDevicesRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]models.Device, error) {
	var out []models.Device
	for _, device := range s.devices {
		if device.BusinessID == businessID {
			out = append(out, *device)
		}
	}
	return out, nil
}

func (s *stubDevicesRepo) FindBusinessByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	business, ok := s.businesses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return business, nil
}

func (s *stubDevicesRepo) FindMembership(ctx context.Context, userID, businessID uuid.UUID) (*models.UserBusiness, error) {
	membership, ok := s.memberships[membershipKey(userID, businessID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return membership, nil
}

func seedBusiness(repo *stubDevicesRepo, active bool) *models.Business {
	business := &models.Business{ID: uuid.New(), Name: "Cevicheria El Puerto", Active: active}
	repo.businesses[business.ID] = business
	return business
}

func seedMembership(repo *stubDevicesRepo, businessID uuid.UUID, role enums.MemberRole) uuid.UUID {
	userID := uuid.New()
	repo.memberships[membershipKey(userID, businessID)] = &models.UserBusiness{
		UserID: userID, BusinessID: businessID, Role: role,
	}
	return userID
}

func TestRegisterNewDeviceUnauthorized(t *testing.T) {
	repo := newStubDevicesRepo()
	business := seedBusiness(repo, true)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	result, err := svc.Register(context.Background(), RegisterInput{
		Fingerprint: "fp-001", Name: "Caja 1", BusinessID: business.ID,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.AlreadyRegistered {
		t.Fatal("first registration flagged as heartbeat")
	}
	if result.Device.Authorized {
		t.Fatal("new devices must start unauthorized")
	}
	if result.Device.Role != enums.DeviceRolePOS {
		t.Fatalf("expected default POS role, got %s", result.Device.Role)
	}
}

func TestRegisterExistingIsHeartbeat(t *testing.T) {
	repo := newStubDevicesRepo()
	business := seedBusiness(repo, true)
	svc, _ := NewService(repo)

	first, err := svc.Register(context.Background(), RegisterInput{
		Fingerprint: "fp-001", Name: "Caja 1", BusinessID: business.ID,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	second, err := svc.Register(context.Background(), RegisterInput{
		Fingerprint: "fp-001", Name: "Caja renombrada", BusinessID: business.ID,
	})
	if err != nil {
		t.Fatalf("re-register failed: %v", err)
	}
	if !second.AlreadyRegistered {
		t.Fatal("expected heartbeat for known fingerprint")
	}
	if second.Device.ID != first.Device.ID {
		t.Fatal("heartbeat minted a new device")
	}
	if len(repo.touched) == 0 {
		t.Fatal("heartbeat did not refresh last seen")
	}
}

func TestRegisterLostInsertRaceIsHeartbeat(t *testing.T) {
	repo := newStubDevicesRepo()
	business := seedBusiness(repo, true)
	winner := &models.Device{ID: uuid.New(), Fingerprint: "fp-001", BusinessID: business.ID}
	repo.raceWinner = winner
	svc, _ := NewService(repo)

	result, err := svc.Register(context.Background(), RegisterInput{
		Fingerprint: "fp-001", Name: "Caja 2", BusinessID: business.ID,
	})
	if err != nil {
		t.Fatalf("losing the insert race must not fail registration: %v", err)
	}
	if !result.AlreadyRegistered {
		t.Fatal("race loser should get a heartbeat result")
	}
	if result.Device.ID != winner.ID {
		t.Fatal("race loser must resolve to the already-stored device")
	}
	if len(repo.touched) != 1 {
		t.Fatal("race fallback did not refresh last seen")
	}
}

func TestRegisterMissingFields(t *testing.T) {
	repo := newStubDevicesRepo()
	svc, _ := NewService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{Fingerprint: "fp-001"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterUnknownBusiness(t *testing.T) {
	repo := newStubDevicesRepo()
	svc, _ := NewService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Fingerprint: "fp-001", Name: "Caja 1", BusinessID: uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckAuthEffectiveAuthorization(t *testing.T) {
	repo := newStubDevicesRepo()
	business := seedBusiness(repo, true)
	repo.devices["fp-001"] = &models.Device{
		ID: uuid.New(), Fingerprint: "fp-001", BusinessID: business.ID, Authorized: true,
	}
	svc, _ := NewService(repo)

	status, err := svc.CheckAuth(context.Background(), "fp-001")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !status.Authorized {
		t.Fatal("expected authorized device on active business")
	}
	if len(repo.touched) != 1 {
		t.Fatal("check must refresh last seen")
	}

	business.Active = false
	status, err = svc.CheckAuth(context.Background(), "fp-001")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if status.Authorized {
		t.Fatal("inactive business must veto device authorization")
	}
}

func TestCheckAuthUnknownDevice(t *testing.T) {
	repo := newStubDevicesRepo()
	svc, _ := NewService(repo)

	_, err := svc.CheckAuth(context.Background(), "fp-missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuthorizeRequiresManagerRole(t *testing.T) {
	repo := newStubDevicesRepo()
	business := seedBusiness(repo, true)
	device := &models.Device{ID: uuid.New(), Fingerprint: "fp-001", BusinessID: business.ID}
	repo.devices["fp-001"] = device
	member := seedMembership(repo, business.ID, enums.MemberRoleMember)
	admin := seedMembership(repo, business.ID, enums.MemberRoleAdmin)
	svc, _ := NewService(repo)

	_, err := svc.Authorize(context.Background(), member, device.ID, true)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for plain member, got %v", err)
	}

	updated, err := svc.Authorize(context.Background(), admin, device.ID, true)
	if err != nil {
		t.Fatalf("admin authorize failed: %v", err)
	}
	if !updated.Authorized {
		t.Fatal("device not authorized")
	}

	// Revocation goes through the same gate.
	updated, err = svc.Authorize(context.Background(), admin, device.ID, false)
	if err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if updated.Authorized {
		t.Fatal("device still authorized after revoke")
	}
}

func TestAuthorizeOutsiderForbidden(t *testing.T) {
	repo := newStubDevicesRepo()
	business := seedBusiness(repo, true)
	device := &models.Device{ID: uuid.New(), Fingerprint: "fp-001", BusinessID: business.ID}
	repo.devices["fp-001"] = device
	svc, _ := NewService(repo)

	_, err := svc.Authorize(context.Background(), uuid.New(), device.ID, true)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for non-member, got %v", err)
	}
}

func TestListForBusinessRequiresMembership(t *testing.T) {
	repo := newStubDevicesRepo()
	business := seedBusiness(repo, true)
	repo.devices["fp-001"] = &models.Device{ID: uuid.New(), Fingerprint: "fp-001", BusinessID: business.ID}
	member := seedMembership(repo, business.ID, enums.MemberRoleMember)
	svc, _ := NewService(repo)

	devices, err := svc.ListForBusiness(context.Background(), member, business.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("expected one device, got %d", len(devices))
	}

	_, err = svc.ListForBusiness(context.Background(), uuid.New(), business.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for outsider, got %v", err)
	}
}
