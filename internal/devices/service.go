package devices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rvaldezc/poscloud-backend/pkg/db"
	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
	"github.com/rvaldezc/poscloud-backend/pkg/enums"
	pkgerrors "github.com/rvaldezc/poscloud-backend/pkg/errors"
)

// Service manages the lifecycle of POS terminals: registration, liveness
// tracking, and authorization toggles.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	CheckAuth(ctx context.Context, fingerprint string) (*AuthStatus, error)
	Authorize(ctx context.Context, actorUserID, deviceID uuid.UUID, authorized bool) (*models.Device, error)
	ListForBusiness(ctx context.Context, actorUserID, businessID uuid.UUID) ([]models.Device, error)
}

// RegisterInput carries the fields a client submits when claiming a device.
type RegisterInput struct {
	Fingerprint string
	Name        string
	BusinessID  uuid.UUID
	Role        string
}

// RegisterResult reports the stored device and whether the call was a
// first registration or a heartbeat for an already-known fingerprint.
type RegisterResult struct {
	Device            *models.Device
	AlreadyRegistered bool
}

// AuthStatus is the effective authorization of a device at check time.
type AuthStatus struct {
	Device     *models.Device
	Authorized bool
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a devices service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("devices repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Register claims a fingerprint for a business. Re-registering a known
// fingerprint is a heartbeat, not an error: offline clients re-send the
// registration on every boot.
func (s *service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if input.Fingerprint == "" || input.Name == "" || input.BusinessID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fingerprint, name and businessId are required")
	}

	existing, err := s.repo.FindDeviceByFingerprint(ctx, input.Fingerprint)
	if err == nil {
		if err := s.repo.TouchLastSeen(ctx, existing.ID, s.now()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "refreshing device last seen")
		}
		return &RegisterResult{Device: existing, AlreadyRegistered: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up device")
	}

	if _, err := s.repo.FindBusinessByID(ctx, input.BusinessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up business")
	}

	role := enums.DeviceRolePOS
	if parsed, err := enums.ParseDeviceRole(input.Role); err == nil {
		role = parsed
	}

	now := s.now()
	device := &models.Device{
		Fingerprint: input.Fingerprint,
		Name:        input.Name,
		BusinessID:  input.BusinessID,
		Role:        role,
		Authorized:  false,
		LastSeen:    &now,
	}
	created, err := s.repo.CreateDevice(ctx, device)
	if err != nil {
		// Two terminals can race the lookup on first boot. The loser hits
		// the unique fingerprint index; treat that like a heartbeat.
		if db.IsUniqueViolation(err, "") {
			existing, findErr := s.repo.FindDeviceByFingerprint(ctx, input.Fingerprint)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "looking up device")
			}
			if err := s.repo.TouchLastSeen(ctx, existing.ID, s.now()); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "refreshing device last seen")
			}
			return &RegisterResult{Device: existing, AlreadyRegistered: true}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "registering device")
	}
	return &RegisterResult{Device: created}, nil
}

// CheckAuth reports whether a device may operate. The read doubles as a
// heartbeat: last_seen is refreshed so liveness tracking needs no separate
// endpoint.
func (s *service) CheckAuth(ctx context.Context, fingerprint string) (*AuthStatus, error) {
	if fingerprint == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fingerprint is required")
	}

	device, err := s.repo.FindDeviceByFingerprint(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "device not registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up device")
	}

	if err := s.repo.TouchLastSeen(ctx, device.ID, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "refreshing device last seen")
	}

	authorized := device.Authorized
	if device.Business != nil {
		authorized = authorized && device.Business.Active
	}
	return &AuthStatus{Device: device, Authorized: authorized}, nil
}

// Authorize flips the device's authorized flag. Only OWNER or ADMIN members
// of the owning business may do this, in either direction.
func (s *service) Authorize(ctx context.Context, actorUserID, deviceID uuid.UUID, authorized bool) (*models.Device, error) {
	device, err := s.repo.FindDeviceByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "device not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up device")
	}

	membership, err := s.repo.FindMembership(ctx, actorUserID, device.BusinessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this business")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up membership")
	}
	if !membership.Role.CanManageDevices() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only owners and admins can authorize devices")
	}

	if err := s.repo.SetAuthorized(ctx, device.ID, authorized); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating device authorization")
	}
	device.Authorized = authorized
	return device, nil
}

func (s *service) ListForBusiness(ctx context.Context, actorUserID, businessID uuid.UUID) ([]models.Device, error) {
	if _, err := s.repo.FindMembership(ctx, actorUserID, businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this business")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up membership")
	}

	devices, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing devices")
	}
	return devices, nil
}
