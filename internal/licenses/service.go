package licenses

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

// Service evaluates and administers business licenses.
type Service interface {
	Verify(ctx context.Context, businessID uuid.UUID, fingerprint string) (*VerifyResult, error)
	UpdateLicense(ctx context.Context, businessID uuid.UUID, input UpdateInput) (*models.Business, error)
}

// VerifyResult reports the operating state of a license. Only the ACTIVE
// state carries a signed attestation.
type VerifyResult struct {
	Status       enums.LicenseStatus
	Message      string
	BusinessName string
	ServerTime   time.Time
	Expiry       *time.Time
	Signature    string
}

// Valid reports whether the license permits operation.
func (r VerifyResult) Valid() bool {
	return r.Status == enums.LicenseStatusActive
}

// UpdateInput carries the license fields an administrator may change. Nil
// fields are left untouched.
type UpdateInput struct {
	Plan       *string
	Expiry     *time.Time
	MaxDevices *int
	Status     *enums.LicenseStatus
}

type service struct {
	repo   Repository
	signer *Signer
	now    func() time.Time
}

// NewService builds a licenses service with the required dependencies.
func NewService(repo Repository, signer *Signer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("licenses repository required")
	}
	if signer == nil {
		return nil, fmt.Errorf("license signer required")
	}
	return &service{repo: repo, signer: signer, now: time.Now}, nil
}

// Verify runs the license checks in fixed priority order: suspension beats
// expiry beats device authorization beats the device cap. Only the ACTIVE
// path touches stored state (last_license_check).
func (s *service) Verify(ctx context.Context, businessID uuid.UUID, fingerprint string) (*VerifyResult, error) {
	if fingerprint == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fingerprint is required")
	}

	business, err := s.repo.FindBusinessByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up business")
	}

	now := s.now()
	result := &VerifyResult{
		BusinessName: business.Name,
		ServerTime:   now,
		Expiry:       business.LicenseExpiry,
	}

	if !business.Active {
		result.Status = enums.LicenseStatusSuspended
		result.Message = "license suspended"
		return result, nil
	}

	if business.LicenseExpiry != nil && business.LicenseExpiry.Before(now) {
		result.Status = enums.LicenseStatusExpired
		result.Message = "license expired"
		return result, nil
	}

	device, err := s.repo.FindDeviceForBusiness(ctx, businessID, fingerprint)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up device")
	}
	if device == nil || !device.Authorized {
		result.Status = enums.LicenseStatusUnauthorizedDevice
		result.Message = "device not authorized for this business"
		return result, nil
	}

	authorized, err := s.repo.CountAuthorizedDevices(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting authorized devices")
	}
	if authorized > int64(business.MaxDevices) {
		result.Status = enums.LicenseStatusLimitExceeded
		result.Message = "authorized device limit exceeded"
		return result, nil
	}

	signature, err := s.signer.Sign(Attestation{
		BusinessID:  business.ID.String(),
		Fingerprint: fingerprint,
		Expiry:      formatExpiry(business.LicenseExpiry),
		ServerTime:  now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "signing attestation")
	}

	if err := s.repo.SetLastLicenseCheck(ctx, businessID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording license check")
	}

	result.Status = enums.LicenseStatusActive
	result.Signature = signature
	return result, nil
}

// UpdateLicense applies an administrative license change and always appends
// one audit log entry, even when every field was omitted.
func (s *service) UpdateLicense(ctx context.Context, businessID uuid.UUID, input UpdateInput) (*models.Business, error) {
	if _, err := s.repo.FindBusinessByID(ctx, businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up business")
	}

	updates := map[string]any{}
	if input.Plan != nil {
		updates["plan"] = *input.Plan
	}
	if input.Expiry != nil {
		updates["license_expiry"] = *input.Expiry
	}
	if input.MaxDevices != nil {
		updates["max_devices"] = *input.MaxDevices
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid license status")
		}
		updates["license_status"] = *input.Status
		switch *input.Status {
		case enums.LicenseStatusActive:
			updates["active"] = true
		case enums.LicenseStatusSuspended:
			updates["active"] = false
		}
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateBusiness(ctx, businessID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating license")
		}
	}

	details, _ := json.Marshal(map[string]any{
		"plan":       input.Plan,
		"expiry":     input.Expiry,
		"maxDevices": input.MaxDevices,
		"status":     input.Status,
	})
	logEntry := &models.LicenseLog{
		BusinessID: businessID,
		Action:     "LICENSE_UPDATE",
		Details:    string(details),
	}
	if err := s.repo.AppendLicenseLog(ctx, logEntry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "appending license log")
	}

	updated, err := s.repo.FindBusinessByID(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading business")
	}
	return updated, nil
}
