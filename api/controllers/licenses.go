package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rvaldezc/poscloud-backend/api/middleware"
	"github.com/rvaldezc/poscloud-backend/api/responses"
	"github.com/rvaldezc/poscloud-backend/api/validators"
	licsvc "github.com/rvaldezc/poscloud-backend/internal/licenses"
	"github.com/rvaldezc/poscloud-backend/pkg/enums"
	pkgerrors "github.com/rvaldezc/poscloud-backend/pkg/errors"
	"github.com/rvaldezc/poscloud-backend/pkg/logger"
	"github.com/rvaldezc/poscloud-backend/pkg/types"
)

type verifyLicenseResponse struct {
	Valid        bool       `json:"valid"`
	Status       string     `json:"status"`
	BusinessName string     `json:"businessName,omitempty"`
	ServerTime   time.Time  `json:"serverTime"`
	Expiry       *time.Time `json:"expiry,omitempty"`
	Signature    string     `json:"signature,omitempty"`
}

type updateLicenseRequest struct {
	BusinessID string     `json:"businessId" validate:"required,uuid"`
	Plan       *string    `json:"plan"`
	Expiry     *time.Time `json:"expiry"`
	MaxDevices *int       `json:"maxDevices" validate:"omitempty,min=1"`
	Status     *string    `json:"status"`
}

// VerifyLicense evaluates a business license for a claimed device. Tenant
// and device come from the X-Business-Id and X-Device-Fingerprint headers.
// Operating-state denials (expired, suspended, unauthorized device, cap
// exceeded) are not transport errors: they come back HTTP 200 with
// success=false so the offline client can distinguish them from outages.
func VerifyLicense(svc licsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "license service unavailable"))
			return
		}

		rawBusiness := r.Header.Get(middleware.BusinessHeader)
		if rawBusiness == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "business id header is required"))
			return
		}
		businessID, err := uuid.Parse(rawBusiness)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid business id"))
			return
		}

		fingerprint := r.Header.Get(middleware.DeviceFingerprintHeader)
		if fingerprint == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "device fingerprint header is required"))
			return
		}

		result, err := svc.Verify(r.Context(), businessID, fingerprint)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !result.Valid() {
			responses.WriteJSON(w, http.StatusOK, types.ErrorEnvelope{
				Success: false,
				Error: types.APIError{
					Code:    result.Status.String(),
					Message: result.Message,
				},
			})
			return
		}

		responses.WriteSuccess(w, verifyLicenseResponse{
			Valid:        true,
			Status:       result.Status.String(),
			BusinessName: result.BusinessName,
			ServerTime:   result.ServerTime,
			Expiry:       result.Expiry,
			Signature:    result.Signature,
		})
	}
}

// UpdateLicense applies an administrative license change to a business.
func UpdateLicense(svc licsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateLicenseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		businessID, err := uuid.Parse(payload.BusinessID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid business id"))
			return
		}

		input := licsvc.UpdateInput{
			Plan:       payload.Plan,
			Expiry:     payload.Expiry,
			MaxDevices: payload.MaxDevices,
		}
		if payload.Status != nil {
			status, err := enums.ParseLicenseStatus(*payload.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid license status"))
				return
			}
			input.Status = &status
		}

		business, err := svc.UpdateLicense(r.Context(), businessID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, business)
	}
}
