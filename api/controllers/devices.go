package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rvaldezc/poscloud-backend/api/middleware"
	"github.com/rvaldezc/poscloud-backend/api/responses"
	"github.com/rvaldezc/poscloud-backend/api/validators"
	devsvc "github.com/rvaldezc/poscloud-backend/internal/devices"
	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
	pkgerrors "github.com/rvaldezc/poscloud-backend/pkg/errors"
	"github.com/rvaldezc/poscloud-backend/pkg/logger"
)

type registerDeviceRequest struct {
	Fingerprint string `json:"fingerprint" validate:"required"`
	Name        string `json:"name" validate:"required"`
	BusinessID  string `json:"businessId" validate:"required,uuid"`
	Role        string `json:"role"`
}

type authorizeDeviceRequest struct {
	Authorized *bool `json:"authorized" validate:"required"`
}

type deviceResponse struct {
	ID          string     `json:"id"`
	Fingerprint string     `json:"fingerprint"`
	Name        string     `json:"name"`
	BusinessID  string     `json:"businessId"`
	Role        string     `json:"role"`
	Authorized  bool       `json:"authorized"`
	LastSeen    *time.Time `json:"lastSeen,omitempty"`
}

func toDeviceResponse(device *models.Device) deviceResponse {
	return deviceResponse{
		ID:          device.ID.String(),
		Fingerprint: device.Fingerprint,
		Name:        device.Name,
		BusinessID:  device.BusinessID.String(),
		Role:        device.Role.String(),
		Authorized:  device.Authorized,
		LastSeen:    device.LastSeen,
	}
}

// RegisterDevice claims a fingerprint for a business. Unauthenticated: the
// desktop client calls this before anyone has logged in.
func RegisterDevice(svc devsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "device service unavailable"))
			return
		}

		var payload registerDeviceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		businessID, err := uuid.Parse(payload.BusinessID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid business id"))
			return
		}

		result, err := svc.Register(r.Context(), devsvc.RegisterInput{
			Fingerprint: payload.Fingerprint,
			Name:        payload.Name,
			BusinessID:  businessID,
			Role:        payload.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusCreated
		if result.AlreadyRegistered {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, toDeviceResponse(result.Device))
	}
}

// CheckDeviceAuth reports the effective authorization for the fingerprint
// in the URL.
func CheckDeviceAuth(svc devsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fingerprint := chi.URLParam(r, "fingerprint")
		if fingerprint == "" {
			fingerprint = r.Header.Get(middleware.DeviceFingerprintHeader)
		}

		status, err := svc.CheckAuth(r.Context(), fingerprint)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"authorized": status.Authorized,
			"device":     toDeviceResponse(status.Device),
		})
	}
}

// AuthorizeDevice flips the authorized flag on a device.
func AuthorizeDevice(svc devsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deviceID, err := uuid.Parse(chi.URLParam(r, "deviceID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid device id"))
			return
		}

		var payload authorizeDeviceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		device, err := svc.Authorize(r.Context(), userID, deviceID, *payload.Authorized)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toDeviceResponse(device))
	}
}

// ListDevices returns the devices of the business in the URL. Membership is
// enforced by the service.
func ListDevices(svc devsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		businessID, err := businessIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		devices, err := svc.ListForBusiness(r.Context(), userID, businessID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]deviceResponse, 0, len(devices))
		for i := range devices {
			out = append(out, toDeviceResponse(&devices[i]))
		}
		responses.WriteSuccess(w, out)
	}
}
