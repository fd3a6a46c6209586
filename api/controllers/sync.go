package controllers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/rvaldezc/poscloud-backend/api/responses"
	"github.com/rvaldezc/poscloud-backend/api/validators"
	syncsvc "github.com/rvaldezc/poscloud-backend/internal/sync"
	"github.com/rvaldezc/poscloud-backend/pkg/logger"
	"github.com/rvaldezc/poscloud-backend/pkg/pagination"
)

// syncHandler wraps the shared request plumbing of every per-entity sync
// endpoint: tenant resolution, body decode, service dispatch, envelope.
func syncHandler(logg *logger.Logger, apply func(r *http.Request, businessID uuid.UUID, req syncsvc.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID, err := businessIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload syncsvc.Request
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := apply(r, businessID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func SyncOrder(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return syncHandler(logg, func(r *http.Request, businessID uuid.UUID, req syncsvc.Request) (any, error) {
		order, err := svc.SyncOrder(r.Context(), businessID, req)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return map[string]string{"localId": req.LocalID.String(), "action": req.Action}, nil
		}
		return order, nil
	})
}

func SyncPayment(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return syncHandler(logg, func(r *http.Request, businessID uuid.UUID, req syncsvc.Request) (any, error) {
		return svc.SyncPayment(r.Context(), businessID, req)
	})
}

func SyncClient(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return syncHandler(logg, func(r *http.Request, businessID uuid.UUID, req syncsvc.Request) (any, error) {
		client, err := svc.SyncClient(r.Context(), businessID, req)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return map[string]string{"localId": req.LocalID.String(), "action": req.Action}, nil
		}
		return client, nil
	})
}

func SyncStaffUser(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return syncHandler(logg, func(r *http.Request, businessID uuid.UUID, req syncsvc.Request) (any, error) {
		staff, err := svc.SyncStaffUser(r.Context(), businessID, req)
		if err != nil {
			return nil, err
		}
		if staff == nil {
			return map[string]string{"localId": req.LocalID.String(), "action": req.Action}, nil
		}
		return staff, nil
	})
}

func SyncProduct(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return syncHandler(logg, func(r *http.Request, businessID uuid.UUID, req syncsvc.Request) (any, error) {
		product, err := svc.SyncProduct(r.Context(), businessID, req)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return map[string]string{"localId": req.LocalID.String(), "action": req.Action}, nil
		}
		return product, nil
	})
}

func SyncLog(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return syncHandler(logg, func(r *http.Request, businessID uuid.UUID, req syncsvc.Request) (any, error) {
		return svc.SyncLog(r.Context(), businessID, req)
	})
}

func SyncSunatDocument(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return syncHandler(logg, func(r *http.Request, businessID uuid.UUID, req syncsvc.Request) (any, error) {
		doc, err := svc.SyncSunatDocument(r.Context(), businessID, req)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return map[string]string{"localId": req.LocalID.String(), "action": req.Action}, nil
		}
		return doc, nil
	})
}

type syncConfigRequest struct {
	Products   []syncsvc.ConfigProduct   `json:"products"`
	StaffUsers []syncsvc.ConfigStaffUser `json:"staffUsers"`
}

// SyncConfig bulk-applies a configuration snapshot with per-element results.
func SyncConfig(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID, err := businessIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload syncConfigRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SyncConfig(r.Context(), businessID, payload.Products, payload.StaffUsers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func listHandler(logg *logger.Logger, list func(r *http.Request, businessID uuid.UUID) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID, err := businessIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := list(r, businessID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ListOrders(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(logg, func(r *http.Request, businessID uuid.UUID) (any, error) {
		return svc.Orders(r.Context(), businessID)
	})
}

func OrderStats(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(logg, func(r *http.Request, businessID uuid.UUID) (any, error) {
		return svc.Stats(r.Context(), businessID)
	})
}

func ListProducts(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(logg, func(r *http.Request, businessID uuid.UUID) (any, error) {
		return svc.Products(r.Context(), businessID)
	})
}

func ListStaffUsers(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(logg, func(r *http.Request, businessID uuid.UUID) (any, error) {
		return svc.StaffUsers(r.Context(), businessID)
	})
}

func ListClients(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(logg, func(r *http.Request, businessID uuid.UUID) (any, error) {
		return svc.Clients(r.Context(), businessID)
	})
}

func ListSystemLogs(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(logg, func(r *http.Request, businessID uuid.UUID) (any, error) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				limit = parsed
			}
		}
		return svc.Logs(r.Context(), businessID, pagination.NormalizeLimit(limit))
	})
}

func ListSunatDocuments(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(logg, func(r *http.Request, businessID uuid.UUID) (any, error) {
		return svc.SunatDocuments(r.Context(), businessID)
	})
}

// RecoveryData returns the configuration snapshot a reinstalled client
// needs to rebuild its local database.
func RecoveryData(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(logg, func(r *http.Request, businessID uuid.UUID) (any, error) {
		return svc.RecoveryData(r.Context(), businessID)
	})
}
