package middleware

import (
	"net/http"
	"strings"

	"github.com/rvaldezc/poscloud-backend/api/responses"
	pkgerrors "github.com/rvaldezc/poscloud-backend/pkg/errors"
	"github.com/rvaldezc/poscloud-backend/pkg/logger"
)

// BusinessHeader names the tenant scoping header every sync/read endpoint requires.
const BusinessHeader = "X-Business-Id"

// DeviceFingerprintHeader names the terminal identity header used by license verification.
const DeviceFingerprintHeader = "X-Device-Fingerprint"

// BusinessContext resolves the tenant identifier from the request header and
// seeds the context with it. The header is validated once here; downstream
// operations that need an existing business still report NotFound themselves.
func BusinessContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			businessID := strings.TrimSpace(r.Header.Get(BusinessHeader))
			if businessID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "business id header is required"))
				return
			}

			ctx := WithBusinessID(r.Context(), businessID)
			if logg != nil {
				ctx = logg.WithBusinessID(ctx, businessID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
