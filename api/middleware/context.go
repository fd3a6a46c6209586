package middleware

import "context"

type contextKey string

const (
	ctxUserID     contextKey = "user_id"
	ctxUserEmail  contextKey = "user_email"
	ctxRole       contextKey = "role"
	ctxBusinessID contextKey = "business_id"
)

func ctxString(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

func withCtxString(ctx context.Context, key contextKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, value)
}

func UserIDFromContext(ctx context.Context) string    { return ctxString(ctx, ctxUserID) }
func UserEmailFromContext(ctx context.Context) string { return ctxString(ctx, ctxUserEmail) }
func RoleFromContext(ctx context.Context) string      { return ctxString(ctx, ctxRole) }

// BusinessIDFromContext returns the tenant identifier resolved from the
// X-Business-Id header, or "" when the request carried none.
func BusinessIDFromContext(ctx context.Context) string { return ctxString(ctx, ctxBusinessID) }

func WithUserID(ctx context.Context, userID string) context.Context {
	return withCtxString(ctx, ctxUserID, userID)
}

func WithUserEmail(ctx context.Context, email string) context.Context {
	return withCtxString(ctx, ctxUserEmail, email)
}

func WithRole(ctx context.Context, role string) context.Context {
	return withCtxString(ctx, ctxRole, role)
}

// WithBusinessID injects the tenant identifier for downstream handlers.
func WithBusinessID(ctx context.Context, businessID string) context.Context {
	return withCtxString(ctx, ctxBusinessID, businessID)
}
