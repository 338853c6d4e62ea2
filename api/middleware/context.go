package middleware

import (
	"context"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID      contextKey = "user_id"
	ctxRole        contextKey = "actor_role"
	ctxKind        contextKey = "principal_kind"
	ctxTokenID     contextKey = "token_id"
	ctxTokenExpiry contextKey = "token_expiry"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func KindFromContext(ctx context.Context) enums.PrincipalKind {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKind).(enums.PrincipalKind); ok {
		return v
	}
	return ""
}

// TokenFromContext returns the id and expiry of the verified session token.
func TokenFromContext(ctx context.Context) (string, time.Time) {
	if ctx == nil {
		return "", time.Time{}
	}
	id, _ := ctx.Value(ctxTokenID).(string)
	exp, _ := ctx.Value(ctxTokenExpiry).(time.Time)
	return id, exp
}

// WithPrincipal injects the authenticated principal into the context.
func WithPrincipal(ctx context.Context, userID string, kind enums.PrincipalKind, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxKind, kind)
	return context.WithValue(ctx, ctxRole, role)
}

// WithToken injects the verified token id and expiry into the context.
func WithToken(ctx context.Context, id string, expiresAt time.Time) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxTokenID, id)
	return context.WithValue(ctx, ctxTokenExpiry, expiresAt)
}
