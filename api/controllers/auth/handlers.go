package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/auth"
	pkgAuth "github.com/angelmondragon/marketplace-backend/pkg/auth"
	"github.com/angelmondragon/marketplace-backend/pkg/auth/session"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const (
	msgAdminRegistered    = "Admin registered successfully"
	msgSellerRegistered   = "Registration success"
	msgCustomerRegistered = "Register success"
	msgLoginSuccess       = "Login success"
	msgLogoutSuccess      = "Logout success"
)

type cookieWriter interface {
	Set(w http.ResponseWriter, kind enums.PrincipalKind, token string, now time.Time)
	Clear(w http.ResponseWriter, kind enums.PrincipalKind)
}

// TokenRevoker records a logged-out token id until its expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
}

// Register handles POST /api/{kind}/register. The session cookie for kind is set on success.
func Register(kind enums.PrincipalKind, svc auth.Service, cookies cookieWriter, logg *logger.Logger) http.HandlerFunc {
	var (
		message string
		run     func(context.Context, auth.RegisterRequest) (*auth.Session, error)
	)
	switch kind {
	case enums.PrincipalKindAdmin:
		message = msgAdminRegistered
		if svc != nil {
			run = svc.RegisterAdmin
		}
	case enums.PrincipalKindSeller:
		message = msgSellerRegistered
		if svc != nil {
			run = svc.RegisterSeller
		}
	case enums.PrincipalKindCustomer:
		message = msgCustomerRegistered
		if svc != nil {
			run = svc.RegisterCustomer
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if run == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSON(r, &body, validators.DecodeOptions{
			AllowUnknownFields: true,
			ValidationMessage:  auth.RegisterFieldsRequired,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := run(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeSession(w, cookies, result)
		responses.WriteSuccessStatus(w, http.StatusCreated, responses.TokenEnvelope{
			Message: message,
			Token:   result.Token,
		})
	}
}

// Login handles POST /api/{kind}/login. The session cookie for kind is set on success.
func Login(kind enums.PrincipalKind, svc auth.Service, cookies cookieWriter, logg *logger.Logger) http.HandlerFunc {
	var run func(context.Context, auth.LoginRequest) (*auth.Session, error)
	if svc != nil {
		switch kind {
		case enums.PrincipalKindAdmin:
			run = svc.LoginAdmin
		case enums.PrincipalKindSeller:
			run = svc.LoginSeller
		case enums.PrincipalKindCustomer:
			run = svc.LoginCustomer
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if run == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSON(r, &body, validators.DecodeOptions{
			AllowUnknownFields: true,
			ValidationMessage:  auth.LoginFieldsRequired,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := run(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeSession(w, cookies, result)
		responses.WriteSuccess(w, responses.TokenEnvelope{
			Message: msgLoginSuccess,
			Token:   result.Token,
		})
	}
}

// Logout clears the session cookie of kind. When a revoker is configured the presented
// token is also revoked until its expiry; unparsable tokens are simply cleared.
func Logout(kind enums.PrincipalKind, cfg config.JWTConfig, cookies cookieWriter, revoker TokenRevoker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if revoker != nil {
			if token := session.TokenFromRequest(r, kind); token != "" {
				if claims, err := pkgAuth.ParseAccessToken(cfg, token); err == nil && claims.ExpiresAt != nil {
					if err := revoker.Revoke(r.Context(), claims.RegisteredClaims.ID, claims.ExpiresAt.Time); err != nil {
						responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session"))
						return
					}
				}
			}
		}

		if cookies != nil {
			cookies.Clear(w, kind)
		}
		responses.WriteSuccess(w, responses.MessageEnvelope{Message: msgLogoutSuccess})
	}
}

func writeSession(w http.ResponseWriter, cookies cookieWriter, result *auth.Session) {
	if cookies == nil || result == nil || result.Token == "" {
		return
	}
	cookies.Set(w, result.Kind, result.Token, time.Now())
}
