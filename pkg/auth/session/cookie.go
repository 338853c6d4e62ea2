package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

const (
	// AdminSellerCookie carries admin and seller sessions.
	AdminSellerCookie = "accessToken"
	// CustomerCookie carries customer sessions.
	CustomerCookie = "customerToken"

	DefaultLifetime = 7 * 24 * time.Hour
)

// CookieManager writes and clears the session cookie scoped to each principal kind.
type CookieManager struct {
	secure   bool
	lifetime time.Duration
}

// NewCookieManager builds a manager whose cookies are Secure in production.
func NewCookieManager(app config.AppConfig, sess config.SessionConfig) *CookieManager {
	lifetime := sess.Lifetime
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &CookieManager{secure: app.IsProd(), lifetime: lifetime}
}

// Lifetime is the session validity window shared by cookies and tokens.
func (m *CookieManager) Lifetime() time.Duration {
	return m.lifetime
}

// CookieName returns the cookie used by kind.
func CookieName(kind enums.PrincipalKind) string {
	if kind == enums.PrincipalKindCustomer {
		return CustomerCookie
	}
	return AdminSellerCookie
}

// Set attaches the session token cookie for kind, expiring lifetime after now.
func (m *CookieManager) Set(w http.ResponseWriter, kind enums.PrincipalKind, token string, now time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(kind),
		Value:    token,
		Path:     "/",
		Expires:  now.Add(m.lifetime),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear overwrites the cookie for kind with an empty, already expired value.
func (m *CookieManager) Clear(w http.ResponseWriter, kind enums.PrincipalKind) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(kind),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest reads the session token for kind from its cookie, falling back to
// an Authorization bearer header.
func TokenFromRequest(r *http.Request, kind enums.PrincipalKind) string {
	if cookie, err := r.Cookie(CookieName(kind)); err == nil {
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return value
		}
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
