package auth

import (
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// Validation messages returned when required request fields are missing.
const (
	RegisterFieldsRequired = "Name, email, and password are required"
	LoginFieldsRequired    = "Email and password are required"
)

// RegisterRequest is the payload shared by the admin, seller and customer register endpoints.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest captures the credentials sent to a login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is the outcome of a successful register or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Kind      enums.PrincipalKind
	// Principal is the credential-free DTO of the authenticated principal.
	Principal any
}
