package auth

import (
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	PrincipalID uuid.UUID
	Kind        enums.PrincipalKind
	Role        string
	JTI         string

	// Customer tokens also carry the profile fields below.
	Name   string
	Email  string
	Method enums.RegistrationMethod
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	ID     uuid.UUID                `json:"id"`
	Kind   enums.PrincipalKind      `json:"kind"`
	Role   string                   `json:"role"`
	Name   string                   `json:"name,omitempty"`
	Email  string                   `json:"email,omitempty"`
	Method enums.RegistrationMethod `json:"method,omitempty"`
	jwt.RegisteredClaims
}
