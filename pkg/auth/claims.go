package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
// Kind selects which user table the token belongs to; Role is interpreted
// against that table's vocabulary.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	CompanyID *uuid.UUID
	Kind      enums.PrincipalKind
	Role      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID    uuid.UUID           `json:"user_id"`
	CompanyID *uuid.UUID          `json:"company_id,omitempty"`
	Kind      enums.PrincipalKind `json:"kind"`
	Role      string              `json:"role"`
	jwt.RegisteredClaims
}
