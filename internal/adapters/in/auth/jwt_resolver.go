// Package auth implements bearer token verification for the HTTP and
// websocket entry points.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
)

// Verification errors. Entry points fail closed on any of them and never
// echo details to the client.
var (
	ErrTokenInvalid    = errors.New("token is invalid")
	ErrClaimsInvalid   = errors.New("token claims are invalid")
	ErrAccountInactive = errors.New("account is inactive")
)

// claims is the token payload the platform issues.
type claims struct {
	jwt.RegisteredClaims
	Role   string `json:"role"`
	Region string `json:"region,omitempty"`
	Active bool   `json:"active"`
}

// JWTResolver verifies HMAC-signed bearer tokens.
// Implements ports.IdentityResolver.
type JWTResolver struct {
	secret []byte
}

// NewJWTResolver creates a resolver over a shared HMAC secret.
func NewJWTResolver(secret []byte) JWTResolver {
	return JWTResolver{secret: secret}
}

// Resolve verifies the token signature, expiry and claims and extracts the
// principal. Inactive accounts resolve to ErrAccountInactive.
func (r JWTResolver) Resolve(token string) (ports.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return r.secret, nil
	})
	if err != nil {
		return ports.Identity{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	payload, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return ports.Identity{}, ErrTokenInvalid
	}

	if !payload.Active {
		return ports.Identity{}, ErrAccountInactive
	}

	userID, err := kernel.UUIDFromString(payload.Subject)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("%w: bad subject", ErrClaimsInvalid)
	}

	role := ports.Role(payload.Role)
	switch role {
	case ports.RoleCourier, ports.RoleCustomer, ports.RoleStaff:
	default:
		return ports.Identity{}, fmt.Errorf("%w: unknown role", ErrClaimsInvalid)
	}

	return ports.Identity{
		UserID: userID,
		Role:   role,
		Region: payload.Region,
	}, nil
}
