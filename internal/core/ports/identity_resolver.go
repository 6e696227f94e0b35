package ports

import (
	"fooddelivery/internal/core/domain/model/kernel"
)

// Role is the authenticated caller's role claim.
type Role string

const (
	// RoleCourier identifies a rider client.
	RoleCourier Role = "courier"
	// RoleCustomer identifies a customer client.
	RoleCustomer Role = "customer"
	// RoleStaff identifies restaurant and back-office staff.
	RoleStaff Role = "staff"
)

// Identity is the authenticated principal extracted from a bearer token.
type Identity struct {
	UserID kernel.UUID
	Role   Role
	// Region is the courier's home region claim, empty when absent.
	Region string
}

// IdentityResolver authenticates bearer tokens presented on the realtime
// handshake and on HTTP requests.
type IdentityResolver interface {
	// Resolve verifies the token and extracts the principal.
	// Any verification failure (bad signature, expiry, missing claims)
	// returns an error; callers fail closed.
	Resolve(token string) (Identity, error)
}
