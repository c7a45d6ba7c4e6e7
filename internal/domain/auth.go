package domain

import "github.com/spec-kit/company-portal/pkg/claims"

// Role differentiates admin vs employee tokens.
type Role = claims.Role

const (
	RoleAdmin    = claims.RoleAdmin
	RoleEmployee = claims.RoleEmployee
)

// Principal is the authenticated caller as described by a verified token.
type Principal struct {
	ID    int64
	Email string
	Role  Role
}

// PrincipalFromClaims builds the principal view over verified claims.
func PrincipalFromClaims(c *claims.Claims) *Principal {
	return &Principal{ID: c.ID, Email: c.Email, Role: c.Role}
}
