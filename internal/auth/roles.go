package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/company-portal/internal/domain"
	apperrors "github.com/spec-kit/company-portal/pkg/util/errorutil"
)

// RequireRole ensures the authenticated principal holds the given role.
// It must run after AuthMiddleware.Handle.
func RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewMissingToken()
		}
		if principal.Role != role {
			return apperrors.NewForbidden(string(role) + " role required")
		}
		return c.Next()
	}
}
