package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/company-portal/internal/domain"
	"github.com/spec-kit/company-portal/pkg/claims"
	apperrors "github.com/spec-kit/company-portal/pkg/util/errorutil"
)

const (
	principalKey = "auth_principal"
	claimsKey    = "auth_claims"
)

// AuthMiddleware validates bearer tokens. Verification needs only the signing
// secret; no store lookup happens per request.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewMissingToken()
	}

	parsed, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewInvalidToken(err)
	}

	c.Locals(claimsKey, parsed)
	c.Locals(principalKey, domain.PrincipalFromClaims(parsed))
	return c.Next()
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	principal, ok := c.Locals(principalKey).(*domain.Principal)
	return principal, ok && principal != nil
}

// ClaimsFromContext returns the verified claims of the current request.
func ClaimsFromContext(c *fiber.Ctx) (*claims.Claims, bool) {
	parsed, ok := c.Locals(claimsKey).(*claims.Claims)
	return parsed, ok && parsed != nil
}
