package auth

import (
	"time"

	"github.com/spec-kit/company-portal/internal/domain"
	"github.com/spec-kit/company-portal/pkg/claims"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), now: time.Now}
}

// WithClock replaces the time source used for issuing and verifying.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// IssuedToken is a signed token together with its claims.
type IssuedToken struct {
	Token  string
	Claims *claims.Claims
}

// ExpiresIn returns the token lifetime in whole seconds.
func (t IssuedToken) ExpiresIn() int64 {
	return int64(claims.Lifetime / time.Second)
}

// GenerateToken builds and signs a JWT for the principal.
func (tm *TokenManager) GenerateToken(p domain.Principal) (IssuedToken, error) {
	return tm.sign(claims.New(p.ID, p.Email, p.Role, tm.now()))
}

// RefreshToken issues a new token for the same subject with a fresh window.
// The new expiry is always strictly later than the previous one, even when
// both are issued within the same second.
func (tm *TokenManager) RefreshToken(prev *claims.Claims) (IssuedToken, error) {
	issuedAt := tm.now().Truncate(time.Second)
	if prevIat := prev.IssuedAtTime(); !issuedAt.After(prevIat) {
		issuedAt = prevIat.Add(time.Second)
	}
	return tm.sign(claims.New(prev.ID, prev.Email, prev.Role, issuedAt))
}

// ParseToken validates signature and expiry and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*claims.Claims, error) {
	return claims.Verify(tokenStr, tm.secret, tm.now())
}

func (tm *TokenManager) sign(c *claims.Claims) (IssuedToken, error) {
	tok, err := claims.Sign(c, tm.secret)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Token: tok, Claims: c}, nil
}
