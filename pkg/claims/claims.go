// Package claims defines the session token payload shared by the API server and
// its clients, along with the pure functions that sign, decode and verify it.
package claims

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Lifetime is the fixed validity window of every issued token.
const Lifetime = 24 * time.Hour

var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// Role identifies which principal store a token was issued against.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// ParseRole converts a path segment or flag value into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", errors.New("unknown role " + strconv.Quote(s))
	}
	return r, nil
}

// Claims describes the JWT payload.
type Claims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// New builds claims for the principal valid from issuedAt for Lifetime.
// Times are truncated to whole seconds so that exp - iat is exact.
func New(id int64, email string, role Role, issuedAt time.Time) *Claims {
	iat := issuedAt.Truncate(time.Second)
	return &Claims{
		ID:    id,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(id, 10),
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(iat.Add(Lifetime)),
		},
	}
}

// IssuedAtTime returns iat, or the zero time when absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime returns exp, or the zero time when absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Sign encodes and signs the claims with HS256.
func Sign(c *Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

// Decode parses the payload segment without checking the signature.
func Decode(token string) (*Claims, error) {
	c := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, c); err != nil {
		return nil, ErrMalformed
	}
	if c.ExpiresAt == nil || !c.Role.Valid() {
		return nil, ErrMalformed
	}
	return c, nil
}

// VerifySignature checks the HS256 signature and returns the decoded claims.
// Time based claims are not validated here; see CheckExpiry.
func VerifySignature(token string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrSignatureInvalid
		}
		return nil, ErrMalformed
	}

	c, ok := parsed.Claims.(*Claims)
	if !ok || c.ExpiresAt == nil || !c.Role.Valid() {
		return nil, ErrMalformed
	}
	return c, nil
}

// CheckExpiry fails with ErrExpired once now reaches exp.
func CheckExpiry(c *Claims, now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrMalformed
	}
	if !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}

// Verify runs VerifySignature followed by CheckExpiry.
func Verify(token string, secret []byte, now time.Time) (*Claims, error) {
	c, err := VerifySignature(token, secret)
	if err != nil {
		return nil, err
	}
	if err := CheckExpiry(c, now); err != nil {
		return nil, err
	}
	return c, nil
}

// IsExpired decodes the token without verifying it and reports whether it has
// expired at now. Tokens that cannot be decoded count as expired.
func IsExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	c, err := Decode(token)
	if err != nil {
		return true
	}
	return CheckExpiry(c, now) != nil
}
