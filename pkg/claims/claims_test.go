package claims

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("unit-test-secret")

func signed(t *testing.T, c *Claims, secret []byte) string {
	t.Helper()
	tok, err := Sign(c, secret)
	require.NoError(t, err)
	return tok
}

func TestNew_FixedLifetime(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 9, 30, 15, 500_000_000, time.UTC)
	c := New(7, "alice@co.com", RoleEmployee, now)

	require.Equal(t, int64(86400), c.ExpiresAtTime().Unix()-c.IssuedAtTime().Unix())
	require.Equal(t, "7", c.Subject)
	require.NotEmpty(t, c.RegisteredClaims.ID)
}

func TestSign_PayloadCarriesClaimFields(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	tok := signed(t, New(3, "root@co.com", RoleAdmin, now), testSecret)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.EqualValues(t, 3, payload["id"])
	require.Equal(t, "root@co.com", payload["email"])
	require.Equal(t, "admin", payload["role"])
	require.EqualValues(t, 1_700_000_000, payload["iat"])
	require.EqualValues(t, 1_700_086_400, payload["exp"])
}

func TestVerify_OK(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok := signed(t, New(1, "a@co.com", RoleEmployee, now), testSecret)

	c, err := Verify(tok, testSecret, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), c.ID)
	require.Equal(t, RoleEmployee, c.Role)
}

func TestVerify_ExpiredWithValidSignature(t *testing.T) {
	t.Parallel()

	issued := time.Now().Add(-25 * time.Hour)
	tok := signed(t, New(1, "a@co.com", RoleEmployee, issued), testSecret)

	_, err := VerifySignature(tok, testSecret)
	require.NoError(t, err)

	_, err = Verify(tok, testSecret, time.Now())
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerify_ExpiresExactlyAtExp(t *testing.T) {
	t.Parallel()

	issued := time.Unix(1_700_000_000, 0)
	tok := signed(t, New(1, "a@co.com", RoleAdmin, issued), testSecret)

	_, err := Verify(tok, testSecret, issued.Add(Lifetime-time.Second))
	require.NoError(t, err)

	_, err = Verify(tok, testSecret, issued.Add(Lifetime))
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok := signed(t, New(1, "a@co.com", RoleAdmin, now), []byte("another-secret"))

	_, err := Verify(tok, testSecret, now)
	require.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "abc", "a.b.c", "a.b"} {
		_, err := Verify(tok, testSecret, time.Now())
		require.ErrorIs(t, err, ErrMalformed, "token %q", tok)
	}
}

func TestDecode_IgnoresSignature(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok := signed(t, New(9, "x@co.com", RoleEmployee, now), []byte("server-only"))

	c, err := Decode(tok)
	require.NoError(t, err)
	require.Equal(t, int64(9), c.ID)
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	fresh := signed(t, New(1, "a@co.com", RoleAdmin, now), testSecret)
	stale := signed(t, New(1, "a@co.com", RoleAdmin, now.Add(-48*time.Hour)), testSecret)

	require.False(t, IsExpired(fresh, now))
	require.True(t, IsExpired(stale, now))
	require.True(t, IsExpired("", now))
	require.True(t, IsExpired("not-a-token", now))
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, err := ParseRole("employee")
	require.NoError(t, err)
	require.Equal(t, RoleEmployee, r)

	_, err = ParseRole("staff")
	require.Error(t, err)
}
