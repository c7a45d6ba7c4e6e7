package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain passthrough", NewInvalidCredentials(), CodeInvalidCredentials, http.StatusUnauthorized},
		{"wrapped domain", fmt.Errorf("login: %w", NewMissingToken()), CodeMissingToken, http.StatusUnauthorized},
		{"invalid token", NewInvalidToken(errors.New("expired")), CodeInvalidToken, http.StatusForbidden},
		{"store", NewStoreError(errors.New("conn refused")), CodeStoreError, http.StatusInternalServerError},
		{"fiber error", fiber.NewError(http.StatusBadRequest, "invalid payload"), CodeValidationFailed, http.StatusBadRequest},
		{"no rows", fmt.Errorf("get: %w", pgx.ErrNoRows), CodeNotFound, http.StatusNotFound},
		{"unknown", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.Equal(t, tt.code, de.Code)
			require.Equal(t, tt.status, de.HTTPStatus)
		})
	}
}

func TestStoreErrorHidesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("password authentication failed for user postgres")
	de := ToDomainError(NewStoreError(cause))

	require.Equal(t, "database error", de.Message)
	require.ErrorIs(t, de, cause)
}

func TestToDomainError_Nil(t *testing.T) {
	require.Nil(t, ToDomainError(nil))
}
