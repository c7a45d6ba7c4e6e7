package client

import (
	"errors"
	"fmt"
)

// ErrAuthenticationFailed is returned when no valid session could be obtained;
// the session has been cleared by the time it is returned.
var ErrAuthenticationFailed = errors.New("authentication failed")

// APIError is a non-2xx response from the portal API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsAuthError reports whether the server rejected the request's credentials.
func (e *APIError) IsAuthError() bool {
	return e.Status == 401 || e.Status == 403
}
