package crm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/forgeo/crm-audit-server/internal/httpclient"
)

// AuthError is returned when a user has no usable credential
type AuthError struct {
	UserID string
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("no usable CRM credential for user %s: %v", e.UserID, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// UpstreamError is returned when a page request fails or its body cannot be parsed
type UpstreamError struct {
	ObjectType ObjectType
	URL        string
	// StatusCode is the HTTP status, 0 for transport and parse failures
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: status %d: %v", e.ObjectType, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.ObjectType, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the CRM rejected the credential
func (e *UpstreamError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func newUpstreamError(objectType ObjectType, url string, err error) *UpstreamError {
	ue := &UpstreamError{ObjectType: objectType, URL: url, Err: err}
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		ue.StatusCode = httpErr.StatusCode
	}
	return ue
}

// IsAuthError reports whether err carries an AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsUpstreamError reports whether err carries an UpstreamError
func IsUpstreamError(err error) bool {
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr)
}
