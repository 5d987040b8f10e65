package common

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgeo/crm-audit-server/internal/audit"
	"github.com/forgeo/crm-audit-server/internal/crm"
	"github.com/forgeo/crm-audit-server/internal/db"
	"github.com/forgeo/crm-audit-server/internal/runlock"
	"github.com/forgeo/crm-audit-server/internal/service"
)

// StatusFor maps a service error to its HTTP status
func StatusFor(err error) int {
	var (
		authErr     *crm.AuthError
		upstreamErr *crm.UpstreamError
		persistErr  *db.PersistenceError
	)

	switch {
	case errors.Is(err, service.ErrInvalidOption), errors.Is(err, service.ErrUnknownCriterion):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.Is(err, runlock.ErrRunInProgress), errors.Is(err, audit.ErrRunFinished):
		return http.StatusConflict
	case errors.Is(err, db.ErrNotFound), errors.Is(err, service.ErrNoCompletedSync):
		return http.StatusNotFound
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrSchedulerUnavailable), errors.Is(err, service.ErrShuttingDown):
		return http.StatusServiceUnavailable
	case errors.As(err, &persistErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError writes err with the status StatusFor assigns it.
// Server side failures are logged and their detail is not echoed to the caller.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusFor(err)
	if code >= http.StatusInternalServerError && code != http.StatusServiceUnavailable {
		slog.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteErrorResponse(w, http.StatusText(code), code)
		return
	}
	WriteErrorResponse(w, err.Error(), code)
}
