package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgeo/crm-audit-server/internal/crm"
	"github.com/forgeo/crm-audit-server/internal/db"
	"github.com/forgeo/crm-audit-server/internal/runlock"
	"github.com/forgeo/crm-audit-server/internal/service"
	"github.com/forgeo/crm-audit-server/internal/status"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	runErr := func(err error) error { return &status.RunError{Kind: status.RunKindSync, Err: err} }

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "no credential", err: runErr(&crm.AuthError{UserID: "u", Err: errors.New("none")}), want: http.StatusUnauthorized},
		{name: "upstream", err: runErr(&crm.UpstreamError{StatusCode: 500, Err: errors.New("boom")}), want: http.StatusBadGateway},
		{name: "persistence", err: runErr(&db.PersistenceError{Op: "insert", Err: errors.New("boom")}), want: http.StatusInternalServerError},
		{name: "not found sentinel", err: fmt.Errorf("get audit run: %w", db.ErrNotFound), want: http.StatusNotFound},
		{name: "no completed sync", err: service.ErrNoCompletedSync, want: http.StatusNotFound},
		{name: "in progress", err: runErr(runlock.ErrRunInProgress), want: http.StatusConflict},
		{name: "invalid option", err: fmt.Errorf("%w: page", service.ErrInvalidOption), want: http.StatusBadRequest},
		{name: "unknown criterion", err: service.ErrUnknownCriterion, want: http.StatusBadRequest},
		{name: "scheduler unavailable", err: service.ErrSchedulerUnavailable, want: http.StatusServiceUnavailable},
		{name: "unclassified", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/v1/audits/x", nil)

	rr := httptest.NewRecorder()
	WriteServiceError(rr, req, &db.PersistenceError{Op: "insert", Err: errors.New("password=hunter2")})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	WriteServiceError(rr, req, service.ErrNoCompletedSync)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"no completed sync"}`, rr.Body.String())
}
