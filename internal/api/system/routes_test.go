package system

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (s stubChecker) CheckReadiness(context.Context) error {
	return s.err
}

func TestRouter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		checkErr   error
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{name: "health", path: "/health", wantStatus: http.StatusOK, wantKey: "status", wantValue: "healthy"},
		{name: "ready", path: "/readiness", wantStatus: http.StatusOK, wantKey: "status", wantValue: "ready"},
		{
			name:       "not ready",
			path:       "/readiness",
			checkErr:   errors.New("database unreachable"),
			wantStatus: http.StatusServiceUnavailable,
			wantKey:    "error",
			wantValue:  "service not ready: database unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			Router(stubChecker{err: tt.checkErr}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantValue, body[tt.wantKey])
		})
	}
}

func TestVersionHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Router(stubChecker{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["version"])
	assert.NotEmpty(t, body["go_version"])
}
