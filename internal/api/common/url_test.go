package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAndValidateURLParam(t *testing.T) {
	t.Parallel()

	routerTests := []struct {
		name       string
		paramName  string
		paramValue string
		wantValue  string
		wantErr    bool
		wantErrMsg string
	}{
		// Valid cases
		{
			name:       "valid plain string",
			paramName:  "userID",
			paramValue: "crm-user",
			wantValue:  "crm-user",
			wantErr:    false,
		},
		{
			name:       "valid with dashes",
			paramName:  "userID",
			paramValue: "crm-user-123",
			wantValue:  "crm-user-123",
			wantErr:    false,
		},
		{
			name:       "valid with underscores",
			paramName:  "userID",
			paramValue: "crm_user_123",
			wantValue:  "crm_user_123",
			wantErr:    false,
		},
		{
			name:       "valid with dots",
			paramName:  "version",
			paramValue: "1.2.3",
			wantValue:  "1.2.3",
			wantErr:    false,
		},
		{
			name:       "valid with mixed special chars",
			paramName:  "userID",
			paramValue: "test.server-v1_alpha",
			wantValue:  "test.server-v1_alpha",
			wantErr:    false,
		},

		// URL-encoded cases that should decode properly
		{
			name:       "url-encoded slash",
			paramName:  "userID",
			paramValue: "test%2Fserver",
			wantValue:  "test/server",
			wantErr:    false,
		},
		{
			name:       "url-encoded at symbol",
			paramName:  "version",
			paramValue: "test%40v1",
			wantValue:  "test@v1",
			wantErr:    false,
		},
		{
			name:       "url-encoded colon",
			paramName:  "userID",
			paramValue: "hub%3A42",
			wantValue:  "hub:42",
			wantErr:    false,
		},
		{
			name:       "url-encoded equals",
			paramName:  "userID",
			paramValue: "hub%3D42",
			wantValue:  "hub=42",
			wantErr:    false,
		},
		{
			name:       "url-encoded ampersand",
			paramName:  "userID",
			paramValue: "hub%2642",
			wantValue:  "hub&42",
			wantErr:    false,
		},
		{
			name:       "url-encoded plus",
			paramName:  "userID",
			paramValue: "hub%2B42",
			wantValue:  "hub+42",
			wantErr:    false,
		},
		// chi decodes %2525 to %25 before the parameter is read
		{
			name:       "double-encoded percent",
			paramName:  "userID",
			paramValue: "hub%252542",
			wantValue:  "hub%42",
			wantErr:    false,
		},
		{
			name:       "multiple url-encoded chars",
			paramName:  "userID",
			paramValue: "team%2Fdana%40acme%2B2",
			wantValue:  "team/dana@acme+2",
			wantErr:    false,
		},

		// Empty and whitespace cases
		{
			name:       "empty string",
			paramName:  "userID",
			paramValue: "",
			wantErr:    true,
			wantErrMsg: "userID cannot be empty",
		},
		{
			name:       "url-encoded space only",
			paramName:  "userID",
			paramValue: "%20",
			wantErr:    true,
			wantErrMsg: "userID cannot be empty",
		},
		{
			name:       "multiple url-encoded spaces",
			paramName:  "userID",
			paramValue: "%20%20%20",
			wantErr:    true,
			wantErrMsg: "userID cannot be empty",
		},
		{
			name:       "url-encoded tab only",
			paramName:  "userID",
			paramValue: "%09",
			wantErr:    true,
			wantErrMsg: "userID cannot be empty",
		},
		{
			name:       "url-encoded newline only",
			paramName:  "userID",
			paramValue: "%0A",
			wantErr:    true,
			wantErrMsg: "userID cannot be empty",
		},
		{
			name:       "url-encoded carriage return only",
			paramName:  "userID",
			paramValue: "%0D",
			wantErr:    true,
			wantErrMsg: "userID cannot be empty",
		},

		// Whitespace in middle cases
		{
			name:       "space in middle",
			paramName:  "userID",
			paramValue: "dana%20smith",
			wantErr:    true,
			wantErrMsg: "userID cannot contain whitespace",
		},
		{
			name:       "tab in middle",
			paramName:  "userID",
			paramValue: "dana%09smith",
			wantErr:    true,
			wantErrMsg: "userID cannot contain whitespace",
		},
		{
			name:       "newline in middle",
			paramName:  "userID",
			paramValue: "dana%0Asmith",
			wantErr:    true,
			wantErrMsg: "userID cannot contain whitespace",
		},
		{
			name:       "carriage return in middle",
			paramName:  "userID",
			paramValue: "dana%0Dsmith",
			wantErr:    true,
			wantErrMsg: "userID cannot contain whitespace",
		},
		{
			name:       "space at start",
			paramName:  "userID",
			paramValue: "%20dana",
			wantErr:    true,
			wantErrMsg: "userID cannot contain whitespace",
		},
		{
			name:       "space at end",
			paramName:  "userID",
			paramValue: "dana%20",
			wantErr:    true,
			wantErrMsg: "userID cannot contain whitespace",
		},
		{
			name:       "multiple spaces",
			paramName:  "userID",
			paramValue: "dana%20%20smith",
			wantErr:    true,
			wantErrMsg: "userID cannot contain whitespace",
		},
		{
			name:       "mixed whitespace",
			paramName:  "userID",
			paramValue: "dana%20%09%0A%0Dsmith",
			wantErr:    true,
			wantErrMsg: "userID cannot contain whitespace",
		},
	}

	for _, tt := range routerTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := chi.NewRouter()
			router.Get("/{"+tt.paramName+"}", func(_ http.ResponseWriter, r *http.Request) {
				value, err := GetAndValidateURLParam(r, tt.paramName)

				if tt.wantErr {
					require.Error(t, err)
					assert.Equal(t, tt.wantErrMsg, err.Error())
				} else {
					require.NoError(t, err)
					assert.Equal(t, tt.wantValue, value)
				}
			})

			req, err := http.NewRequest("GET", "/"+tt.paramValue, nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
		})
	}

	// chi rejects these paths, so the route context is built by hand
	directTests := []struct {
		name       string
		paramName  string
		paramValue string
		wantErrMsg string
	}{
		{
			name:       "invalid url encoding - incomplete",
			paramName:  "userID",
			paramValue: "dana%2",
			wantErrMsg: "invalid URL encoding in userID",
		},
		{
			name:       "invalid url encoding - invalid hex",
			paramName:  "userID",
			paramValue: "dana%ZZ",
			wantErrMsg: "invalid URL encoding in userID",
		},
		{
			name:       "invalid url encoding - incomplete percent",
			paramName:  "userID",
			paramValue: "dana%",
			wantErrMsg: "invalid URL encoding in userID",
		},
	}

	for _, tt := range directTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/test", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add(tt.paramName, tt.paramValue)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			_, err := GetAndValidateURLParam(req, tt.paramName)
			require.Error(t, err)
			assert.Equal(t, tt.wantErrMsg, err.Error())
		})
	}
}

func TestGetUUIDParam(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{name: "valid", value: id.String()},
		{name: "not a uuid", value: "run-1", wantErr: "auditID must be a UUID"},
		{name: "empty", value: "", wantErr: "auditID cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("auditID", tt.value)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			got, err := GetUUIDParam(req, "auditID")
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, got)
		})
	}
}

func TestGetIntQuery(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=abc", nil)

	page, err := GetIntQuery(req, "page")
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	missing, err := GetIntQuery(req, "offset")
	require.NoError(t, err)
	assert.Zero(t, missing)

	_, err = GetIntQuery(req, "limit")
	assert.EqualError(t, err, "invalid limit parameter: must be an integer")
}
