package httpclient_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/forgeo/crm-audit-server/internal/httpclient"
)

// newTestServer creates a new test server with keep-alives disabled.
// Closing a server with keep-alives enabled can affect parallel tests sharing the transport.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func TestDefaultClient_Get_Success(t *testing.T) {
	t.Parallel()

	var receivedUserAgent, receivedAccept, receivedAuth string
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUserAgent = r.Header.Get("User-Agent")
		receivedAccept = r.Header.Get("Accept")
		receivedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := httpclient.NewDefaultClient(0)
	data, err := client.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.JSONEq(t, `{"results": []}`, string(data))
	assert.Equal(t, httpclient.UserAgent, receivedUserAgent)
	assert.Equal(t, "application/json", receivedAccept)
	assert.Empty(t, receivedAuth)
}

func TestDefaultClient_Get_WithTokenSource(t *testing.T) {
	t.Parallel()

	var receivedAuth string
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc123", TokenType: "Bearer"})
	client := httpclient.NewDefaultClient(5*time.Second, httpclient.WithTokenSource(src))

	_, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", receivedAuth)
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestDefaultClient_Get_WithTransport(t *testing.T) {
	t.Parallel()

	transportErr := errors.New("dial refused")
	client := httpclient.NewDefaultClient(time.Second, httpclient.WithTransport(
		roundTripperFunc(func(*http.Request) (*http.Response, error) { return nil, transportErr }),
	))

	_, err := client.Get(context.Background(), "http://crm.invalid/crm/v3/objects/contacts")
	require.Error(t, err)
	assert.ErrorIs(t, err, transportErr)
	assert.Contains(t, err.Error(), "failed to execute request")
}

func TestDefaultClient_Get_HTTPErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		statusCode   int
		unauthorized bool
	}{
		{name: "not_found", statusCode: http.StatusNotFound},
		{name: "unauthorized", statusCode: http.StatusUnauthorized, unauthorized: true},
		{name: "forbidden", statusCode: http.StatusForbidden, unauthorized: true},
		{name: "rate_limited", statusCode: http.StatusTooManyRequests},
		{name: "server_error", statusCode: http.StatusInternalServerError},
		{name: "no_content_is_not_ok", statusCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			_, err := httpclient.NewDefaultClient(0).Get(context.Background(), server.URL)
			require.Error(t, err)

			var httpErr *httpclient.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.statusCode, httpErr.StatusCode)
			assert.Equal(t, server.URL, httpErr.URL)
			assert.Equal(t, tt.unauthorized, httpErr.IsUnauthorized())
			assert.Contains(t, err.Error(), fmt.Sprintf("HTTP %d", tt.statusCode))
		})
	}
}

func TestDefaultClient_Get_NetworkErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		url           string
		errorContains string
	}{
		{name: "invalid_url_scheme", url: "://invalid-url", errorContains: "failed to create request"},
		{name: "unreachable_host", url: "http://invalid-host-does-not-exist.local:9999", errorContains: "failed to execute request"},
		{name: "empty_url", url: "", errorContains: "failed to execute request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := httpclient.NewDefaultClient(0).Get(context.Background(), tt.url)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestDefaultClient_Get_Timeouts(t *testing.T) {
	t.Parallel()

	t.Run("context_cancelled", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(2 * time.Second)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := httpclient.NewDefaultClient(0).Get(ctx, server.URL)
		require.Error(t, err)
	})

	t.Run("client_timeout", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(2 * time.Second)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		_, err := httpclient.NewDefaultClient(100*time.Millisecond).Get(context.Background(), server.URL)
		require.Error(t, err)
	})
}

func TestDefaultClient_Get_SizeLimitExceeded(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", 101*1024*1024))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := httpclient.NewDefaultClient(0).Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum allowed size")
	assert.Contains(t, err.Error(), "100.00 MB")
}
