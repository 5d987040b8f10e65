package httpclient_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgeo/crm-audit-server/internal/httpclient"
)

func TestHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		statusCode    int
		url           string
		message       string
		expectedError string
	}{
		{
			name:          "not_found",
			statusCode:    404,
			url:           "https://api.hubapi.com/crm/v3/objects/contacts",
			message:       "404 Not Found",
			expectedError: "HTTP 404 for URL https://api.hubapi.com/crm/v3/objects/contacts: 404 Not Found",
		},
		{
			name:          "empty_message",
			statusCode:    500,
			url:           "http://example.com",
			expectedError: "HTTP 500 for URL http://example.com: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := httpclient.NewHTTPError(tt.statusCode, tt.url, tt.message)
			assert.Equal(t, tt.expectedError, err.Error())

			var wrapped error = err
			var target *httpclient.HTTPError
			assert.True(t, errors.As(wrapped, &target))
			assert.Equal(t, tt.statusCode, target.StatusCode)
		})
	}
}
