package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMux(t *testing.T) {
	server := httptest.NewServer(newMux())
	defer server.Close()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"echo", http.MethodPost, "/echo", "Hello Ann", http.StatusOK, "Hello Ann"},
		{"status 503", http.MethodGet, "/status/503", "", http.StatusServiceUnavailable, "Service Unavailable"},
		{"status invalid", http.MethodGet, "/status/abc", "", http.StatusBadRequest, "invalid status code\n"},
		{"delay", http.MethodGet, "/delay/1", "", http.StatusOK, "OK"},
		{"health", http.MethodGet, "/health", "", http.StatusOK, "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, server.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}
