package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/loadfire/internal/config"
	"github.com/wesleyorama2/loadfire/internal/data"
)

func TestClient_SendSuccess(t *testing.T) {
	var gotBody, gotHeader, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotHeader = r.Header.Get("X-Test-Header")
		gotMethod = r.Method
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	cfg := &config.LoadTestConfig{
		URL:          server.URL + "/users",
		Method:       config.MethodPut,
		RequestCount: 1,
		Headers:      map[string]string{"X-Test-Header": "test-value"},
		Body:         strPtr("id=${id}"),
	}

	client := NewClient(WithTimeout(5 * time.Second))
	outcome := client.Send(context.Background(), cfg, data.Row{"id": "42"})

	assert.Equal(t, Success, outcome.Kind)
	assert.True(t, outcome.Succeeded())
	assert.Equal(t, http.StatusCreated, outcome.StatusCode)
	assert.NoError(t, outcome.Err)
	assert.Greater(t, outcome.Duration, time.Duration(0))

	assert.Equal(t, "PUT", gotMethod)
	assert.Equal(t, "id=42", gotBody)
	assert.Equal(t, "test-value", gotHeader)
}

func TestClient_SendStatusFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := &config.LoadTestConfig{URL: server.URL, RequestCount: 1}
	outcome := NewClient().Send(context.Background(), cfg, nil)

	assert.Equal(t, FailureStatus, outcome.Kind)
	assert.False(t, outcome.Succeeded())
	assert.Equal(t, http.StatusInternalServerError, outcome.StatusCode)
	assert.NoError(t, outcome.Err)
}

func TestClient_SendConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	cfg := &config.LoadTestConfig{URL: url, RequestCount: 1}
	outcome := NewClient(WithTimeout(2*time.Second)).Send(context.Background(), cfg, nil)

	assert.Equal(t, FailureTransport, outcome.Kind)
	assert.Equal(t, 0, outcome.StatusCode)
	assert.Error(t, outcome.Err)
}

func TestClient_SendTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := &config.LoadTestConfig{URL: server.URL, RequestCount: 1}
	outcome := NewClient(WithTimeout(50*time.Millisecond)).Send(context.Background(), cfg, nil)

	assert.Equal(t, FailureTransport, outcome.Kind)
	assert.Error(t, outcome.Err)
}

func TestClient_SendInvalidHeaderNeverHitsNetwork(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	cfg := &config.LoadTestConfig{
		URL:          server.URL,
		RequestCount: 1,
		Headers:      map[string]string{"Bad Header": "x"},
	}
	outcome := NewClient().Send(context.Background(), cfg, nil)

	assert.Equal(t, FailureTransport, outcome.Kind)
	var hdrErr *InvalidHeaderError
	assert.True(t, errors.As(outcome.Err, &hdrErr))
	assert.Equal(t, 0, hits)
}

func TestFromConfig(t *testing.T) {
	cfg := &config.LoadTestConfig{Timeout: config.Duration(3 * time.Second), InsecureSkipVerify: true}
	client := NewClient(FromConfig(cfg)...)

	assert.Equal(t, 3*time.Second, client.httpClient.Timeout)
	transport, ok := client.httpClient.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, transport.TLSClientConfig)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)
}
