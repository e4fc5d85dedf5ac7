package http

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/wesleyorama2/loadfire/internal/config"
	"github.com/wesleyorama2/loadfire/internal/data"
)

// Client sends load test requests over one shared, pooled http.Client.
type Client struct {
	httpClient *http.Client
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new HTTP client with the given options
func NewClient(options ...ClientOption) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 0
	transport.MaxIdleConnsPerHost = 1000

	client := &Client{
		httpClient: &http.Client{
			Timeout:   config.DefaultTimeout,
			Transport: transport,
		},
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithInsecureSkipVerify disables TLS certificate verification
func WithInsecureSkipVerify(skip bool) ClientOption {
	return func(c *Client) {
		if t, ok := c.httpClient.Transport.(*http.Transport); ok {
			if t.TLSClientConfig == nil {
				t.TLSClientConfig = &tls.Config{}
			}
			t.TLSClientConfig.InsecureSkipVerify = skip
		}
	}
}

// WithTransport replaces the round tripper
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// FromConfig returns the client options implied by a load test config.
func FromConfig(cfg *config.LoadTestConfig) []ClientOption {
	return []ClientOption{
		WithTimeout(cfg.Timeout.GetDuration(config.DefaultTimeout)),
		WithInsecureSkipVerify(cfg.InsecureSkipVerify),
	}
}

// Send builds and executes one request and classifies the result.
//
// Duration covers building the request through receipt of the response
// headers. Errors never escape: a build or transport failure is reported as
// FailureTransport with Err set.
func (c *Client) Send(ctx context.Context, cfg *config.LoadTestConfig, row data.Row) Outcome {
	start := time.Now()

	req, err := Build(cfg, row)
	if err != nil {
		return Outcome{Kind: FailureTransport, Duration: time.Since(start), Err: err}
	}

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return Outcome{Kind: FailureTransport, Duration: time.Since(start), Err: err}
	}
	elapsed := time.Since(start)

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return Outcome{
		Kind:       Classify(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Duration:   elapsed,
	}
}

// CloseIdleConnections releases pooled connections once a run is finished.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
