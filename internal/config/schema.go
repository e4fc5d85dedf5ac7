// Package config provides configuration parsing and validation for load tests.
package config

import (
	"strings"
	"time"
)

// HTTPMethod is the request method used for every request of a run.
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodPatch  HTTPMethod = "PATCH"
	MethodDelete HTTPMethod = "DELETE"
)

// Valid reports whether m is one of the supported methods.
func (m HTTPMethod) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	}
	return false
}

// Normalize upper-cases the method and falls back to GET when unset.
func (m HTTPMethod) Normalize() HTTPMethod {
	if m == "" {
		return MethodGet
	}
	return HTTPMethod(strings.ToUpper(string(m)))
}

// LoadTestConfig is the root configuration for a load test.
//
// Example YAML:
//
//	url: "https://api.example.com/users"
//	method: POST
//	request_count: 100
//	headers:
//	  Content-Type: application/json
//	body: '{"name": "${name}", "id": ${id}}'
//	data_file: users.csv
//
// A loaded config is treated as immutable and is shared read-only by every worker.
type LoadTestConfig struct {
	// Name of the test (for reporting). Defaults to the URL host.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// URL is the request target
	URL string `json:"url" yaml:"url"`

	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE). Defaults to GET.
	Method HTTPMethod `json:"method,omitempty" yaml:"method,omitempty"`

	// RequestCount is the number of requests to issue
	RequestCount int `json:"request_count" yaml:"request_count"`

	// Headers are sent with every request
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Body is the request body template; ${column} placeholders are filled from data rows.
	// Nil means the request carries no body.
	Body *string `json:"body,omitempty" yaml:"body,omitempty"`

	// DataFile is an optional CSV/XLS/XLSX file supplying one row per request
	DataFile string `json:"data_file,omitempty" yaml:"data_file,omitempty"`

	// Timeout is the per-request transport timeout
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Concurrency caps the number of in-flight requests. Zero means no cap.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// InsecureSkipVerify skips TLS certificate verification
	InsecureSkipVerify bool `json:"insecure_skip_verify,omitempty" yaml:"insecure_skip_verify,omitempty"`
}

// HasBody reports whether a body template is configured.
func (c *LoadTestConfig) HasBody() bool {
	return c.Body != nil
}

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings.
type Duration time.Duration

// GetDuration returns the duration or a default if empty.
func (d Duration) GetDuration(defaultValue time.Duration) time.Duration {
	if d == 0 {
		return defaultValue
	}
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
