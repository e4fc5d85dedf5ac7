package http

import (
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/http/httpguts"

	"github.com/wesleyorama2/loadfire/internal/config"
	"github.com/wesleyorama2/loadfire/internal/data"
)

// Build constructs one outbound request from the config and an optional data row.
//
// The method defaults to GET. When a body template is configured it is filled
// from row; a nil row leaves the template untouched. Without a body template
// the request has no body regardless of method. Build performs no network I/O.
func Build(cfg *config.LoadTestConfig, row data.Row) (*http.Request, error) {
	names := make([]string, 0, len(cfg.Headers))
	for name := range cfg.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := cfg.Headers[name]
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, &InvalidHeaderError{Name: name, Value: value, Part: "name"}
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			return nil, &InvalidHeaderError{Name: name, Value: value, Part: "value"}
		}
	}

	var bodyReader io.Reader
	if cfg.Body != nil {
		body := *cfg.Body
		if row != nil {
			body = Substitute(body, row)
		}
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(string(cfg.Method.Normalize()), cfg.URL, bodyReader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	for _, name := range names {
		// net/http writes the Host line from req.Host, never from the header map.
		if strings.EqualFold(name, "Host") {
			req.Host = cfg.Headers[name]
			continue
		}
		req.Header.Set(name, cfg.Headers[name])
	}

	return req, nil
}
