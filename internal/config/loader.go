package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// DefaultTimeout is applied when the config does not set a request timeout.
const DefaultTimeout = 30 * time.Second

// ErrConfig marks every failure to read, parse or validate a configuration file.
var ErrConfig = errors.New("invalid configuration")

//go:embed config.schema.json
var schemaSource string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func configSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("config.schema.json", strings.NewReader(schemaSource)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("config.schema.json")
	})
	return compiledSchema, schemaErr
}

// LoadConfig loads a load test configuration from a file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
//
// The returned config has defaults applied and has passed validation.
func LoadConfig(path string) (*LoadTestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configError(errors.Wrap(err, "failed to read config file"))
	}

	return ParseConfig(data, path)
}

// ParseConfig parses configuration data.
//
// The format is determined by the file extension in path, or defaults to YAML
// if the path is empty or has an unknown extension. The document is checked
// against the embedded JSON schema before it is decoded.
func ParseConfig(data []byte, path string) (*LoadTestConfig, error) {
	var doc interface{}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, configError(errors.Wrap(err, "failed to parse JSON config"))
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, configError(errors.Wrap(err, "failed to parse YAML config"))
		}
	}

	normalized, err := normalizeDocument(doc)
	if err != nil {
		return nil, configError(err)
	}

	var config LoadTestConfig
	if err := json.Unmarshal(normalized, &config); err != nil {
		return nil, configError(errors.Wrap(err, "failed to decode config"))
	}

	ApplyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, configError(err)
	}

	return &config, nil
}

// normalizeDocument checks the generic document against the config schema and
// returns it as JSON ready for typed decoding. The document is round-tripped
// through JSON so YAML scalars arrive as json.Number / string / bool like the
// validator expects. Scalar header values and bodies are turned into strings.
func normalizeDocument(doc interface{}) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("config file is empty")
	}

	schema, err := configSchema()
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile config schema")
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "config is not representable as JSON")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var normalized interface{}
	if err := dec.Decode(&normalized); err != nil {
		return nil, errors.Wrap(err, "failed to normalize config")
	}

	if err := schema.Validate(normalized); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return nil, errors.New(describeSchemaError(verr))
		}
		return nil, err
	}

	// The schema guarantees an object at the top level.
	fields := normalized.(map[string]interface{})
	if body, ok := fields["body"]; ok {
		fields["body"] = scalarString(body)
	}
	if headers, ok := fields["headers"].(map[string]interface{}); ok {
		for name, value := range headers {
			headers[name] = scalarString(value)
		}
	}

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to normalize config")
	}
	return out, nil
}

// scalarString renders a number or boolean the way it was written.
func scalarString(v interface{}) interface{} {
	switch x := v.(type) {
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return v
	}
}

// describeSchemaError flattens the innermost schema failures into one line each.
func describeSchemaError(verr *jsonschema.ValidationError) string {
	var leaves []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			leaves = append(leaves, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return "schema validation failed: " + strings.Join(leaves, "; ")
}

// ApplyDefaults applies default values to a LoadTestConfig.
func ApplyDefaults(config *LoadTestConfig) {
	config.Method = config.Method.Normalize()

	if config.Timeout == 0 {
		config.Timeout = Duration(DefaultTimeout)
	}

	if config.Name == "" {
		if u, err := url.Parse(config.URL); err == nil && u.Host != "" {
			config.Name = u.Host
		} else {
			config.Name = config.URL
		}
	}
}

// ParseDurationString parses a duration string with support for common formats.
//
// Supported formats:
//   - Standard Go duration: "30s", "2m", "1h30m", "500ms"
//   - Seconds as integer: "30" (treated as 30 seconds)
func ParseDurationString(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	if seconds, err := strconv.Atoi(s); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}

func configError(err error) error {
	return &Error{cause: err}
}

// Error wraps any failure surfaced by the loader. errors.Is(err, ErrConfig) holds for it.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return e.cause.Error()
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports ErrConfig membership.
func (e *Error) Is(target error) bool {
	return target == ErrConfig
}
