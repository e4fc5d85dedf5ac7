package perf

import (
	"context"

	"github.com/wesleyorama2/loadfire/internal/config"
	"github.com/wesleyorama2/loadfire/internal/data"
	"github.com/wesleyorama2/loadfire/internal/performance/engine"
	"github.com/wesleyorama2/loadfire/internal/performance/metrics"
)

type (
	// Config describes one load test.
	Config = config.LoadTestConfig

	// Row is one record of a data file, keyed by column header.
	Row = data.Row

	// Result contains the outcome of a finished run.
	Result = engine.Result

	// Summary holds the final counts, percentages and response times.
	Summary = metrics.Summary

	// Progress holds live counters of a running test.
	Progress = metrics.Progress
)

// Errors returned by LoadConfig and LoadData; match with errors.Is.
var (
	ErrConfig            = config.ErrConfig
	ErrDataLoad          = data.ErrDataLoad
	ErrUnsupportedFormat = data.ErrUnsupportedFormat
)

// LoadConfig reads a YAML or JSON load test config.
func LoadConfig(path string) (*Config, error) {
	return config.LoadConfig(path)
}

// LoadData reads the rows of a CSV, XLS or XLSX file.
func LoadData(path string) ([]Row, error) {
	return data.Load(path)
}

// Runner runs a single load test.
//
//	runner, _ := perf.NewRunner(cfg, rows)
//	result, _ := runner.Run(context.Background())
type Runner struct {
	config *Config
	engine *engine.Engine
}

// NewRunner validates a copy of cfg with defaults applied and prepares a run.
// cfg itself is left untouched. rows may be nil.
func NewRunner(cfg *Config, rows []Row) (*Runner, error) {
	if cfg == nil {
		return nil, config.ErrConfig
	}

	c := cloneConfig(cfg)
	config.ApplyDefaults(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	eng, err := engine.NewEngine(c, rows)
	if err != nil {
		return nil, err
	}

	return &Runner{config: c, engine: eng}, nil
}

func cloneConfig(cfg *Config) *Config {
	c := *cfg
	if cfg.Headers != nil {
		c.Headers = make(map[string]string, len(cfg.Headers))
		for k, v := range cfg.Headers {
			c.Headers[k] = v
		}
	}
	if cfg.Body != nil {
		body := *cfg.Body
		c.Body = &body
	}
	return &c
}

// Config returns the effective config of the run, defaults included.
func (r *Runner) Config() Config {
	return *r.config
}

// Run executes the load test. A Runner can only be run once.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	return r.engine.Run(ctx)
}

// Progress returns the live counters of the run.
func (r *Runner) Progress() Progress {
	return r.engine.Progress()
}

// RunID returns the identifier attached to the run's logs and result.
func (r *Runner) RunID() string {
	return r.engine.RunID()
}

// RunTest is a shorthand for NewRunner followed by Run.
func RunTest(ctx context.Context, cfg *Config, rows []Row) (*Result, error) {
	runner, err := NewRunner(cfg, rows)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx)
}
