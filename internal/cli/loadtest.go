package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/loadfire/internal/config"
	"github.com/wesleyorama2/loadfire/internal/data"
	"github.com/wesleyorama2/loadfire/internal/performance/engine"
	"github.com/wesleyorama2/loadfire/internal/performance/output"
)

// progressInterval is how often the live display is refreshed.
var progressInterval = time.Second

type runOptions struct {
	configFile string
	quiet      bool
	verbose    bool
	noColor    bool
}

func runLoadTest(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")
	logLevel, _ := cmd.Flags().GetString("log-level")
	logJSON, _ := cmd.Flags().GetBool("log-json")

	if err := setupLogging(cmd.ErrOrStderr(), logLevel, logJSON); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err := executeLoadTest(ctx, runOptions{
		configFile: configFile,
		quiet:      quiet,
		verbose:    verbose,
		noColor:    noColor,
	}, cmd.OutOrStdout())
	return err
}

// executeLoadTest loads the config and data rows, runs the engine while
// reporting progress, and prints the summary. Config and data errors abort
// before any request is sent.
func executeLoadTest(ctx context.Context, opts runOptions, out io.Writer) (*engine.Result, error) {
	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return nil, err
	}

	var rows []data.Row
	if cfg.DataFile != "" {
		rows, err = data.Load(cfg.DataFile)
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"file": cfg.DataFile,
			"rows": len(rows),
		}).Info("loaded data file")
	}

	eng, err := engine.NewEngine(cfg, rows)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create engine")
	}

	console := output.NewConsoleOutput(output.ConsoleOutputConfig{
		Name:    cfg.Name,
		Method:  cfg.Method,
		URL:     cfg.URL,
		Writer:  out,
		Quiet:   opts.quiet,
		Verbose: opts.verbose,
		NoColor: opts.noColor,
	})
	console.PrintHeader(cfg.RequestCount)

	type runResult struct {
		result *engine.Result
		err    error
	}
	done := make(chan runResult, 1)
	start := time.Now()

	go func() {
		result, err := eng.Run(ctx)
		done <- runResult{result, err}
	}()

	updateTicker := time.NewTicker(progressInterval)
	defer updateTicker.Stop()

	var finished runResult
progressLoop:
	for {
		select {
		case finished = <-done:
			break progressLoop
		case <-updateTicker.C:
			stats := output.LiveStats{
				Progress: eng.Progress(),
				Elapsed:  time.Since(start),
			}
			if console.IsTTY() {
				console.Update(stats)
			} else if !opts.quiet {
				console.PrintNonInteractiveUpdate(stats)
			}
		}
	}

	if finished.err != nil {
		return nil, errors.Wrap(finished.err, "load test failed")
	}

	console.PrintSummary(finished.result)
	return finished.result, nil
}
