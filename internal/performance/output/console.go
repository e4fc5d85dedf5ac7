// Package output renders live progress and the final summary of a load test.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/wesleyorama2/loadfire/internal/config"
	"github.com/wesleyorama2/loadfire/internal/performance/engine"
	"github.com/wesleyorama2/loadfire/internal/performance/metrics"
	style "github.com/wesleyorama2/loadfire/internal/output"
)

// ANSI escape codes for cursor control
const (
	cursorUp  = "\033[%dA" // Move cursor up N lines
	clearLine = "\033[2K"  // Clear entire line

	boxHorizontal = "━"

	progressFilled = "█"
	progressEmpty  = "░"
)

// LiveStats contains real-time statistics for display.
type LiveStats struct {
	metrics.Progress
	Elapsed time.Duration
}

// ConsoleOutput manages live console output during test execution.
type ConsoleOutput struct {
	name    string
	method  config.HTTPMethod
	url     string
	writer  io.Writer
	isTTY   bool
	quiet   bool
	verbose bool
	colors  *style.ColorScheme

	useColors bool

	mu          sync.Mutex
	linesOutput int // Number of lines in the live display
}

// ConsoleOutputConfig contains configuration for ConsoleOutput.
type ConsoleOutputConfig struct {
	Name        string
	Method      config.HTTPMethod
	URL         string
	Writer      io.Writer
	Quiet       bool
	Verbose     bool
	NoColor     bool
	ForceColors bool
	ForceTTY    bool
}

// NewConsoleOutput creates a new console output handler.
func NewConsoleOutput(cfg ConsoleOutputConfig) *ConsoleOutput {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}

	isTTY := cfg.ForceTTY || isTerminal(cfg.Writer)

	useColors := !cfg.NoColor && (cfg.ForceColors || (isTTY && os.Getenv("NO_COLOR") == ""))
	colors := style.NoColorScheme()
	if useColors {
		colors = style.ForcedColorScheme()
	}

	return &ConsoleOutput{
		name:      cfg.Name,
		method:    cfg.Method,
		url:       cfg.URL,
		writer:    cfg.Writer,
		isTTY:     isTTY,
		quiet:     cfg.Quiet,
		verbose:   cfg.Verbose,
		colors:    colors,
		useColors: useColors,
	}
}

// isTerminal checks if the writer is a terminal.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return checkIsTerminal(f)
	}
	return false
}

// PrintHeader prints the test header.
func (c *ConsoleOutput) PrintHeader(total int) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line := c.colors.Rule.Sprint(strings.Repeat(boxHorizontal, 56))
	c.writeln(line)
	c.writeln(fmt.Sprintf("%s - %s", c.colors.Title.Sprint(c.name), "Running"))
	c.writeln(fmt.Sprintf("%s %s (%s requests)",
		c.colors.Method.Sprint(c.method),
		c.colors.URL.Sprint(c.url),
		formatNumber(int64(total))))
	c.writeln(line)
	c.writeln("")
}

// Update redraws the live progress display in place. It does nothing when
// the output is not a terminal.
func (c *ConsoleOutput) Update(stats LiveStats) {
	if c.quiet || !c.isTTY {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLive()

	lines := c.renderLiveStats(stats)
	c.linesOutput = len(lines)
	for _, line := range lines {
		c.writeln(line)
	}
}

func (c *ConsoleOutput) renderLiveStats(stats LiveStats) []string {
	fraction := stats.Fraction()

	bar := c.colors.Progress.Sprint(renderProgressBar(fraction, 40))
	percent := c.colors.Title.Sprintf("%.0f%%", fraction*100)
	elapsed := c.colors.Dim.Sprint(formatDuration(stats.Elapsed))

	errColor := c.colors.Success
	if stats.Failed > 0 {
		errColor = c.colors.Error
	}

	return []string{
		fmt.Sprintf("Progress: %s %s | %s", bar, percent, elapsed),
		fmt.Sprintf("Sent: %s  Received: %s/%s  OK: %s  Failed: %s",
			c.colors.Value.Sprint(formatNumber(stats.Sent)),
			c.colors.Value.Sprint(formatNumber(stats.Received)),
			formatNumber(stats.Total),
			c.colors.Success.Sprint(formatNumber(stats.Succeeded)),
			errColor.Sprint(formatNumber(stats.Failed))),
	}
}

// PrintNonInteractiveUpdate prints a non-interactive status update.
// Used when output is not a TTY (e.g., piped to a file or CI/CD).
func (c *ConsoleOutput) PrintNonInteractiveUpdate(stats LiveStats) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeln(fmt.Sprintf("[%s] Progress: %d/%d | Sent: %d | OK: %d | Failed: %d",
		formatDuration(stats.Elapsed),
		stats.Received,
		stats.Total,
		stats.Sent,
		stats.Succeeded,
		stats.Failed))
}

// PrintSummary prints the final summary of a run.
func (c *ConsoleOutput) PrintSummary(result *engine.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isTTY {
		c.clearLive()
	}

	s := result.Summary

	if !c.quiet {
		var status string
		switch {
		case result.Cancelled:
			status = style.WarningIcon(!c.useColors) + " Cancelled"
		case s.Received > 0 && s.Succeeded == 0:
			status = style.ErrorIcon(!c.useColors) + " " + c.colors.Error.Sprint("All requests failed")
		default:
			status = style.SuccessIcon(!c.useColors) + " Completed"
		}
		line := c.colors.Rule.Sprint(strings.Repeat(boxHorizontal, 56))

		c.writeln("")
		c.writeln(line)
		c.writeln(fmt.Sprintf("%s - %s", c.colors.Title.Sprint(result.Name), status))
		c.writeln(line)
		c.writeln("")
	}

	c.writeln(c.row("Total Requests", c.colors.Value.Sprint(s.Total)))
	c.writeln(c.row("Successful Requests", c.colors.Success.Sprint(s.Succeeded)))
	c.writeln(c.row("Failed Requests", c.failColor(s.Failed).Sprint(s.Failed)))
	c.writeln(c.row("Success Percentage", c.colors.RateColor(s.SuccessPercent).Sprintf("%.2f%%", s.SuccessPercent)))
	c.writeln(c.row("Failure Percentage", c.failColor(s.Failed).Sprintf("%.2f%%", s.FailurePercent)))
	c.writeln(c.row("Average Response Time", c.colors.Value.Sprint(formatResponseTime(s.Average))))
	c.writeln(c.row("Minimum Response Time", c.colors.Value.Sprint(formatResponseTime(s.Min))))
	c.writeln(c.row("Maximum Response Time", c.colors.Value.Sprint(formatResponseTime(s.Max))))

	if c.verbose {
		c.writeln("")
		c.writeln(c.colors.Title.Sprint("Failures by kind:"))
		c.writeln(fmt.Sprintf("  HTTP status:  %d", s.StatusFailures))
		c.writeln(fmt.Sprintf("  Transport:    %d", s.TransportFailures))
		c.writeln(fmt.Sprintf("  Elapsed:      %s", formatDuration(result.Duration)))
		c.writeln(fmt.Sprintf("  Run ID:       %s", c.colors.Highlight.Sprint(result.RunID)))
	}

	if result.Cancelled && !c.quiet {
		c.writeln("")
		c.writeln(c.colors.Warning.Sprintf("Run interrupted: %d of %d requests completed", s.Received, s.Total))
	}
}

// IsTTY returns whether the output is a terminal.
func (c *ConsoleOutput) IsTTY() bool {
	return c.isTTY
}

func (c *ConsoleOutput) row(label, value string) string {
	return c.colors.Label.Sprint(label+":") + " " + value
}

func (c *ConsoleOutput) failColor(failed int64) *color.Color {
	if failed > 0 {
		return c.colors.Error
	}
	return c.colors.Success
}

// clearLive erases the live display. Callers hold c.mu.
func (c *ConsoleOutput) clearLive() {
	if c.linesOutput == 0 {
		return
	}
	c.write(fmt.Sprintf(cursorUp, c.linesOutput))
	for i := 0; i < c.linesOutput; i++ {
		c.write(clearLine + "\n")
	}
	c.write(fmt.Sprintf(cursorUp, c.linesOutput))
	c.linesOutput = 0
}

func (c *ConsoleOutput) write(s string) {
	fmt.Fprint(c.writer, s)
}

func (c *ConsoleOutput) writeln(s string) {
	fmt.Fprintln(c.writer, s)
}

func renderProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(width))
	empty := width - filled

	return "[" + strings.Repeat(progressFilled, filled) + strings.Repeat(progressEmpty, empty) + "]"
}

// formatResponseTime prints a response time at microsecond precision.
func formatResponseTime(d time.Duration) string {
	return d.Round(time.Microsecond).String()
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
}

// formatNumber formats a number with thousands separators.
func formatNumber(n int64) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	offset := len(str) % 3
	if offset > 0 {
		result.WriteString(str[:offset])
	}
	for i := offset; i < len(str); i += 3 {
		if result.Len() > 0 {
			result.WriteString(",")
		}
		result.WriteString(str[i : i+3])
	}
	return result.String()
}
