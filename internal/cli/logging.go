package cli

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// setupLogging configures the standard logrus logger. Logs never share stdout
// with the progress display.
func setupLogging(w io.Writer, level string, json bool) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "invalid --log-level")
	}

	log.SetOutput(w)
	log.SetLevel(lvl)
	if json {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	if lvl >= log.DebugLevel {
		log.SetReportCaller(true)
	}
	return nil
}
