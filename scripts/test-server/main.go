// Command test-server is a local target for manual loadfire runs.
//
//	go run ./scripts/test-server --addr :8080
//	loadfire --config examples/loadtest.yaml
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Echo the request body back.
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.WithFields(log.Fields{"method": r.Method, "bytes": len(body)}).Debug("echo")
		w.Header().Set("Content-Type", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})

	mux.HandleFunc("/status/{code}", func(w http.ResponseWriter, r *http.Request) {
		code, err := strconv.Atoi(r.PathValue("code"))
		if err != nil || code < 100 || code > 599 {
			http.Error(w, "invalid status code", http.StatusBadRequest)
			return
		}
		w.WriteHeader(code)
		fmt.Fprint(w, http.StatusText(code))
	})

	// /delay/{ms} sleeps before answering 200.
	mux.HandleFunc("/delay/{ms}", func(w http.ResponseWriter, r *http.Request) {
		ms, err := strconv.Atoi(r.PathValue("ms"))
		if err != nil || ms < 0 {
			http.Error(w, "invalid delay", http.StatusBadRequest)
			return
		}
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "healthy")
	})

	return mux
}

func main() {
	var addr string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "test-server",
		Short: "Local HTTP endpoint for load testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           newMux(),
				ReadTimeout:       5 * time.Second,
				WriteTimeout:      5 * time.Second,
				IdleTimeout:       120 * time.Second,
				MaxHeaderBytes:    1 << 20,
				ReadHeaderTimeout: 2 * time.Second,
			}

			log.WithField("addr", addr).Info("starting test server")
			return server.ListenAndServe()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every echoed request")

	if err := cmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
