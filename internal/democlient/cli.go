package democlient

import (
	"fmt"
	"os"

	"github.com/okian/careshare/pkg/logger"
)

// SetupLogging initializes the global logger for the client.
func SetupLogging(verbose bool) error {
	level := "info"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(logger.WithLevel(level), logger.WithFormat("text")); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the demo client.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Careshare Demo Client
=====================

Walks the clinic network demo scenario against a running server and
verifies every response.

Usage:
  go run ./cmd/demo-client [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -timeout duration
        HTTP request timeout (default 10s)
  -reset
        Call POST /demo/reset first (server needs CARESHARE_DEMO_MODE=true)
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  # Fresh run against a demo server
  go run ./cmd/demo-client -reset

  # Against another host
  go run ./cmd/demo-client -url http://localhost:9000 -verbose
`)
}
