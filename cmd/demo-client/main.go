package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/careshare/internal/democlient"
)

// Default configuration constants.
const (
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8000", "Base URL of the service")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		reset   = flag.Bool("reset", false, "Reset demo state before running (requires demo mode)")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		democlient.ShowHelp()
		return
	}

	if err := democlient.SetupLogging(*verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &democlient.Config{
		BaseURL: *baseURL,
		Timeout: *timeout,
		Reset:   *reset,
		Verbose: *verbose,
	}

	if _, err := democlient.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Scenario failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
