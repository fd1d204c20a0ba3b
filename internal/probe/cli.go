package probe

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/octofit/pkg/logger"
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if logFile == "" {
		logFile = "probe_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.InitWith(logger.Options{Writer: io.MultiWriter(os.Stdout, file)}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the probe.
func ShowHelp() {
	os.Stdout.WriteString(`OctoFit Dashboard Probe
=======================

Exercises a running dashboard: mounts views for every resource
concurrently, waits for them to settle, checks each snapshot and walks
the users pages.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the dashboard (default "http://localhost:3000")
  -rounds int
        Mount cycles per resource (default 5)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -settle duration
        Maximum time a view may stay loading (default 15s)
  -walk
        Visit every users page after the concurrent phase (default true)
  -log string
        Log file for probe output (default: probe_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/probe -rounds 20 -workers 16
  go run ./cmd/probe -url http://localhost:3000 -walk=false -verbose
`)
}
