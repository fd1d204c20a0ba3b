package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/octofit/internal/probe"
)

// Default configuration constants.
const (
	defaultWorkers   = 2 // multiplier for runtime.NumCPU()
	defaultRunTimout = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:3000", "Base URL of the dashboard")
		rounds  = flag.Int("rounds", probe.DefaultRounds, "Mount cycles per resource")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", probe.DefaultTimeout, "HTTP request timeout")
		settle  = flag.Duration("settle", probe.DefaultSettle, "Maximum time a view may stay loading")
		walk    = flag.Bool("walk", true, "Visit every users page")
		logFile = flag.String("log", "", "Log file for probe output (default: probe_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := probe.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimout)
	defer cancel()

	config := &probe.Config{
		BaseURL:  *baseURL,
		Rounds:   *rounds,
		Workers:  *workers,
		Timeout:  *timeout,
		Settle:   *settle,
		LogFile:  *logFile,
		Verbose:  *verbose,
		PageWalk: *walk,
	}

	if _, err := probe.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
