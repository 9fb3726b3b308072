package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/matchpulse/liveticker/internal/feedsim"
)

// Default configuration constants.
const (
	defaultNumEvents  = 200
	defaultWorkers    = 4
	defaultInterval   = 50 * time.Millisecond
	defaultTimeout    = 10 * time.Second
	defaultSimTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numEvents = flag.Int("events", defaultNumEvents, "Number of commentary events to submit")
		workers   = flag.Int("workers", defaultWorkers, "Number of concurrent submitters")
		interval  = flag.Duration("interval", defaultInterval, "Pause between submissions per worker")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		secret    = flag.String("secret", "dev-secret-change-me", "Shared secret for minting the submission token")
		logFile   = flag.String("log", "", "Log file for simulation output (default: feedsim_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		feedsim.ShowHelp()
		return
	}

	if err := feedsim.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSimTimeout)
	defer cancel()

	config := &feedsim.Config{
		BaseURL:    *baseURL,
		NumEvents:  *numEvents,
		Workers:    *workers,
		Interval:   *interval,
		Timeout:    *timeout,
		AuthSecret: *secret,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := feedsim.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
