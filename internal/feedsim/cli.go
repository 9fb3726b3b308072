package feedsim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/matchpulse/liveticker/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "feedsim_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the feed simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Liveticker Feed Simulator
=========================

Generates play-by-play commentary, submits it through the authenticated
REST endpoint, and verifies the websocket fan-out with a live subscriber.

Usage:
  go run cmd/feedsim/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -events int
        Number of commentary events to submit (default 200)
  -workers int
        Number of concurrent submitters (default 4)
  -interval duration
        Pause between submissions per worker (default 50ms)
  -timeout duration
        HTTP request timeout (default 10s)
  -secret string
        Shared secret for minting the submission token (default "dev-secret-change-me")
  -log string
        Log file for simulation output (default: feedsim_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/feedsim/main.go

  # Fast burst with no pacing
  go run cmd/feedsim/main.go -events 1000 -workers 16 -interval 0

  # Against a remote instance
  go run cmd/feedsim/main.go -url http://ticker.example.com:9080 -secret prod-secret
`)
}
