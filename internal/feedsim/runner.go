package feedsim

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/matchpulse/liveticker/internal/auth"
	"github.com/matchpulse/liveticker/pkg/logger"
	"github.com/matchpulse/liveticker/pkg/viewer"
)

// Runner configuration constants.
const (
	tokenTTL      = time.Hour
	settleDelay   = 2 * time.Second
	viewerBacklog = 4096
)

// Run executes the complete feed simulation: it verifies the service is
// up, attaches a subscriber, pushes generated commentary through the
// authenticated submission endpoint, and checks that the fan-out reached
// the subscriber.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting feed simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("events", config.NumEvents),
		logger.Int("workers", config.Workers),
		logger.String("interval", config.Interval.String()),
		logger.String("timeout", config.Timeout.String()))

	token, err := auth.SignToken(config.AuthSecret, auth.Principal{Subject: "feedsim", Role: auth.RoleEditor}, tokenTTL)
	if err != nil {
		return fmt.Errorf("failed to mint submission token: %w", err)
	}
	client := newHTTPClient(config.Timeout, token)

	if err := checkServiceHealth(ctx, config, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Attach the subscriber before submitting so every published event
	// should reach it live rather than via catch-up.
	v, err := viewer.New(config.BaseURL, viewer.WithUpdateBuffer(viewerBacklog))
	if err != nil {
		return fmt.Errorf("failed to create viewer: %w", err)
	}
	v.Start(ctx)
	defer v.Close()

	if err := waitForSubscription(ctx, v); err != nil {
		return fmt.Errorf("subscription handshake failed: %w", err)
	}

	events := generateCommentary(ctx, config)
	stats.EventsGenerated = len(events)

	if err := submitEvents(ctx, config, client, events, stats); err != nil {
		return fmt.Errorf("event submission failed: %w", err)
	}

	logger.Get().Info(ctx, "waiting for fan-out to settle")
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(settleDelay):
	}

	collectUpdates(v, stats)
	verifyFanOut(ctx, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer drainBody(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// waitForSubscription blocks until the viewer has completed the subscribe
// handshake or ctx ends.
func waitForSubscription(ctx context.Context, v *viewer.Viewer) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if v.State() == viewer.StateSubscribed {
				return nil
			}
		}
	}
}

// collectUpdates drains everything the subscriber received.
func collectUpdates(v *viewer.Viewer, stats *Stats) {
	for {
		select {
		case <-v.Updates():
			stats.UpdatesReceived++
		default:
			return
		}
	}
}

// verifyFanOut compares accepted submissions against updates delivered to
// the subscriber. A shortfall is reported, not fatal: the subscriber may
// have been dropped and caught up through a reconnect.
func verifyFanOut(ctx context.Context, stats *Stats) {
	if stats.UpdatesReceived >= stats.EventsSuccessful {
		logger.Get().Info(ctx, "fan-out verified",
			logger.Int("accepted", stats.EventsSuccessful),
			logger.Int("delivered", stats.UpdatesReceived))
		return
	}
	logger.Get().Warn(ctx, "subscriber received fewer live updates than accepted submissions",
		logger.Int("accepted", stats.EventsSuccessful),
		logger.Int("delivered", stats.UpdatesReceived))
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var successRate, eventsPerSecond float64

	if stats.EventsSubmitted > 0 {
		successRate = float64(stats.EventsSuccessful) / float64(stats.EventsSubmitted) * 100
	}
	if stats.Duration > 0 {
		eventsPerSecond = float64(stats.EventsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("eventsGenerated", stats.EventsGenerated),
		logger.Int("eventsSubmitted", stats.EventsSubmitted),
		logger.Int("eventsSuccessful", stats.EventsSuccessful),
		logger.Int("eventsRejected", stats.EventsRejected),
		logger.Int("eventsFailed", stats.EventsFailed),
		logger.Int("updatesReceived", stats.UpdatesReceived),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("eventsPerSecond", eventsPerSecond))
}
