// Package service provides the core application service that implements the
// dependencies required by the HTTP API and the WebSocket gateway.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/matchpulse/liveticker/internal/adapters/repository"
	"github.com/matchpulse/liveticker/internal/adapters/ws"
	"github.com/matchpulse/liveticker/internal/auth"
	"github.com/matchpulse/liveticker/internal/domain/model"
	"github.com/matchpulse/liveticker/pkg/logger"
	"github.com/matchpulse/liveticker/pkg/metrics"
)

// Service owns the commentary feed and its fan-out. One instance exists per
// process; tests construct isolated instances.
//
// A single mutex covers both append-then-publish and
// snapshot-then-register, which preserves the ordering guarantees the
// reference system got from its single-threaded event loop: events reach
// every subscriber in append order, and a subscriber's catch-up history
// always precedes any event published after it subscribed.
type Service struct {
	mu sync.Mutex

	store repository.Store
	hub   *ws.Hub

	window    int
	retention int

	started   bool
	startedAt time.Time

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWindow sets the number of events a feed read returns.
func WithWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.window = n
		}
	}
}

// WithRetention caps the number of events retained in memory.
func WithRetention(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.retention = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStore injects a feed store. Used by tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithHub injects a fan-out hub. Used by tests.
func WithHub(hub *ws.Hub) Option {
	return func(s *Service) {
		if hub != nil {
			s.hub = hub
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		window:    repository.DefaultWindow,
		retention: 0, // store default unless configured
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the feed store and hub.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	if s.store == nil {
		storeOpts := []repository.Option{}
		if s.retention > 0 {
			storeOpts = append(storeOpts, repository.WithRetention(s.retention))
		}
		s.store = repository.NewFeedStore(storeOpts...)
	}
	if s.hub == nil {
		s.hub = ws.NewHub(s.log)
	}

	s.started = true
	s.startedAt = time.Now()
	s.log.Info(ctx, "commentary service started",
		logger.Int("window", s.window),
	)
	return nil
}

// Stop shuts the service down. Connected viewers are dropped; their clients
// reconnect against the next process.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.log.Info(context.Background(), "commentary service stopped")
}

// Submit authorizes, validates, appends, and broadcasts one commentary
// event. Validation happens before any store mutation, so the feed never
// holds a partially-invalid event. Delivery failures to individual viewers
// are absorbed by the hub and never surface here.
func (s *Service) Submit(ctx context.Context, input model.EventInput, p *auth.Principal) (model.Event, error) {
	if p == nil {
		return model.Event{}, ErrUnauthorized
	}
	if p.Role != auth.RoleAdmin && p.Role != auth.RoleEditor {
		return model.Event{}, fmt.Errorf("%w: role %q may not publish commentary", ErrForbidden, p.Role)
	}
	if err := validateInput(input); err != nil {
		return model.Event{}, err
	}

	s.mu.Lock()
	ev := s.store.Append(ctx, input)
	s.hub.Publish(ctx, ev)
	s.mu.Unlock()

	metrics.UpdateFeedSize(s.store.Count(ctx))
	s.log.Info(ctx, "commentary published",
		logger.String("event", ev.ID),
		logger.String("match", ev.MatchID),
		logger.String("editor", p.Subject),
	)
	return ev, nil
}

// ReadActive returns the visible feed window, newest-first. A non-positive
// limit, or one beyond the configured window, reads the full window.
func (s *Service) ReadActive(ctx context.Context, limit int) []model.Event {
	if limit <= 0 || limit > s.window {
		limit = s.window
	}
	return s.store.ReadActive(ctx, limit)
}

// Subscribe registers sub for live events after handing it the catch-up
// snapshot. Holding the submit mutex across snapshot, send, and register
// guarantees history precedes any later publish on this subscription.
func (s *Service) Subscribe(ctx context.Context, sub ws.Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.store.ReadActive(ctx, s.window)
	payload, err := ws.MarshalEnvelope(ws.MsgHistory, history)
	if err != nil {
		s.log.Error(ctx, "encode history", logger.Error(err))
		return
	}
	if !sub.Send(payload) {
		// Broken before it ever subscribed; let its client retry.
		s.log.Debug(ctx, "history delivery refused")
		sub.Close()
		return
	}
	s.hub.Add(sub)
	s.log.Debug(ctx, "viewer subscribed", logger.Int("history", len(history)))
}

// Unsubscribe removes sub from the fan-out set. Safe when never subscribed.
func (s *Service) Unsubscribe(_ context.Context, sub ws.Subscriber) {
	s.hub.Remove(sub)
}

// Subscribers returns the number of currently subscribed viewers.
func (s *Service) Subscribers() int {
	return s.hub.Count()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()

	s.mu.Lock()
	started := s.started
	startedAt := s.startedAt
	s.mu.Unlock()

	stats := map[string]interface{}{
		"started": started,
		"window":  s.window,
	}
	if started {
		events := s.store.Count(ctx)
		subs := s.hub.Count()
		stats["events"] = events
		stats["subscribers"] = subs
		stats["uptimeSeconds"] = int(time.Since(startedAt).Seconds())

		metrics.UpdateFeedSize(events)
		metrics.UpdateSubscriberCount(subs)
	}
	return stats
}

// validateInput mirrors the submitter-facing schema checks.
func validateInput(in model.EventInput) error {
	switch {
	case strings.TrimSpace(in.MatchID) == "":
		return fmt.Errorf("%w: missing matchId", ErrValidation)
	case strings.TrimSpace(in.TeamHome) == "":
		return fmt.Errorf("%w: missing teamHome", ErrValidation)
	case strings.TrimSpace(in.TeamAway) == "":
		return fmt.Errorf("%w: missing teamAway", ErrValidation)
	case strings.TrimSpace(in.Commentary) == "":
		return fmt.Errorf("%w: missing commentary", ErrValidation)
	case in.ScoreHome < 0:
		return fmt.Errorf("%w: scoreHome must be non-negative", ErrValidation)
	case in.ScoreAway < 0:
		return fmt.Errorf("%w: scoreAway must be non-negative", ErrValidation)
	}
	return nil
}
