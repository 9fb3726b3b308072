package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matchpulse/liveticker/internal/domain/model"
)

// Default feed configuration constants.
const (
	defaultRetention = 1000
)

// FeedStore implements Store as an in-memory append-only slice.
//
// The reference for ordering is the append sequence, not wall-clock time:
// CreatedAt has finite resolution and two appends can share a timestamp, so
// slice position is the tie-breaker. A retention cap bounds memory; eviction
// drops the oldest entries and is invisible to windowed reads as long as the
// cap stays above the window.
type FeedStore struct {
	mu        sync.RWMutex
	events    []model.Event
	retention int
	now       func() time.Time
	newID     func() string
}

// compile-time interface check
var _ Store = (*FeedStore)(nil)

// NewFeedStore creates an empty feed store with configuration options.
func NewFeedStore(opts ...Option) *FeedStore {
	s := &FeedStore{
		retention: defaultRetention,
		now:       time.Now,
		newID:     uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.retention < DefaultWindow {
		s.retention = DefaultWindow
	}

	return s
}

// Append stores input as a new immutable event and returns the stored form.
func (s *FeedStore) Append(ctx context.Context, input model.EventInput) model.Event {
	ev := model.Event{
		ID:         s.newID(),
		MatchID:    input.MatchID,
		TeamHome:   input.TeamHome,
		TeamAway:   input.TeamAway,
		ScoreHome:  input.ScoreHome,
		ScoreAway:  input.ScoreAway,
		Commentary: input.Commentary,
		MatchTime:  input.MatchTime,
		IsActive:   input.IsActive,
		CreatedAt:  s.now().UTC(),
	}

	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.retention {
		// Drop the oldest entries. Copy so the retained window does not
		// pin the evicted backing array.
		keep := make([]model.Event, s.retention)
		copy(keep, s.events[len(s.events)-s.retention:])
		s.events = keep
	}
	s.mu.Unlock()

	return ev
}

// ReadActive returns up to limit active events, newest-first.
func (s *FeedStore) ReadActive(ctx context.Context, limit int) []model.Event {
	if limit <= 0 {
		limit = DefaultWindow
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Event, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		if s.events[i].IsActive {
			out = append(out, s.events[i])
		}
	}
	return out
}

// Count returns the number of retained events, active or not.
func (s *FeedStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
