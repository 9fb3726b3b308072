// Package repository defines the commentary feed store interface and errors.
package repository

import "time"

// Option applies a configuration option to the FeedStore.
type Option func(*FeedStore)

// WithRetention caps the number of events kept in memory. Values below the
// read window are raised to it so eviction never shrinks a windowed read.
func WithRetention(n int) Option {
	return func(s *FeedStore) {
		if n > 0 {
			s.retention = n
		}
	}
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *FeedStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDFunc overrides the event id generator. Used by tests.
func WithIDFunc(newID func() string) Option {
	return func(s *FeedStore) {
		if newID != nil {
			s.newID = newID
		}
	}
}
