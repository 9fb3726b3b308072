// Package repository defines the commentary feed store interface and errors.
package repository

import (
	"context"

	"github.com/matchpulse/liveticker/internal/domain/model"
)

// DefaultWindow is the number of events a feed read returns by default.
// It matches the window the viewer UI keeps on screen.
const DefaultWindow = 20

// Store provides append and windowed-read access to the commentary feed.
// The feed is append-only: no update or delete operation exists.
type Store interface {
	// Append assigns an id and creation timestamp to input, stores the
	// event, and returns the stored form. Input is validated before it
	// reaches the store; Append itself never fails.
	Append(ctx context.Context, input model.EventInput) model.Event

	// ReadActive returns up to limit events with IsActive set, ordered
	// newest-first by append order. A non-positive limit means
	// DefaultWindow. The result is a snapshot consistent at the moment of
	// the call; concurrent appends never produce duplicates or gaps in it.
	ReadActive(ctx context.Context, limit int) []model.Event

	// Count returns the number of events currently retained.
	Count(ctx context.Context) int
}
