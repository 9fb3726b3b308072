// Package model contains domain models passed between layers.
package model

import "time"

// Event represents one narrated update for a match.
// JSON tags mirror the wire schema for /api/live-commentary.
type Event struct {
	ID         string    `json:"id"`         // assigned at append time
	MatchID    string    `json:"matchId"`    // match identifier; the feed itself is global
	TeamHome   string    `json:"teamHome"`   // home team display name
	TeamAway   string    `json:"teamAway"`   // away team display name
	ScoreHome  int       `json:"scoreHome"`  // non-negative
	ScoreAway  int       `json:"scoreAway"`  // non-negative
	Commentary string    `json:"commentary"` // free-text body, never empty
	MatchTime  *string   `json:"matchTime"`  // clock label, e.g. "Q4 10:00"; nullable
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// EventInput is the submitter-provided portion of an Event. ID and CreatedAt
// are assigned by the store; events are immutable once appended.
type EventInput struct {
	MatchID    string
	TeamHome   string
	TeamAway   string
	ScoreHome  int
	ScoreAway  int
	Commentary string
	MatchTime  *string
	IsActive   bool
}
