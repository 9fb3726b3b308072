package feedsim

import "time"

// Config holds configuration for the feed simulation.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumEvents  int           // Number of commentary events to submit
	Workers    int           // Number of concurrent submitters
	Interval   time.Duration // Pause between submissions per worker
	Timeout    time.Duration // HTTP request timeout
	AuthSecret string        // Secret used to mint the submission token
	LogFile    string        // Log file for simulation output
	Verbose    bool          // Enable verbose logging
}

// Commentary is a submission payload.
type Commentary struct {
	MatchID    string  `json:"matchId"`
	TeamHome   string  `json:"teamHome"`
	TeamAway   string  `json:"teamAway"`
	ScoreHome  int     `json:"scoreHome"`
	ScoreAway  int     `json:"scoreAway"`
	Commentary string  `json:"commentary"`
	MatchTime  *string `json:"matchTime,omitempty"`
	IsActive   bool    `json:"isActive"`
}

// Stats holds simulation statistics.
type Stats struct {
	EventsGenerated  int
	EventsSubmitted  int
	EventsSuccessful int
	EventsRejected   int
	EventsFailed     int
	UpdatesReceived  int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
