package service

import (
	"context"

	"github.com/matchpulse/liveticker/internal/auth"
	"github.com/matchpulse/liveticker/internal/domain/model"
	"github.com/matchpulse/liveticker/pkg/logger"
)

// SeedDemo loads a couple of sample commentary events so a fresh process has
// something to show. Intended for demos and local development only.
func (s *Service) SeedDemo(ctx context.Context) {
	seeder := &auth.Principal{Subject: "seed", Role: auth.RoleAdmin}
	q4a := "Q4 12:30"
	q4b := "Q4 10:00"

	samples := []model.EventInput{
		{
			MatchID:    "match-001",
			TeamHome:   "Lakers",
			TeamAway:   "Warriors",
			ScoreHome:  95,
			ScoreAway:  95,
			Commentary: "Timeout called by Warriors. This is getting intense!",
			MatchTime:  &q4a,
			IsActive:   true,
		},
		{
			MatchID:    "match-001",
			TeamHome:   "Lakers",
			TeamAway:   "Warriors",
			ScoreHome:  98,
			ScoreAway:  95,
			Commentary: "LeBron James hits a crucial three-pointer with 2 minutes remaining! The crowd goes wild!",
			MatchTime:  &q4b,
			IsActive:   true,
		},
	}

	for _, in := range samples {
		if _, err := s.Submit(ctx, in, seeder); err != nil {
			s.log.Warn(ctx, "seed event rejected", logger.Error(err))
		}
	}
	s.log.Info(ctx, "demo commentary seeded", logger.Int("events", len(samples)))
}
