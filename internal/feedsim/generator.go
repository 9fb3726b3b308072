package feedsim

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/matchpulse/liveticker/pkg/logger"
)

// Score progression constants.
const (
	quarterCount      = 4
	minutesPerQuarter = 12
	playTypeDivisor   = 6
)

// Play type cases.
const (
	caseTwoPointer   = 0
	caseThreePointer = 1
	caseFreeThrow    = 2
	caseTurnover     = 3
	caseTimeout      = 4
	caseFoul         = 5
)

var matchups = [][2]string{
	{"Lakers", "Warriors"},
	{"Celtics", "Heat"},
	{"Bucks", "Suns"},
	{"Nuggets", "Mavericks"},
}

// randomInt returns a uniform random int in [0, n) using crypto/rand.
func randomInt(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// generateCommentary produces a plausible play-by-play sequence for a
// single match: scores only move forward, the clock counts down, and the
// commentary text matches the play that produced it.
func generateCommentary(ctx context.Context, config *Config) []Commentary {
	logger.Get().Info(ctx, "generating commentary events", logger.Int("numEvents", config.NumEvents))

	teams := matchups[randomInt(int64(len(matchups)))]
	matchID := fmt.Sprintf("match-%03d", randomInt(900)+100)

	events := make([]Commentary, 0, config.NumEvents)
	scoreHome, scoreAway := 0, 0

	for i := 0; i < config.NumEvents; i++ {
		// Spread plays evenly across the game clock.
		progress := float64(i) / float64(config.NumEvents)
		quarter := int(progress*quarterCount) + 1
		if quarter > quarterCount {
			quarter = quarterCount
		}
		minute := minutesPerQuarter - int(progress*quarterCount*minutesPerQuarter)%minutesPerQuarter
		matchTime := fmt.Sprintf("Q%d %d:%02d", quarter, minute, randomInt(60))

		home := randomInt(2) == 0
		team := teams[0]
		if !home {
			team = teams[1]
		}

		var text string
		switch randomInt(playTypeDivisor) {
		case caseTwoPointer:
			text = fmt.Sprintf("%s convert a fast-break layup", team)
			if home {
				scoreHome += 2
			} else {
				scoreAway += 2
			}
		case caseThreePointer:
			text = fmt.Sprintf("%s knock down a three from the corner", team)
			if home {
				scoreHome += 3
			} else {
				scoreAway += 3
			}
		case caseFreeThrow:
			text = fmt.Sprintf("%s make both free throws", team)
			if home {
				scoreHome += 2
			} else {
				scoreAway += 2
			}
		case caseTurnover:
			text = fmt.Sprintf("Turnover by %s on the inbound", team)
		case caseTimeout:
			text = fmt.Sprintf("Timeout called by %s", team)
		case caseFoul:
			text = fmt.Sprintf("Shooting foul against %s", team)
		}

		mt := matchTime
		events = append(events, Commentary{
			MatchID:    matchID,
			TeamHome:   teams[0],
			TeamAway:   teams[1],
			ScoreHome:  scoreHome,
			ScoreAway:  scoreAway,
			Commentary: text,
			MatchTime:  &mt,
			IsActive:   true,
		})
	}

	logger.Get().Info(ctx, "generated commentary events",
		logger.String("matchId", matchID),
		logger.String("teams", teams[0]+" vs "+teams[1]),
		logger.Int("count", len(events)))
	return events
}
