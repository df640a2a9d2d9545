package schedule

import (
	"fmt"
	"time"

	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
)

const DefaultIntervalDays = 7

// Options controls how rounds are turned into dated fixtures.
type Options struct {
	CompetitionID string
	SeasonID      string
	Start         time.Time
	IntervalDays  int
}

func (o Options) interval() int {
	if o.IntervalDays <= 0 {
		return DefaultIntervalDays
	}
	return o.IntervalDays
}

// RoundDate is the shared date of every fixture in round (1-based).
func (o Options) RoundDate(round int) time.Time {
	if round < 1 {
		round = 1
	}
	return o.Start.AddDate(0, 0, (round-1)*o.interval())
}

// AssembleMatchdays dates each round so every fixture in a round shares one
// day, one interval apart. Date offsets follow Round.Number, so a mirrored
// second half numbered after the first continues the calendar without gaps.
func AssembleMatchdays(rounds []Round, opts Options) []fixture.Fixture {
	total := 0
	for _, round := range rounds {
		total += len(round.Pairings)
	}

	out := make([]fixture.Fixture, 0, total)
	for _, round := range rounds {
		date := opts.RoundDate(round.Number)
		for i, p := range round.Pairings {
			out = append(out, fixture.Fixture{
				ID:               FixtureID(opts.SeasonID, round.Number, i+1),
				CompetitionID:    opts.CompetitionID,
				SeasonID:         opts.SeasonID,
				Round:            round.Number,
				Date:             date,
				HomeCompetitorID: p.HomeID,
				AwayCompetitorID: p.AwayID,
				Status:           fixture.StatusScheduled,
			})
		}
	}
	return out
}

// FixtureID is stable for a season/round/slot triple, so regenerating a
// schedule reproduces the same ids.
func FixtureID(seasonID string, round, index int) string {
	if seasonID == "" {
		return fmt.Sprintf("r%02d-m%02d", round, index)
	}
	return fmt.Sprintf("%s-r%02d-m%02d", seasonID, round, index)
}

// Generate produces the full double round-robin fixture list for a roster.
func Generate(competitors []competitor.Competitor, opts Options) ([]fixture.Fixture, error) {
	rounds, err := DoubleRoundRobin(competitor.IDs(competitors))
	if err != nil {
		return nil, err
	}
	return AssembleMatchdays(rounds, opts), nil
}
