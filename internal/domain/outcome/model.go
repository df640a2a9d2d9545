package outcome

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
)

var ErrInvalidOutcome = errors.New("invalid match outcome")

// Outcome is what a producer reports for one fixture.
type Outcome struct {
	HomeScore int
	AwayScore int
	Events    []fixture.Event
}

func (o Outcome) Validate(f fixture.Fixture) error {
	if o.HomeScore < 0 || o.AwayScore < 0 {
		return errors.Wrapf(ErrInvalidOutcome, "fixture=%s negative score %d-%d", f.ID, o.HomeScore, o.AwayScore)
	}

	goals := map[string]int{}
	for _, event := range o.Events {
		if event.CompetitorID != f.HomeCompetitorID && event.CompetitorID != f.AwayCompetitorID {
			return errors.Wrapf(ErrInvalidOutcome, "fixture=%s event for foreign competitor %s", f.ID, event.CompetitorID)
		}
		if event.Type == fixture.EventGoal {
			goals[event.CompetitorID]++
		}
	}
	if len(goals) == 0 {
		return nil
	}
	if goals[f.HomeCompetitorID] != o.HomeScore || goals[f.AwayCompetitorID] != o.AwayScore {
		return errors.Wrapf(ErrInvalidOutcome, "fixture=%s goal events do not match score %d-%d", f.ID, o.HomeScore, o.AwayScore)
	}
	return nil
}

// Producer resolves a fixture into a result. Implementations may block.
type Producer interface {
	Produce(ctx context.Context, f fixture.Fixture) (Outcome, error)
}

type ProducerFunc func(ctx context.Context, f fixture.Fixture) (Outcome, error)

func (fn ProducerFunc) Produce(ctx context.Context, f fixture.Fixture) (Outcome, error) {
	return fn(ctx, f)
}
