package usecase

import (
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
	"github.com/riskibarqy/league-season/internal/domain/outcome"
	"github.com/riskibarqy/league-season/internal/domain/progression"
	"github.com/riskibarqy/league-season/internal/domain/schedule"
	"github.com/riskibarqy/league-season/internal/domain/season"
	"github.com/riskibarqy/league-season/internal/platform/resilience"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
)

// classify marks domain errors with the usecase sentinel the transport layer
// maps. The original chain stays intact for errors.Is.
func classify(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, fixture.ErrAlreadyResolved),
		errors.Is(err, progression.ErrOutOfOrderPlay),
		errors.Is(err, progression.ErrMatchdayIncomplete),
		errors.Is(err, progression.ErrSeasonComplete),
		errors.Is(err, season.ErrSeasonExists),
		errors.Is(err, season.ErrSeasonInProgress),
		errors.Is(err, season.ErrSeasonClosed),
		errors.Is(err, season.ErrStaleSeason):
		return errors.Mark(err, ErrConflict)
	case errors.Is(err, progression.ErrNotUserFixture),
		errors.Is(err, schedule.ErrInvalidCompetitorCount),
		errors.Is(err, competitor.ErrDuplicateCompetitor),
		errors.Is(err, fixture.ErrInvalidScore),
		errors.Is(err, outcome.ErrInvalidOutcome):
		return errors.Mark(err, ErrInvalidInput)
	case errors.Is(err, season.ErrUnknownFixture):
		return errors.Mark(err, ErrNotFound)
	case errors.Is(err, resilience.ErrCircuitOpen):
		return errors.Mark(err, ErrDependencyUnavailable)
	default:
		return err
	}
}
