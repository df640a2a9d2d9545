package progression

import (
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
)

var (
	ErrNotUserFixture     = errors.New("fixture does not involve the managed competitor")
	ErrOutOfOrderPlay     = errors.New("an earlier fixture of the managed competitor is still scheduled")
	ErrMatchdayIncomplete = errors.New("matchday is not complete")
	ErrSeasonComplete     = errors.New("season has no further rounds")
)

// Status summarises one matchday.
type Status struct {
	Round      int
	Finished   int
	Total      int
	IsComplete bool
}

// MatchdayStatus counts finished fixtures of round. A round with no fixtures
// is not complete.
func MatchdayStatus(all []fixture.Fixture, round int) Status {
	status := Status{Round: round}
	for _, item := range all {
		if item.Round != round {
			continue
		}
		status.Total++
		if item.IsFinished() {
			status.Finished++
		}
	}
	status.IsComplete = status.Total > 0 && status.Finished == status.Total
	return status
}

// NextUserFixture returns the chronologically earliest scheduled fixture of userID.
func NextUserFixture(all []fixture.Fixture, userID string) (fixture.Fixture, bool) {
	var (
		next  fixture.Fixture
		found bool
	)
	for _, item := range all {
		if !item.Involves(userID) || !item.IsScheduled() {
			continue
		}
		if !found || fixture.Less(item, next) {
			next = item
			found = true
		}
	}
	return next, found
}

// Check reports why target may not be played now, or nil when it may.
//
// A fixture is playable when it involves userID, is still scheduled, is the
// user's earliest scheduled fixture, and every round from currentRound up to
// the one before target's round is complete.
func Check(target fixture.Fixture, all []fixture.Fixture, userID string, currentRound int) error {
	if !target.Involves(userID) {
		return errors.Wrapf(ErrNotUserFixture, "fixture=%s competitor=%s", target.ID, userID)
	}
	if !target.IsScheduled() {
		return errors.Wrapf(fixture.ErrAlreadyResolved, "fixture=%s", target.ID)
	}

	next, ok := NextUserFixture(all, userID)
	if ok && next.ID != target.ID && fixture.Less(next, target) {
		return errors.Wrapf(ErrOutOfOrderPlay, "fixture=%s next=%s", target.ID, next.ID)
	}

	if currentRound < 1 {
		currentRound = 1
	}
	for round := currentRound; round < target.Round; round++ {
		status := MatchdayStatus(all, round)
		if status.Total > 0 && !status.IsComplete {
			return errors.Wrapf(ErrMatchdayIncomplete, "round=%d finished=%d/%d", round, status.Finished, status.Total)
		}
	}

	return nil
}

func CanPlay(target fixture.Fixture, all []fixture.Fixture, userID string, currentRound int) bool {
	return Check(target, all, userID, currentRound) == nil
}

// NextRound returns the round that follows currentRound once it is complete.
func NextRound(all []fixture.Fixture, currentRound int) (int, error) {
	status := MatchdayStatus(all, currentRound)
	if !status.IsComplete {
		return currentRound, errors.Wrapf(ErrMatchdayIncomplete, "round=%d finished=%d/%d", currentRound, status.Finished, status.Total)
	}
	if currentRound >= fixture.MaxRound(all) {
		return currentRound, errors.Wrapf(ErrSeasonComplete, "round=%d", currentRound)
	}
	return currentRound + 1, nil
}

// Advance moves past every consecutive complete round, stopping at the last
// round of the season.
func Advance(all []fixture.Fixture, currentRound int) int {
	if currentRound < 1 {
		currentRound = 1
	}
	for {
		next, err := NextRound(all, currentRound)
		if err != nil {
			return currentRound
		}
		currentRound = next
	}
}

// SeasonComplete reports whether every fixture is finished.
func SeasonComplete(all []fixture.Fixture) bool {
	if len(all) == 0 {
		return false
	}
	for _, item := range all {
		if !item.IsFinished() {
			return false
		}
	}
	return true
}
