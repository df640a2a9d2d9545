package season

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/schedule"
	"github.com/riskibarqy/league-season/internal/domain/standing"
)

type TransitionInput struct {
	Closing      Season
	Rules        []QualificationRule
	Year         int
	Start        time.Time
	IntervalDays int
	Now          time.Time
}

type TransitionResult struct {
	Closed         Season
	Primary        Season
	Secondary      []Season
	Qualifications []Qualification
	Skipped        []Qualification
	FinalTable     standing.Table
}

// Opened lists every season created by the transition.
func (r TransitionResult) Opened() []Season {
	out := make([]Season, 0, len(r.Secondary)+1)
	out = append(out, r.Primary)
	out = append(out, r.Secondary...)
	return out
}

// Transition closes a finished season and builds the next one plus one
// season per secondary competition that drew at least two qualifiers.
func Transition(input TransitionInput) (TransitionResult, error) {
	closing := input.Closing
	if !closing.IsCurrent {
		return TransitionResult{}, errors.Wrapf(ErrSeasonClosed, "season=%s", closing.ID)
	}
	if !closing.IsComplete() {
		return TransitionResult{}, errors.Wrapf(ErrSeasonInProgress, "season=%s", closing.ID)
	}

	table := standing.Recompute(closing.Fixtures, closing.Competitors)
	qualifications, err := Qualify(table, input.Rules)
	if err != nil {
		return TransitionResult{}, err
	}

	interval := input.IntervalDays
	if interval <= 0 {
		interval = schedule.DefaultIntervalDays
	}
	year := input.Year
	if year <= 0 {
		year = closing.Year + 1
	}
	start := input.Start
	if start.IsZero() {
		start = closing.LastDate().AddDate(0, 0, interval)
	}
	now := input.Now.UTC()

	primary, err := New(NewSeasonInput{
		CompetitionID: closing.CompetitionID,
		Year:          year,
		Competitors:   closing.Competitors,
		Start:         start,
		IntervalDays:  interval,
		Now:           now,
	})
	if err != nil {
		return TransitionResult{}, errors.Wrapf(err, "open next season competition=%s", closing.CompetitionID)
	}

	result := TransitionResult{
		Primary:        primary,
		Qualifications: qualifications,
		FinalTable:     table,
	}
	for _, q := range qualifications {
		entrants := competitor.Subset(closing.Competitors, q.CompetitorIDs)
		if len(entrants) < 2 {
			result.Skipped = append(result.Skipped, q)
			continue
		}
		secondary, err := New(NewSeasonInput{
			CompetitionID: q.Competition,
			Year:          year,
			Competitors:   entrants,
			Start:         start,
			IntervalDays:  interval,
			Now:           now,
		})
		if err != nil {
			return TransitionResult{}, errors.Wrapf(err, "open secondary competition=%s", q.Competition)
		}
		result.Secondary = append(result.Secondary, secondary)
	}

	closed := closing.Clone()
	closed.Standings = table.Rows
	closed.IsCurrent = false
	closed.ClosedAt = &now
	result.Closed = closed

	return result, nil
}
