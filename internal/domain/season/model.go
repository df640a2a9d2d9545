package season

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
	"github.com/riskibarqy/league-season/internal/domain/progression"
	"github.com/riskibarqy/league-season/internal/domain/schedule"
	"github.com/riskibarqy/league-season/internal/domain/standing"
)

var (
	ErrSeasonInProgress = errors.New("season still has scheduled fixtures")
	ErrSeasonClosed     = errors.New("season is closed")
	ErrUnknownFixture   = errors.New("fixture does not belong to season")
	ErrSeasonExists     = errors.New("season already exists")
	// ErrStaleSeason rejects a write computed from a season snapshot that
	// another writer has since replaced.
	ErrStaleSeason = errors.New("season was changed by another writer")
)

// Season is the persisted document for one competition year.
type Season struct {
	ID            string
	CompetitionID string
	Year          int
	CurrentDate   time.Time
	CurrentRound  int
	Competitors   []competitor.Competitor
	Fixtures      []fixture.Fixture
	Standings     []standing.Row
	IsCurrent     bool
	CreatedAt     time.Time
	ClosedAt      *time.Time
	// Version increases with every stored write of results or progress.
	Version int64
}

func SeasonID(competitionID string, year int) string {
	return fmt.Sprintf("%s-%d", strings.TrimSpace(competitionID), year)
}

type NewSeasonInput struct {
	CompetitionID string
	Year          int
	Competitors   []competitor.Competitor
	Start         time.Time
	IntervalDays  int
	Now           time.Time
}

// New builds a fresh current season with a full double round-robin and a
// zeroed table. Rosters smaller than two are rejected here even though the
// generator itself tolerates them.
func New(input NewSeasonInput) (Season, error) {
	if strings.TrimSpace(input.CompetitionID) == "" {
		return Season{}, errors.New("competition id is required")
	}
	if input.Year <= 0 {
		return Season{}, errors.Newf("season year must be > 0, got %d", input.Year)
	}
	if err := competitor.ValidateRoster(input.Competitors); err != nil {
		return Season{}, err
	}
	if len(input.Competitors) < 2 {
		return Season{}, errors.Wrapf(schedule.ErrInvalidCompetitorCount, "competition=%s needs at least 2 competitors, got %d", input.CompetitionID, len(input.Competitors))
	}

	id := SeasonID(input.CompetitionID, input.Year)
	fixtures, err := schedule.Generate(input.Competitors, schedule.Options{
		CompetitionID: input.CompetitionID,
		SeasonID:      id,
		Start:         input.Start,
		IntervalDays:  input.IntervalDays,
	})
	if err != nil {
		return Season{}, err
	}

	competitors := append([]competitor.Competitor(nil), input.Competitors...)
	return Season{
		ID:            id,
		CompetitionID: input.CompetitionID,
		Year:          input.Year,
		CurrentDate:   roundDate(fixtures, 1, input.Start),
		CurrentRound:  1,
		Competitors:   competitors,
		Fixtures:      fixtures,
		Standings:     standing.Initial(competitors).Rows,
		IsCurrent:     true,
		CreatedAt:     input.Now.UTC(),
	}, nil
}

func (s Season) Clone() Season {
	out := s
	out.Competitors = append([]competitor.Competitor(nil), s.Competitors...)
	out.Fixtures = fixture.CloneAll(s.Fixtures)
	out.Standings = standing.CloneRows(s.Standings)
	if s.ClosedAt != nil {
		v := *s.ClosedAt
		out.ClosedAt = &v
	}
	return out
}

func (s Season) Fixture(fixtureID string) (fixture.Fixture, bool) {
	item, _, ok := fixture.FindByID(s.Fixtures, fixtureID)
	return item, ok
}

func (s Season) Table() standing.Table {
	return standing.Table{Rows: s.Standings}
}

func (s Season) IsComplete() bool {
	return progression.SeasonComplete(s.Fixtures)
}

func (s Season) TotalRounds() int {
	return fixture.MaxRound(s.Fixtures)
}

// Progress is the mutable part of a season written after results land.
// Version is the season version it was computed from; repositories refuse it
// with ErrStaleSeason once the stored version has moved on.
type Progress struct {
	Standings    []standing.Row
	CurrentRound int
	CurrentDate  time.Time
	Version      int64
}

func (s Season) Progress() Progress {
	return Progress{
		Standings:    standing.CloneRows(s.Standings),
		CurrentRound: s.CurrentRound,
		CurrentDate:  s.CurrentDate,
		Version:      s.Version,
	}
}

// ApplyResults swaps in resolved fixtures, recomputes the whole table from the
// finished set and moves the round counter past any completed rounds. The
// receiver is left untouched.
func (s Season) ApplyResults(resolved []fixture.Fixture) (Season, []standing.Warning, error) {
	if !s.IsCurrent {
		return s, nil, errors.Wrapf(ErrSeasonClosed, "season=%s", s.ID)
	}

	out := s.Clone()
	for _, item := range resolved {
		_, idx, ok := fixture.FindByID(out.Fixtures, item.ID)
		if !ok {
			return s, nil, errors.Wrapf(ErrUnknownFixture, "season=%s fixture=%s", s.ID, item.ID)
		}
		if !out.Fixtures[idx].IsScheduled() {
			return s, nil, errors.Wrapf(fixture.ErrAlreadyResolved, "fixture=%s", item.ID)
		}
		out.Fixtures[idx] = item.Clone()
	}

	table := standing.Recompute(out.Fixtures, out.Competitors)
	out.Standings = table.Rows
	out.moveTo(progression.Advance(out.Fixtures, out.CurrentRound))
	return out, table.Warnings, nil
}

// AdvanceRound moves the round counter by one once the current round is complete.
func (s Season) AdvanceRound() (Season, error) {
	next, err := progression.NextRound(s.Fixtures, s.CurrentRound)
	if err != nil {
		return s, err
	}
	out := s.Clone()
	out.moveTo(next)
	return out, nil
}

func (s *Season) moveTo(round int) {
	s.CurrentRound = round
	s.CurrentDate = roundDate(s.Fixtures, round, s.CurrentDate)
}

// roundDate is the shared date of round, or fallback when the round is empty.
func roundDate(fixtures []fixture.Fixture, round int, fallback time.Time) time.Time {
	for _, item := range fixtures {
		if item.Round == round {
			return item.Date
		}
	}
	return fallback
}

// LastDate is the date of the final round.
func (s Season) LastDate() time.Time {
	var last time.Time
	for _, item := range s.Fixtures {
		if item.Date.After(last) {
			last = item.Date
		}
	}
	return last
}
