package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/league-season/internal/domain/fixture"
	"github.com/riskibarqy/league-season/internal/domain/season"
)

func seededSeason(t *testing.T) season.Season {
	t.Helper()

	catalog := SeedCompetitions()
	item, err := season.New(season.NewSeasonInput{
		CompetitionID: catalog[0].ID,
		Year:          2026,
		Competitors:   catalog[0].Competitors,
		Start:         catalog[0].SeasonStart,
		IntervalDays:  catalog[0].IntervalDays,
		Now:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("new season: %v", err)
	}
	return item
}

func TestSeasonRepository_CreateAndGetCurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSeasonRepository()
	item := seededSeason(t)

	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, item); !errors.Is(err, season.ErrSeasonExists) {
		t.Fatalf("expected ErrSeasonExists, got %v", err)
	}

	got, ok, err := repo.GetCurrent(ctx, CompetitionIDLiga1Indonesia)
	if err != nil || !ok {
		t.Fatalf("get current: ok=%v err=%v", ok, err)
	}
	if got.ID != item.ID || len(got.Fixtures) != len(item.Fixtures) {
		t.Fatalf("unexpected season: %s with %d fixtures", got.ID, len(got.Fixtures))
	}

	got.Fixtures[0].Status = fixture.StatusFinished
	again, _, _ := repo.GetByID(ctx, item.ID)
	if again.Fixtures[0].Status != fixture.StatusScheduled {
		t.Fatalf("repository must hand out copies")
	}
}

func TestSeasonRepository_SaveResultsIsConditional(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	item := seededSeason(t)
	repo := NewSeasonRepository(item)

	first, err := item.Fixtures[0].Resolve(2, 0, nil, time.Now())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := item.Fixtures[1].Resolve(1, 1, nil, time.Now())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	next, _, err := item.ApplyResults([]fixture.Fixture{first})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := repo.SaveResults(ctx, item.ID, []fixture.Fixture{first}, next.Progress()); err != nil {
		t.Fatalf("save results: %v", err)
	}

	// A batch containing an already finished fixture writes nothing.
	replay, err := item.Fixtures[0].Resolve(9, 9, nil, time.Now())
	if err != nil {
		t.Fatalf("resolve replay: %v", err)
	}
	err = repo.SaveResults(ctx, item.ID, []fixture.Fixture{second, replay}, season.Progress{CurrentRound: 5})
	if !errors.Is(err, fixture.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}

	stored, _, _ := repo.GetByID(ctx, item.ID)
	home, away, _ := stored.Fixtures[0].Score()
	if home != 2 || away != 0 {
		t.Fatalf("first result must stay untouched, got %d-%d", home, away)
	}
	if !stored.Fixtures[1].IsScheduled() {
		t.Fatalf("rejected batch must not be partially applied")
	}
	if stored.CurrentRound != 1 {
		t.Fatalf("rejected batch must not write progress, got round %d", stored.CurrentRound)
	}
	if stored.Standings[0].Points != 3 {
		t.Fatalf("expected saved standings, got %+v", stored.Standings[0])
	}
}

func TestSeasonRepository_Rollover(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	item := seededSeason(t)
	repo := NewSeasonRepository(item)

	closed := item.Clone()
	closed.IsCurrent = false
	now := time.Now()
	closed.ClosedAt = &now

	opened := seededSeason(t)
	opened.ID = season.SeasonID(opened.CompetitionID, 2027)
	opened.Year = 2027

	if err := repo.Rollover(ctx, []season.Season{closed}, []season.Season{opened}); err != nil {
		t.Fatalf("rollover: %v", err)
	}

	current, ok, _ := repo.GetCurrent(ctx, CompetitionIDLiga1Indonesia)
	if !ok || current.ID != opened.ID {
		t.Fatalf("expected %s to be current, got %s", opened.ID, current.ID)
	}
	history, _ := repo.ListByCompetition(ctx, CompetitionIDLiga1Indonesia)
	if len(history) != 2 || history[0].Year != 2027 || history[1].IsCurrent {
		t.Fatalf("unexpected history: %+v", history)
	}

	if err := repo.Rollover(ctx, nil, []season.Season{opened}); !errors.Is(err, season.ErrSeasonExists) {
		t.Fatalf("expected ErrSeasonExists on duplicate open, got %v", err)
	}
}

func TestSeasonRepository_RejectsStaleWrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	item := seededSeason(t)
	repo := NewSeasonRepository(item)

	first, err := item.Fixtures[0].Resolve(1, 0, nil, time.Now())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := item.Fixtures[1].Resolve(0, 2, nil, time.Now())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	winner, _, err := item.ApplyResults([]fixture.Fixture{first})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := repo.SaveResults(ctx, item.ID, []fixture.Fixture{first}, winner.Progress()); err != nil {
		t.Fatalf("save results: %v", err)
	}

	// Computed from the same snapshot as the write above.
	loser, _, err := item.ApplyResults([]fixture.Fixture{second})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := repo.SaveResults(ctx, item.ID, []fixture.Fixture{second}, loser.Progress()); !errors.Is(err, season.ErrStaleSeason) {
		t.Fatalf("expected ErrStaleSeason, got %v", err)
	}
	if err := repo.SaveProgress(ctx, item.ID, loser.Progress()); !errors.Is(err, season.ErrStaleSeason) {
		t.Fatalf("expected ErrStaleSeason from SaveProgress, got %v", err)
	}

	stored, _, _ := repo.GetByID(ctx, item.ID)
	if stored.Version != item.Version+1 {
		t.Fatalf("expected version %d, got %d", item.Version+1, stored.Version)
	}
	if !stored.Fixtures[1].IsScheduled() {
		t.Fatalf("stale write must not store its fixtures")
	}

	closed := item.Clone()
	closed.IsCurrent = false
	if err := repo.Rollover(ctx, []season.Season{closed}, nil); !errors.Is(err, season.ErrStaleSeason) {
		t.Fatalf("expected ErrStaleSeason from rollover, got %v", err)
	}
	current, ok, _ := repo.GetCurrent(ctx, CompetitionIDLiga1Indonesia)
	if !ok || current.ID != item.ID {
		t.Fatalf("stale rollover must leave the season current")
	}
}
