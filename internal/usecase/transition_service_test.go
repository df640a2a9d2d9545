package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/playerstats"
	"github.com/riskibarqy/league-season/internal/domain/season"
	"github.com/riskibarqy/league-season/internal/platform/logging"
	"github.com/riskibarqy/league-season/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransitionFixture(t *testing.T) (seasonFixture, *TransitionService) {
	t.Helper()

	f := newSeasonFixture(t, homeWins)
	locks := &resilience.KeyedMutex{}
	f.service.locks = locks
	transition := NewTransitionService(
		f.service.catalog,
		f.seasons,
		f.stats,
		f.events,
		f.scheduler,
		locks,
		TransitionServiceConfig{ResetWorkers: 2},
		logging.NewNop(),
	)
	transition.now = func() time.Time { return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) }
	return f, transition
}

func TestTransitionService_Transition(t *testing.T) {
	t.Parallel()

	f, transition := newTransitionFixture(t)
	ctx := context.Background()
	f.start(t)
	final := playOutSeason(t, f.service, testLeagueID)

	require.NoError(t, f.stats.UpsertSeasonStats(ctx, []playerstats.SeasonStats{
		{SeasonID: final.ID, CompetitorID: testManaged, PlayerID: "a-fwd", Appearances: 6, Goals: 4},
	}))

	out, err := transition.Transition(ctx, TransitionInput{CompetitionID: testLeagueID})
	require.NoError(t, err)

	require.Len(t, out.Closed, 1)
	assert.Equal(t, final.ID, out.Closed[0].ID)
	assert.False(t, out.Closed[0].IsCurrent)
	require.NotNil(t, out.Closed[0].ClosedAt)

	require.Len(t, out.Opened, 2)
	primary, cup := out.Opened[0], out.Opened[1]
	assert.Equal(t, "test-league-2027", primary.ID)
	assert.Len(t, primary.Competitors, 4)
	assert.True(t, primary.Fixtures[0].Date.Equal(final.LastDate().AddDate(0, 0, 7)))
	assert.Equal(t, "test-cup-2027", cup.ID)
	require.Len(t, out.Qualifications, 1)
	assert.Equal(t, out.Qualifications[0].CompetitorIDs, []string{cup.Competitors[0].ID, cup.Competitors[1].ID})
	assert.Len(t, cup.Fixtures, 2)

	closed, exists, err := f.seasons.GetByID(ctx, final.ID)
	require.NoError(t, err)
	require.True(t, exists)
	assert.False(t, closed.IsCurrent)

	current, err := f.service.GetCurrentSeason(ctx, testLeagueID)
	require.NoError(t, err)
	assert.Equal(t, primary.ID, current.ID)

	history, err := f.service.ListSeasons(ctx, testLeagueID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2027, history[0].Year)

	reset, err := f.stats.ListBySeasonAndCompetitor(ctx, primary.ID, testManaged)
	require.NoError(t, err)
	require.Len(t, reset, 1)
	assert.True(t, reset[0].IsZero())
	assert.Equal(t, primary.ID, reset[0].SeasonID)

	assert.Contains(t, f.events.types(), EventSeasonClosed)
	// Nobody plays the cup by hand, so its first round is queued right away.
	assert.Contains(t, f.scheduler.seasons, cup.ID)
	assert.NotContains(t, f.scheduler.seasons, primary.ID)
}

func TestTransitionService_Transition_RequiresFinishedSeason(t *testing.T) {
	t.Parallel()

	f, transition := newTransitionFixture(t)
	ctx := context.Background()
	f.start(t)

	_, err := transition.Transition(ctx, TransitionInput{CompetitionID: testLeagueID})
	if !errors.Is(err, ErrConflict) || !errors.Is(err, season.ErrSeasonInProgress) {
		t.Fatalf("expected season in progress conflict, got %v", err)
	}

	current, err := f.service.GetCurrentSeason(ctx, testLeagueID)
	require.NoError(t, err)
	assert.Equal(t, "test-league-2026", current.ID)
}

func TestTransitionService_Transition_BlockedBySecondaryInProgress(t *testing.T) {
	t.Parallel()

	f, transition := newTransitionFixture(t)
	ctx := context.Background()
	f.start(t)
	playOutSeason(t, f.service, testLeagueID)

	_, err := transition.Transition(ctx, TransitionInput{CompetitionID: testLeagueID})
	require.NoError(t, err)

	playOutSeason(t, f.service, testLeagueID)
	_, err = transition.Transition(ctx, TransitionInput{CompetitionID: testLeagueID})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict while cup season is unfinished, got %v", err)
	}

	current, err := f.service.GetCurrentSeason(ctx, testLeagueID)
	require.NoError(t, err)
	assert.Equal(t, "test-league-2027", current.ID)
}

func TestTransitionService_Transition_Errors(t *testing.T) {
	t.Parallel()

	_, transition := newTransitionFixture(t)
	ctx := context.Background()

	_, err := transition.Transition(ctx, TransitionInput{CompetitionID: testCupID})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for secondary competition, got %v", err)
	}

	_, err = transition.Transition(ctx, TransitionInput{CompetitionID: testLeagueID})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without a current season, got %v", err)
	}
}
