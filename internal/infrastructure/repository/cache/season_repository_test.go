package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/league-season/internal/domain/playerstats"
	"github.com/riskibarqy/league-season/internal/domain/season"
	playerstatsmock "github.com/riskibarqy/league-season/internal/mocks/domain/playerstats"
	seasonmock "github.com/riskibarqy/league-season/internal/mocks/domain/season"
	basecache "github.com/riskibarqy/league-season/internal/platform/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSeasonRepository_CachesCurrentUntilWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	item := season.Season{ID: "liga-2026", CompetitionID: "liga", Year: 2026, CurrentRound: 1, IsCurrent: true}

	next := seasonmock.NewRepository(t)
	next.On("GetCurrent", mock.Anything, "liga").Return(item, true, nil).Twice()
	next.On("SaveProgress", mock.Anything, "liga-2026", mock.Anything).Return(nil).Once()
	next.On("GetByID", mock.Anything, "liga-2026").Return(item, true, nil).Once()

	repo := NewSeasonRepository(next, basecache.NewStore(time.Minute))

	for range 3 {
		got, exists, err := repo.GetCurrent(ctx, "liga")
		require.NoError(t, err)
		require.True(t, exists)
		assert.Equal(t, "liga-2026", got.ID)
	}

	// Loading by id lets SaveProgress find the competition to invalidate.
	_, _, err := repo.GetByID(ctx, "liga-2026")
	require.NoError(t, err)

	require.NoError(t, repo.SaveProgress(ctx, "liga-2026", season.Progress{CurrentRound: 2}))

	_, _, err = repo.GetCurrent(ctx, "liga")
	require.NoError(t, err)
}

func TestSeasonRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	items := []season.Season{{ID: "liga-2026", CompetitionID: "liga", Year: 2026}}

	next := seasonmock.NewRepository(t)
	next.On("ListByCompetition", mock.Anything, "liga").Return(items, nil).Once()

	repo := NewSeasonRepository(next, basecache.NewStore(time.Minute))

	first, err := repo.ListByCompetition(ctx, "liga")
	require.NoError(t, err)
	first[0].Year = 1999

	second, err := repo.ListByCompetition(ctx, "liga")
	require.NoError(t, err)
	assert.Equal(t, 2026, second[0].Year)
}

func TestPlayerStatsRepository_InvalidatesOnUpsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rows := []playerstats.SeasonStats{{SeasonID: "s1", CompetitorID: "c1", PlayerID: "p1", Goals: 1}}

	next := playerstatsmock.NewRepository(t)
	next.On("ListBySeasonAndCompetitor", mock.Anything, "s1", "c1").Return(rows, nil).Twice()
	next.On("UpsertSeasonStats", mock.Anything, rows).Return(nil).Once()

	repo := NewPlayerStatsRepository(next, basecache.NewStore(time.Minute))

	for range 2 {
		got, err := repo.ListBySeasonAndCompetitor(ctx, "s1", "c1")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}

	require.NoError(t, repo.UpsertSeasonStats(ctx, rows))

	_, err := repo.ListBySeasonAndCompetitor(ctx, "s1", "c1")
	require.NoError(t, err)
}
