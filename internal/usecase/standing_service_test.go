package usecase

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/season"
	"github.com/riskibarqy/league-season/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-season/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandingService_GetStandings(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture(t, homeWins)
	item := f.start(t)
	ctx := context.Background()
	first := managedFixtureInRound(t, item, 1)
	_, err := f.service.ResolveFixture(ctx, ResolveFixtureInput{CompetitionID: testLeagueID, FixtureID: first.ID, HomeScore: 0, AwayScore: 2})
	require.NoError(t, err)

	service := NewStandingService(f.service.catalog, f.seasons, logging.NewNop())
	view, err := service.GetStandings(ctx, testLeagueID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, view.SeasonID)
	require.Len(t, view.Rows, 4)
	assert.Equal(t, first.AwayCompetitorID, view.Rows[0].CompetitorID)
	assert.Equal(t, 3, view.Rows[0].Points)
	assert.Equal(t, 2, view.Rows[0].GoalDifference)
}

func TestStandingService_GetStandings_RecomputesIncompleteTable(t *testing.T) {
	t.Parallel()

	catalog := testCatalog(t)
	comp, err := catalog.Get(testLeagueID)
	require.NoError(t, err)
	item, err := season.New(season.NewSeasonInput{
		CompetitionID: testLeagueID,
		Year:          2026,
		Competitors:   comp.Competitors,
		Start:         comp.SeasonStart,
		IntervalDays:  7,
		Now:           comp.SeasonStart,
	})
	require.NoError(t, err)

	first := managedFixtureInRound(t, item, 1)
	resolved, err := first.Resolve(3, 1, nil, comp.SeasonStart)
	require.NoError(t, err)
	for i := range item.Fixtures {
		if item.Fixtures[i].ID == first.ID {
			item.Fixtures[i] = resolved
		}
	}
	item.Standings = nil

	service := NewStandingService(catalog, memory.NewSeasonRepository(item), logging.NewNop())
	view, err := service.GetStandings(context.Background(), testLeagueID)
	require.NoError(t, err)
	require.Len(t, view.Rows, 4)
	assert.Equal(t, first.HomeCompetitorID, view.Rows[0].CompetitorID)
	assert.Equal(t, 1, view.Rows[0].Played)
}

func TestStandingService_QualificationPreview(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture(t, homeWins)
	f.start(t)
	service := NewStandingService(f.service.catalog, f.seasons, logging.NewNop())

	preview, err := service.QualificationPreview(context.Background(), testLeagueID)
	require.NoError(t, err)
	require.Len(t, preview, 1)
	assert.Equal(t, testCupID, preview[0].Competition)
	assert.Equal(t, []string{"club-a", "club-b"}, preview[0].CompetitorIDs)

	_, err = service.QualificationPreview(context.Background(), testCupID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cup without season, got %v", err)
	}
}

func TestCompetitionCatalog(t *testing.T) {
	t.Parallel()

	catalog := testCatalog(t)
	assert.Len(t, catalog.List(), 2)
	assert.Len(t, catalog.Primary(), 1)
	assert.Equal(t, testManaged, catalog.ManagedCompetitor(testLeagueID))
	assert.Equal(t, testManaged, catalog.ManagedCompetitor(testCupID))
	assert.Equal(t, 7, catalog.IntervalDays(testLeagueID))
	assert.Equal(t, 0, catalog.IntervalDays(testCupID))

	roster := []competitor.Competitor{{ID: "x", Name: "X"}, {ID: "y", Name: "Y"}}
	tests := []struct {
		name  string
		items []season.Competition
	}{
		{name: "duplicate id", items: []season.Competition{{ID: "a", Competitors: roster}, {ID: "a"}}},
		{name: "managed outside roster", items: []season.Competition{{ID: "a", Competitors: roster, ManagedCompetitorID: "z"}}},
		{name: "unknown target", items: []season.Competition{{ID: "a", Competitors: roster, Qualifications: []season.QualificationRule{{Competition: "b", From: 1, To: 2}}}}},
		{name: "primary target", items: []season.Competition{
			{ID: "a", Competitors: roster, Qualifications: []season.QualificationRule{{Competition: "b", From: 1, To: 2}}},
			{ID: "b", Competitors: roster},
		}},
		{name: "invalid range", items: []season.Competition{
			{ID: "a", Competitors: roster, Qualifications: []season.QualificationRule{{Competition: "b", From: 2, To: 1}}},
			{ID: "b"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCompetitionCatalog(tt.items)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
