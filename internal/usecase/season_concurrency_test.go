package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
	"github.com/riskibarqy/league-season/internal/domain/season"
	"github.com/riskibarqy/league-season/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-season/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rendezvousRepository holds the first n GetCurrent calls until all of them
// have read, so every caller works from the same snapshot.
type rendezvousRepository struct {
	*memory.SeasonRepository

	mu      sync.Mutex
	pending int
	ready   sync.WaitGroup
}

func newRendezvousRepository(next *memory.SeasonRepository, n int) *rendezvousRepository {
	r := &rendezvousRepository{SeasonRepository: next, pending: n}
	r.ready.Add(n)
	return r
}

func (r *rendezvousRepository) GetCurrent(ctx context.Context, competitionID string) (season.Season, bool, error) {
	item, exists, err := r.SeasonRepository.GetCurrent(ctx, competitionID)

	r.mu.Lock()
	hold := r.pending > 0
	if hold {
		r.pending--
	}
	r.mu.Unlock()

	if hold {
		r.ready.Done()
		r.ready.Wait()
	}
	return item, exists, err
}

func TestSeasonService_ConcurrentInstancesKeepStandingsConsistent(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture(t, homeWins)
	item := f.start(t)
	ctx := context.Background()

	shared := newRendezvousRepository(f.seasons, 2)
	instance := func() *SeasonService {
		// Separate lock sets stand in for separate processes.
		svc := NewSeasonService(testCatalog(t), shared, nil, nil, nil, nil, nil, SeasonServiceConfig{}, logging.NewNop())
		svc.now = f.service.now
		return svc
	}
	first, second := instance(), instance()

	targets := []fixture.Fixture{managedFixtureInRound(t, item, 1), backgroundFixtureInRound(t, item, 1)}
	services := []*SeasonService{first, second}

	var wg sync.WaitGroup
	errs := make([]error, len(targets))
	for i := range targets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = services[i].ResolveFixture(ctx, ResolveFixtureInput{
				CompetitionID: testLeagueID,
				FixtureID:     targets[i].ID,
				HomeScore:     2,
				AwayScore:     1,
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "writer %d", i)
	}

	stored, exists, err := f.seasons.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, exists)

	for _, target := range targets {
		got, _ := stored.Fixture(target.ID)
		assert.True(t, got.IsFinished(), "fixture %s", target.ID)
	}
	assert.Equal(t, 2, stored.CurrentRound, "a finished round must advance the counter")
	assert.Equal(t, item.Version+2, stored.Version)

	played := 0
	for _, row := range stored.Standings {
		played += row.Played
	}
	assert.Equal(t, 4, played, "standings must count both results")
}

func TestSeasonService_ResolveFixture_ConcurrentSameFixture(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture(t, homeWins)
	item := f.start(t)
	ctx := context.Background()
	target := managedFixtureInRound(t, item, 1)

	const writers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		conflict int
	)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.ResolveFixture(ctx, ResolveFixtureInput{CompetitionID: testLeagueID, FixtureID: target.ID, HomeScore: 1})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrConflict) && errors.Is(err, fixture.ErrAlreadyResolved):
				conflict++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, writers-1, conflict)

	stored, err := f.service.GetCurrentSeason(ctx, testLeagueID)
	require.NoError(t, err)
	assert.Equal(t, item.Version+1, stored.Version)
}

func TestSeasonService_SchedulesByeRounds(t *testing.T) {
	t.Parallel()

	const competitionID = "odd-league"
	catalog, err := NewCompetitionCatalog([]season.Competition{{
		ID:   competitionID,
		Name: "Odd League",
		Competitors: []competitor.Competitor{
			{ID: "club-a", Name: "Club A"},
			{ID: "club-b", Name: "Club B"},
			{ID: "club-c", Name: "Club C"},
			{ID: "club-d", Name: "Club D"},
			{ID: "club-e", Name: "Club E"},
		},
		ManagedCompetitorID: testManaged,
		IntervalDays:        7,
		SeasonStart:         time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	scheduler := &recordingScheduler{}
	service := NewSeasonService(
		catalog,
		memory.NewSeasonRepository(),
		memory.NewPlayerStatsRepository(),
		homeWins,
		scheduler,
		nil,
		nil,
		SeasonServiceConfig{SimulationWorkers: 2},
		logging.NewNop(),
	)

	_, err = service.StartSeason(context.Background(), StartSeasonInput{CompetitionID: competitionID, Year: 2026})
	require.NoError(t, err)
	final := playOutSeason(t, service, competitionID)

	var byes []int
	for round := 1; round <= final.TotalRounds(); round++ {
		involved := false
		for _, f := range fixture.ByRound(final.Fixtures, round) {
			if f.Involves(testManaged) {
				involved = true
			}
		}
		if !involved {
			byes = append(byes, round)
		}
	}
	require.NotEmpty(t, byes, "an odd roster gives the managed club a bye")

	for _, round := range byes {
		assert.Contains(t, scheduler.rounds, round, "bye round %d was never queued", round)
	}
}
