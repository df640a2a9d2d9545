package cache

import (
	"context"

	"github.com/riskibarqy/league-season/internal/domain/fixture"
	"github.com/riskibarqy/league-season/internal/domain/playerstats"
	"github.com/riskibarqy/league-season/internal/domain/season"
	basecache "github.com/riskibarqy/league-season/internal/platform/cache"
)

// SeasonRepository caches season reads and drops every cached view of a
// competition on write.
type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

type cachedSeason struct {
	value  season.Season
	exists bool
}

func (r *SeasonRepository) GetCurrent(ctx context.Context, competitionID string) (season.Season, bool, error) {
	key := "season:current:" + competitionID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetCurrent(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return cachedSeason{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return season.Season{}, false, err
	}

	cached, _ := v.(cachedSeason)
	return cached.value.Clone(), cached.exists, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	key := "season:id:" + seasonID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return cachedSeason{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return season.Season{}, false, err
	}

	cached, _ := v.(cachedSeason)
	return cached.value.Clone(), cached.exists, nil
}

func (r *SeasonRepository) ListByCompetition(ctx context.Context, competitionID string) ([]season.Season, error) {
	key := "season:list:" + competitionID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByCompetition(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return cloneSeasons(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]season.Season)
	return cloneSeasons(items), nil
}

func (r *SeasonRepository) Create(ctx context.Context, item season.Season) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.CompetitionID, item.ID)
	return nil
}

func (r *SeasonRepository) SaveResults(ctx context.Context, seasonID string, resolved []fixture.Fixture, progress season.Progress) error {
	err := r.next.SaveResults(ctx, seasonID, resolved, progress)
	// A lost race still means the cached copy is stale.
	r.invalidateSeason(ctx, seasonID, resolved)
	return err
}

func (r *SeasonRepository) SaveProgress(ctx context.Context, seasonID string, progress season.Progress) error {
	err := r.next.SaveProgress(ctx, seasonID, progress)
	r.invalidateSeason(ctx, seasonID, nil)
	return err
}

func (r *SeasonRepository) Rollover(ctx context.Context, closed []season.Season, opened []season.Season) error {
	err := r.next.Rollover(ctx, closed, opened)
	for _, item := range append(append([]season.Season(nil), closed...), opened...) {
		r.invalidate(ctx, item.CompetitionID, item.ID)
	}
	return err
}

func (r *SeasonRepository) invalidateSeason(ctx context.Context, seasonID string, resolved []fixture.Fixture) {
	competitionID := ""
	for _, item := range resolved {
		if item.CompetitionID != "" {
			competitionID = item.CompetitionID
			break
		}
	}
	if competitionID == "" {
		if v, ok := r.cache.Get(ctx, "season:id:"+seasonID); ok {
			if cached, ok := v.(cachedSeason); ok {
				competitionID = cached.value.CompetitionID
			}
		}
	}
	if competitionID == "" {
		// Unknown competition: fall back to dropping every season view.
		r.cache.DeletePrefix(ctx, "season:")
		return
	}
	r.invalidate(ctx, competitionID, seasonID)
}

func (r *SeasonRepository) invalidate(ctx context.Context, competitionID, seasonID string) {
	r.cache.Delete(ctx, "season:current:"+competitionID)
	r.cache.Delete(ctx, "season:list:"+competitionID)
	r.cache.Delete(ctx, "season:id:"+seasonID)
}

func cloneSeasons(items []season.Season) []season.Season {
	out := make([]season.Season, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

// PlayerStatsRepository caches per-competitor stat lists.
type PlayerStatsRepository struct {
	next  playerstats.Repository
	cache *basecache.Store
}

func NewPlayerStatsRepository(next playerstats.Repository, cache *basecache.Store) *PlayerStatsRepository {
	return &PlayerStatsRepository{next: next, cache: cache}
}

func (r *PlayerStatsRepository) ListBySeasonAndCompetitor(ctx context.Context, seasonID, competitorID string) ([]playerstats.SeasonStats, error) {
	key := "playerstats:" + seasonID + ":" + competitorID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeasonAndCompetitor(ctx, seasonID, competitorID)
		if err != nil {
			return nil, err
		}
		return append([]playerstats.SeasonStats(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]playerstats.SeasonStats)
	return append([]playerstats.SeasonStats(nil), items...), nil
}

func (r *PlayerStatsRepository) UpsertSeasonStats(ctx context.Context, stats []playerstats.SeasonStats) error {
	if err := r.next.UpsertSeasonStats(ctx, stats); err != nil {
		return err
	}
	for _, item := range stats {
		r.cache.Delete(ctx, "playerstats:"+item.SeasonID+":"+item.CompetitorID)
	}
	return nil
}
