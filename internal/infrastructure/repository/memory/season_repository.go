package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
	"github.com/riskibarqy/league-season/internal/domain/season"
)

// SeasonRepository keeps season documents in process. Every method works on
// copies so callers never share slices with the store.
type SeasonRepository struct {
	mu      sync.RWMutex
	seasons map[string]season.Season
}

func NewSeasonRepository(items ...season.Season) *SeasonRepository {
	seasons := make(map[string]season.Season, len(items))
	for _, item := range items {
		seasons[item.ID] = item.Clone()
	}
	return &SeasonRepository{seasons: seasons}
}

func (r *SeasonRepository) GetCurrent(_ context.Context, competitionID string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.seasons {
		if item.CompetitionID == competitionID && item.IsCurrent {
			return item.Clone(), true, nil
		}
	}
	return season.Season{}, false, nil
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.seasons[seasonID]
	if !ok {
		return season.Season{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *SeasonRepository) ListByCompetition(_ context.Context, competitionID string) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Season, 0)
	for _, item := range r.seasons {
		if item.CompetitionID == competitionID {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Year > out[j].Year
	})
	return out, nil
}

func (r *SeasonRepository) Create(_ context.Context, item season.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.seasons[item.ID]; exists {
		return errors.Wrapf(season.ErrSeasonExists, "season=%s", item.ID)
	}
	if item.IsCurrent {
		for id, existing := range r.seasons {
			if existing.CompetitionID == item.CompetitionID && existing.IsCurrent {
				return errors.Wrapf(season.ErrSeasonExists, "competition=%s already has current season %s", item.CompetitionID, id)
			}
		}
	}
	r.seasons[item.ID] = item.Clone()
	return nil
}

func (r *SeasonRepository) SaveResults(_ context.Context, seasonID string, resolved []fixture.Fixture, progress season.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.seasons[seasonID]
	if !ok {
		return errors.Wrapf(season.ErrUnknownFixture, "season=%s not found", seasonID)
	}

	// Validate the whole batch before touching anything.
	indexes := make([]int, 0, len(resolved))
	for _, res := range resolved {
		current, idx, found := fixture.FindByID(item.Fixtures, res.ID)
		if !found {
			return errors.Wrapf(season.ErrUnknownFixture, "season=%s fixture=%s", seasonID, res.ID)
		}
		if !current.IsScheduled() {
			return errors.Wrapf(fixture.ErrAlreadyResolved, "fixture=%s", res.ID)
		}
		indexes = append(indexes, idx)
	}
	if item.Version != progress.Version {
		return errors.Wrapf(season.ErrStaleSeason, "season=%s stored version %d, write based on %d", seasonID, item.Version, progress.Version)
	}

	next := item.Clone()
	for i, idx := range indexes {
		next.Fixtures[idx] = resolved[i].Clone()
	}
	applyProgress(&next, progress)
	r.seasons[seasonID] = next
	return nil
}

func (r *SeasonRepository) SaveProgress(_ context.Context, seasonID string, progress season.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.seasons[seasonID]
	if !ok {
		return errors.Newf("season=%s not found", seasonID)
	}
	if item.Version != progress.Version {
		return errors.Wrapf(season.ErrStaleSeason, "season=%s stored version %d, write based on %d", seasonID, item.Version, progress.Version)
	}
	next := item.Clone()
	applyProgress(&next, progress)
	r.seasons[seasonID] = next
	return nil
}

func (r *SeasonRepository) Rollover(_ context.Context, closed []season.Season, opened []season.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range opened {
		if _, exists := r.seasons[item.ID]; exists {
			return errors.Wrapf(season.ErrSeasonExists, "season=%s", item.ID)
		}
	}
	for _, item := range closed {
		stored, exists := r.seasons[item.ID]
		if !exists {
			return errors.Newf("season=%s not found", item.ID)
		}
		if stored.Version != item.Version {
			return errors.Wrapf(season.ErrStaleSeason, "season=%s stored version %d, close based on %d", item.ID, stored.Version, item.Version)
		}
	}

	for _, item := range closed {
		next := item.Clone()
		next.Version++
		r.seasons[item.ID] = next
	}
	for _, item := range opened {
		r.seasons[item.ID] = item.Clone()
	}
	return nil
}

func applyProgress(item *season.Season, progress season.Progress) {
	item.Version++
	item.CurrentRound = progress.CurrentRound
	item.CurrentDate = progress.CurrentDate
	if progress.Standings != nil {
		item.Standings = append(item.Standings[:0:0], progress.Standings...)
	}
}
