package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/league-season/internal/domain/playerstats"
)

type PlayerStatsRepository struct {
	mu    sync.RWMutex
	stats map[string]playerstats.SeasonStats
}

func NewPlayerStatsRepository() *PlayerStatsRepository {
	return &PlayerStatsRepository{stats: make(map[string]playerstats.SeasonStats)}
}

func playerStatsKey(seasonID, competitorID, playerID string) string {
	return seasonID + "|" + competitorID + "|" + playerID
}

func (r *PlayerStatsRepository) ListBySeasonAndCompetitor(_ context.Context, seasonID, competitorID string) ([]playerstats.SeasonStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.SeasonStats, 0)
	for _, item := range r.stats {
		if item.SeasonID == seasonID && item.CompetitorID == competitorID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

func (r *PlayerStatsRepository) UpsertSeasonStats(_ context.Context, stats []playerstats.SeasonStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range stats {
		r.stats[playerStatsKey(item.SeasonID, item.CompetitorID, item.PlayerID)] = item
	}
	return nil
}
