package playerstats

import "context"

type Repository interface {
	ListBySeasonAndCompetitor(ctx context.Context, seasonID, competitorID string) ([]SeasonStats, error)
	UpsertSeasonStats(ctx context.Context, stats []SeasonStats) error
}
