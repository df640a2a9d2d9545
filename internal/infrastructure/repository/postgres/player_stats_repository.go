package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-season/internal/domain/playerstats"
	qb "github.com/riskibarqy/league-season/internal/platform/querybuilder"
)

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) ListBySeasonAndCompetitor(ctx context.Context, seasonID, competitorID string) ([]playerstats.SeasonStats, error) {
	query, args, err := qb.Select("*").From("player_season_stats").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.Eq("competitor_id", competitorID),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list player season stats query")
	}

	var rows []playerSeasonStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "list player season stats season=%s competitor=%s", seasonID, competitorID)
	}

	out := make([]playerstats.SeasonStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerstats.SeasonStats{
			SeasonID:     row.SeasonID,
			CompetitorID: row.CompetitorID,
			PlayerID:     row.PlayerID,
			Appearances:  row.Appearances,
			Goals:        row.Goals,
			Assists:      row.Assists,
			YellowCards:  row.YellowCards,
			RedCards:     row.RedCards,
		})
	}
	return out, nil
}

func (r *PlayerStatsRepository) UpsertSeasonStats(ctx context.Context, stats []playerstats.SeasonStats) error {
	if len(stats) == 0 {
		return nil
	}

	models := make([]playerSeasonStatsInsertModel, 0, len(stats))
	for _, item := range stats {
		models = append(models, playerSeasonStatsInsertModel{
			SeasonID:     item.SeasonID,
			CompetitorID: item.CompetitorID,
			PlayerID:     item.PlayerID,
			Appearances:  item.Appearances,
			Goals:        item.Goals,
			Assists:      item.Assists,
			YellowCards:  item.YellowCards,
			RedCards:     item.RedCards,
		})
	}

	query, args, err := qb.InsertModels("player_season_stats", models, `ON CONFLICT (season_public_id, competitor_id, player_id)
DO UPDATE SET
    appearances = EXCLUDED.appearances,
    goals = EXCLUDED.goals,
    assists = EXCLUDED.assists,
    yellow_cards = EXCLUDED.yellow_cards,
    red_cards = EXCLUDED.red_cards,
    updated_at = NOW()`)
	if err != nil {
		return errors.Wrap(err, "build upsert player season stats query")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "upsert player season stats")
	}
	return nil
}
