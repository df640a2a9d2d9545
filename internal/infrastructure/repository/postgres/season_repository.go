package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
	"github.com/riskibarqy/league-season/internal/domain/season"
	"github.com/riskibarqy/league-season/internal/domain/standing"
	qb "github.com/riskibarqy/league-season/internal/platform/querybuilder"
)

// SeasonRepository stores the season document across seasons,
// season_fixtures and season_standings.
type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetCurrent(ctx context.Context, competitionID string) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(
			qb.Eq("competition_id", competitionID),
			qb.Eq("is_current", true),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, errors.Wrap(err, "build get current season query")
	}
	return r.getOne(ctx, query, args...)
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq("public_id", seasonID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, errors.Wrap(err, "build get season by id query")
	}
	return r.getOne(ctx, query, args...)
}

func (r *SeasonRepository) ListByCompetition(ctx context.Context, competitionID string) ([]season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq("competition_id", competitionID)).
		OrderBy("year DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list seasons query")
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "list seasons competition=%s", competitionID)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		item, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *SeasonRepository) getOne(ctx context.Context, query string, args ...any) (season.Season, bool, error) {
	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, errors.Wrap(err, "get season")
	}

	item, err := r.hydrate(ctx, row)
	if err != nil {
		return season.Season{}, false, err
	}
	return item, true, nil
}

func (r *SeasonRepository) hydrate(ctx context.Context, row seasonTableModel) (season.Season, error) {
	fixtures, err := r.listFixtures(ctx, row.PublicID)
	if err != nil {
		return season.Season{}, err
	}
	standings, err := r.listStandings(ctx, row.PublicID)
	if err != nil {
		return season.Season{}, err
	}

	competitors := make([]competitor.Competitor, 0, len(row.CompetitorIDs))
	for i, id := range row.CompetitorIDs {
		name := id
		if i < len(row.CompetitorNames) {
			name = row.CompetitorNames[i]
		}
		competitors = append(competitors, competitor.Competitor{ID: id, Name: name})
	}

	return season.Season{
		ID:            row.PublicID,
		CompetitionID: row.CompetitionID,
		Year:          row.Year,
		CurrentDate:   row.CurrentDate.UTC(),
		CurrentRound:  row.CurrentRound,
		Competitors:   competitors,
		Fixtures:      fixtures,
		Standings:     standings,
		IsCurrent:     row.IsCurrent,
		CreatedAt:     row.CreatedAt.UTC(),
		ClosedAt:      nullTimeToTimePtr(row.ClosedAt),
		Version:       row.Version,
	}, nil
}

func (r *SeasonRepository) listFixtures(ctx context.Context, seasonID string) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("season_fixtures").
		Where(qb.Eq("season_public_id", seasonID)).
		OrderBy("round", "match_date", "public_id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list season fixtures query")
	}

	var rows []seasonFixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "list season fixtures season=%s", seasonID)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		events, err := decodeEvents(row.Events)
		if err != nil {
			return nil, errors.Wrapf(err, "fixture=%s", row.PublicID)
		}
		out = append(out, fixture.Fixture{
			ID:               row.PublicID,
			CompetitionID:    row.CompetitionID,
			SeasonID:         row.SeasonID,
			Round:            row.Round,
			Date:             row.MatchDate.UTC(),
			HomeCompetitorID: row.HomeCompetitorID,
			AwayCompetitorID: row.AwayCompetitorID,
			Status:           fixture.NormalizeStatus(row.Status),
			HomeScore:        nullIntToPtr(row.HomeScore),
			AwayScore:        nullIntToPtr(row.AwayScore),
			Events:           events,
			FinishedAt:       nullTimeToTimePtr(row.FinishedAt),
		})
	}
	return out, nil
}

func (r *SeasonRepository) listStandings(ctx context.Context, seasonID string) ([]standing.Row, error) {
	query, args, err := qb.Select("*").From("season_standings").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("position", "id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list season standings query")
	}

	var rows []seasonStandingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "list season standings season=%s", seasonID)
	}

	out := make([]standing.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Row{
			CompetitorID:   row.CompetitorID,
			Played:         row.Played,
			Won:            row.Won,
			Drawn:          row.Drawn,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
			Form:           decodeForm(row.Form),
			Position:       row.Position,
		})
	}
	return out, nil
}

func (r *SeasonRepository) Create(ctx context.Context, item season.Season) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx create season")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertSeason(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit create season tx")
	}
	return nil
}

func (r *SeasonRepository) SaveResults(ctx context.Context, seasonID string, resolved []fixture.Fixture, progress season.Progress) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx save fixture results")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range resolved {
		events, err := encodeEvents(item.Events)
		if err != nil {
			return err
		}
		home, away, ok := item.Score()
		if !ok {
			return errors.Wrapf(fixture.ErrInvalidScore, "fixture=%s has no final score", item.ID)
		}

		query, args, err := qb.Update("season_fixtures").
			Set("status", fixture.StatusFinished).
			Set("home_score", home).
			Set("away_score", away).
			Set("events", events).
			Set("finished_at", item.FinishedAt).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("season_public_id", seasonID),
				qb.Eq("public_id", item.ID),
				qb.EqLiteral("status", fixture.StatusScheduled),
			).
			ToSQL()
		if err != nil {
			return errors.Wrap(err, "build resolve fixture query")
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return errors.Wrapf(err, "resolve fixture=%s", item.ID)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return errors.Wrapf(err, "rows affected fixture=%s", item.ID)
		}
		if affected == 0 {
			return errors.Wrapf(fixture.ErrAlreadyResolved, "fixture=%s", item.ID)
		}
	}

	if err := writeProgress(ctx, tx, seasonID, progress); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit save fixture results tx")
	}
	return nil
}

func (r *SeasonRepository) SaveProgress(ctx context.Context, seasonID string, progress season.Progress) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx save season progress")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := writeProgress(ctx, tx, seasonID, progress); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit save season progress tx")
	}
	return nil
}

func (r *SeasonRepository) Rollover(ctx context.Context, closed []season.Season, opened []season.Season) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx season rollover")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range closed {
		closedAt := time.Now().UTC()
		if item.ClosedAt != nil {
			closedAt = item.ClosedAt.UTC()
		}
		query, args, err := qb.Update("seasons").
			Set("is_current", false).
			Set("closed_at", closedAt).
			SetExpr("version", "version + 1").
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("public_id", item.ID),
				qb.Eq("version", item.Version),
			).
			ToSQL()
		if err != nil {
			return errors.Wrap(err, "build close season query")
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return errors.Wrapf(err, "close season=%s", item.ID)
		}
		if affected, err := result.RowsAffected(); err == nil && affected == 0 {
			return errors.Wrapf(season.ErrStaleSeason, "season=%s changed before close", item.ID)
		}
		if err := replaceStandings(ctx, tx, item.ID, item.Standings); err != nil {
			return err
		}
	}

	for _, item := range opened {
		if err := insertSeason(ctx, tx, item); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit season rollover tx")
	}
	return nil
}

func insertSeason(ctx context.Context, tx *sqlx.Tx, item season.Season) error {
	ids := make(pq.StringArray, 0, len(item.Competitors))
	names := make(pq.StringArray, 0, len(item.Competitors))
	for _, c := range item.Competitors {
		ids = append(ids, c.ID)
		names = append(names, c.Name)
	}

	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	query, args, err := qb.InsertModel("seasons", seasonInsertModel{
		PublicID:        item.ID,
		CompetitionID:   item.CompetitionID,
		Year:            item.Year,
		CurrentRound:    item.CurrentRound,
		CurrentDate:     item.CurrentDate,
		CompetitorIDs:   ids,
		CompetitorNames: names,
		IsCurrent:       item.IsCurrent,
		CreatedAt:       createdAt,
		ClosedAt:        item.ClosedAt,
	}, "")
	if err != nil {
		return errors.Wrap(err, "build insert season query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(season.ErrSeasonExists, "season=%s", item.ID)
		}
		return errors.Wrapf(err, "insert season=%s", item.ID)
	}

	if len(item.Fixtures) > 0 {
		models := make([]seasonFixtureInsertModel, 0, len(item.Fixtures))
		for _, f := range item.Fixtures {
			events, err := encodeEvents(f.Events)
			if err != nil {
				return err
			}
			models = append(models, seasonFixtureInsertModel{
				PublicID:         f.ID,
				SeasonID:         item.ID,
				CompetitionID:    item.CompetitionID,
				Round:            f.Round,
				MatchDate:        f.Date,
				HomeCompetitorID: f.HomeCompetitorID,
				AwayCompetitorID: f.AwayCompetitorID,
				Status:           fixture.NormalizeStatus(f.Status),
				HomeScore:        f.HomeScore,
				AwayScore:        f.AwayScore,
				Events:           events,
				FinishedAt:       f.FinishedAt,
			})
		}
		query, args, err := qb.InsertModels("season_fixtures", models, "")
		if err != nil {
			return errors.Wrap(err, "build insert season fixtures query")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(err, "insert fixtures season=%s", item.ID)
		}
	}

	return replaceStandings(ctx, tx, item.ID, item.Standings)
}

// writeProgress bumps the season version only when the stored version still
// matches the one progress was computed from. The update holds the season row
// lock until the transaction ends, so concurrent writers serialize on it.
func writeProgress(ctx context.Context, tx *sqlx.Tx, seasonID string, progress season.Progress) error {
	query, args, err := progressUpdateQuery(seasonID, progress)
	if err != nil {
		return errors.Wrap(err, "build update season progress query")
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "update season progress season=%s", seasonID)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "rows affected season=%s", seasonID)
	}
	if affected == 0 {
		return seasonWriteConflict(ctx, tx, seasonID, progress.Version)
	}

	if progress.Standings == nil {
		return nil
	}
	return replaceStandings(ctx, tx, seasonID, progress.Standings)
}

func progressUpdateQuery(seasonID string, progress season.Progress) (string, []any, error) {
	return qb.Update("seasons").
		Set("current_round", progress.CurrentRound).
		Set("current_match_date", progress.CurrentDate).
		SetExpr("version", "version + 1").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", seasonID),
			qb.Eq("is_current", true),
			qb.Eq("version", progress.Version),
		).
		ToSQL()
}

type seasonWriteState struct {
	IsCurrent bool  `db:"is_current"`
	Version   int64 `db:"version"`
}

// seasonWriteConflict explains why a versioned season update matched no row.
func seasonWriteConflict(ctx context.Context, tx *sqlx.Tx, seasonID string, expected int64) error {
	query, args, err := qb.Select("is_current", "version").From("seasons").
		Where(qb.Eq("public_id", seasonID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build season write state query")
	}

	var state seasonWriteState
	if err := tx.GetContext(ctx, &state, query, args...); err != nil {
		if isNotFound(err) {
			return errors.Newf("season=%s not found", seasonID)
		}
		return errors.Wrapf(err, "get season write state season=%s", seasonID)
	}
	if !state.IsCurrent {
		return errors.Wrapf(season.ErrSeasonClosed, "season=%s", seasonID)
	}
	return errors.Wrapf(season.ErrStaleSeason, "season=%s stored version %d, write based on %d", seasonID, state.Version, expected)
}

// replaceStandings soft-deletes the live rows and upserts the new table.
func replaceStandings(ctx context.Context, tx *sqlx.Tx, seasonID string, rows []standing.Row) error {
	clearQuery, clearArgs, err := qb.Update("season_standings").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build clear season standings query")
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return errors.Wrapf(err, "clear season standings season=%s", seasonID)
	}
	if len(rows) == 0 {
		return nil
	}

	models := make([]seasonStandingInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, seasonStandingInsertModel{
			SeasonID:       seasonID,
			CompetitorID:   row.CompetitorID,
			Position:       row.Position,
			Played:         row.Played,
			Won:            row.Won,
			Drawn:          row.Drawn,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
			Form:           encodeForm(row.Form),
		})
	}

	query, args, err := qb.InsertModels("season_standings", models, `ON CONFLICT (season_public_id, competitor_id) WHERE deleted_at IS NULL
DO UPDATE SET
    position = EXCLUDED.position,
    played = EXCLUDED.played,
    won = EXCLUDED.won,
    drawn = EXCLUDED.drawn,
    lost = EXCLUDED.lost,
    goals_for = EXCLUDED.goals_for,
    goals_against = EXCLUDED.goals_against,
    goal_difference = EXCLUDED.goal_difference,
    points = EXCLUDED.points,
    form = EXCLUDED.form,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return errors.Wrap(err, "build upsert season standings query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "upsert season standings season=%s", seasonID)
	}
	return nil
}
