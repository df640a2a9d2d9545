package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/season"
	"github.com/riskibarqy/league-season/internal/domain/standing"
	"github.com/riskibarqy/league-season/internal/platform/logging"
)

type StandingsView struct {
	SeasonID     string
	CurrentRound int
	Rows         []standing.Row
}

type StandingService struct {
	catalog    *CompetitionCatalog
	seasonRepo season.Repository
	logger     *logging.Logger
}

func NewStandingService(catalog *CompetitionCatalog, seasonRepo season.Repository, logger *logging.Logger) *StandingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingService{
		catalog:    catalog,
		seasonRepo: seasonRepo,
		logger:     logger.Named("usecase.standing"),
	}
}

// GetStandings returns the stored table of the current season. A table that
// does not cover the roster is rebuilt from the fixtures instead.
func (s *StandingService) GetStandings(ctx context.Context, competitionID string) (StandingsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.GetStandings")
	defer span.End()

	current, err := s.current(ctx, competitionID)
	if err != nil {
		return StandingsView{}, err
	}

	return StandingsView{
		SeasonID:     current.ID,
		CurrentRound: current.CurrentRound,
		Rows:         s.table(ctx, current).Rows,
	}, nil
}

// QualificationPreview slices the current table with the competition's
// qualification rules as if the season ended now.
func (s *StandingService) QualificationPreview(ctx context.Context, competitionID string) ([]season.Qualification, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.QualificationPreview")
	defer span.End()

	comp, err := s.catalog.Get(competitionID)
	if err != nil {
		return nil, err
	}
	current, err := s.current(ctx, comp.ID)
	if err != nil {
		return nil, err
	}

	out, err := season.Qualify(s.table(ctx, current), comp.Qualifications)
	if err != nil {
		return nil, errors.Mark(err, ErrInvalidInput)
	}
	return out, nil
}

func (s *StandingService) table(ctx context.Context, current season.Season) standing.Table {
	if len(current.Standings) == len(current.Competitors) && len(current.Standings) > 0 {
		return current.Table()
	}

	s.logger.WarnContext(ctx, "stored standings incomplete, recomputing from fixtures",
		"season_id", current.ID,
		"stored_rows", len(current.Standings),
		"competitors", len(current.Competitors),
	)
	table := standing.Recompute(current.Fixtures, current.Competitors)
	for _, warning := range table.Warnings {
		s.logger.WarnContext(ctx, "standings recompute skipped unknown competitor",
			"season_id", current.ID,
			"fixture_id", warning.FixtureID,
			"competitor_id", warning.CompetitorID,
		)
	}
	return table
}

func (s *StandingService) current(ctx context.Context, competitionID string) (season.Season, error) {
	if _, err := s.catalog.Get(competitionID); err != nil {
		return season.Season{}, err
	}
	item, exists, err := s.seasonRepo.GetCurrent(ctx, competitionID)
	if err != nil {
		return season.Season{}, errors.Wrapf(err, "get current season competition=%s", competitionID)
	}
	if !exists {
		return season.Season{}, errors.Wrapf(ErrNotFound, "no current season competition=%s", competitionID)
	}
	return item, nil
}
