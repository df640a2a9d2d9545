package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/playerstats"
	"github.com/riskibarqy/league-season/internal/domain/season"
)

type PlayerStatsService struct {
	catalog    *CompetitionCatalog
	seasonRepo season.Repository
	statsRepo  playerstats.Repository
}

func NewPlayerStatsService(catalog *CompetitionCatalog, seasonRepo season.Repository, statsRepo playerstats.Repository) *PlayerStatsService {
	return &PlayerStatsService{
		catalog:    catalog,
		seasonRepo: seasonRepo,
		statsRepo:  statsRepo,
	}
}

// ListManagedSquad returns the managed competitor's player numbers for a
// season. An empty seasonID means the current season.
func (s *PlayerStatsService) ListManagedSquad(ctx context.Context, competitionID, seasonID string) ([]playerstats.SeasonStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerStatsService.ListManagedSquad")
	defer span.End()

	if _, err := s.catalog.Get(competitionID); err != nil {
		return nil, err
	}
	managed := s.catalog.ManagedCompetitor(competitionID)
	if managed == "" {
		return nil, errors.Wrapf(ErrNotFound, "competition=%s has no managed competitor", competitionID)
	}

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		current, exists, err := s.seasonRepo.GetCurrent(ctx, competitionID)
		if err != nil {
			return nil, errors.Wrapf(err, "get current season competition=%s", competitionID)
		}
		if !exists {
			return nil, errors.Wrapf(ErrNotFound, "no current season competition=%s", competitionID)
		}
		seasonID = current.ID
	} else {
		item, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
		if err != nil {
			return nil, errors.Wrapf(err, "get season=%s", seasonID)
		}
		if !exists || item.CompetitionID != competitionID {
			return nil, errors.Wrapf(ErrNotFound, "season=%s competition=%s", seasonID, competitionID)
		}
	}

	items, err := s.statsRepo.ListBySeasonAndCompetitor(ctx, seasonID, managed)
	if err != nil {
		return nil, errors.Wrapf(err, "list player season stats season=%s", seasonID)
	}
	return items, nil
}
