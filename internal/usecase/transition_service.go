package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/playerstats"
	"github.com/riskibarqy/league-season/internal/domain/season"
	"github.com/riskibarqy/league-season/internal/platform/logging"
	"github.com/riskibarqy/league-season/internal/platform/resilience"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

type TransitionInput struct {
	CompetitionID string
	// Year and Start default to the closing year + 1 and the last matchday
	// plus one interval.
	Year  int
	Start time.Time
}

type TransitionOutput struct {
	Closed         []season.Season
	Opened         []season.Season
	Qualifications []season.Qualification
	Skipped        []season.Qualification
}

type TransitionServiceConfig struct {
	ResetWorkers int
}

type TransitionService struct {
	catalog    *CompetitionCatalog
	seasonRepo season.Repository
	statsRepo  playerstats.Repository
	events     EventPublisher
	scheduler  RoundScheduler
	locks      *resilience.KeyedMutex
	cfg        TransitionServiceConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewTransitionService(
	catalog *CompetitionCatalog,
	seasonRepo season.Repository,
	statsRepo playerstats.Repository,
	events EventPublisher,
	scheduler RoundScheduler,
	locks *resilience.KeyedMutex,
	cfg TransitionServiceConfig,
	logger *logging.Logger,
) *TransitionService {
	if events == nil {
		events = NewNoopEventPublisher()
	}
	if locks == nil {
		locks = &resilience.KeyedMutex{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ResetWorkers <= 0 {
		cfg.ResetWorkers = 4
	}

	return &TransitionService{
		catalog:    catalog,
		seasonRepo: seasonRepo,
		statsRepo:  statsRepo,
		events:     events,
		scheduler:  scheduler,
		locks:      locks,
		cfg:        cfg,
		logger:     logger.Named("usecase.transition"),
		now:        time.Now,
	}
}

// Transition closes the finished current season of a primary competition and
// opens next year's primary and secondary seasons in one write. Finished
// secondary seasons of the closing year are closed with it.
func (s *TransitionService) Transition(ctx context.Context, input TransitionInput) (TransitionOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransitionService.Transition")
	defer span.End()

	comp, err := s.catalog.Get(input.CompetitionID)
	if err != nil {
		return TransitionOutput{}, err
	}
	if !comp.IsPrimary() {
		return TransitionOutput{}, errors.Wrapf(ErrInvalidInput, "competition=%s is secondary; transition its primary competition", comp.ID)
	}

	for _, unlock := range s.lockAll(comp) {
		defer unlock()
	}

	closing, exists, err := s.seasonRepo.GetCurrent(ctx, comp.ID)
	if err != nil {
		return TransitionOutput{}, errors.Wrapf(err, "get current season competition=%s", comp.ID)
	}
	if !exists {
		return TransitionOutput{}, errors.Wrapf(ErrNotFound, "no current season competition=%s", comp.ID)
	}

	now := s.now().UTC()
	closedSecondary, err := s.closeSecondaries(ctx, comp, now)
	if err != nil {
		return TransitionOutput{}, err
	}

	result, err := season.Transition(season.TransitionInput{
		Closing:      closing,
		Rules:        comp.Qualifications,
		Year:         input.Year,
		Start:        input.Start,
		IntervalDays: comp.IntervalDays,
		Now:          now,
	})
	if err != nil {
		return TransitionOutput{}, classify(err)
	}

	closed := append([]season.Season{result.Closed}, closedSecondary...)
	opened := result.Opened()
	if err := s.seasonRepo.Rollover(ctx, closed, opened); err != nil {
		return TransitionOutput{}, classify(errors.Wrapf(err, "rollover season=%s", closing.ID))
	}

	span.SetAttributes(
		attribute.String("season.closed", closing.ID),
		attribute.Int("season.opened", len(opened)),
	)
	s.logger.InfoContext(ctx, "season transitioned",
		"competition_id", comp.ID,
		"closed_season_id", closing.ID,
		"opened", len(opened),
		"skipped_qualifications", len(result.Skipped),
	)

	s.resetPlayerStats(ctx, comp, closing, opened)
	for _, item := range closed {
		s.publish(ctx, SeasonEvent{Type: EventSeasonClosed, CompetitionID: item.CompetitionID, SeasonID: item.ID, Round: item.CurrentRound, OccurredAt: now})
	}
	for _, item := range opened {
		s.publish(ctx, SeasonEvent{Type: EventSeasonStarted, CompetitionID: item.CompetitionID, SeasonID: item.ID, Round: item.CurrentRound, OccurredAt: now})
		s.scheduleBackgroundRound(ctx, item)
	}

	return TransitionOutput{
		Closed:         closed,
		Opened:         opened,
		Qualifications: result.Qualifications,
		Skipped:        result.Skipped,
	}, nil
}

// lockAll takes the primary key and every secondary key in sorted order so
// two transitions never wait on each other crosswise.
func (s *TransitionService) lockAll(comp season.Competition) []func() {
	keys := []string{comp.ID}
	seen := map[string]struct{}{comp.ID: {}}
	for _, rule := range comp.Qualifications {
		if _, ok := seen[rule.Competition]; ok {
			continue
		}
		seen[rule.Competition] = struct{}{}
		keys = append(keys, rule.Competition)
	}
	sort.Strings(keys)

	unlocks := make([]func(), 0, len(keys))
	for _, key := range keys {
		unlocks = append(unlocks, s.locks.Lock(key))
	}
	return unlocks
}

func (s *TransitionService) closeSecondaries(ctx context.Context, comp season.Competition, now time.Time) ([]season.Season, error) {
	seen := map[string]struct{}{}
	out := make([]season.Season, 0, len(comp.Qualifications))
	for _, rule := range comp.Qualifications {
		if _, ok := seen[rule.Competition]; ok {
			continue
		}
		seen[rule.Competition] = struct{}{}

		current, exists, err := s.seasonRepo.GetCurrent(ctx, rule.Competition)
		if err != nil {
			return nil, errors.Wrapf(err, "get current season competition=%s", rule.Competition)
		}
		if !exists {
			continue
		}
		if !current.IsComplete() {
			return nil, classify(errors.Wrapf(season.ErrSeasonInProgress, "secondary season=%s", current.ID))
		}

		closed := current.Clone()
		closed.IsCurrent = false
		closedAt := now
		closed.ClosedAt = &closedAt
		out = append(out, closed)
	}
	return out, nil
}

// resetPlayerStats seeds zeroed rows for the managed competitor in every
// opened season it takes part in. Failures are logged; the rollover stands.
func (s *TransitionService) resetPlayerStats(ctx context.Context, comp season.Competition, closing season.Season, opened []season.Season) {
	managed := comp.ManagedCompetitorID
	if s.statsRepo == nil || managed == "" {
		return
	}

	previous, err := s.statsRepo.ListBySeasonAndCompetitor(ctx, closing.ID, managed)
	if err != nil {
		s.logger.WarnContext(ctx, "load player season stats for reset failed", "season_id", closing.ID, "error", err)
		return
	}
	if len(previous) == 0 {
		return
	}

	workers := pool.New().WithMaxGoroutines(s.cfg.ResetWorkers).WithContext(ctx)
	for _, item := range opened {
		if _, ok := competitor.Index(item.Competitors)[managed]; !ok {
			continue
		}
		seasonID := item.ID
		workers.Go(func(ctx context.Context) error {
			if err := s.statsRepo.UpsertSeasonStats(ctx, playerstats.ResetAll(previous, seasonID)); err != nil {
				return errors.Wrapf(err, "reset player season stats season=%s", seasonID)
			}
			return nil
		})
	}
	if err := workers.Wait(); err != nil {
		s.logger.WarnContext(ctx, "reset player season stats failed", "competition_id", comp.ID, "error", err)
	}
}

// scheduleBackgroundRound queues round one of an opened season that the
// managed competitor does not take part in.
func (s *TransitionService) scheduleBackgroundRound(ctx context.Context, item season.Season) {
	if s.scheduler == nil || !needsBackgroundRound(item, s.catalog.ManagedCompetitor(item.CompetitionID)) {
		return
	}
	if err := s.scheduler.ScheduleRoundSimulation(ctx, item, item.CurrentRound); err != nil {
		s.logger.WarnContext(ctx, "schedule round simulation failed", "season_id", item.ID, "round", item.CurrentRound, "error", err)
	}
}

func (s *TransitionService) publish(ctx context.Context, event SeasonEvent) {
	if err := s.events.PublishSeasonEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish season event failed", "type", event.Type, "season_id", event.SeasonID, "error", err)
	}
}
