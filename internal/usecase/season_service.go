package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
	"github.com/riskibarqy/league-season/internal/domain/outcome"
	"github.com/riskibarqy/league-season/internal/domain/playerstats"
	"github.com/riskibarqy/league-season/internal/domain/progression"
	"github.com/riskibarqy/league-season/internal/domain/season"
	"github.com/riskibarqy/league-season/internal/domain/standing"
	"github.com/riskibarqy/league-season/internal/platform/logging"
	"github.com/riskibarqy/league-season/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RoundScheduler queues background simulation of a matchday once the managed
// competitor has played its fixture.
type RoundScheduler interface {
	ScheduleRoundSimulation(ctx context.Context, item season.Season, round int) error
}

type SeasonServiceConfig struct {
	SimulationWorkers int
}

type StartSeasonInput struct {
	CompetitionID string
	Year          int
	Start         time.Time
}

type ResolveFixtureInput struct {
	CompetitionID string
	FixtureID     string
	HomeScore     int
	AwayScore     int
	Events        []fixture.Event
}

// ResolveResult is the state after one or more fixtures were resolved.
type ResolveResult struct {
	SeasonID       string
	Fixtures       []fixture.Fixture
	Standings      []standing.Row
	CurrentRound   int
	CurrentDate    time.Time
	RoundCompleted bool
	SeasonComplete bool
}

type SimulateInput struct {
	CompetitionID string
	// SeasonID and Round guard against stale jobs. Empty and zero match the
	// current season and round.
	SeasonID string
	Round    int
}

type SimulateResult struct {
	ResolveResult
	Round   int
	Skipped bool
	Reason  string
}

// PlayCheck explains whether the managed competitor may play a fixture now.
type PlayCheck struct {
	FixtureID string
	Playable  bool
	Reason    string
}

// maxWriteAttempts bounds how often a write is recomputed after another
// instance committed to the same season first.
const maxWriteAttempts = 3

const (
	ReasonNotUserFixture     = "not_user_fixture"
	ReasonAlreadyResolved    = "already_resolved"
	ReasonOutOfOrder         = "out_of_order"
	ReasonMatchdayIncomplete = "matchday_incomplete"
)

type SeasonService struct {
	catalog    *CompetitionCatalog
	seasonRepo season.Repository
	statsRepo  playerstats.Repository
	producer   outcome.Producer
	scheduler  RoundScheduler
	events     EventPublisher
	locks      *resilience.KeyedMutex
	cfg        SeasonServiceConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewSeasonService(
	catalog *CompetitionCatalog,
	seasonRepo season.Repository,
	statsRepo playerstats.Repository,
	producer outcome.Producer,
	scheduler RoundScheduler,
	events EventPublisher,
	locks *resilience.KeyedMutex,
	cfg SeasonServiceConfig,
	logger *logging.Logger,
) *SeasonService {
	if events == nil {
		events = NewNoopEventPublisher()
	}
	if locks == nil {
		locks = &resilience.KeyedMutex{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SimulationWorkers <= 0 {
		cfg.SimulationWorkers = 4
	}

	return &SeasonService{
		catalog:    catalog,
		seasonRepo: seasonRepo,
		statsRepo:  statsRepo,
		producer:   producer,
		scheduler:  scheduler,
		events:     events,
		locks:      locks,
		cfg:        cfg,
		logger:     logger.Named("usecase.season"),
		now:        time.Now,
	}
}

func (s *SeasonService) StartSeason(ctx context.Context, input StartSeasonInput) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.StartSeason")
	defer span.End()

	comp, err := s.catalog.Get(input.CompetitionID)
	if err != nil {
		return season.Season{}, err
	}
	if !comp.IsPrimary() {
		return season.Season{}, errors.Wrapf(ErrInvalidInput, "competition=%s has no roster; it opens through season transition", comp.ID)
	}
	if input.Year < 0 {
		return season.Season{}, errors.Wrapf(ErrInvalidInput, "year must be >= 0, got %d", input.Year)
	}

	unlock := s.locks.Lock(comp.ID)
	defer unlock()

	if _, exists, err := s.seasonRepo.GetCurrent(ctx, comp.ID); err != nil {
		return season.Season{}, errors.Wrapf(err, "get current season competition=%s", comp.ID)
	} else if exists {
		return season.Season{}, classify(errors.Wrapf(season.ErrSeasonExists, "competition=%s already has a current season", comp.ID))
	}

	now := s.now().UTC()
	start := input.Start
	if start.IsZero() {
		start = comp.SeasonStart
	}
	if start.IsZero() {
		start = now.Truncate(24 * time.Hour)
	}
	year := input.Year
	if year == 0 {
		year = start.Year()
	}

	item, err := season.New(season.NewSeasonInput{
		CompetitionID: comp.ID,
		Year:          year,
		Competitors:   comp.Competitors,
		Start:         start,
		IntervalDays:  comp.IntervalDays,
		Now:           now,
	})
	if err != nil {
		return season.Season{}, classify(err)
	}
	if err := s.seasonRepo.Create(ctx, item); err != nil {
		return season.Season{}, classify(errors.Wrapf(err, "create season=%s", item.ID))
	}

	span.SetAttributes(attribute.String("season.id", item.ID), attribute.Int("season.fixtures", len(item.Fixtures)))
	s.logger.InfoContext(ctx, "season started",
		"competition_id", comp.ID,
		"season_id", item.ID,
		"fixtures", len(item.Fixtures),
		"rounds", item.TotalRounds(),
	)
	s.publish(ctx, SeasonEvent{
		Type:          EventSeasonStarted,
		CompetitionID: comp.ID,
		SeasonID:      item.ID,
		Round:         item.CurrentRound,
		OccurredAt:    now,
	})
	s.scheduleBackgroundRound(ctx, item)
	return item, nil
}

// Bootstrap opens a first season for every primary competition that has
// never had one.
func (s *SeasonService) Bootstrap(ctx context.Context) ([]season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Bootstrap")
	defer span.End()

	started := make([]season.Season, 0)
	for _, comp := range s.catalog.Primary() {
		history, err := s.seasonRepo.ListByCompetition(ctx, comp.ID)
		if err != nil {
			return started, errors.Wrapf(err, "list seasons competition=%s", comp.ID)
		}
		if len(history) > 0 {
			continue
		}

		item, err := s.StartSeason(ctx, StartSeasonInput{CompetitionID: comp.ID})
		if err != nil {
			if errors.Is(err, ErrConflict) {
				continue
			}
			return started, err
		}
		started = append(started, item)
	}
	return started, nil
}

func (s *SeasonService) GetCurrentSeason(ctx context.Context, competitionID string) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.GetCurrentSeason")
	defer span.End()

	return s.currentSeason(ctx, competitionID)
}

func (s *SeasonService) ListSeasons(ctx context.Context, competitionID string) ([]season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.ListSeasons")
	defer span.End()

	if _, err := s.catalog.Get(competitionID); err != nil {
		return nil, err
	}
	items, err := s.seasonRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, errors.Wrapf(err, "list seasons competition=%s", competitionID)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Year > items[j].Year
	})
	return items, nil
}

// ListFixtures returns the current season's fixtures, optionally limited to
// one round.
func (s *SeasonService) ListFixtures(ctx context.Context, competitionID string, round int) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.ListFixtures")
	defer span.End()

	if round < 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "round must be >= 0, got %d", round)
	}
	current, err := s.currentSeason(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	items := current.Fixtures
	if round > 0 {
		items = fixture.ByRound(current.Fixtures, round)
	}
	out := fixture.CloneAll(items)
	fixture.SortChronological(out)
	return out, nil
}

func (s *SeasonService) MatchdayStatus(ctx context.Context, competitionID string, round int) (progression.Status, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.MatchdayStatus")
	defer span.End()

	current, err := s.currentSeason(ctx, competitionID)
	if err != nil {
		return progression.Status{}, err
	}
	if round == 0 {
		round = current.CurrentRound
	}
	if round < 1 || round > current.TotalRounds() {
		return progression.Status{}, errors.Wrapf(ErrInvalidInput, "round must be within 1..%d, got %d", current.TotalRounds(), round)
	}
	return progression.MatchdayStatus(current.Fixtures, round), nil
}

func (s *SeasonService) CanPlay(ctx context.Context, competitionID, fixtureID string) (PlayCheck, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.CanPlay")
	defer span.End()

	current, err := s.currentSeason(ctx, competitionID)
	if err != nil {
		return PlayCheck{}, err
	}
	target, ok := current.Fixture(fixtureID)
	if !ok {
		return PlayCheck{}, errors.Wrapf(ErrNotFound, "fixture=%s season=%s", fixtureID, current.ID)
	}

	check := PlayCheck{FixtureID: target.ID, Playable: true}
	if err := progression.Check(target, current.Fixtures, s.catalog.ManagedCompetitor(competitionID), current.CurrentRound); err != nil {
		check.Playable = false
		check.Reason = gateReason(err)
	}
	return check, nil
}

// ResolveFixture records a result reported by the caller, such as a match
// the user played by hand.
func (s *SeasonService) ResolveFixture(ctx context.Context, input ResolveFixtureInput) (ResolveResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.ResolveFixture")
	defer span.End()

	if input.HomeScore < 0 || input.AwayScore < 0 {
		return ResolveResult{}, errors.Wrapf(ErrInvalidInput, "scores must be >= 0, got %d-%d", input.HomeScore, input.AwayScore)
	}
	given := outcome.Outcome{
		HomeScore: input.HomeScore,
		AwayScore: input.AwayScore,
		Events:    input.Events,
	}
	return s.resolveOne(ctx, input.CompetitionID, input.FixtureID, func(context.Context, fixture.Fixture) (outcome.Outcome, error) {
		return given, nil
	})
}

// PlayFixture resolves a managed-competitor fixture through the outcome producer.
func (s *SeasonService) PlayFixture(ctx context.Context, competitionID, fixtureID string) (ResolveResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.PlayFixture")
	defer span.End()

	if s.producer == nil {
		return ResolveResult{}, errors.Wrap(ErrDependencyUnavailable, "outcome producer is not configured")
	}
	managed := s.catalog.ManagedCompetitor(competitionID)
	return s.resolveOne(ctx, competitionID, fixtureID, func(ctx context.Context, target fixture.Fixture) (outcome.Outcome, error) {
		if !target.Involves(managed) {
			return outcome.Outcome{}, errors.Wrapf(progression.ErrNotUserFixture, "fixture=%s competitor=%s", target.ID, managed)
		}
		return s.producer.Produce(ctx, target)
	})
}

type produceFunc func(ctx context.Context, target fixture.Fixture) (outcome.Outcome, error)

func (s *SeasonService) resolveOne(ctx context.Context, competitionID, fixtureID string, produce produceFunc) (ResolveResult, error) {
	if strings.TrimSpace(fixtureID) == "" {
		return ResolveResult{}, errors.Wrap(ErrInvalidInput, "fixture id is required")
	}
	if _, err := s.catalog.Get(competitionID); err != nil {
		return ResolveResult{}, err
	}

	unlock := s.locks.Lock(competitionID)
	defer unlock()

	var out ResolveResult
	err := s.retryStale(ctx, competitionID, func() error {
		var err error
		out, err = s.resolveAttempt(ctx, competitionID, fixtureID, produce)
		return err
	})
	if err != nil {
		return ResolveResult{}, err
	}
	return out, nil
}

func (s *SeasonService) resolveAttempt(ctx context.Context, competitionID, fixtureID string, produce produceFunc) (ResolveResult, error) {
	current, err := s.currentSeason(ctx, competitionID)
	if err != nil {
		return ResolveResult{}, err
	}
	target, ok := current.Fixture(fixtureID)
	if !ok {
		return ResolveResult{}, errors.Wrapf(ErrNotFound, "fixture=%s season=%s", fixtureID, current.ID)
	}

	managed := s.catalog.ManagedCompetitor(competitionID)
	if managed != "" && target.Involves(managed) {
		if err := progression.Check(target, current.Fixtures, managed, current.CurrentRound); err != nil {
			return ResolveResult{}, classify(err)
		}
	} else {
		if !target.IsScheduled() {
			return ResolveResult{}, classify(errors.Wrapf(fixture.ErrAlreadyResolved, "fixture=%s", target.ID))
		}
		if target.Round != current.CurrentRound {
			return ResolveResult{}, classify(errors.Wrapf(progression.ErrMatchdayIncomplete, "fixture=%s belongs to round %d, current round is %d", target.ID, target.Round, current.CurrentRound))
		}
	}

	produced, err := produce(ctx, target)
	if err != nil {
		return ResolveResult{}, classify(errors.Wrapf(err, "produce outcome fixture=%s", target.ID))
	}
	if err := produced.Validate(target); err != nil {
		return ResolveResult{}, classify(err)
	}
	resolved, err := target.Resolve(produced.HomeScore, produced.AwayScore, produced.Events, s.now())
	if err != nil {
		return ResolveResult{}, classify(err)
	}

	result, err := s.commit(ctx, current, []fixture.Fixture{resolved})
	if err != nil {
		return ResolveResult{}, err
	}

	if managed != "" && resolved.Involves(managed) && !progression.MatchdayStatus(result.fixtures, resolved.Round).IsComplete {
		s.scheduleRound(ctx, result.next, resolved.Round)
	}
	return result.ResolveResult, nil
}

// SimulateMatchday resolves every scheduled background fixture of the current
// round through the outcome producer. The managed competitor's own fixture is
// left for the user.
func (s *SeasonService) SimulateMatchday(ctx context.Context, input SimulateInput) (SimulateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.SimulateMatchday")
	defer span.End()

	if s.producer == nil {
		return SimulateResult{}, errors.Wrap(ErrDependencyUnavailable, "outcome producer is not configured")
	}
	if input.Round < 0 {
		return SimulateResult{}, errors.Wrapf(ErrInvalidInput, "round must be >= 0, got %d", input.Round)
	}
	if _, err := s.catalog.Get(input.CompetitionID); err != nil {
		return SimulateResult{}, err
	}

	unlock := s.locks.Lock(input.CompetitionID)
	defer unlock()

	var out SimulateResult
	err := s.retryStale(ctx, input.CompetitionID, func() error {
		var err error
		out, err = s.simulateAttempt(ctx, input)
		return err
	})
	if err != nil {
		return SimulateResult{}, err
	}
	return out, nil
}

func (s *SeasonService) simulateAttempt(ctx context.Context, input SimulateInput) (SimulateResult, error) {
	current, err := s.currentSeason(ctx, input.CompetitionID)
	if err != nil {
		return SimulateResult{}, err
	}

	round := current.CurrentRound
	out := SimulateResult{
		Round: round,
		ResolveResult: ResolveResult{
			SeasonID:       current.ID,
			Standings:      current.Standings,
			CurrentRound:   current.CurrentRound,
			CurrentDate:    current.CurrentDate,
			SeasonComplete: current.IsComplete(),
		},
	}
	if input.SeasonID != "" && input.SeasonID != current.ID {
		out.Skipped = true
		out.Reason = "season is no longer current"
		return out, nil
	}
	if input.Round > 0 && input.Round != round {
		out.Skipped = true
		out.Reason = "round is no longer current"
		return out, nil
	}

	managed := s.catalog.ManagedCompetitor(input.CompetitionID)
	pending := make([]fixture.Fixture, 0)
	for _, item := range fixture.ByRound(current.Fixtures, round) {
		if item.IsScheduled() && (managed == "" || !item.Involves(managed)) {
			pending = append(pending, item)
		}
	}
	if len(pending) == 0 {
		out.Skipped = true
		out.Reason = "no background fixtures left in round"
		return out, nil
	}

	resolved, err := s.produceAll(ctx, pending)
	if err != nil {
		return SimulateResult{}, err
	}

	committed, err := s.commit(ctx, current, resolved)
	if err != nil {
		return SimulateResult{}, err
	}
	out.ResolveResult = committed.ResolveResult
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("matchday.round", round), attribute.Int("matchday.resolved", len(resolved)))
	return out, nil
}

// produceAll fans outcome production out across a worker pool. Any failure
// fails the whole batch so nothing is written.
func (s *SeasonService) produceAll(ctx context.Context, items []fixture.Fixture) ([]fixture.Fixture, error) {
	pool, err := ants.NewPool(max(min(s.cfg.SimulationWorkers, len(items)), 1))
	if err != nil {
		return nil, errors.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	out := make([]fixture.Fixture, len(items))
	errs := make([]error, len(items))
	finishedAt := s.now()

	var workers sync.WaitGroup
	for i, item := range items {
		i, item := i, item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			produced, err := s.producer.Produce(ctx, item)
			if err != nil {
				errs[i] = errors.Wrapf(err, "produce outcome fixture=%s", item.ID)
				return
			}
			if err := produced.Validate(item); err != nil {
				errs[i] = err
				return
			}
			out[i], errs[i] = item.Resolve(produced.HomeScore, produced.AwayScore, produced.Events, finishedAt)
		}); err != nil {
			workers.Done()
			errs[i] = errors.Wrap(err, "submit task to worker pool")
		}
	}
	workers.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, classify(err)
		}
	}
	fixture.SortChronological(out)
	return out, nil
}

// AdvanceRound moves the stored round counter past a finished matchday.
// Storing results already advances the counter when a round finishes, so on
// a normally played season this only reports ErrMatchdayIncomplete or
// ErrSeasonComplete. It still repairs a counter left behind by an older write.
func (s *SeasonService) AdvanceRound(ctx context.Context, competitionID string) (season.Progress, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.AdvanceRound")
	defer span.End()

	if _, err := s.catalog.Get(competitionID); err != nil {
		return season.Progress{}, err
	}

	unlock := s.locks.Lock(competitionID)
	defer unlock()

	var out season.Progress
	err := s.retryStale(ctx, competitionID, func() error {
		var err error
		out, err = s.advanceAttempt(ctx, competitionID)
		return err
	})
	if err != nil {
		return season.Progress{}, err
	}
	return out, nil
}

func (s *SeasonService) advanceAttempt(ctx context.Context, competitionID string) (season.Progress, error) {
	current, err := s.currentSeason(ctx, competitionID)
	if err != nil {
		return season.Progress{}, err
	}
	next, err := current.AdvanceRound()
	if err != nil {
		return season.Progress{}, classify(err)
	}

	progress := next.Progress()
	progress.Standings = nil
	if err := s.seasonRepo.SaveProgress(ctx, current.ID, progress); err != nil {
		return season.Progress{}, classify(errors.Wrapf(err, "save progress season=%s", current.ID))
	}

	s.logger.InfoContext(ctx, "round advanced", "season_id", current.ID, "from", current.CurrentRound, "to", next.CurrentRound)
	s.scheduleBackgroundRound(ctx, next)
	return next.Progress(), nil
}

type commitResult struct {
	ResolveResult
	next     season.Season
	fixtures []fixture.Fixture
}

// commit applies resolved fixtures to current and persists them in one
// write. Side effects that follow never undo the write.
func (s *SeasonService) commit(ctx context.Context, current season.Season, resolved []fixture.Fixture) (commitResult, error) {
	next, warnings, err := current.ApplyResults(resolved)
	if err != nil {
		return commitResult{}, classify(err)
	}
	for _, warning := range warnings {
		s.logger.WarnContext(ctx, "standings recompute skipped unknown competitor",
			"season_id", current.ID,
			"fixture_id", warning.FixtureID,
			"competitor_id", warning.CompetitorID,
			"error", warning.Err,
		)
	}

	if err := s.seasonRepo.SaveResults(ctx, current.ID, resolved, next.Progress()); err != nil {
		return commitResult{}, classify(errors.Wrapf(err, "save results season=%s", current.ID))
	}

	s.recordPlayerStats(ctx, next, resolved)
	s.publishRoundEvents(ctx, current, next)
	if next.CurrentRound != current.CurrentRound {
		s.scheduleBackgroundRound(ctx, next)
	}

	return commitResult{
		ResolveResult: ResolveResult{
			SeasonID:       next.ID,
			Fixtures:       resolved,
			Standings:      next.Standings,
			CurrentRound:   next.CurrentRound,
			CurrentDate:    next.CurrentDate,
			RoundCompleted: progression.MatchdayStatus(next.Fixtures, current.CurrentRound).IsComplete,
			SeasonComplete: next.IsComplete(),
		},
		next:     next,
		fixtures: next.Fixtures,
	}, nil
}

func (s *SeasonService) recordPlayerStats(ctx context.Context, next season.Season, resolved []fixture.Fixture) {
	managed := s.catalog.ManagedCompetitor(next.CompetitionID)
	if s.statsRepo == nil || managed == "" {
		return
	}

	played := make([]fixture.Fixture, 0, len(resolved))
	for _, item := range resolved {
		if item.Involves(managed) {
			played = append(played, item)
		}
	}
	if len(played) == 0 {
		return
	}

	current, err := s.statsRepo.ListBySeasonAndCompetitor(ctx, next.ID, managed)
	if err != nil {
		s.logger.WarnContext(ctx, "load player season stats failed", "season_id", next.ID, "competitor_id", managed, "error", err)
		return
	}
	updated := playerstats.Accumulate(next.ID, managed, current, played)
	if err := s.statsRepo.UpsertSeasonStats(ctx, updated); err != nil {
		s.logger.WarnContext(ctx, "save player season stats failed", "season_id", next.ID, "competitor_id", managed, "error", err)
	}
}

func (s *SeasonService) publishRoundEvents(ctx context.Context, before, after season.Season) {
	now := s.now().UTC()
	for round := before.CurrentRound; round <= after.CurrentRound; round++ {
		wasComplete := progression.MatchdayStatus(before.Fixtures, round).IsComplete
		if wasComplete || !progression.MatchdayStatus(after.Fixtures, round).IsComplete {
			continue
		}
		s.logger.InfoContext(ctx, "matchday completed", "season_id", after.ID, "round", round)
		s.publish(ctx, SeasonEvent{
			Type:          EventRoundCompleted,
			CompetitionID: after.CompetitionID,
			SeasonID:      after.ID,
			Round:         round,
			OccurredAt:    now,
		})
	}
	if !before.IsComplete() && after.IsComplete() {
		s.publish(ctx, SeasonEvent{
			Type:          EventSeasonCompleted,
			CompetitionID: after.CompetitionID,
			SeasonID:      after.ID,
			Round:         after.CurrentRound,
			OccurredAt:    now,
		})
	}
}

// scheduleBackgroundRound queues the current round of item when nothing the
// managed competitor does can finish it: a bye round, or a competition the
// managed competitor is not part of.
func (s *SeasonService) scheduleBackgroundRound(ctx context.Context, item season.Season) {
	if needsBackgroundRound(item, s.catalog.ManagedCompetitor(item.CompetitionID)) {
		s.scheduleRound(ctx, item, item.CurrentRound)
	}
}

func needsBackgroundRound(item season.Season, managed string) bool {
	if !item.IsCurrent || item.IsComplete() {
		return false
	}
	pending := false
	for _, f := range fixture.ByRound(item.Fixtures, item.CurrentRound) {
		if managed != "" && f.Involves(managed) {
			return false
		}
		if f.IsScheduled() {
			pending = true
		}
	}
	return pending
}

// retryStale reruns attempt while another writer keeps committing to the
// season first. Each attempt reads the season again.
func (s *SeasonService) retryStale(ctx context.Context, competitionID string, attempt func() error) error {
	var err error
	for i := 1; i <= maxWriteAttempts; i++ {
		if err = attempt(); err == nil || !errors.Is(err, season.ErrStaleSeason) {
			return err
		}
		s.logger.InfoContext(ctx, "season changed by another writer, retrying", "competition_id", competitionID, "attempt", i)
	}
	return err
}

func (s *SeasonService) scheduleRound(ctx context.Context, item season.Season, round int) {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.ScheduleRoundSimulation(ctx, item, round); err != nil {
		s.logger.WarnContext(ctx, "schedule round simulation failed", "season_id", item.ID, "round", round, "error", err)
	}
}

func (s *SeasonService) publish(ctx context.Context, event SeasonEvent) {
	if err := s.events.PublishSeasonEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish season event failed", "type", event.Type, "season_id", event.SeasonID, "error", err)
	}
}

func (s *SeasonService) currentSeason(ctx context.Context, competitionID string) (season.Season, error) {
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

func gateReason(err error) string {
	switch {
	case errors.Is(err, progression.ErrNotUserFixture):
		return ReasonNotUserFixture
	case errors.Is(err, fixture.ErrAlreadyResolved):
		return ReasonAlreadyResolved
	case errors.Is(err, progression.ErrOutOfOrderPlay):
		return ReasonOutOfOrder
	case errors.Is(err, progression.ErrMatchdayIncomplete):
		return ReasonMatchdayIncomplete
	default:
		return err.Error()
	}
}
