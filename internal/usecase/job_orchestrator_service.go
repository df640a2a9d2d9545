package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/jobscheduler"
	"github.com/riskibarqy/league-season/internal/domain/season"
	"github.com/riskibarqy/league-season/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

type JobOrchestratorConfig struct {
	// SimulationDelay is how long background fixtures wait after the managed
	// competitor finished its matchday fixture.
	SimulationDelay time.Duration
}

// SimulateRoundPayload is the body of a queued simulate-round job.
type SimulateRoundPayload struct {
	DispatchID    string `json:"dispatch_id"`
	CompetitionID string `json:"competition_id" validate:"required"`
	SeasonID      string `json:"season_id"`
	Round         int    `json:"round" validate:"gte=0"`
}

type JobResultInput struct {
	Payload SimulateRoundPayload
	Err     error
}

type JobOrchestratorService struct {
	queue        JobQueue
	dispatchRepo jobscheduler.Repository
	cfg          JobOrchestratorConfig
	logger       *logging.Logger
	now          func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobOrchestratorService(
	queue JobQueue,
	dispatchRepo jobscheduler.Repository,
	cfg JobOrchestratorConfig,
	logger *logging.Logger,
) *JobOrchestratorService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SimulationDelay < 0 {
		cfg.SimulationDelay = 0
	}

	return &JobOrchestratorService{
		queue:        queue,
		dispatchRepo: dispatchRepo,
		cfg:          cfg,
		logger:       logger.Named("usecase.jobs"),
		now:          time.Now,
	}
}

// ScheduleRoundSimulation queues background resolution of round. The dispatch
// id is stable per season and round so repeated calls collapse in the queue.
func (s *JobOrchestratorService) ScheduleRoundSimulation(ctx context.Context, item season.Season, round int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.ScheduleRoundSimulation")
	defer span.End()

	dispatchID := jobscheduler.DispatchID(jobscheduler.JobSimulateRound, item.ID, round)
	payload := SimulateRoundPayload{
		DispatchID:    dispatchID,
		CompetitionID: item.CompetitionID,
		SeasonID:      item.ID,
		Round:         round,
	}
	event := jobscheduler.DispatchEvent{
		DispatchID:    dispatchID,
		JobName:       jobscheduler.JobSimulateRound,
		JobPath:       jobscheduler.JobPathSimulateRound,
		CompetitionID: item.CompetitionID,
		SeasonID:      item.ID,
		Round:         round,
		Payload:       payload.asMap(),
		OccurredAt:    s.now().UTC(),
	}

	if err := s.queue.Enqueue(ctx, jobscheduler.JobPathSimulateRound, payload, s.cfg.SimulationDelay, dispatchID); err != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = err.Error()
		s.recordDispatchEvent(ctx, event)
		return errors.Wrapf(err, "enqueue %s season=%s round=%d", jobscheduler.JobSimulateRound, item.ID, round)
	}

	event.Status = jobscheduler.StatusSent
	s.recordDispatchEvent(ctx, event)
	s.logger.InfoContext(ctx, "round simulation queued",
		"dispatch_id", dispatchID,
		"season_id", item.ID,
		"round", round,
		"delay", s.cfg.SimulationDelay.String(),
	)
	return nil
}

// RecordJobResult stores the final status of a delivered job.
func (s *JobOrchestratorService) RecordJobResult(ctx context.Context, input JobResultInput) {
	payload := input.Payload
	dispatchID := strings.TrimSpace(payload.DispatchID)
	if dispatchID == "" {
		dispatchID = jobscheduler.DispatchID(jobscheduler.JobSimulateRound, payload.SeasonID, payload.Round)
	}

	event := jobscheduler.DispatchEvent{
		DispatchID:    dispatchID,
		JobName:       jobscheduler.JobSimulateRound,
		JobPath:       jobscheduler.JobPathSimulateRound,
		CompetitionID: payload.CompetitionID,
		SeasonID:      payload.SeasonID,
		Round:         payload.Round,
		Status:        jobscheduler.StatusCompleted,
		Payload:       payload.asMap(),
		OccurredAt:    s.now().UTC(),
	}
	if input.Err != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = input.Err.Error()
	}
	s.recordDispatchEvent(ctx, event)
}

func (s *JobOrchestratorService) ListDispatches(ctx context.Context, seasonID string) ([]jobscheduler.DispatchEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.ListDispatches")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, errors.Wrap(ErrInvalidInput, "season id is required")
	}
	if s.dispatchRepo == nil {
		return []jobscheduler.DispatchEvent{}, nil
	}
	items, err := s.dispatchRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, errors.Wrapf(err, "list job dispatches season=%s", seasonID)
	}
	return items, nil
}

func (p SimulateRoundPayload) asMap() map[string]any {
	return map[string]any{
		"dispatch_id":    p.DispatchID,
		"competition_id": p.CompetitionID,
		"season_id":      p.SeasonID,
		"round":          p.Round,
	}
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func (s *JobOrchestratorService) recordDispatchEvent(ctx context.Context, event jobscheduler.DispatchEvent) {
	if s.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
