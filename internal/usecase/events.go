package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

type SeasonEventType string

const (
	EventSeasonStarted   SeasonEventType = "season.started"
	EventRoundCompleted  SeasonEventType = "round.completed"
	EventSeasonCompleted SeasonEventType = "season.completed"
	EventSeasonClosed    SeasonEventType = "season.closed"
)

// SeasonEvent is a lifecycle notification for downstream consumers.
type SeasonEvent struct {
	Type          SeasonEventType `json:"type"`
	CompetitionID string          `json:"competition_id"`
	SeasonID      string          `json:"season_id"`
	Round         int             `json:"round,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type EventPublisher interface {
	PublishSeasonEvent(ctx context.Context, event SeasonEvent) error
}

type noopEventPublisher struct{}

func (noopEventPublisher) PublishSeasonEvent(context.Context, SeasonEvent) error {
	return nil
}

func NewNoopEventPublisher() EventPublisher {
	return noopEventPublisher{}
}

// QueueEventPublisher pushes events through the job queue to a webhook path.
type QueueEventPublisher struct {
	queue JobQueue
	path  string
}

func NewQueueEventPublisher(queue JobQueue, path string) *QueueEventPublisher {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	return &QueueEventPublisher{queue: queue, path: strings.TrimSpace(path)}
}

func (p *QueueEventPublisher) PublishSeasonEvent(ctx context.Context, event SeasonEvent) error {
	if p.path == "" {
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	dedupID := sanitizeDedupSegment(fmt.Sprintf("%s-%s-r%02d", event.Type, event.SeasonID, event.Round))
	if err := p.queue.Enqueue(ctx, p.path, event, 0, dedupID); err != nil {
		return errors.Wrapf(err, "enqueue season event type=%s season=%s", event.Type, event.SeasonID)
	}
	return nil
}
