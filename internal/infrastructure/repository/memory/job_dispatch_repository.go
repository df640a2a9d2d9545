package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/jobscheduler"
)

// JobDispatchRepository keeps the latest status per dispatch id.
type JobDispatchRepository struct {
	mu     sync.RWMutex
	events map[string]jobscheduler.DispatchEvent
}

func NewJobDispatchRepository() *JobDispatchRepository {
	return &JobDispatchRepository{events: make(map[string]jobscheduler.DispatchEvent)}
}

func (r *JobDispatchRepository) UpsertEvent(_ context.Context, event jobscheduler.DispatchEvent) error {
	if strings.TrimSpace(event.DispatchID) == "" {
		return errors.New("dispatch id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Status != jobscheduler.StatusFailed {
		event.ErrorMessage = ""
	}
	r.events[event.DispatchID] = event
	return nil
}

func (r *JobDispatchRepository) ListBySeason(_ context.Context, seasonID string) ([]jobscheduler.DispatchEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]jobscheduler.DispatchEvent, 0)
	for _, item := range r.events {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].DispatchID < out[j].DispatchID
	})
	return out, nil
}
