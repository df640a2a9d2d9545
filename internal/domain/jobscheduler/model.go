package jobscheduler

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

const (
	JobSimulateRound     = "simulate-round"
	JobPathSimulateRound = "/v1/internal/jobs/simulate-round"
)

// DispatchEvent is one status change of a queued background job.
type DispatchEvent struct {
	DispatchID    string
	JobName       string
	JobPath       string
	CompetitionID string
	SeasonID      string
	Round         int
	Status        DispatchStatus
	Payload       map[string]any
	ErrorMessage  string
	OccurredAt    time.Time
	TraceID       string
	SpanID        string
}

var unsafeDispatchChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// DispatchID is stable for a job, season and round so the queue drops
// duplicate enqueues of the same matchday.
func DispatchID(jobName, seasonID string, round int) string {
	return fmt.Sprintf("%s-%s-r%02d", sanitize(jobName), sanitize(seasonID), round)
}

func sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return unsafeDispatchChars.ReplaceAllString(value, "-")
}
