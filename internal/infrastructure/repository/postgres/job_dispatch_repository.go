package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-season/internal/domain/jobscheduler"
	qb "github.com/riskibarqy/league-season/internal/platform/querybuilder"
)

type JobDispatchRepository struct {
	db *sqlx.DB
}

func NewJobDispatchRepository(db *sqlx.DB) *JobDispatchRepository {
	return &JobDispatchRepository{db: db}
}

func (r *JobDispatchRepository) UpsertEvent(ctx context.Context, event jobscheduler.DispatchEvent) error {
	dispatchID := strings.TrimSpace(event.DispatchID)
	if dispatchID == "" {
		return errors.New("dispatch id is required")
	}

	jobName := strings.TrimSpace(event.JobName)
	if jobName == "" {
		jobName = "unknown"
	}
	jobPath := strings.TrimSpace(event.JobPath)
	if jobPath == "" {
		jobPath = "/unknown"
	}

	occurredAt := event.OccurredAt.UTC()
	if event.OccurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	payloadJSON, err := marshalPayload(event.Payload)
	if err != nil {
		return errors.Wrap(err, "marshal job dispatch payload")
	}

	model := jobDispatchInsertModel{
		DispatchID:    dispatchID,
		JobName:       jobName,
		JobPath:       jobPath,
		CompetitionID: strings.TrimSpace(event.CompetitionID),
		SeasonID:      strings.TrimSpace(event.SeasonID),
		Round:         event.Round,
		Payload:       payloadJSON,
		Status:        string(event.Status),
		LastError:     optionalString(event.ErrorMessage),
		TraceID:       optionalString(event.TraceID),
		SpanID:        optionalString(event.SpanID),
	}
	switch event.Status {
	case jobscheduler.StatusSent:
		model.SentAt = &occurredAt
		model.LastError = nil
	case jobscheduler.StatusCompleted:
		model.CompletedAt = &occurredAt
		model.LastError = nil
	case jobscheduler.StatusFailed:
		model.FailedAt = &occurredAt
	}

	query, args, err := qb.InsertModel("job_dispatches", model, `ON CONFLICT (dispatch_id)
DO UPDATE SET
    payload = EXCLUDED.payload,
    status = EXCLUDED.status,
    sent_at = COALESCE(EXCLUDED.sent_at, job_dispatches.sent_at),
    completed_at = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_at
        ELSE job_dispatches.completed_at
    END,
    failed_at = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_at
        WHEN EXCLUDED.status = 'completed' THEN NULL
        ELSE job_dispatches.failed_at
    END,
    last_error = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.last_error
        ELSE NULL
    END,
    trace_id = COALESCE(EXCLUDED.trace_id, job_dispatches.trace_id),
    span_id = COALESCE(EXCLUDED.span_id, job_dispatches.span_id),
    updated_at = NOW()`)
	if err != nil {
		return errors.Wrap(err, "build upsert job dispatch query")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "upsert job dispatch dispatch_id=%s status=%s", dispatchID, event.Status)
	}
	return nil
}

func (r *JobDispatchRepository) ListBySeason(ctx context.Context, seasonID string) ([]jobscheduler.DispatchEvent, error) {
	query, args, err := qb.Select("*").From("job_dispatches").
		Where(qb.Eq("season_public_id", seasonID)).
		OrderBy("round", "id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list job dispatches query")
	}

	var rows []jobDispatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "list job dispatches season=%s", seasonID)
	}

	out := make([]jobscheduler.DispatchEvent, 0, len(rows))
	for _, row := range rows {
		payload, err := unmarshalPayload(row.Payload)
		if err != nil {
			return nil, errors.Wrapf(err, "dispatch_id=%s", row.DispatchID)
		}
		occurredAt := row.UpdatedAt.UTC()
		out = append(out, jobscheduler.DispatchEvent{
			DispatchID:    row.DispatchID,
			JobName:       row.JobName,
			JobPath:       row.JobPath,
			CompetitionID: row.CompetitionID,
			SeasonID:      row.SeasonID,
			Round:         row.Round,
			Status:        jobscheduler.DispatchStatus(row.Status),
			Payload:       payload,
			ErrorMessage:  row.LastError.String,
			OccurredAt:    occurredAt,
			TraceID:       row.TraceID.String,
			SpanID:        row.SpanID.String,
		})
	}
	return out, nil
}

func marshalPayload(payload map[string]any) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalPayload(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "{}" {
		return nil, nil
	}
	var out map[string]any
	if err := sonic.UnmarshalString(raw, &out); err != nil {
		return nil, errors.Wrap(err, "unmarshal job dispatch payload")
	}
	return out, nil
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
