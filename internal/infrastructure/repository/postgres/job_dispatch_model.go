package postgres

import (
	"database/sql"
	"time"
)

type jobDispatchInsertModel struct {
	DispatchID    string     `db:"dispatch_id"`
	JobName       string     `db:"job_name"`
	JobPath       string     `db:"job_path"`
	CompetitionID string     `db:"competition_id"`
	SeasonID      string     `db:"season_public_id"`
	Round         int        `db:"round"`
	Payload       string     `db:"payload"`
	Status        string     `db:"status"`
	SentAt        *time.Time `db:"sent_at"`
	CompletedAt   *time.Time `db:"completed_at"`
	FailedAt      *time.Time `db:"failed_at"`
	LastError     *string    `db:"last_error"`
	TraceID       *string    `db:"trace_id"`
	SpanID        *string    `db:"span_id"`
}

type jobDispatchTableModel struct {
	ID            int64          `db:"id"`
	DispatchID    string         `db:"dispatch_id"`
	JobName       string         `db:"job_name"`
	JobPath       string         `db:"job_path"`
	CompetitionID string         `db:"competition_id"`
	SeasonID      string         `db:"season_public_id"`
	Round         int            `db:"round"`
	Payload       string         `db:"payload"`
	Status        string         `db:"status"`
	SentAt        sql.NullTime   `db:"sent_at"`
	CompletedAt   sql.NullTime   `db:"completed_at"`
	FailedAt      sql.NullTime   `db:"failed_at"`
	LastError     sql.NullString `db:"last_error"`
	TraceID       sql.NullString `db:"trace_id"`
	SpanID        sql.NullString `db:"span_id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}
