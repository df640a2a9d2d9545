package jobscheduler

import "context"

type Repository interface {
	UpsertEvent(ctx context.Context, event DispatchEvent) error
	ListBySeason(ctx context.Context, seasonID string) ([]DispatchEvent, error)
}
