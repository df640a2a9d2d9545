package season

import (
	"context"

	"github.com/riskibarqy/league-season/internal/domain/fixture"
)

type Repository interface {
	GetCurrent(ctx context.Context, competitionID string) (Season, bool, error)
	GetByID(ctx context.Context, seasonID string) (Season, bool, error)
	ListByCompetition(ctx context.Context, competitionID string) ([]Season, error)
	Create(ctx context.Context, item Season) error
	// SaveResults marks fixtures finished only if they are still scheduled and
	// stores progress in the same transaction. If any fixture was already
	// finished nothing is written and fixture.ErrAlreadyResolved is returned.
	SaveResults(ctx context.Context, seasonID string, resolved []fixture.Fixture, progress Progress) error
	SaveProgress(ctx context.Context, seasonID string, progress Progress) error
	// Rollover flags closed seasons non-current and inserts opened ones atomically.
	Rollover(ctx context.Context, closed []Season, opened []Season) error
}
