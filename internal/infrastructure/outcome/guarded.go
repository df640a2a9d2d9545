package outcome

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
	domain "github.com/riskibarqy/league-season/internal/domain/outcome"
	"github.com/riskibarqy/league-season/internal/platform/logging"
	"github.com/riskibarqy/league-season/internal/platform/resilience"
)

// Guarded wraps a producer with a per-call timeout, a circuit breaker and
// result validation.
type Guarded struct {
	next    domain.Producer
	breaker *resilience.CircuitBreaker
	timeout time.Duration
	logger  *logging.Logger
}

func NewGuarded(next domain.Producer, breaker *resilience.CircuitBreaker, timeout time.Duration, logger *logging.Logger) *Guarded {
	if logger == nil {
		logger = logging.Default()
	}
	return &Guarded{
		next:    next,
		breaker: breaker,
		timeout: timeout,
		logger:  logger,
	}
}

func (g *Guarded) Produce(ctx context.Context, f fixture.Fixture) (domain.Outcome, error) {
	if g.next == nil {
		return domain.Outcome{}, errors.New("outcome producer is not configured")
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var result domain.Outcome
	err := g.breaker.Do(func() error {
		produced, err := g.next.Produce(callCtx, f)
		if err != nil {
			return err
		}
		if err := produced.Validate(f); err != nil {
			return err
		}
		result = produced
		return nil
	}, isCallerError)
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			g.logger.WarnContext(ctx, "outcome producer circuit open", "fixture_id", f.ID, "state", g.breaker.State())
		}
		return domain.Outcome{}, errors.Wrapf(err, "produce outcome fixture=%s", f.ID)
	}
	return result, nil
}

// isCallerError keeps cancellations from tripping the breaker.
func isCallerError(err error) bool {
	return errors.Is(err, context.Canceled)
}
