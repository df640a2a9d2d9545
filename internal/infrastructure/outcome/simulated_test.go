package outcome

import (
	"context"
	"testing"

	"github.com/riskibarqy/league-season/internal/domain/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFixture(id string) fixture.Fixture {
	return fixture.Fixture{
		ID:               id,
		Round:            1,
		HomeCompetitorID: "idn-persija",
		AwayCompetitorID: "idn-psm",
		Status:           fixture.StatusScheduled,
	}
}

func TestSimulated_DeterministicPerFixture(t *testing.T) {
	t.Parallel()

	sim := NewSimulated(SimulatedConfig{
		Seed: 7,
		Squads: map[string][]string{
			"idn-persija": {"idn-gk-01", "idn-def-01", "idn-mid-01", "idn-fwd-01"},
		},
	})
	ctx := context.Background()

	first, err := sim.Produce(ctx, sampleFixture("idn-liga-1-2026-r01-m01"))
	require.NoError(t, err)
	again, err := sim.Produce(ctx, sampleFixture("idn-liga-1-2026-r01-m01"))
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other := NewSimulated(SimulatedConfig{Seed: 8})
	differs := false
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		x, _ := sim.Produce(ctx, sampleFixture(id))
		y, _ := other.Produce(ctx, sampleFixture(id))
		if x.HomeScore != y.HomeScore || x.AwayScore != y.AwayScore {
			differs = true
			break
		}
	}
	assert.True(t, differs, "different seeds should play different results")
}

func TestSimulated_ProducesValidOutcomes(t *testing.T) {
	t.Parallel()

	sim := NewSimulated(SimulatedConfig{
		Squads: map[string][]string{
			"idn-persija": {"idn-gk-01", "idn-def-01", "idn-mid-01", "idn-fwd-01"},
			"idn-psm":     {"idn-fwd-09"},
		},
	})

	for i := 0; i < 200; i++ {
		f := sampleFixture("fixture-" + string(rune('a'+i%26)) + string(rune('a'+i/26)))
		got, err := sim.Produce(context.Background(), f)
		require.NoError(t, err)
		require.NoError(t, got.Validate(f))
		assert.LessOrEqual(t, got.HomeScore, maxGoalsPerSide)

		appearances := 0
		for _, event := range got.Events {
			if event.Type == fixture.EventAppearance {
				appearances++
			}
			if event.Type == fixture.EventGoal && event.CompetitorID == "idn-psm" {
				assert.Empty(t, event.AssistPlayerID, "single player squads cannot assist themselves")
			}
		}
		assert.Equal(t, 5, appearances)
	}
}

func TestSimulated_RespectsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSimulated(SimulatedConfig{}).Produce(ctx, sampleFixture("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
