package outcome

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"

	"github.com/riskibarqy/league-season/internal/domain/fixture"
	domain "github.com/riskibarqy/league-season/internal/domain/outcome"
)

const (
	defaultHomeGoalRate = 1.45
	defaultAwayGoalRate = 1.10
	maxGoalsPerSide     = 9
)

type SimulatedConfig struct {
	// Seed is mixed into every fixture hash so different deployments play
	// different seasons.
	Seed         uint64
	HomeGoalRate float64
	AwayGoalRate float64
	// Squads maps competitor id to player ids. Competitors without a squad
	// still score, their goal events just carry no player.
	Squads map[string][]string
}

// Simulated produces a deterministic result per fixture id.
type Simulated struct {
	seed     uint64
	homeRate float64
	awayRate float64
	squads   map[string][]string
}

func NewSimulated(cfg SimulatedConfig) *Simulated {
	if cfg.HomeGoalRate <= 0 {
		cfg.HomeGoalRate = defaultHomeGoalRate
	}
	if cfg.AwayGoalRate <= 0 {
		cfg.AwayGoalRate = defaultAwayGoalRate
	}
	squads := make(map[string][]string, len(cfg.Squads))
	for competitorID, players := range cfg.Squads {
		squads[competitorID] = append([]string(nil), players...)
	}

	return &Simulated{
		seed:     cfg.Seed,
		homeRate: cfg.HomeGoalRate,
		awayRate: cfg.AwayGoalRate,
		squads:   squads,
	}
}

func (s *Simulated) Produce(ctx context.Context, f fixture.Fixture) (domain.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.Outcome{}, err
	}

	rng := rand.New(rand.NewSource(int64(s.fixtureSeed(f.ID))))
	home := poisson(rng, s.homeRate)
	away := poisson(rng, s.awayRate)

	events := make([]fixture.Event, 0, home+away+8)
	events = append(events, s.appearances(f.HomeCompetitorID)...)
	events = append(events, s.appearances(f.AwayCompetitorID)...)
	events = append(events, s.goals(rng, f.HomeCompetitorID, home)...)
	events = append(events, s.goals(rng, f.AwayCompetitorID, away)...)
	events = append(events, s.cards(rng, f.HomeCompetitorID)...)
	events = append(events, s.cards(rng, f.AwayCompetitorID)...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Minute < events[j].Minute
	})

	return domain.Outcome{HomeScore: home, AwayScore: away, Events: events}, nil
}

func (s *Simulated) fixtureSeed(fixtureID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fixtureID))
	return h.Sum64() ^ s.seed
}

func (s *Simulated) appearances(competitorID string) []fixture.Event {
	players := s.squads[competitorID]
	out := make([]fixture.Event, 0, len(players))
	for _, playerID := range players {
		out = append(out, fixture.Event{
			Minute:       0,
			Type:         fixture.EventAppearance,
			CompetitorID: competitorID,
			PlayerID:     playerID,
		})
	}
	return out
}

func (s *Simulated) goals(rng *rand.Rand, competitorID string, count int) []fixture.Event {
	players := s.squads[competitorID]
	out := make([]fixture.Event, 0, count)
	for i := 0; i < count; i++ {
		event := fixture.Event{
			Minute:       1 + rng.Intn(90),
			Type:         fixture.EventGoal,
			CompetitorID: competitorID,
		}
		if len(players) > 0 {
			scorer := rng.Intn(len(players))
			event.PlayerID = players[scorer]
			if len(players) > 1 && rng.Float64() < 0.7 {
				assist := (scorer + 1 + rng.Intn(len(players)-1)) % len(players)
				event.AssistPlayerID = players[assist]
			}
		}
		out = append(out, event)
	}
	return out
}

func (s *Simulated) cards(rng *rand.Rand, competitorID string) []fixture.Event {
	players := s.squads[competitorID]
	if len(players) == 0 {
		return nil
	}

	out := make([]fixture.Event, 0, 3)
	for i, n := 0, rng.Intn(3); i < n; i++ {
		out = append(out, fixture.Event{
			Minute:       1 + rng.Intn(90),
			Type:         fixture.EventYellowCard,
			CompetitorID: competitorID,
			PlayerID:     players[rng.Intn(len(players))],
		})
	}
	if rng.Float64() < 0.05 {
		out = append(out, fixture.Event{
			Minute:       1 + rng.Intn(90),
			Type:         fixture.EventRedCard,
			CompetitorID: competitorID,
			PlayerID:     players[rng.Intn(len(players))],
		})
	}
	return out
}

// poisson samples with Knuth's method, capped at maxGoalsPerSide.
func poisson(rng *rand.Rand, lambda float64) int {
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit || k >= maxGoalsPerSide {
			return k
		}
		k++
	}
}
