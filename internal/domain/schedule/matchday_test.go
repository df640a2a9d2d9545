package schedule

import (
	"testing"
	"time"

	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
)

func fourClubs() []competitor.Competitor {
	return []competitor.Competitor{
		{ID: "A", Name: "Athletic"},
		{ID: "B", Name: "Borough"},
		{ID: "C", Name: "City"},
		{ID: "D", Name: "Dynamo"},
	}
}

func TestGenerate_FourClubScenario(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.August, 8, 15, 0, 0, 0, time.UTC)
	fixtures, err := Generate(fourClubs(), Options{
		CompetitionID: "premier",
		SeasonID:      "premier-2026",
		Start:         start,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(fixtures) != 12 {
		t.Fatalf("expected 12 fixtures, got %d", len(fixtures))
	}

	byRound := fixture.GroupByRound(fixtures)
	if len(byRound) != 6 {
		t.Fatalf("expected 6 rounds, got %d", len(byRound))
	}
	for round, items := range byRound {
		if len(items) != 2 {
			t.Fatalf("round %d: expected 2 fixtures, got %d", round, len(items))
		}
		want := start.AddDate(0, 0, (round-1)*7)
		for _, item := range items {
			if !item.Date.Equal(want) {
				t.Fatalf("round %d fixture %s date=%s want=%s", round, item.ID, item.Date, want)
			}
			if item.Status != fixture.StatusScheduled {
				t.Fatalf("new fixtures must be scheduled, got %s", item.Status)
			}
			if item.CompetitionID != "premier" || item.SeasonID != "premier-2026" {
				t.Fatalf("fixture not tagged with competition/season: %+v", item)
			}
		}
	}

	firstHalfCount := 0
	for _, item := range fixtures {
		if item.Round <= 3 {
			firstHalfCount++
		}
	}
	if firstHalfCount != 6 {
		t.Fatalf("expected 6 first-half fixtures, got %d", firstHalfCount)
	}
}

func TestAssembleMatchdays_SecondHalfContinuesCalendar(t *testing.T) {
	t.Parallel()

	rounds, err := DoubleRoundRobin(competitor.IDs(fourClubs()))
	if err != nil {
		t.Fatalf("double round robin: %v", err)
	}

	start := time.Date(2026, time.August, 8, 0, 0, 0, 0, time.UTC)
	fixtures := AssembleMatchdays(rounds, Options{Start: start, IntervalDays: 7})

	var lastFirstHalf, firstSecondHalf time.Time
	for _, item := range fixtures {
		if item.Round == 3 {
			lastFirstHalf = item.Date
		}
		if item.Round == 4 {
			firstSecondHalf = item.Date
		}
	}
	if got := firstSecondHalf.Sub(lastFirstHalf); got != 7*24*time.Hour {
		t.Fatalf("expected one week between halves, got %s", got)
	}

	var prev fixture.Fixture
	for i, item := range fixtures {
		if i > 0 && item.Round < prev.Round {
			t.Fatalf("fixtures must be emitted in round order")
		}
		if i > 0 && item.Date.Before(prev.Date) {
			t.Fatalf("round number must be monotone with date")
		}
		prev = item
	}
}

func TestAssembleMatchdays_CustomInterval(t *testing.T) {
	t.Parallel()

	rounds := []Round{
		{Number: 1, Pairings: []Pairing{{HomeID: "A", AwayID: "B"}}},
		{Number: 2, Pairings: []Pairing{{HomeID: "B", AwayID: "A"}}},
	}
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	fixtures := AssembleMatchdays(rounds, Options{SeasonID: "s1", Start: start, IntervalDays: 3})

	if !fixtures[1].Date.Equal(start.AddDate(0, 0, 3)) {
		t.Fatalf("unexpected second round date: %s", fixtures[1].Date)
	}
	if fixtures[0].ID != "s1-r01-m01" || fixtures[1].ID != "s1-r02-m01" {
		t.Fatalf("unexpected fixture ids: %s %s", fixtures[0].ID, fixtures[1].ID)
	}
}

func TestGenerate_EmptyRosterHasNoFixtures(t *testing.T) {
	t.Parallel()

	fixtures, err := Generate([]competitor.Competitor{{ID: "solo", Name: "Solo"}}, Options{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(fixtures) != 0 {
		t.Fatalf("expected no fixtures, got %d", len(fixtures))
	}
}
