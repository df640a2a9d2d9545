package standing

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
)

func roster(ids ...string) []competitor.Competitor {
	out := make([]competitor.Competitor, 0, len(ids))
	for _, id := range ids {
		out = append(out, competitor.Competitor{ID: id, Name: "Club " + id})
	}
	return out
}

var seasonStart = time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

func finished(id string, round int, home, away string, homeScore, awayScore int) fixture.Fixture {
	h, a := homeScore, awayScore
	return fixture.Fixture{
		ID:               id,
		Round:            round,
		Date:             seasonStart.AddDate(0, 0, (round-1)*7),
		HomeCompetitorID: home,
		AwayCompetitorID: away,
		Status:           fixture.StatusFinished,
		HomeScore:        &h,
		AwayScore:        &a,
	}
}

func scheduled(id string, round int, home, away string) fixture.Fixture {
	return fixture.Fixture{
		ID:               id,
		Round:            round,
		Date:             seasonStart.AddDate(0, 0, (round-1)*7),
		HomeCompetitorID: home,
		AwayCompetitorID: away,
		Status:           fixture.StatusScheduled,
	}
}

func TestInitial_ZeroedInRosterOrder(t *testing.T) {
	t.Parallel()

	table := Initial(roster("A", "B", "C"))
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}
	for i, row := range table.Rows {
		if row.Position != i+1 || row.Played != 0 || row.Points != 0 || len(row.Form) != 0 {
			t.Fatalf("row %d not zeroed: %+v", i, row)
		}
	}
	if table.Rows[0].CompetitorID != "A" || table.Rows[2].CompetitorID != "C" {
		t.Fatalf("rows should follow roster order")
	}
}

func TestRecompute_PointsAndGoals(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.Fixture{
		finished("f1", 1, "A", "B", 2, 0),
		finished("f2", 1, "C", "D", 1, 1),
		finished("f3", 2, "B", "C", 3, 1),
		scheduled("f4", 2, "D", "A"),
	}

	table := Recompute(fixtures, roster("A", "B", "C", "D"))
	if len(table.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", table.Warnings)
	}

	a, _ := table.Find("A")
	if a.Played != 1 || a.Won != 1 || a.Points != 3 || a.GoalsFor != 2 || a.GoalDifference != 2 {
		t.Fatalf("unexpected row for A: %+v", a)
	}
	b, _ := table.Find("B")
	if b.Played != 2 || b.Won != 1 || b.Lost != 1 || b.Points != 3 || b.GoalsFor != 3 || b.GoalsAgainst != 3 {
		t.Fatalf("unexpected row for B: %+v", b)
	}
	c, _ := table.Find("C")
	if c.Drawn != 1 || c.Lost != 1 || c.Points != 1 {
		t.Fatalf("unexpected row for C: %+v", c)
	}
	d, _ := table.Find("D")
	if d.Played != 1 || d.Points != 1 {
		t.Fatalf("scheduled fixture must not count: %+v", d)
	}

	// A and B tie on points; A has the better goal difference.
	if table.Rows[0].CompetitorID != "A" || table.Rows[1].CompetitorID != "B" {
		t.Fatalf("unexpected order: %s, %s", table.Rows[0].CompetitorID, table.Rows[1].CompetitorID)
	}
	for _, row := range table.Rows {
		if row.GoalDifference != row.GoalsFor-row.GoalsAgainst {
			t.Fatalf("goal difference mismatch for %s", row.CompetitorID)
		}
		if row.Played != row.Won+row.Drawn+row.Lost {
			t.Fatalf("played mismatch for %s", row.CompetitorID)
		}
	}
}

func TestRecompute_GoalsForBreaksTie(t *testing.T) {
	t.Parallel()

	// X and Y both win once and lose once by one goal: equal points and GD.
	fixtures := []fixture.Fixture{
		finished("f1", 1, "X", "Z", 1, 0),
		finished("f2", 1, "Y", "W", 4, 3),
		finished("f3", 2, "Z", "X", 1, 0),
		finished("f4", 2, "W", "Y", 3, 2),
	}

	table := Recompute(fixtures, roster("X", "Y", "Z", "W"))
	x, _ := table.Find("X")
	y, _ := table.Find("Y")
	if x.Points != y.Points || x.GoalDifference != y.GoalDifference {
		t.Fatalf("fixture setup should tie X and Y: x=%+v y=%+v", x, y)
	}
	if y.Position >= x.Position {
		t.Fatalf("higher goals-for should rank ahead: x=%d y=%d", x.Position, y.Position)
	}
}

func TestRecompute_FullTieKeepsRosterOrder(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.Fixture{
		finished("f1", 1, "D", "C", 1, 1),
		finished("f2", 1, "B", "A", 1, 1),
	}
	table := Recompute(fixtures, roster("A", "B", "C", "D"))

	got := []string{}
	for _, row := range table.Rows {
		got = append(got, row.CompetitorID)
	}
	if !reflect.DeepEqual(got, []string{"A", "B", "C", "D"}) {
		t.Fatalf("expected roster order on full tie, got %v", got)
	}
}

func TestRecompute_FormWindowNewestFirst(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.Fixture{
		finished("f1", 1, "A", "B", 1, 0), // W
		finished("f2", 2, "B", "A", 1, 0), // L
		finished("f3", 3, "A", "B", 0, 0), // D
		finished("f4", 4, "B", "A", 0, 2), // W
		finished("f5", 5, "A", "B", 0, 3), // L
		finished("f6", 6, "B", "A", 2, 2), // D
		finished("f7", 7, "A", "B", 5, 1), // W
	}

	table := Recompute(fixtures, roster("A", "B"))
	a, _ := table.Find("A")
	if len(a.Form) != FormWindow {
		t.Fatalf("expected form capped at %d, got %d", FormWindow, len(a.Form))
	}
	if got := a.FormString(); got != "WDLWD" {
		t.Fatalf("expected newest-first form WDLWD, got %s", got)
	}
	if a.Played != 7 {
		t.Fatalf("form cap must not limit played count, got %d", a.Played)
	}
}

func TestRecompute_IndependentOfInputOrderAndIdempotent(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.Fixture{
		finished("f1", 1, "A", "B", 2, 1),
		finished("f2", 1, "C", "D", 0, 0),
		finished("f3", 2, "D", "A", 1, 3),
		finished("f4", 2, "B", "C", 2, 2),
		finished("f5", 3, "A", "C", 0, 1),
	}
	reversed := make([]fixture.Fixture, 0, len(fixtures))
	for i := len(fixtures) - 1; i >= 0; i-- {
		reversed = append(reversed, fixtures[i])
	}

	competitors := roster("A", "B", "C", "D")
	first := Recompute(fixtures, competitors)
	second := Recompute(fixtures, competitors)
	shuffled := Recompute(reversed, competitors)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recompute must be idempotent")
	}
	if !reflect.DeepEqual(first, shuffled) {
		t.Fatalf("recompute must not depend on input order")
	}
	if fixtures[0].ID != "f1" {
		t.Fatalf("input slice must not be reordered")
	}
}

func TestRecompute_UnknownCompetitorIsWarning(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.Fixture{
		finished("f1", 1, "A", "GHOST", 3, 0),
		finished("f2", 1, "B", "C", 1, 0),
	}

	table := Recompute(fixtures, roster("A", "B", "C"))
	if len(table.Warnings) != 1 {
		t.Fatalf("expected one warning, got %d", len(table.Warnings))
	}
	warning := table.Warnings[0]
	if warning.FixtureID != "f1" || warning.CompetitorID != "GHOST" {
		t.Fatalf("unexpected warning: %+v", warning)
	}
	if !errors.Is(warning, ErrUnknownCompetitorReference) {
		t.Fatalf("warning should wrap ErrUnknownCompetitorReference, got %v", warning.Err)
	}

	a, _ := table.Find("A")
	if a.Points != 3 || a.GoalsFor != 3 {
		t.Fatalf("known side should still be counted: %+v", a)
	}
	if _, ok := table.Find("GHOST"); ok {
		t.Fatalf("unknown competitor must not get a row")
	}
	b, _ := table.Find("B")
	if b.Points != 3 {
		t.Fatalf("remaining fixtures should still apply: %+v", b)
	}
}

func TestTable_Slice(t *testing.T) {
	t.Parallel()

	table := Initial(roster("A", "B", "C", "D"))
	if got := table.Slice(2, 3); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Fatalf("unexpected slice: %v", got)
	}
	if got := table.Slice(3, 10); !reflect.DeepEqual(got, []string{"C", "D"}) {
		t.Fatalf("slice should clamp: %v", got)
	}
	if got := table.Slice(5, 6); len(got) != 0 {
		t.Fatalf("out of range slice should be empty: %v", got)
	}
}
