package standing

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
)

// Initial returns a zeroed table in roster order.
func Initial(competitors []competitor.Competitor) Table {
	rows := make([]Row, 0, len(competitors))
	for i, item := range competitors {
		rows = append(rows, Row{
			CompetitorID: item.ID,
			Form:         []Result{},
			Position:     i + 1,
		})
	}
	return Table{Rows: rows, Warnings: []Warning{}}
}

// Recompute rebuilds the table from scratch using every finished fixture.
//
// Fixtures are applied in chronological order regardless of input order, so
// the result is a pure function of the fixture set. A side that references a
// competitor outside the roster is dropped and reported as a warning; the
// known side is still counted.
func Recompute(fixtures []fixture.Fixture, competitors []competitor.Competitor) Table {
	table := Initial(competitors)
	index := competitor.Index(competitors)

	ordered := make([]fixture.Fixture, 0, len(fixtures))
	for _, item := range fixtures {
		if item.IsFinished() {
			ordered = append(ordered, item)
		}
	}
	fixture.SortChronological(ordered)

	for _, item := range ordered {
		home, away, ok := item.Score()
		if !ok {
			table.Warnings = append(table.Warnings, Warning{
				FixtureID: item.ID,
				Err:       errors.Newf("finished fixture %s has no recorded score", item.ID),
			})
			continue
		}

		homeIdx, homeKnown := index[item.HomeCompetitorID]
		awayIdx, awayKnown := index[item.AwayCompetitorID]
		if !homeKnown {
			table.Warnings = append(table.Warnings, unknownReference(item.ID, item.HomeCompetitorID))
		}
		if !awayKnown {
			table.Warnings = append(table.Warnings, unknownReference(item.ID, item.AwayCompetitorID))
		}

		if homeKnown {
			apply(&table.Rows[homeIdx], home, away)
		}
		if awayKnown {
			apply(&table.Rows[awayIdx], away, home)
		}
	}

	Rank(table.Rows)
	return table
}

func unknownReference(fixtureID, competitorID string) Warning {
	return Warning{
		FixtureID:    fixtureID,
		CompetitorID: competitorID,
		Err:          errors.Wrapf(ErrUnknownCompetitorReference, "fixture=%s competitor=%s", fixtureID, competitorID),
	}
}

func apply(row *Row, scored, conceded int) {
	row.Played++
	row.GoalsFor += scored
	row.GoalsAgainst += conceded
	row.GoalDifference = row.GoalsFor - row.GoalsAgainst

	var result Result
	switch {
	case scored > conceded:
		row.Won++
		row.Points += PointsWin
		result = ResultWin
	case scored == conceded:
		row.Drawn++
		row.Points += PointsDraw
		result = ResultDraw
	default:
		row.Lost++
		row.Points += PointsLoss
		result = ResultLoss
	}

	form := make([]Result, 0, FormWindow)
	form = append(form, result)
	form = append(form, row.Form...)
	if len(form) > FormWindow {
		form = form[:FormWindow]
	}
	row.Form = form
}

// Rank sorts rows by points, goal difference and goals for, all descending.
// Ties keep their current relative order. Positions are rewritten 1..n.
func Rank(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.GoalsFor > b.GoalsFor
	})
	for i := range rows {
		rows[i].Position = i + 1
	}
}
