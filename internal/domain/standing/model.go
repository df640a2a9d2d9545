package standing

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// FormWindow is the number of most recent results kept per row.
const FormWindow = 5

var ErrUnknownCompetitorReference = errors.New("fixture references unknown competitor")

type Result string

const (
	ResultWin  Result = "W"
	ResultDraw Result = "D"
	ResultLoss Result = "L"
)

// Points awarded per result.
const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

type Row struct {
	CompetitorID   string
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	Form           []Result
	Position       int
}

// FormString renders form newest first, e.g. "WWDLW".
func (r Row) FormString() string {
	var b strings.Builder
	for _, item := range r.Form {
		b.WriteString(string(item))
	}
	return b.String()
}

func (r Row) Clone() Row {
	out := r
	out.Form = append([]Result(nil), r.Form...)
	return out
}

// Warning reports a fixture that could only be applied partially.
type Warning struct {
	FixtureID    string
	CompetitorID string
	Err          error
}

func (w Warning) Error() string {
	if w.Err == nil {
		return "standing warning: fixture=" + w.FixtureID
	}
	return w.Err.Error()
}

func (w Warning) Unwrap() error {
	return w.Err
}

type Table struct {
	Rows     []Row
	Warnings []Warning
}

// Find returns the row for competitorID.
func (t Table) Find(competitorID string) (Row, bool) {
	for _, row := range t.Rows {
		if row.CompetitorID == competitorID {
			return row, true
		}
	}
	return Row{}, false
}

// Leader returns the first placed row, if any.
func (t Table) Leader() (Row, bool) {
	if len(t.Rows) == 0 {
		return Row{}, false
	}
	return t.Rows[0], true
}

// Slice returns the competitor ids placed from..to inclusive (1-based).
// Out of range bounds are clamped.
func (t Table) Slice(from, to int) []string {
	if from < 1 {
		from = 1
	}
	if to > len(t.Rows) {
		to = len(t.Rows)
	}
	out := make([]string, 0)
	for pos := from; pos <= to; pos++ {
		out = append(out, t.Rows[pos-1].CompetitorID)
	}
	return out
}

func CloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out
}
