package fixture

import (
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusFinished  = "FINISHED"
)

var (
	ErrAlreadyResolved = errors.New("fixture already resolved")
	ErrInvalidScore    = errors.New("invalid fixture score")
)

type EventType string

const (
	EventAppearance EventType = "APPEARANCE"
	EventGoal       EventType = "GOAL"
	EventYellowCard EventType = "YELLOW_CARD"
	EventRedCard    EventType = "RED_CARD"
)

// Event is one notable moment reported by the outcome producer.
type Event struct {
	Minute         int
	Type           EventType
	CompetitorID   string
	PlayerID       string
	AssistPlayerID string
}

// Fixture represents one scheduled match of a season.
type Fixture struct {
	ID               string
	CompetitionID    string
	SeasonID         string
	Round            int
	Date             time.Time
	HomeCompetitorID string
	AwayCompetitorID string
	Status           string
	HomeScore        *int
	AwayScore        *int
	Events           []Event
	FinishedAt       *time.Time
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT":
		return true
	default:
		return false
	}
}

func (f Fixture) IsFinished() bool {
	return IsFinishedStatus(f.Status)
}

func (f Fixture) IsScheduled() bool {
	return NormalizeStatus(f.Status) == StatusScheduled
}

func (f Fixture) Involves(competitorID string) bool {
	return competitorID != "" && (f.HomeCompetitorID == competitorID || f.AwayCompetitorID == competitorID)
}

// Score returns the final score when the fixture is finished and both sides are recorded.
func (f Fixture) Score() (home, away int, ok bool) {
	if !f.IsFinished() || f.HomeScore == nil || f.AwayScore == nil {
		return 0, 0, false
	}
	return *f.HomeScore, *f.AwayScore, true
}

// Resolve returns a finished copy of f. The receiver is never modified.
func (f Fixture) Resolve(homeScore, awayScore int, events []Event, at time.Time) (Fixture, error) {
	if !f.IsScheduled() {
		return f, errors.Wrapf(ErrAlreadyResolved, "fixture=%s status=%s", f.ID, NormalizeStatus(f.Status))
	}
	if homeScore < 0 || awayScore < 0 {
		return f, errors.Wrapf(ErrInvalidScore, "fixture=%s score=%d-%d", f.ID, homeScore, awayScore)
	}

	out := f.Clone()
	home := homeScore
	away := awayScore
	finishedAt := at.UTC()
	out.Status = StatusFinished
	out.HomeScore = &home
	out.AwayScore = &away
	out.Events = append([]Event(nil), events...)
	out.FinishedAt = &finishedAt
	return out, nil
}

// Clone deep-copies pointer and slice fields.
func (f Fixture) Clone() Fixture {
	out := f
	if f.HomeScore != nil {
		v := *f.HomeScore
		out.HomeScore = &v
	}
	if f.AwayScore != nil {
		v := *f.AwayScore
		out.AwayScore = &v
	}
	if f.FinishedAt != nil {
		v := *f.FinishedAt
		out.FinishedAt = &v
	}
	if f.Events != nil {
		out.Events = append([]Event(nil), f.Events...)
	}
	return out
}

func CloneAll(items []Fixture) []Fixture {
	if items == nil {
		return nil
	}
	out := make([]Fixture, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// SortChronological orders fixtures by round, then date, then id.
func SortChronological(items []Fixture) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i], items[j])
	})
}

func Less(a, b Fixture) bool {
	if a.Round != b.Round {
		return a.Round < b.Round
	}
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.ID < b.ID
}

func ByRound(items []Fixture, round int) []Fixture {
	out := make([]Fixture, 0)
	for _, item := range items {
		if item.Round == round {
			out = append(out, item)
		}
	}
	return out
}

// GroupByRound buckets fixtures by their round number.
func GroupByRound(items []Fixture) map[int][]Fixture {
	out := make(map[int][]Fixture)
	for _, item := range items {
		out[item.Round] = append(out[item.Round], item)
	}
	return out
}

func MaxRound(items []Fixture) int {
	maxRound := 0
	for _, item := range items {
		if item.Round > maxRound {
			maxRound = item.Round
		}
	}
	return maxRound
}

func FindByID(items []Fixture, fixtureID string) (Fixture, int, bool) {
	for i, item := range items {
		if item.ID == fixtureID {
			return item, i, true
		}
	}
	return Fixture{}, -1, false
}
