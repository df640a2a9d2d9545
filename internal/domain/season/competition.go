package season

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/standing"
)

// Competition is a catalog entry. Primary competitions own a roster;
// secondary ones take their entrants from qualification rules.
type Competition struct {
	ID                  string
	Name                string
	Competitors         []competitor.Competitor
	ManagedCompetitorID string
	IntervalDays        int
	SeasonStart         time.Time
	Qualifications      []QualificationRule
}

func (c Competition) IsPrimary() bool {
	return len(c.Competitors) > 0
}

// QualificationRule sends positions From..To (inclusive, 1-based) of the
// final table to Competition.
type QualificationRule struct {
	Competition string
	From        int
	To          int
}

func (r QualificationRule) Validate() error {
	if strings.TrimSpace(r.Competition) == "" {
		return errors.New("qualification competition is required")
	}
	if r.From < 1 || r.To < r.From {
		return errors.Newf("qualification %s has invalid range %d..%d", r.Competition, r.From, r.To)
	}
	return nil
}

// Qualification is the ordered entrant list for one secondary competition.
type Qualification struct {
	Competition   string
	CompetitorIDs []string
}

// Qualify slices the final table per rule. Rules naming the same competition
// are merged in rule order without duplicates.
func Qualify(table standing.Table, rules []QualificationRule) ([]Qualification, error) {
	out := make([]Qualification, 0, len(rules))
	index := make(map[string]int, len(rules))
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, err
		}

		ids := table.Slice(rule.From, rule.To)
		pos, ok := index[rule.Competition]
		if !ok {
			index[rule.Competition] = len(out)
			out = append(out, Qualification{Competition: rule.Competition, CompetitorIDs: ids})
			continue
		}

		seen := make(map[string]struct{}, len(out[pos].CompetitorIDs))
		for _, id := range out[pos].CompetitorIDs {
			seen[id] = struct{}{}
		}
		for _, id := range ids {
			if _, dup := seen[id]; !dup {
				out[pos].CompetitorIDs = append(out[pos].CompetitorIDs, id)
			}
		}
	}
	return out, nil
}
