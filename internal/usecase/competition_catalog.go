package usecase

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/season"
)

// CompetitionCatalog is the read-only set of competitions the service runs.
type CompetitionCatalog struct {
	items []season.Competition
	byID  map[string]season.Competition
}

func NewCompetitionCatalog(items []season.Competition) (*CompetitionCatalog, error) {
	byID := make(map[string]season.Competition, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, errors.Mark(errors.New("competition id is required"), ErrInvalidInput)
		}
		if _, dup := byID[id]; dup {
			return nil, errors.Mark(errors.Newf("competition %s listed twice", id), ErrInvalidInput)
		}
		if err := competitor.ValidateRoster(item.Competitors); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "competition=%s", id), ErrInvalidInput)
		}
		if item.ManagedCompetitorID != "" {
			if _, ok := competitor.Index(item.Competitors)[item.ManagedCompetitorID]; !ok {
				return nil, errors.Mark(errors.Newf("competition=%s managed competitor %s is not in the roster", id, item.ManagedCompetitorID), ErrInvalidInput)
			}
		}
		for _, rule := range item.Qualifications {
			if err := rule.Validate(); err != nil {
				return nil, errors.Mark(errors.Wrapf(err, "competition=%s", id), ErrInvalidInput)
			}
		}
		byID[id] = item
	}

	for _, item := range items {
		for _, rule := range item.Qualifications {
			target, ok := byID[rule.Competition]
			if !ok {
				return nil, errors.Mark(errors.Newf("competition=%s qualifies into unknown competition %s", item.ID, rule.Competition), ErrInvalidInput)
			}
			if target.IsPrimary() {
				return nil, errors.Mark(errors.Newf("competition=%s qualifies into primary competition %s", item.ID, rule.Competition), ErrInvalidInput)
			}
		}
	}

	return &CompetitionCatalog{
		items: append([]season.Competition(nil), items...),
		byID:  byID,
	}, nil
}

func (c *CompetitionCatalog) List() []season.Competition {
	return append([]season.Competition(nil), c.items...)
}

func (c *CompetitionCatalog) Get(competitionID string) (season.Competition, error) {
	item, ok := c.byID[strings.TrimSpace(competitionID)]
	if !ok {
		return season.Competition{}, errors.Wrapf(ErrNotFound, "competition=%s", competitionID)
	}
	return item, nil
}

// Primary lists competitions that own a roster, in catalog order.
func (c *CompetitionCatalog) Primary() []season.Competition {
	out := make([]season.Competition, 0, len(c.items))
	for _, item := range c.items {
		if item.IsPrimary() {
			out = append(out, item)
		}
	}
	return out
}

// ManagedCompetitor is the competitor the player controls in competitionID.
// Secondary competitions inherit it from the primary competition feeding them.
func (c *CompetitionCatalog) ManagedCompetitor(competitionID string) string {
	item, ok := c.byID[competitionID]
	if !ok {
		return ""
	}
	if item.ManagedCompetitorID != "" {
		return item.ManagedCompetitorID
	}

	feeders := make([]string, 0, 1)
	for _, primary := range c.items {
		for _, rule := range primary.Qualifications {
			if rule.Competition == competitionID && primary.ManagedCompetitorID != "" {
				feeders = append(feeders, primary.ManagedCompetitorID)
			}
		}
	}
	sort.Strings(feeders)
	if len(feeders) == 0 {
		return ""
	}
	return feeders[0]
}

// IntervalDays is 0 when unset, which the scheduler reads as weekly.
func (c *CompetitionCatalog) IntervalDays(competitionID string) int {
	item, ok := c.byID[competitionID]
	if !ok || item.IntervalDays <= 0 {
		return 0
	}
	return item.IntervalDays
}
