package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/season"
	"gopkg.in/yaml.v3"
)

// CompetitionsFile is the YAML document behind COMPETITIONS_FILE.
type CompetitionsFile struct {
	Competitions []CompetitionEntry `yaml:"competitions"`
}

type CompetitionEntry struct {
	ID                string                   `yaml:"id"`
	Name              string                   `yaml:"name"`
	ManagedCompetitor string                   `yaml:"managed_competitor"`
	IntervalDays      int                      `yaml:"interval_days"`
	SeasonStart       string                   `yaml:"season_start"`
	Competitors       []CompetitorEntry        `yaml:"competitors"`
	Qualifications    []QualificationRuleEntry `yaml:"qualifications"`
}

type CompetitorEntry struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Squad []string `yaml:"squad"`
}

type QualificationRuleEntry struct {
	Competition string `yaml:"competition"`
	From        int    `yaml:"from"`
	To          int    `yaml:"to"`
}

// Competitions is the decoded catalog plus the player ids per competitor used
// by the simulated outcome producer.
type Competitions struct {
	Items  []season.Competition
	Squads map[string][]string
}

func LoadCompetitions(path string) (Competitions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Competitions{}, errors.Wrapf(err, "read competitions file %s", path)
	}
	return ParseCompetitions(raw)
}

func ParseCompetitions(raw []byte) (Competitions, error) {
	var file CompetitionsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Competitions{}, errors.Wrap(err, "decode competitions yaml")
	}
	if len(file.Competitions) == 0 {
		return Competitions{}, errors.New("competitions file declares no competitions")
	}

	out := Competitions{
		Items:  make([]season.Competition, 0, len(file.Competitions)),
		Squads: make(map[string][]string),
	}
	for _, entry := range file.Competitions {
		item, err := entry.toCompetition()
		if err != nil {
			return Competitions{}, err
		}
		out.Items = append(out.Items, item)
		for _, c := range entry.Competitors {
			if len(c.Squad) > 0 {
				out.Squads[strings.TrimSpace(c.ID)] = append([]string(nil), c.Squad...)
			}
		}
	}
	return out, nil
}

func (e CompetitionEntry) toCompetition() (season.Competition, error) {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return season.Competition{}, errors.New("competition id is required")
	}

	var start time.Time
	if value := strings.TrimSpace(e.SeasonStart); value != "" {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			parsed, err = time.Parse(time.DateOnly, value)
			if err != nil {
				return season.Competition{}, errors.Wrapf(err, "parse season_start of competition=%s", id)
			}
			parsed = parsed.Add(12 * time.Hour)
		}
		start = parsed.UTC()
	}

	competitors := make([]competitor.Competitor, 0, len(e.Competitors))
	for _, c := range e.Competitors {
		competitors = append(competitors, competitor.Competitor{
			ID:   strings.TrimSpace(c.ID),
			Name: strings.TrimSpace(c.Name),
		})
	}
	rules := make([]season.QualificationRule, 0, len(e.Qualifications))
	for _, rule := range e.Qualifications {
		rules = append(rules, season.QualificationRule{
			Competition: strings.TrimSpace(rule.Competition),
			From:        rule.From,
			To:          rule.To,
		})
	}

	return season.Competition{
		ID:                  id,
		Name:                strings.TrimSpace(e.Name),
		Competitors:         competitors,
		ManagedCompetitorID: strings.TrimSpace(e.ManagedCompetitor),
		IntervalDays:        e.IntervalDays,
		SeasonStart:         start,
		Qualifications:      rules,
	}, nil
}
