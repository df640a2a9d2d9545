package memory

import (
	"time"

	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/season"
)

const (
	CompetitionIDLiga1Indonesia = "idn-liga-1"
	CompetitionIDPialaPresiden  = "idn-piala-presiden"
	CompetitionIDPremierLeague  = "eng-premier-league"
)

// SeedCompetitions is the catalog used when no competitions file is configured.
func SeedCompetitions() []season.Competition {
	return []season.Competition{
		{
			ID:   CompetitionIDLiga1Indonesia,
			Name: "Liga 1 Indonesia",
			Competitors: []competitor.Competitor{
				{ID: "idn-persija", Name: "Persija Jakarta"},
				{ID: "idn-persib", Name: "Persib Bandung"},
				{ID: "idn-persebaya", Name: "Persebaya Surabaya"},
				{ID: "idn-baliutd", Name: "Bali United"},
				{ID: "idn-psm", Name: "PSM Makassar"},
				{ID: "idn-arema", Name: "Arema FC"},
			},
			ManagedCompetitorID: "idn-persija",
			IntervalDays:        7,
			SeasonStart:         time.Date(2026, 2, 14, 12, 30, 0, 0, time.UTC),
			Qualifications: []season.QualificationRule{
				{Competition: CompetitionIDPialaPresiden, From: 1, To: 4},
			},
		},
		{
			ID:   CompetitionIDPialaPresiden,
			Name: "Piala Presiden",
		},
		{
			ID:   CompetitionIDPremierLeague,
			Name: "Premier League",
			Competitors: []competitor.Competitor{
				{ID: "eng-ars", Name: "Arsenal"},
				{ID: "eng-liv", Name: "Liverpool"},
				{ID: "eng-mci", Name: "Manchester City"},
				{ID: "eng-che", Name: "Chelsea"},
			},
			ManagedCompetitorID: "eng-ars",
			IntervalDays:        7,
			SeasonStart:         time.Date(2026, 8, 15, 15, 0, 0, 0, time.UTC),
		},
	}
}

// SeedSquads lists player ids per competitor for the simulated producer.
func SeedSquads() map[string][]string {
	return map[string][]string{
		"idn-persija":   {"idn-gk-01", "idn-def-01", "idn-mid-01", "idn-fwd-01"},
		"idn-persib":    {"idn-gk-02", "idn-def-02", "idn-mid-02", "idn-mid-06", "idn-fwd-02"},
		"idn-persebaya": {"idn-def-03", "idn-def-05", "idn-mid-03", "idn-fwd-03"},
		"idn-baliutd":   {"idn-def-04", "idn-mid-04", "idn-mid-05"},
		"eng-ars":       {"eng-gk-01", "eng-def-01"},
		"eng-liv":       {"eng-mid-01", "eng-fwd-01"},
	}
}
