package playerstats

import (
	"sort"

	"github.com/riskibarqy/league-season/internal/domain/fixture"
)

// SeasonStats accumulates one player's numbers for a season.
type SeasonStats struct {
	SeasonID     string
	CompetitorID string
	PlayerID     string
	Appearances  int
	Goals        int
	Assists      int
	YellowCards  int
	RedCards     int
}

// Reset zeroes every counter while keeping the identity fields.
func (s SeasonStats) Reset() SeasonStats {
	return SeasonStats{
		SeasonID:     s.SeasonID,
		CompetitorID: s.CompetitorID,
		PlayerID:     s.PlayerID,
	}
}

func (s SeasonStats) IsZero() bool {
	return s.Appearances == 0 && s.Goals == 0 && s.Assists == 0 && s.YellowCards == 0 && s.RedCards == 0
}

func (s *SeasonStats) apply(event fixture.Event) {
	switch event.Type {
	case fixture.EventAppearance:
		s.Appearances++
	case fixture.EventGoal:
		if event.PlayerID == s.PlayerID {
			s.Goals++
		}
		if event.AssistPlayerID == s.PlayerID {
			s.Assists++
		}
	case fixture.EventYellowCard:
		s.YellowCards++
	case fixture.EventRedCard:
		s.RedCards++
	}
}

// Accumulate folds the events of finished fixtures that belong to
// competitorID into current, keyed by player id. Returned rows are sorted by
// player id.
func Accumulate(seasonID, competitorID string, current []SeasonStats, fixtures []fixture.Fixture) []SeasonStats {
	byPlayer := make(map[string]*SeasonStats, len(current))
	for _, item := range current {
		row := item
		byPlayer[item.PlayerID] = &row
	}

	get := func(playerID string) *SeasonStats {
		row, ok := byPlayer[playerID]
		if !ok {
			row = &SeasonStats{SeasonID: seasonID, CompetitorID: competitorID, PlayerID: playerID}
			byPlayer[playerID] = row
		}
		return row
	}

	for _, item := range fixtures {
		if !item.IsFinished() {
			continue
		}
		for _, event := range item.Events {
			if event.CompetitorID != competitorID {
				continue
			}
			if event.PlayerID != "" {
				get(event.PlayerID).apply(event)
			}
			if event.Type == fixture.EventGoal && event.AssistPlayerID != "" {
				get(event.AssistPlayerID).apply(event)
			}
		}
	}

	out := make([]SeasonStats, 0, len(byPlayer))
	for _, row := range byPlayer {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// ResetAll returns zeroed copies of items, re-keyed to seasonID when set.
func ResetAll(items []SeasonStats, seasonID string) []SeasonStats {
	out := make([]SeasonStats, 0, len(items))
	for _, item := range items {
		row := item.Reset()
		if seasonID != "" {
			row.SeasonID = seasonID
		}
		out = append(out, row)
	}
	return out
}
