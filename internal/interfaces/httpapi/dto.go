package httpapi

import (
	"time"

	"github.com/riskibarqy/league-season/internal/domain/competitor"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
	"github.com/riskibarqy/league-season/internal/domain/jobscheduler"
	"github.com/riskibarqy/league-season/internal/domain/playerstats"
	"github.com/riskibarqy/league-season/internal/domain/progression"
	"github.com/riskibarqy/league-season/internal/domain/season"
	"github.com/riskibarqy/league-season/internal/domain/standing"
	"github.com/riskibarqy/league-season/internal/usecase"
)

type startSeasonRequest struct {
	Year  int    `json:"year" validate:"gte=0"`
	Start string `json:"start"`
}

type transitionRequest struct {
	Year  int    `json:"year" validate:"gte=0"`
	Start string `json:"start"`
}

type eventRequest struct {
	Minute         int    `json:"minute" validate:"gte=0,lte=150"`
	Type           string `json:"type" validate:"required,oneof=APPEARANCE GOAL YELLOW_CARD RED_CARD"`
	CompetitorID   string `json:"competitor_id" validate:"required"`
	PlayerID       string `json:"player_id" validate:"required"`
	AssistPlayerID string `json:"assist_player_id"`
}

type resolveFixtureRequest struct {
	HomeScore *int           `json:"home_score" validate:"required,gte=0"`
	AwayScore *int           `json:"away_score" validate:"required,gte=0"`
	Events    []eventRequest `json:"events" validate:"omitempty,dive"`
}

type simulateRequest struct {
	Round int `json:"round" validate:"gte=0"`
}

type competitorDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type qualificationRuleDTO struct {
	Competition string `json:"competition"`
	From        int    `json:"from"`
	To          int    `json:"to"`
}

type competitionDTO struct {
	ID                  string                 `json:"id"`
	Name                string                 `json:"name"`
	IsPrimary           bool                   `json:"isPrimary"`
	ManagedCompetitorID string                 `json:"managedCompetitorId,omitempty"`
	IntervalDays        int                    `json:"intervalDays"`
	Competitors         []competitorDTO        `json:"competitors,omitempty"`
	Qualifications      []qualificationRuleDTO `json:"qualifications,omitempty"`
}

type seasonSummaryDTO struct {
	ID            string `json:"id"`
	CompetitionID string `json:"competitionId"`
	Year          int    `json:"year"`
	CurrentRound  int    `json:"currentRound"`
	TotalRounds   int    `json:"totalRounds"`
	CurrentDate   string `json:"currentDate"`
	IsCurrent     bool   `json:"isCurrent"`
	IsComplete    bool   `json:"isComplete"`
	ClosedAt      string `json:"closedAt,omitempty"`
}

type seasonDTO struct {
	seasonSummaryDTO
	Competitors []competitorDTO  `json:"competitors"`
	Fixtures    []fixtureDTO     `json:"fixtures"`
	Standings   []standingRowDTO `json:"standings"`
}

type eventDTO struct {
	Minute         int    `json:"minute"`
	Type           string `json:"type"`
	CompetitorID   string `json:"competitorId"`
	PlayerID       string `json:"playerId"`
	AssistPlayerID string `json:"assistPlayerId,omitempty"`
}

type fixtureDTO struct {
	ID               string     `json:"id"`
	SeasonID         string     `json:"seasonId"`
	Round            int        `json:"round"`
	Date             string     `json:"date"`
	HomeCompetitorID string     `json:"homeCompetitorId"`
	AwayCompetitorID string     `json:"awayCompetitorId"`
	Status           string     `json:"status"`
	HomeScore        *int       `json:"homeScore,omitempty"`
	AwayScore        *int       `json:"awayScore,omitempty"`
	Events           []eventDTO `json:"events,omitempty"`
	FinishedAt       string     `json:"finishedAt,omitempty"`
}

type standingRowDTO struct {
	Position       int    `json:"position"`
	CompetitorID   string `json:"competitorId"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
	Form           string `json:"form"`
}

type standingsDTO struct {
	SeasonID     string           `json:"seasonId"`
	CurrentRound int              `json:"currentRound"`
	Rows         []standingRowDTO `json:"rows"`
}

type qualificationDTO struct {
	Competition   string   `json:"competition"`
	CompetitorIDs []string `json:"competitorIds"`
}

type matchdayStatusDTO struct {
	Round      int  `json:"round"`
	Finished   int  `json:"finished"`
	Total      int  `json:"total"`
	IsComplete bool `json:"isComplete"`
}

type playCheckDTO struct {
	FixtureID string `json:"fixtureId"`
	Playable  bool   `json:"playable"`
	Reason    string `json:"reason,omitempty"`
}

type resolveResultDTO struct {
	SeasonID       string           `json:"seasonId"`
	Fixtures       []fixtureDTO     `json:"fixtures"`
	Standings      []standingRowDTO `json:"standings"`
	CurrentRound   int              `json:"currentRound"`
	CurrentDate    string           `json:"currentDate"`
	RoundCompleted bool             `json:"roundCompleted"`
	SeasonComplete bool             `json:"seasonComplete"`
}

type simulateResultDTO struct {
	resolveResultDTO
	Round   int    `json:"round"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

type progressDTO struct {
	CurrentRound int              `json:"currentRound"`
	CurrentDate  string           `json:"currentDate"`
	Standings    []standingRowDTO `json:"standings"`
}

type playerStatsDTO struct {
	SeasonID     string `json:"seasonId"`
	CompetitorID string `json:"competitorId"`
	PlayerID     string `json:"playerId"`
	Appearances  int    `json:"appearances"`
	Goals        int    `json:"goals"`
	Assists      int    `json:"assists"`
	YellowCards  int    `json:"yellowCards"`
	RedCards     int    `json:"redCards"`
}

type transitionDTO struct {
	Closed         []seasonSummaryDTO `json:"closed"`
	Opened         []seasonSummaryDTO `json:"opened"`
	Qualifications []qualificationDTO `json:"qualifications"`
	Skipped        []qualificationDTO `json:"skipped,omitempty"`
}

type dispatchDTO struct {
	DispatchID    string         `json:"dispatchId"`
	JobName       string         `json:"jobName"`
	JobPath       string         `json:"jobPath"`
	CompetitionID string         `json:"competitionId"`
	SeasonID      string         `json:"seasonId"`
	Round         int            `json:"round"`
	Status        string         `json:"status"`
	Payload       map[string]any `json:"payload,omitempty"`
	ErrorMessage  string         `json:"errorMessage,omitempty"`
	OccurredAt    string         `json:"occurredAt"`
	TraceID       string         `json:"traceId,omitempty"`
	SpanID        string         `json:"spanId,omitempty"`
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

func formatTimePtr(value *time.Time) string {
	if value == nil {
		return ""
	}
	return formatTime(*value)
}

func competitorsToDTO(items []competitor.Competitor) []competitorDTO {
	out := make([]competitorDTO, 0, len(items))
	for _, item := range items {
		out = append(out, competitorDTO{ID: item.ID, Name: item.Name})
	}
	return out
}

func competitionToDTO(item season.Competition) competitionDTO {
	rules := make([]qualificationRuleDTO, 0, len(item.Qualifications))
	for _, rule := range item.Qualifications {
		rules = append(rules, qualificationRuleDTO{Competition: rule.Competition, From: rule.From, To: rule.To})
	}
	return competitionDTO{
		ID:                  item.ID,
		Name:                item.Name,
		IsPrimary:           item.IsPrimary(),
		ManagedCompetitorID: item.ManagedCompetitorID,
		IntervalDays:        item.IntervalDays,
		Competitors:         competitorsToDTO(item.Competitors),
		Qualifications:      rules,
	}
}

func seasonToSummaryDTO(item season.Season) seasonSummaryDTO {
	return seasonSummaryDTO{
		ID:            item.ID,
		CompetitionID: item.CompetitionID,
		Year:          item.Year,
		CurrentRound:  item.CurrentRound,
		TotalRounds:   item.TotalRounds(),
		CurrentDate:   formatTime(item.CurrentDate),
		IsCurrent:     item.IsCurrent,
		IsComplete:    item.IsComplete(),
		ClosedAt:      formatTimePtr(item.ClosedAt),
	}
}

func seasonToDTO(item season.Season) seasonDTO {
	return seasonDTO{
		seasonSummaryDTO: seasonToSummaryDTO(item),
		Competitors:      competitorsToDTO(item.Competitors),
		Fixtures:         fixturesToDTO(item.Fixtures),
		Standings:        rowsToDTO(item.Standings),
	}
}

func seasonsToSummaryDTO(items []season.Season) []seasonSummaryDTO {
	out := make([]seasonSummaryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, seasonToSummaryDTO(item))
	}
	return out
}

func fixtureToDTO(item fixture.Fixture) fixtureDTO {
	events := make([]eventDTO, 0, len(item.Events))
	for _, event := range item.Events {
		events = append(events, eventDTO{
			Minute:         event.Minute,
			Type:           string(event.Type),
			CompetitorID:   event.CompetitorID,
			PlayerID:       event.PlayerID,
			AssistPlayerID: event.AssistPlayerID,
		})
	}
	return fixtureDTO{
		ID:               item.ID,
		SeasonID:         item.SeasonID,
		Round:            item.Round,
		Date:             formatTime(item.Date),
		HomeCompetitorID: item.HomeCompetitorID,
		AwayCompetitorID: item.AwayCompetitorID,
		Status:           fixture.NormalizeStatus(item.Status),
		HomeScore:        item.HomeScore,
		AwayScore:        item.AwayScore,
		Events:           events,
		FinishedAt:       formatTimePtr(item.FinishedAt),
	}
}

func fixturesToDTO(items []fixture.Fixture) []fixtureDTO {
	out := make([]fixtureDTO, 0, len(items))
	for _, item := range items {
		out = append(out, fixtureToDTO(item))
	}
	return out
}

func rowsToDTO(rows []standing.Row) []standingRowDTO {
	out := make([]standingRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingRowDTO{
			Position:       row.Position,
			CompetitorID:   row.CompetitorID,
			Played:         row.Played,
			Won:            row.Won,
			Drawn:          row.Drawn,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
			Form:           row.FormString(),
		})
	}
	return out
}

func qualificationsToDTO(items []season.Qualification) []qualificationDTO {
	out := make([]qualificationDTO, 0, len(items))
	for _, item := range items {
		ids := item.CompetitorIDs
		if ids == nil {
			ids = []string{}
		}
		out = append(out, qualificationDTO{Competition: item.Competition, CompetitorIDs: ids})
	}
	return out
}

func statusToDTO(status progression.Status) matchdayStatusDTO {
	return matchdayStatusDTO{
		Round:      status.Round,
		Finished:   status.Finished,
		Total:      status.Total,
		IsComplete: status.IsComplete,
	}
}

func resolveResultToDTO(result usecase.ResolveResult) resolveResultDTO {
	return resolveResultDTO{
		SeasonID:       result.SeasonID,
		Fixtures:       fixturesToDTO(result.Fixtures),
		Standings:      rowsToDTO(result.Standings),
		CurrentRound:   result.CurrentRound,
		CurrentDate:    formatTime(result.CurrentDate),
		RoundCompleted: result.RoundCompleted,
		SeasonComplete: result.SeasonComplete,
	}
}

func simulateResultToDTO(result usecase.SimulateResult) simulateResultDTO {
	return simulateResultDTO{
		resolveResultDTO: resolveResultToDTO(result.ResolveResult),
		Round:            result.Round,
		Skipped:          result.Skipped,
		Reason:           result.Reason,
	}
}

func playerStatsToDTO(items []playerstats.SeasonStats) []playerStatsDTO {
	out := make([]playerStatsDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerStatsDTO{
			SeasonID:     item.SeasonID,
			CompetitorID: item.CompetitorID,
			PlayerID:     item.PlayerID,
			Appearances:  item.Appearances,
			Goals:        item.Goals,
			Assists:      item.Assists,
			YellowCards:  item.YellowCards,
			RedCards:     item.RedCards,
		})
	}
	return out
}

func dispatchesToDTO(items []jobscheduler.DispatchEvent) []dispatchDTO {
	out := make([]dispatchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, dispatchDTO{
			DispatchID:    item.DispatchID,
			JobName:       item.JobName,
			JobPath:       item.JobPath,
			CompetitionID: item.CompetitionID,
			SeasonID:      item.SeasonID,
			Round:         item.Round,
			Status:        string(item.Status),
			Payload:       item.Payload,
			ErrorMessage:  item.ErrorMessage,
			OccurredAt:    formatTime(item.OccurredAt),
			TraceID:       item.TraceID,
			SpanID:        item.SpanID,
		})
	}
	return out
}
