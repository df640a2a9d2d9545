package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/league-season/internal/domain/fixture"
	"github.com/riskibarqy/league-season/internal/usecase"
)

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	competitionID := pathCompetitionID(r)
	round, err := parseRound(r.URL.Query().Get("round"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.seasonService.ListFixtures(ctx, competitionID, round)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "competition_id", competitionID, "round", round, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(items))
}

func (h *Handler) GetMatchdayStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchdayStatus")
	defer span.End()

	competitionID := pathCompetitionID(r)
	round, err := parseRound(r.PathValue("round"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.seasonService.MatchdayStatus(ctx, competitionID, round)
	if err != nil {
		h.logger.WarnContext(ctx, "get matchday status failed", "competition_id", competitionID, "round", round, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statusToDTO(status))
}

func (h *Handler) CanPlayFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CanPlayFixture")
	defer span.End()

	competitionID := pathCompetitionID(r)
	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	check, err := h.seasonService.CanPlay(ctx, competitionID, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "can play check failed", "competition_id", competitionID, "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playCheckDTO{
		FixtureID: check.FixtureID,
		Playable:  check.Playable,
		Reason:    check.Reason,
	})
}

func (h *Handler) ResolveFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveFixture")
	defer span.End()

	competitionID := pathCompetitionID(r)
	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))

	var req resolveFixtureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	events := make([]fixture.Event, 0, len(req.Events))
	for _, item := range req.Events {
		events = append(events, fixture.Event{
			Minute:         item.Minute,
			Type:           fixture.EventType(item.Type),
			CompetitorID:   strings.TrimSpace(item.CompetitorID),
			PlayerID:       strings.TrimSpace(item.PlayerID),
			AssistPlayerID: strings.TrimSpace(item.AssistPlayerID),
		})
	}

	result, err := h.seasonService.ResolveFixture(ctx, usecase.ResolveFixtureInput{
		CompetitionID: competitionID,
		FixtureID:     fixtureID,
		HomeScore:     *req.HomeScore,
		AwayScore:     *req.AwayScore,
		Events:        events,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "resolve fixture failed", "competition_id", competitionID, "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resolveResultToDTO(result))
}

func (h *Handler) PlayFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlayFixture")
	defer span.End()

	competitionID := pathCompetitionID(r)
	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))
	result, err := h.seasonService.PlayFixture(ctx, competitionID, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "play fixture failed", "competition_id", competitionID, "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resolveResultToDTO(result))
}

func (h *Handler) SimulateMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SimulateMatchday")
	defer span.End()

	competitionID := pathCompetitionID(r)
	var req simulateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.seasonService.SimulateMatchday(ctx, usecase.SimulateInput{
		CompetitionID: competitionID,
		Round:         req.Round,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "simulate matchday failed", "competition_id", competitionID, "round", req.Round, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, simulateResultToDTO(result))
}

func (h *Handler) AdvanceRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceRound")
	defer span.End()

	competitionID := pathCompetitionID(r)
	progress, err := h.seasonService.AdvanceRound(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "advance round failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, progressDTO{
		CurrentRound: progress.CurrentRound,
		CurrentDate:  formatTime(progress.CurrentDate),
		Standings:    rowsToDTO(progress.Standings),
	})
}
