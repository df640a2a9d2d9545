package httpapi

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/usecase"
)

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	if h.catalog == nil {
		writeError(ctx, w, errors.Wrap(usecase.ErrDependencyUnavailable, "competition catalog is not configured"))
		return
	}

	items := h.catalog.List()
	out := make([]competitionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, competitionToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) StartSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartSeason")
	defer span.End()

	competitionID := pathCompetitionID(r)
	var req startSeasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	start, err := parseDate(req.Start)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.seasonService.StartSeason(ctx, usecase.StartSeasonInput{
		CompetitionID: competitionID,
		Year:          req.Year,
		Start:         start,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "start season failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, seasonToDTO(item))
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	competitionID := pathCompetitionID(r)
	items, err := h.seasonService.ListSeasons(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list seasons failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonsToSummaryDTO(items))
}

func (h *Handler) GetCurrentSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentSeason")
	defer span.End()

	competitionID := pathCompetitionID(r)
	item, err := h.seasonService.GetCurrentSeason(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get current season failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonToDTO(item))
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	competitionID := pathCompetitionID(r)
	view, err := h.standingService.GetStandings(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsDTO{
		SeasonID:     view.SeasonID,
		CurrentRound: view.CurrentRound,
		Rows:         rowsToDTO(view.Rows),
	})
}

func (h *Handler) GetQualificationPreview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetQualificationPreview")
	defer span.End()

	competitionID := pathCompetitionID(r)
	items, err := h.standingService.QualificationPreview(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "qualification preview failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, qualificationsToDTO(items))
}

func (h *Handler) ListPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerStats")
	defer span.End()

	competitionID := pathCompetitionID(r)
	seasonID := strings.TrimSpace(r.URL.Query().Get("season_id"))
	items, err := h.playerStatsService.ListManagedSquad(ctx, competitionID, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list player stats failed", "competition_id", competitionID, "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerStatsToDTO(items))
}

func (h *Handler) TransitionSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TransitionSeason")
	defer span.End()

	competitionID := pathCompetitionID(r)
	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	start, err := parseDate(req.Start)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.transitionService.Transition(ctx, usecase.TransitionInput{
		CompetitionID: competitionID,
		Year:          req.Year,
		Start:         start,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "season transition failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transitionDTO{
		Closed:         seasonsToSummaryDTO(out.Closed),
		Opened:         seasonsToSummaryDTO(out.Opened),
		Qualifications: qualificationsToDTO(out.Qualifications),
		Skipped:        qualificationsToDTO(out.Skipped),
	})
}
