package httpapi

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/usecase"
)

// RunSimulateRoundJob is the queue callback for a delayed round simulation.
// Stale deliveries answer 200 with skipped=true so the queue stops retrying.
func (h *Handler) RunSimulateRoundJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSimulateRoundJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, errors.Wrap(usecase.ErrDependencyUnavailable, "job orchestrator is not configured"))
		return
	}

	var payload usecase.SimulateRoundPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}
	payload.CompetitionID = strings.TrimSpace(payload.CompetitionID)
	payload.SeasonID = strings.TrimSpace(payload.SeasonID)
	if err := h.validateRequest(ctx, payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.seasonService.SimulateMatchday(ctx, usecase.SimulateInput{
		CompetitionID: payload.CompetitionID,
		SeasonID:      payload.SeasonID,
		Round:         payload.Round,
	})
	h.jobOrchestrator.RecordJobResult(ctx, usecase.JobResultInput{Payload: payload, Err: err})
	if err != nil {
		h.logger.WarnContext(ctx, "run simulate round job failed",
			"competition_id", payload.CompetitionID,
			"season_id", payload.SeasonID,
			"round", payload.Round,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}
	if result.Skipped {
		h.logger.InfoContext(ctx, "simulate round job skipped",
			"competition_id", payload.CompetitionID,
			"season_id", payload.SeasonID,
			"round", payload.Round,
			"reason", result.Reason,
		)
	}

	writeSuccess(ctx, w, http.StatusOK, simulateResultToDTO(result))
}

func (h *Handler) ListJobDispatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListJobDispatches")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, errors.Wrap(usecase.ErrDependencyUnavailable, "job orchestrator is not configured"))
		return
	}

	seasonID := r.PathValue("seasonID")
	items, err := h.jobOrchestrator.ListDispatches(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list job dispatches failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dispatchesToDTO(items))
}
