package httpapi

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-season/internal/platform/logging"
	"github.com/riskibarqy/league-season/internal/usecase"
)

type Handler struct {
	catalog            *usecase.CompetitionCatalog
	seasonService      *usecase.SeasonService
	standingService    *usecase.StandingService
	playerStatsService *usecase.PlayerStatsService
	transitionService  *usecase.TransitionService
	jobOrchestrator    *usecase.JobOrchestratorService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	catalog *usecase.CompetitionCatalog,
	seasonService *usecase.SeasonService,
	standingService *usecase.StandingService,
	playerStatsService *usecase.PlayerStatsService,
	transitionService *usecase.TransitionService,
	jobOrchestrator *usecase.JobOrchestratorService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		catalog:            catalog,
		seasonService:      seasonService,
		standingService:    standingService,
		playerStatsService: playerStatsService,
		transitionService:  transitionService,
		jobOrchestrator:    jobOrchestrator,
		logger:             logger.Named("httpapi.handler"),
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return errors.Wrapf(usecase.ErrInvalidInput, "validation failed: %v", err)
	}

	return nil
}

// decodeJSON reads an optional JSON body. An empty body leaves out untouched.
func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return nil
	}
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Wrapf(usecase.ErrInvalidInput, "invalid JSON payload: %v", err)
	}
	return nil
}

func pathCompetitionID(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("competitionID"))
}

// parseRound accepts a positive integer or "current", which maps to zero.
func parseRound(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "current") {
		return 0, nil
	}
	round, err := strconv.Atoi(value)
	if err != nil || round < 0 {
		return 0, errors.Wrapf(usecase.ErrInvalidInput, "invalid round %q", raw)
	}
	return round, nil
}

// parseDate accepts a calendar date or an RFC3339 timestamp. Calendar dates
// kick off at noon UTC.
func parseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(usecase.ErrInvalidInput, "invalid date %q", raw)
	}
	return parsed.Add(12 * time.Hour), nil
}
