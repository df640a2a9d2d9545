package matchengine

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-season/internal/domain/fixture"
	"github.com/riskibarqy/league-season/internal/domain/outcome"
	"github.com/riskibarqy/league-season/internal/platform/logging"
	"github.com/riskibarqy/league-season/internal/platform/resilience"
	"github.com/riskibarqy/league-season/internal/usecase"
)

const simulatePath = "/v1/matches/simulate"

var errTransient = errors.New("match engine transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	// Backoff is multiplied by the attempt number between retries.
	Backoff time.Duration
	Logger  *logging.Logger
}

// Client asks a remote match engine to play a fixture.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	backoff    time.Duration
	logger     *logging.Logger
	flight     resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:      strings.TrimSpace(cfg.Token),
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    backoff,
		logger:     logger,
	}
}

type simulateRequest struct {
	FixtureID        string    `json:"fixture_id"`
	CompetitionID    string    `json:"competition_id"`
	SeasonID         string    `json:"season_id"`
	Round            int       `json:"round"`
	Date             time.Time `json:"date"`
	HomeCompetitorID string    `json:"home_competitor_id"`
	AwayCompetitorID string    `json:"away_competitor_id"`
}

type simulateEnvelope struct {
	Data struct {
		HomeScore int           `json:"home_score"`
		AwayScore int           `json:"away_score"`
		Events    []engineEvent `json:"events"`
	} `json:"data"`
}

type engineEvent struct {
	Minute         int    `json:"minute"`
	Type           string `json:"type"`
	CompetitorID   string `json:"competitor_id"`
	PlayerID       string `json:"player_id"`
	AssistPlayerID string `json:"assist_player_id"`
}

// Produce implements outcome.Producer. Concurrent calls for the same fixture
// share one request.
func (c *Client) Produce(ctx context.Context, f fixture.Fixture) (outcome.Outcome, error) {
	if c.baseURL == "" {
		return outcome.Outcome{}, errors.Mark(errors.New("match engine base url is not configured"), usecase.ErrDependencyUnavailable)
	}

	body, err := sonic.Marshal(simulateRequest{
		FixtureID:        f.ID,
		CompetitionID:    f.CompetitionID,
		SeasonID:         f.SeasonID,
		Round:            f.Round,
		Date:             f.Date.UTC(),
		HomeCompetitorID: f.HomeCompetitorID,
		AwayCompetitorID: f.AwayCompetitorID,
	})
	if err != nil {
		return outcome.Outcome{}, errors.Wrap(err, "encode simulate request")
	}

	out, err, _ := c.flight.Do(f.ID, func() (any, error) {
		return c.executeRequest(ctx, c.baseURL+simulatePath, body)
	})
	if err != nil {
		if errors.Is(err, errTransient) {
			return outcome.Outcome{}, errors.Mark(errors.Wrapf(err, "fixture=%s", f.ID), usecase.ErrDependencyUnavailable)
		}
		return outcome.Outcome{}, errors.Wrapf(err, "fixture=%s", f.ID)
	}

	raw, ok := out.([]byte)
	if !ok {
		return outcome.Outcome{}, errors.Newf("unexpected response payload type %T", out)
	}

	var envelope simulateEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return outcome.Outcome{}, errors.Wrap(err, "decode match engine payload")
	}

	events := make([]fixture.Event, 0, len(envelope.Data.Events))
	for _, item := range envelope.Data.Events {
		events = append(events, fixture.Event{
			Minute:         item.Minute,
			Type:           fixture.EventType(strings.ToUpper(strings.TrimSpace(item.Type))),
			CompetitorID:   item.CompetitorID,
			PlayerID:       item.PlayerID,
			AssistPlayerID: item.AssistPlayerID,
		})
	}
	return outcome.Outcome{
		HomeScore: envelope.Data.HomeScore,
		AwayScore: envelope.Data.AwayScore,
		Events:    events,
	}, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
		if err != nil {
			return nil, errors.Wrap(err, "build request")
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("content-type", "application/json")
		if c.token != "" {
			req.Header.Set("authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = errors.Wrapf(errTransient, "send request: %s", c.redact(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = errors.Wrapf(errTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = errors.Wrapf(errTransient, "engine status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, errors.Newf("engine status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "match engine request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) redact(value string) string {
	if c.token == "" {
		return value
	}
	return strings.ReplaceAll(value, c.token, "REDACTED")
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
