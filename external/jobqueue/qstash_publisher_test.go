package jobqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/league-season/internal/platform/logging"
	"github.com/riskibarqy/league-season/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQStashPublisher_Enqueue(t *testing.T) {
	t.Parallel()

	var gotPath, gotBody string
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          server.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://league.example.com/",
		Retries:          3,
		InternalJobToken: "job-token",
	}, logging.NewNop())

	err := publisher.Enqueue(context.Background(), "v1/internal/jobs/simulate-round", map[string]any{"round": 2}, 90*time.Second, "simulate-round-s1-r02")
	require.NoError(t, err)

	assert.Equal(t, "/v2/publish/https://league.example.com/v1/internal/jobs/simulate-round", gotPath)
	assert.Equal(t, `{"round":2}`, gotBody)
	assert.Equal(t, "Bearer qstash-token", gotHeaders.Get("Authorization"))
	assert.Equal(t, "3", gotHeaders.Get("Upstash-Retries"))
	assert.Equal(t, "90s", gotHeaders.Get("Upstash-Delay"))
	assert.Equal(t, "simulate-round-s1-r02", gotHeaders.Get("Upstash-Deduplication-Id"))
	assert.Equal(t, "job-token", gotHeaders.Get("Upstash-Forward-X-Internal-Job-Token"))
}

func TestQStashPublisher_ValidatesConfig(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{BaseURL: "ftp://qstash", TargetBaseURL: "https://x"}, nil)
	err := publisher.Enqueue(context.Background(), "/jobs", nil, 0, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QSTASH_BASE_URL")

	err = publisher.Enqueue(context.Background(), " ", nil, 0, "")
	require.Error(t, err)
}

func TestQStashPublisher_BreakerOpensOnTransientFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       server.URL,
		TargetBaseURL: "https://league.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, nil)

	for i := 0; i < 2; i++ {
		require.Error(t, publisher.Enqueue(context.Background(), "/jobs", nil, 0, ""))
	}
	err := publisher.Enqueue(context.Background(), "/jobs", nil, 0, "")
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(2), hits.Load())
}

func TestQStashPublisher_ClientErrorsDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:        server.URL,
		TargetBaseURL:  "https://league.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute},
	}, nil)

	for i := 0; i < 3; i++ {
		err := publisher.Enqueue(context.Background(), "/jobs", nil, 0, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=400")
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestBuildCurlPreview(t *testing.T) {
	t.Parallel()

	got := buildCurlPreview("https://qstash/v2/publish/x", "/x", "5s", 2, "dedup", `{"a":"it's"}`, true)
	assert.True(t, strings.HasPrefix(got, "curl -X POST 'https://qstash/v2/publish/x'"))
	assert.Contains(t, got, "'Upstash-Delay: 5s'")
	assert.Contains(t, got, "'Upstash-Forward-X-Internal-Job-Token: ***'")
	assert.Contains(t, got, `'{"a":"it'"'"'s"}'`)
	assert.NotContains(t, got, "job-token")
}
