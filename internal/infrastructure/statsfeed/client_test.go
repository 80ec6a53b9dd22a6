package statsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-slates/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-slates/internal/usecase"
)

const feedFixturePayload = `{
	"fixture": {"id": "fx-100", "status": "final", "homeScore": 2, "awayScore": 1},
	"playerStats": [
		{"playerId": "pl-9", "minutes": 90, "goals": 2, "assists": 0, "yellowCards": 1},
		{"playerId": "pl-1", "minutes": 90, "cleanSheet": false, "goalsConceded": 1, "saves": 4}
	]
}`

func TestClientFetchFixture_ParsesEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/fixtures/fx-100", r.URL.Path)
		require.Equal(t, "Bearer feed-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedFixturePayload))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Token: "feed-token", Timeout: 5 * time.Second})

	update, err := client.FetchFixture(context.Background(), "fx-100")
	require.NoError(t, err)

	require.Equal(t, "fx-100", update.FixtureID)
	require.Equal(t, "final", update.Status)
	require.NotNil(t, update.HomeScore)
	require.Equal(t, 2, *update.HomeScore)
	require.NotNil(t, update.AwayScore)
	require.Equal(t, 1, *update.AwayScore)

	require.Len(t, update.PlayerStats, 2)
	require.Equal(t, "fx-100", update.PlayerStats[0].FixtureID)
	require.Equal(t, "pl-9", update.PlayerStats[0].PlayerID)
	require.Equal(t, 2, update.PlayerStats[0].Goals)
	require.Equal(t, 1, update.PlayerStats[0].YellowCards)
	require.Equal(t, "pl-1", update.PlayerStats[1].PlayerID)
	require.Equal(t, 4, update.PlayerStats[1].Saves)
}

func TestClientFetchFixture_EmptyIDRejected(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:0"})
	_, err := client.FetchFixture(context.Background(), "  ")
	require.Error(t, err)
}

func TestClientFetchFixture_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"unknown fixture"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 3, Timeout: 5 * time.Second})

	_, err := client.FetchFixture(context.Background(), "fx-missing")
	require.Error(t, err)
	require.EqualValues(t, 1, calls.Load())
}

func TestClientFetchFixture_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedFixturePayload))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 1, Timeout: 5 * time.Second})

	update, err := client.FetchFixture(context.Background(), "fx-100")
	require.NoError(t, err)
	require.Equal(t, "final", update.Status)
	require.EqualValues(t, 2, calls.Load())
}

func TestClientFetchFixture_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	_, err := client.FetchFixture(context.Background(), "fx-100")
	require.Error(t, err)

	_, err = client.FetchFixture(context.Background(), "fx-100")
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
	require.EqualValues(t, 1, calls.Load())
}
