package statsfeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-slates/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-slates/internal/platform/logging"
	"github.com/riskibarqy/fantasy-slates/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-slates/internal/usecase"
	"github.com/valyala/fasthttp"
)

var errFeedTransient = crerr.New("stats feed transient failure")

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls fixture results and player stat lines over HTTP. One
// in-flight request per fixture; repeats share the result.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		httpClient: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

type fixtureEnvelope struct {
	Fixture struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		HomeScore *int   `json:"homeScore"`
		AwayScore *int   `json:"awayScore"`
	} `json:"fixture"`
	PlayerStats []playerLine `json:"playerStats"`
}

type playerLine struct {
	PlayerID      string `json:"playerId"`
	Minutes       int    `json:"minutes"`
	Goals         int    `json:"goals"`
	Assists       int    `json:"assists"`
	CleanSheet    bool   `json:"cleanSheet"`
	GoalsConceded int    `json:"goalsConceded"`
	Saves         int    `json:"saves"`
	PensSaved     int    `json:"pensSaved"`
	PensMissed    int    `json:"pensMissed"`
	YellowCards   int    `json:"yellowCards"`
	RedCards      int    `json:"redCards"`
	OwnGoals      int    `json:"ownGoals"`
}

func (c *Client) FetchFixture(ctx context.Context, fixtureID string) (usecase.FeedFixtureUpdate, error) {
	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return usecase.FeedFixtureUpdate{}, fmt.Errorf("fixture id is required")
	}

	var envelope fixtureEnvelope
	if err := c.doJSON(ctx, "/v1/fixtures/"+fixtureID, &envelope); err != nil {
		return usecase.FeedFixtureUpdate{}, fmt.Errorf("fetch fixture %s: %w", fixtureID, err)
	}

	stats := make([]playerstats.FixtureStat, 0, len(envelope.PlayerStats))
	for _, line := range envelope.PlayerStats {
		stats = append(stats, playerstats.FixtureStat{
			FixtureID:     fixtureID,
			PlayerID:      line.PlayerID,
			Minutes:       line.Minutes,
			Goals:         line.Goals,
			Assists:       line.Assists,
			CleanSheet:    line.CleanSheet,
			GoalsConceded: line.GoalsConceded,
			Saves:         line.Saves,
			PensSaved:     line.PensSaved,
			PensMissed:    line.PensMissed,
			YellowCards:   line.YellowCards,
			RedCards:      line.RedCards,
			OwnGoals:      line.OwnGoals,
		})
	}

	return usecase.FeedFixtureUpdate{
		FixtureID:   fixtureID,
		Status:      envelope.Fixture.Status,
		HomeScore:   envelope.Fixture.HomeScore,
		AwayScore:   envelope.Fixture.AwayScore,
		PlayerStats: stats,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "stats feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()

		req.SetRequestURI(fullURL)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		err := c.httpClient.DoTimeout(req, resp, c.timeout)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFeedTransient, err)
		} else {
			status := resp.StatusCode()
			raw := append([]byte(nil), resp.Body()...)
			if status >= 200 && status < 300 {
				fasthttp.ReleaseRequest(req)
				fasthttp.ReleaseResponse(resp)
				return raw, nil
			}
			if isRetryableStatus(status) {
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, status, abbreviateBody(raw))
			} else {
				lastErr = fmt.Errorf("feed status=%d body=%s", status, abbreviateBody(raw))
			}
			if !isRetryableStatus(status) {
				fasthttp.ReleaseRequest(req)
				fasthttp.ReleaseResponse(resp)
				return nil, lastErr
			}
		}
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "stats feed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	const maxLen = 512
	body := strings.TrimSpace(string(raw))
	if len(body) <= maxLen {
		return body
	}
	return body[:maxLen] + "..."
}
