package riot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/league-stats/internal/config"
	"github.com/league-stats/internal/domain"
)

// Regional routing hosts for match-v5
const (
	americasBaseURL = "https://americas.api.riotgames.com"
	europeBaseURL   = "https://europe.api.riotgames.com"
	asiaBaseURL     = "https://asia.api.riotgames.com"
	seaBaseURL      = "https://sea.api.riotgames.com"
)

// Client is a rate-limited Riot API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	requestsPerSecond int
	requestsPer2Min   int
	maxRetries        int

	// Rate limiting
	mu          sync.Mutex
	shortWindow []time.Time // Requests in last second
	longWindow  []time.Time // Requests in last 2 minutes
}

// NewClient creates a new Riot API client
func NewClient(cfg *config.RiotConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("riot api key not configured (set riot.api_key or RIOT_API_KEY)")
	}

	if len(cfg.APIKey) > 10 {
		logger.Info("using riot api key", "key", cfg.APIKey[:8]+"..."+cfg.APIKey[len(cfg.APIKey)-4:])
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:            logger,
		requestsPerSecond: cfg.RequestsPerSecond,
		requestsPer2Min:   cfg.RequestsPer2Min,
		maxRetries:        cfg.MaxRetries,
		shortWindow:       make([]time.Time, 0),
		longWindow:        make([]time.Time, 0),
	}, nil
}

// regionalBaseURL picks the routing host from the match id platform prefix (e.g. EUW1_123)
func regionalBaseURL(matchID string) string {
	platform, _, _ := strings.Cut(strings.ToUpper(matchID), "_")
	switch platform {
	case "EUW1", "EUN1", "TR1", "RU", "ME1":
		return europeBaseURL
	case "KR", "JP1":
		return asiaBaseURL
	case "OC1", "PH2", "SG2", "TH2", "TW2", "VN2":
		return seaBaseURL
	}
	return americasBaseURL
}

func (c *Client) hostFor(matchID string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return regionalBaseURL(matchID)
}

// waitForRateLimit blocks until we can make another request
func (c *Client) waitForRateLimit(ctx context.Context) error {
	for {
		c.mu.Lock()

		now := time.Now()
		oneSecondAgo := now.Add(-1 * time.Second)
		twoMinutesAgo := now.Add(-2 * time.Minute)

		c.shortWindow = pruneBefore(c.shortWindow, oneSecondAgo)
		c.longWindow = pruneBefore(c.longWindow, twoMinutesAgo)

		var waitTime time.Duration
		switch {
		case c.requestsPerSecond > 0 && len(c.shortWindow) >= c.requestsPerSecond:
			waitTime = c.shortWindow[0].Add(time.Second).Sub(now) + 100*time.Millisecond
		case c.requestsPer2Min > 0 && len(c.longWindow) >= c.requestsPer2Min:
			waitTime = c.longWindow[0].Add(2*time.Minute).Sub(now) + 100*time.Millisecond
		}

		if waitTime == 0 {
			// Record this request and exit loop
			c.shortWindow = append(c.shortWindow, now)
			c.longWindow = append(c.longWindow, now)
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()

		c.logger.Debug("riot rate limit reached, waiting", "wait", waitTime)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

func pruneBefore(window []time.Time, cutoff time.Time) []time.Time {
	kept := window[:0]
	for _, t := range window {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// doRequest makes a rate-limited request, retrying on 429 up to maxRetries times
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	for attempt := 0; ; attempt++ {
		if err := c.waitForRateLimit(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-Riot-Token", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrVendorUnavailable, err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			if attempt >= c.maxRetries {
				return fmt.Errorf("%w: rate limited after %d retries", domain.ErrVendorUnavailable, attempt)
			}
			waitTime := 10 * time.Second
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if secs, err := strconv.Atoi(retryAfter); err == nil {
					waitTime = time.Duration(secs) * time.Second
				}
			}
			c.logger.Warn("riot api rate limited", "retry_after", waitTime, "attempt", attempt+1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitTime):
			}
			continue

		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return domain.ErrMatchNotFound

		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
			resp.Body.Close()
			return fmt.Errorf("%w: api returned %d, check the api key", domain.ErrVendorUnavailable, resp.StatusCode)

		case resp.StatusCode != http.StatusOK:
			resp.Body.Close()
			return fmt.Errorf("%w: api returned status %d", domain.ErrVendorUnavailable, resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}
}

// GetMatch fetches match details
func (c *Client) GetMatch(ctx context.Context, matchID string) (*MatchResponse, error) {
	url := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.hostFor(matchID), matchID)

	var match MatchResponse
	if err := c.doRequest(ctx, url, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// GetTimeline fetches match timeline
func (c *Client) GetTimeline(ctx context.Context, matchID string) (*TimelineResponse, error) {
	url := fmt.Sprintf("%s/lol/match/v5/matches/%s/timeline", c.hostFor(matchID), matchID)

	var timeline TimelineResponse
	if err := c.doRequest(ctx, url, &timeline); err != nil {
		return nil, err
	}
	return &timeline, nil
}
