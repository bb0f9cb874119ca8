package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/league-stats/internal/riot"
)

// MatchSource is the vendor API the cache reads through to
type MatchSource interface {
	GetMatch(ctx context.Context, matchID string) (*riot.MatchResponse, error)
	GetTimeline(ctx context.Context, matchID string) (*riot.TimelineResponse, error)
}

// CachingFetcher caches vendor payloads. Completed matches never change, so
// the TTL only bounds memory use.
type CachingFetcher struct {
	client *redis.Client
	source MatchSource
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachingFetcher wraps a vendor source with a Redis read-through cache
func NewCachingFetcher(client *redis.Client, source MatchSource, ttl time.Duration, logger *slog.Logger) *CachingFetcher {
	return &CachingFetcher{
		client: client,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

func matchKey(matchID string) string {
	return fmt.Sprintf("riot:match:%s", matchID)
}

func timelineKey(matchID string) string {
	return fmt.Sprintf("riot:timeline:%s", matchID)
}

// GetMatch returns the match summary, from cache when possible
func (c *CachingFetcher) GetMatch(ctx context.Context, matchID string) (*riot.MatchResponse, error) {
	var match riot.MatchResponse
	if c.load(ctx, matchKey(matchID), &match) {
		return &match, nil
	}

	fetched, err := c.source.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, matchKey(matchID), fetched)
	return fetched, nil
}

// GetTimeline returns the match timeline, from cache when possible
func (c *CachingFetcher) GetTimeline(ctx context.Context, matchID string) (*riot.TimelineResponse, error) {
	var timeline riot.TimelineResponse
	if c.load(ctx, timelineKey(matchID), &timeline) {
		return &timeline, nil
	}

	fetched, err := c.source.GetTimeline(ctx, matchID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, timelineKey(matchID), fetched)
	return fetched, nil
}

// load reports a cache hit. Cache failures are logged and treated as a miss.
func (c *CachingFetcher) load(ctx context.Context, key string, v any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("match cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Warn("discarding corrupt cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (c *CachingFetcher) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("encoding cache entry", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("match cache write failed", "key", key, "error", err)
	}
}
