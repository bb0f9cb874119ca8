package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/league-stats/internal/domain"
)

// StatBoards keeps one sorted set per metric, scored by each account's running total
type StatBoards struct {
	client *redis.Client
	logger *slog.Logger
}

// NewStatBoards creates a new Redis stat board service
func NewStatBoards(client *redis.Client, logger *slog.Logger) *StatBoards {
	return &StatBoards{
		client: client,
		logger: logger,
	}
}

// boardKey returns the Redis key for a metric's sorted set
func (s *StatBoards) boardKey(metric domain.StatMetric) string {
	return fmt.Sprintf("board:%s", metric)
}

// accountInfoKey returns the Redis key for account info cache
func (s *StatBoards) accountInfoKey(accountID string) string {
	return fmt.Sprintf("account:%s:info", accountID)
}

// RecordGame adds one game's player rows to every board
func (s *StatBoards) RecordGame(ctx context.Context, players []domain.PlayerStat) error {
	pipe := s.client.Pipeline()
	for _, ps := range players {
		for metric, delta := range ps.Contributions() {
			pipe.ZIncrBy(ctx, s.boardKey(metric), float64(delta), ps.AccountID)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("recording game on boards: %w", err)
	}
	return nil
}

// GetTopN returns the top N accounts of a board (descending order)
func (s *StatBoards) GetTopN(ctx context.Context, metric domain.StatMetric, n int) ([]domain.BoardEntry, error) {
	results, err := s.client.ZRevRangeWithScores(ctx, s.boardKey(metric), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("getting top n: %w", err)
	}

	entries := make([]domain.BoardEntry, len(results))
	for i, result := range results {
		entries[i] = domain.BoardEntry{
			Rank:      int64(i + 1),
			AccountID: result.Member.(string),
			Value:     int64(result.Score),
		}
	}
	s.attachDisplayNames(ctx, entries)
	return entries, nil
}

// GetAccountRank returns an account's rank and value on a board
func (s *StatBoards) GetAccountRank(ctx context.Context, metric domain.StatMetric, accountID string) (*domain.BoardEntry, error) {
	key := s.boardKey(metric)

	// Use pipeline to get both rank and score
	pipe := s.client.Pipeline()
	rankCmd := pipe.ZRevRank(ctx, key, accountID)
	scoreCmd := pipe.ZScore(ctx, key, accountID)
	if _, err := pipe.Exec(ctx); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("getting account rank: %w", err)
	}

	entry := &domain.BoardEntry{
		Rank:      rankCmd.Val() + 1, // Convert 0-indexed to 1-indexed
		AccountID: accountID,
		Value:     int64(scoreCmd.Val()),
	}
	if name, err := s.client.HGet(ctx, s.accountInfoKey(accountID), "display_name").Result(); err == nil {
		entry.DisplayName = name
	}
	return entry, nil
}

// ReplaceBoard swaps a board's contents for the given totals in one transaction
func (s *StatBoards) ReplaceBoard(ctx context.Context, metric domain.StatMetric, values map[string]int64) error {
	key := s.boardKey(metric)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)

	members := make([]redis.Z, 0, len(values))
	for accountID, value := range values {
		members = append(members, redis.Z{Score: float64(value), Member: accountID})
	}
	if len(members) > 0 {
		pipe.ZAdd(ctx, key, members...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("replacing board %s: %w", metric, err)
	}
	return nil
}

// GetCount returns the number of accounts on a board
func (s *StatBoards) GetCount(ctx context.Context, metric domain.StatMetric) (int64, error) {
	count, err := s.client.ZCard(ctx, s.boardKey(metric)).Result()
	if err != nil {
		return 0, fmt.Errorf("getting count: %w", err)
	}
	return count, nil
}

// SetAccountInfo caches an account's display name
func (s *StatBoards) SetAccountInfo(ctx context.Context, info domain.AccountInfo) error {
	err := s.client.HSet(ctx, s.accountInfoKey(info.ID), "display_name", info.DisplayName).Err()
	if err != nil {
		return fmt.Errorf("setting account info: %w", err)
	}
	return nil
}

// BatchSetAccountInfo caches display names using pipelining
func (s *StatBoards) BatchSetAccountInfo(ctx context.Context, names map[string]string) error {
	if len(names) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for accountID, name := range names {
		pipe.HSet(ctx, s.accountInfoKey(accountID), "display_name", name)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("batch setting account info: %w", err)
	}
	return nil
}

// attachDisplayNames fills cached display names where present
func (s *StatBoards) attachDisplayNames(ctx context.Context, entries []domain.BoardEntry) {
	if len(entries) == 0 {
		return
	}
	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(entries))
	for i, e := range entries {
		cmds[i] = pipe.HGet(ctx, s.accountInfoKey(e.AccountID), "display_name")
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("failed to load display names", "error", err)
		return
	}
	for i, cmd := range cmds {
		entries[i].DisplayName = cmd.Val()
	}
}
