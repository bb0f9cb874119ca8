package service

import (
	"context"
	"fmt"

	"github.com/league-stats/internal/config"
	"github.com/league-stats/internal/domain"
)

// BoardReader is the query side of the stat boards
type BoardReader interface {
	GetTopN(ctx context.Context, metric domain.StatMetric, n int) ([]domain.BoardEntry, error)
	GetAccountRank(ctx context.Context, metric domain.StatMetric, accountID string) (*domain.BoardEntry, error)
	GetCount(ctx context.Context, metric domain.StatMetric) (int64, error)
}

// BoardService provides stat board queries
type BoardService struct {
	boards BoardReader
	config *config.BoardsConfig
}

// NewBoardService creates a new board service
func NewBoardService(boards BoardReader, cfg *config.BoardsConfig) *BoardService {
	return &BoardService{
		boards: boards,
		config: cfg,
	}
}

// GetTopN returns the top N accounts of a board
func (s *BoardService) GetTopN(ctx context.Context, metric domain.StatMetric, n int) ([]domain.BoardEntry, error) {
	// Validate limit
	if n <= 0 {
		n = s.config.DefaultLimit
	}
	if n > s.config.MaxLimit {
		n = s.config.MaxLimit
	}

	entries, err := s.boards.GetTopN(ctx, metric, n)
	if err != nil {
		return nil, fmt.Errorf("getting top n from redis: %w", err)
	}
	return entries, nil
}

// GetAccountRank returns an account's rank on a board
func (s *BoardService) GetAccountRank(ctx context.Context, metric domain.StatMetric, accountID string) (*domain.BoardEntry, error) {
	return s.boards.GetAccountRank(ctx, metric, accountID)
}

// GetCount returns the number of accounts on a board
func (s *BoardService) GetCount(ctx context.Context, metric domain.StatMetric) (int64, error) {
	return s.boards.GetCount(ctx, metric)
}
