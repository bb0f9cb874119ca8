package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/google/uuid"

	"github.com/league-stats/internal/config"
	"github.com/league-stats/internal/domain"
)

// vendor match ids look like EUW1_7012345678
var matchIDPattern = regexp.MustCompile(`^[A-Z0-9]{2,5}_[0-9]{1,12}$`)

// Importer runs one match import end to end
type Importer interface {
	Import(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error)
}

// GameStore is the game lookup side of the persistence layer
type GameStore interface {
	GameExists(ctx context.Context, vendorMatchID string) (bool, error)
	GetGame(ctx context.Context, gameID int64) (*domain.Game, error)
	LinkGame(ctx context.Context, gameID, externalMatchID int64) error
}

// BoardRecorder receives the player rows of every imported game
type BoardRecorder interface {
	RecordGame(ctx context.Context, players []domain.PlayerStat) error
	BatchSetAccountInfo(ctx context.Context, names map[string]string) error
}

// Notifier announces imported games
type Notifier interface {
	BroadcastGameImported(result *domain.ImportResult)
}

// ImportService provides business logic around match imports
type ImportService struct {
	importer Importer
	games    GameStore
	boards   BoardRecorder
	notifier Notifier
	logger   *slog.Logger

	// seen is a bloom filter of imported vendor match ids. A hit is
	// confirmed against the store; a miss skips the lookup.
	mu   sync.Mutex
	seen *bloom.BloomFilter
}

// NewImportService creates a new import service
func NewImportService(
	importer Importer,
	games GameStore,
	boards BoardRecorder,
	notifier Notifier,
	cfg *config.ImporterConfig,
	logger *slog.Logger,
) *ImportService {
	return &ImportService{
		importer: importer,
		games:    games,
		boards:   boards,
		notifier: notifier,
		logger:   logger,
		seen:     bloom.NewWithEstimates(cfg.SeenFilterCapacity, cfg.SeenFilterFPRate),
	}
}

func (s *ImportService) markSeen(matchID string) {
	s.mu.Lock()
	s.seen.AddString(matchID)
	s.mu.Unlock()
}

func (s *ImportService) maybeSeen(matchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen.TestString(matchID)
}

// ImportGame imports a vendor match and updates boards and subscribers
func (s *ImportService) ImportGame(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	if !matchIDPattern.MatchString(req.MatchID) {
		return nil, fmt.Errorf("%w: malformed match id %q", domain.ErrInvalidRequest, req.MatchID)
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	if s.maybeSeen(req.MatchID) {
		exists, err := s.games.GameExists(ctx, req.MatchID)
		if err != nil {
			return nil, fmt.Errorf("checking game existence: %w", err)
		}
		if exists {
			return nil, domain.ErrGameAlreadyImported
		}
	}

	result, err := s.importer.Import(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrGameAlreadyImported) {
			s.markSeen(req.MatchID)
		}
		s.logger.Warn("game import failed",
			"request_id", req.RequestID,
			"match_id", req.MatchID,
			"error", err,
		)
		return nil, err
	}
	s.markSeen(req.MatchID)

	// Boards are rebuilt periodically, so a failed update is not fatal
	if err := s.boards.RecordGame(ctx, result.Players); err != nil {
		s.logger.Warn("failed to update stat boards", "match_id", req.MatchID, "error", err)
	}
	if len(result.NewAccounts) > 0 {
		names := make(map[string]string, len(result.NewAccounts))
		for _, a := range result.NewAccounts {
			names[a.ID] = a.DisplayName
		}
		if err := s.boards.BatchSetAccountInfo(ctx, names); err != nil {
			s.logger.Warn("failed to cache account names", "error", err)
		}
	}

	s.notifier.BroadcastGameImported(result)

	s.logger.Info("game import completed",
		"request_id", req.RequestID,
		"match_id", req.MatchID,
		"game_id", result.Game.ID,
	)
	return result, nil
}

// ImportBatch imports each request in turn. Failures are logged and do not stop the batch.
func (s *ImportService) ImportBatch(ctx context.Context, reqs []domain.ImportRequest) error {
	failed := 0
	for _, req := range reqs {
		if _, err := s.ImportGame(ctx, req); err != nil {
			failed++
			if errors.Is(err, domain.ErrGameAlreadyImported) {
				continue
			}
			s.logger.Error("failed to import game in batch",
				"match_id", req.MatchID,
				"error", err,
			)
		}
	}
	if failed > 0 {
		s.logger.Debug("batch finished with failures", "failed", failed, "total", len(reqs))
	}
	return nil
}

// GetGame returns an imported game
func (s *ImportService) GetGame(ctx context.Context, gameID int64) (*domain.Game, error) {
	return s.games.GetGame(ctx, gameID)
}

// LinkGame binds an imported game to a league match id
func (s *ImportService) LinkGame(ctx context.Context, gameID, externalMatchID int64) error {
	if gameID <= 0 || externalMatchID <= 0 {
		return domain.ErrInvalidRequest
	}
	if err := s.games.LinkGame(ctx, gameID, externalMatchID); err != nil {
		return err
	}
	s.logger.Info("game linked", "game_id", gameID, "external_match_id", externalMatchID)
	return nil
}
