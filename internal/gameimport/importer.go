package gameimport

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/league-stats/internal/domain"
	"github.com/league-stats/internal/riot"
)

// MatchFetcher retrieves the vendor payloads for a match
type MatchFetcher interface {
	GetMatch(ctx context.Context, matchID string) (*riot.MatchResponse, error)
	GetTimeline(ctx context.Context, matchID string) (*riot.TimelineResponse, error)
}

// Store is the persistence collaborator of an import. CreateAccount must be
// idempotent; CreateGame returns domain.ErrGameAlreadyImported when the
// vendor match id is taken.
type Store interface {
	AccountExists(ctx context.Context, accountID string) (bool, error)
	CreateAccount(ctx context.Context, account domain.Account) error

	CreateGame(ctx context.Context, game domain.Game) (int64, error)
	DeleteGame(ctx context.Context, gameID int64) error

	CreateTeamStats(ctx context.Context, stats []domain.TeamStat) error
	CreatePlayerStats(ctx context.Context, stats []domain.PlayerStat) error
	CreateBannedChampions(ctx context.Context, bans []domain.BannedChampion) error
	CreateGameEvents(ctx context.Context, events []domain.GameEvent) error
	CreateStoreActions(ctx context.Context, actions []domain.StoreAction) error
	CreateSkillLevelUps(ctx context.Context, levelUps []domain.SkillLevelUp) error
	CreateTeamGoldSamples(ctx context.Context, samples []domain.TeamGoldSample) error
}

// Importer turns one vendor match into persisted game rows
type Importer struct {
	fetcher     MatchFetcher
	store       Store
	concurrency int
	logger      *slog.Logger
}

// NewImporter creates a new importer. concurrency bounds the parallel
// store calls of one import.
func NewImporter(fetcher MatchFetcher, store Store, concurrency int, logger *slog.Logger) *Importer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Importer{
		fetcher:     fetcher,
		store:       store,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Import fetches, derives and persists a match. Any error is an
// *domain.ImportError and leaves no game rows behind.
func (i *Importer) Import(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	start := time.Now()
	matchID := req.MatchID

	summary, err := i.fetcher.GetMatch(ctx, matchID)
	if err != nil {
		return nil, &domain.ImportError{MatchID: matchID, Stage: domain.StageFetchSummary, Err: err}
	}
	timeline, err := i.fetcher.GetTimeline(ctx, matchID)
	if err != nil {
		return nil, &domain.ImportError{MatchID: matchID, Stage: domain.StageFetchTimeline, Err: err}
	}

	result, roster, err := Derive(matchID, summary, timeline, i.logger)
	if err != nil {
		return nil, err
	}
	result.Game.ExternalMatchID = req.ExternalMatchID

	if err := i.persist(ctx, result, roster); err != nil {
		return nil, &domain.ImportError{MatchID: matchID, Stage: domain.StagePersist, Err: err}
	}

	i.logger.Info("Imported game",
		"match_id", matchID,
		"game_id", result.Game.ID,
		"events", len(result.Events),
		"new_accounts", len(result.NewAccounts),
		"duration", time.Since(start),
	)
	return result, nil
}

func (i *Importer) persist(ctx context.Context, result *domain.ImportResult, roster *Roster) error {
	accounts, err := i.ensureAccounts(ctx, roster)
	if err != nil {
		return err
	}
	result.NewAccounts = accounts

	gameID, err := i.store.CreateGame(ctx, result.Game)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	result.AttachGameID(gameID)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	g.Go(func() error { return i.store.CreateTeamStats(gctx, result.Teams[:]) })
	g.Go(func() error { return i.store.CreatePlayerStats(gctx, result.Players) })
	g.Go(func() error { return i.store.CreateBannedChampions(gctx, result.Bans) })
	g.Go(func() error { return i.store.CreateGameEvents(gctx, result.Events) })
	g.Go(func() error { return i.store.CreateStoreActions(gctx, result.StoreActions) })
	g.Go(func() error { return i.store.CreateSkillLevelUps(gctx, result.SkillLevelUps) })
	g.Go(func() error { return i.store.CreateTeamGoldSamples(gctx, result.GoldSamples) })

	if err := g.Wait(); err != nil {
		// Remove the partial game so a retry starts clean
		if delErr := i.store.DeleteGame(context.WithoutCancel(ctx), gameID); delErr != nil {
			i.logger.Error("Failed to roll back partial game",
				"match_id", result.Game.VendorMatchID,
				"game_id", gameID,
				"error", delErr,
			)
		}
		return fmt.Errorf("writing game rows: %w", err)
	}
	return nil
}

// ensureAccounts creates the accounts seen for the first time and returns them
func (i *Importer) ensureAccounts(ctx context.Context, roster *Roster) ([]domain.Account, error) {
	var (
		mu      sync.Mutex
		created []domain.Account
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for _, id := range roster.Identities() {
		g.Go(func() error {
			exists, err := i.store.AccountExists(gctx, id.AccountID)
			if err != nil {
				return fmt.Errorf("checking account %s: %w", id.AccountID, err)
			}
			if exists {
				return nil
			}
			account := newAccount(id)
			if err := i.store.CreateAccount(gctx, account); err != nil {
				return fmt.Errorf("creating account %s: %w", id.AccountID, err)
			}
			mu.Lock()
			created = append(created, account)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return created, nil
}
