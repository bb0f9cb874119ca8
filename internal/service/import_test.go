package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/league-stats/internal/config"
	"github.com/league-stats/internal/domain"
)

type fakeImporter struct {
	mu    sync.Mutex
	calls []domain.ImportRequest
	err   error
}

func (f *fakeImporter) Import(_ context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ImportResult{
		Game: domain.Game{ID: int64(len(f.calls)), VendorMatchID: req.MatchID},
		Players: []domain.PlayerStat{
			{AccountID: "puuid-1", Kills: 3, Win: true},
			{AccountID: "puuid-6", Deaths: 3},
		},
		NewAccounts: []domain.Account{{ID: "puuid-1", DisplayName: "one#EUW"}},
	}, nil
}

type fakeGames struct {
	existing map[string]bool
	lookups  int
	linked   map[int64]int64
}

func (f *fakeGames) GameExists(_ context.Context, vendorMatchID string) (bool, error) {
	f.lookups++
	return f.existing[vendorMatchID], nil
}

func (f *fakeGames) GetGame(_ context.Context, gameID int64) (*domain.Game, error) {
	return nil, domain.ErrGameNotFound
}

func (f *fakeGames) LinkGame(_ context.Context, gameID, externalMatchID int64) error {
	if gameID > 100 {
		return domain.ErrGameNotFound
	}
	f.linked[gameID] = externalMatchID
	return nil
}

type fakeBoards struct {
	recorded [][]domain.PlayerStat
	names    map[string]string
	err      error
}

func (f *fakeBoards) RecordGame(_ context.Context, players []domain.PlayerStat) error {
	f.recorded = append(f.recorded, players)
	return f.err
}

func (f *fakeBoards) BatchSetAccountInfo(_ context.Context, names map[string]string) error {
	for k, v := range names {
		f.names[k] = v
	}
	return nil
}

type fakeNotifier struct {
	games []int64
}

func (f *fakeNotifier) BroadcastGameImported(result *domain.ImportResult) {
	f.games = append(f.games, result.Game.ID)
}

type serviceFixture struct {
	svc      *ImportService
	importer *fakeImporter
	games    *fakeGames
	boards   *fakeBoards
	notifier *fakeNotifier
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		importer: &fakeImporter{},
		games:    &fakeGames{existing: map[string]bool{}, linked: map[int64]int64{}},
		boards:   &fakeBoards{names: map[string]string{}},
		notifier: &fakeNotifier{},
	}
	cfg := &config.ImporterConfig{SeenFilterCapacity: 1000, SeenFilterFPRate: 0.01}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	f.svc = NewImportService(f.importer, f.games, f.boards, f.notifier, cfg, logger)
	return f
}

func TestImportGame(t *testing.T) {
	f := newServiceFixture()

	result, err := f.svc.ImportGame(context.Background(), domain.ImportRequest{MatchID: "EUW1_7000000001"})
	if err != nil {
		t.Fatalf("ImportGame() error = %v", err)
	}
	if result.Game.ID != 1 {
		t.Errorf("game id = %d", result.Game.ID)
	}
	if len(f.importer.calls) != 1 || f.importer.calls[0].RequestID == "" {
		t.Errorf("importer calls = %+v", f.importer.calls)
	}
	if len(f.boards.recorded) != 1 || len(f.boards.recorded[0]) != 2 {
		t.Errorf("boards recorded = %v", f.boards.recorded)
	}
	if f.boards.names["puuid-1"] != "one#EUW" {
		t.Errorf("cached names = %v", f.boards.names)
	}
	if len(f.notifier.games) != 1 {
		t.Errorf("broadcasts = %v", f.notifier.games)
	}
	if f.games.lookups != 0 {
		t.Errorf("store consulted %d times for an unseen match", f.games.lookups)
	}
}

func TestImportGameSkipsSeenMatch(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	req := domain.ImportRequest{MatchID: "EUW1_7000000002"}

	if _, err := f.svc.ImportGame(ctx, req); err != nil {
		t.Fatalf("first import: %v", err)
	}
	f.games.existing[req.MatchID] = true

	_, err := f.svc.ImportGame(ctx, req)
	if !errors.Is(err, domain.ErrGameAlreadyImported) {
		t.Fatalf("error = %v, want ErrGameAlreadyImported", err)
	}
	if len(f.importer.calls) != 1 {
		t.Errorf("importer called %d times, want 1", len(f.importer.calls))
	}
	if f.games.lookups != 1 {
		t.Errorf("store lookups = %d, want 1", f.games.lookups)
	}
}

func TestImportGameRejectsMalformedID(t *testing.T) {
	for _, id := range []string{"", "7000000001", "euw1_123", "EUW1-123", "EUW1_12a"} {
		f := newServiceFixture()
		_, err := f.svc.ImportGame(context.Background(), domain.ImportRequest{MatchID: id})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("match id %q: error = %v, want ErrInvalidRequest", id, err)
		}
		if len(f.importer.calls) != 0 {
			t.Errorf("match id %q reached the importer", id)
		}
	}
}

func TestImportGameFailure(t *testing.T) {
	f := newServiceFixture()
	f.importer.err = &domain.ImportError{MatchID: "EUW1_9", Stage: domain.StageResolve, Err: domain.ErrInvalidInput}

	_, err := f.svc.ImportGame(context.Background(), domain.ImportRequest{MatchID: "EUW1_9"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("error = %v", err)
	}
	if len(f.boards.recorded) != 0 || len(f.notifier.games) != 0 {
		t.Error("side effects ran for a failed import")
	}
}

func TestImportGameBoardFailureIsNotFatal(t *testing.T) {
	f := newServiceFixture()
	f.boards.err = errors.New("redis down")

	if _, err := f.svc.ImportGame(context.Background(), domain.ImportRequest{MatchID: "EUW1_10"}); err != nil {
		t.Fatalf("ImportGame() error = %v", err)
	}
	if len(f.notifier.games) != 1 {
		t.Error("game not broadcast")
	}
}

func TestImportBatchContinuesAfterFailure(t *testing.T) {
	f := newServiceFixture()
	reqs := []domain.ImportRequest{{MatchID: "bad id"}, {MatchID: "EUW1_11"}, {MatchID: "EUW1_12"}}

	if err := f.svc.ImportBatch(context.Background(), reqs); err != nil {
		t.Fatalf("ImportBatch() error = %v", err)
	}
	if len(f.importer.calls) != 2 {
		t.Errorf("importer calls = %d, want 2", len(f.importer.calls))
	}
}

func TestLinkGame(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	if err := f.svc.LinkGame(ctx, 5, 900); err != nil {
		t.Fatalf("LinkGame() error = %v", err)
	}
	if f.games.linked[5] != 900 {
		t.Errorf("linked = %v", f.games.linked)
	}
	if err := f.svc.LinkGame(ctx, 0, 900); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("zero game id: error = %v", err)
	}
	if err := f.svc.LinkGame(ctx, 500, 900); !errors.Is(err, domain.ErrGameNotFound) {
		t.Errorf("unknown game: error = %v", err)
	}
}
