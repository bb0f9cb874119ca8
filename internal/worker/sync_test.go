package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/league-stats/internal/config"
	"github.com/league-stats/internal/domain"
)

type fakeSource struct {
	totals    []domain.AccountTotals
	err       error
	nameCalls [][]string
}

func (f *fakeSource) GetAccountTotals(context.Context) ([]domain.AccountTotals, error) {
	return f.totals, f.err
}

func (f *fakeSource) GetDisplayNames(_ context.Context, ids []string) (map[string]string, error) {
	f.nameCalls = append(f.nameCalls, ids)
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		names[id] = "name-" + id
	}
	return names, nil
}

type fakeBoards struct {
	boards map[domain.StatMetric]map[string]int64
	names  map[string]string
	failOn domain.StatMetric
}

func (f *fakeBoards) ReplaceBoard(_ context.Context, metric domain.StatMetric, values map[string]int64) error {
	if metric == f.failOn {
		return errors.New("redis down")
	}
	f.boards[metric] = values
	return nil
}

func (f *fakeBoards) BatchSetAccountInfo(_ context.Context, names map[string]string) error {
	for k, v := range names {
		f.names[k] = v
	}
	return nil
}

func newFakeBoards() *fakeBoards {
	return &fakeBoards{boards: map[domain.StatMetric]map[string]int64{}, names: map[string]string{}}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRebuild(t *testing.T) {
	source := &fakeSource{totals: []domain.AccountTotals{
		{AccountID: "a", Values: map[domain.StatMetric]int64{domain.MetricGames: 3, domain.MetricKills: 20}},
		{AccountID: "b", Values: map[domain.StatMetric]int64{domain.MetricGames: 1}},
		{AccountID: "c", Values: map[domain.StatMetric]int64{domain.MetricGames: 2, domain.MetricWins: 2}},
	}}
	boards := newFakeBoards()
	w := NewSyncWorker(source, boards, &config.SyncConfig{Interval: time.Minute, BatchSize: 2}, testLogger())

	if err := w.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	if len(boards.boards) != len(domain.StatMetrics) {
		t.Errorf("rebuilt %d boards, want %d", len(boards.boards), len(domain.StatMetrics))
	}
	if got := boards.boards[domain.MetricKills]["a"]; got != 20 {
		t.Errorf("kills[a] = %d, want 20", got)
	}
	if got, ok := boards.boards[domain.MetricKills]["b"]; !ok || got != 0 {
		t.Errorf("kills[b] = %d (present %v), want 0", got, ok)
	}
	if len(source.nameCalls) != 2 {
		t.Errorf("display name batches = %d, want 2", len(source.nameCalls))
	}
	if boards.names["c"] != "name-c" {
		t.Errorf("names = %v", boards.names)
	}
}

func TestRebuildSkipsFailedBoard(t *testing.T) {
	source := &fakeSource{totals: []domain.AccountTotals{
		{AccountID: "a", Values: map[domain.StatMetric]int64{domain.MetricGames: 1}},
	}}
	boards := newFakeBoards()
	boards.failOn = domain.MetricGold
	w := NewSyncWorker(source, boards, &config.SyncConfig{Interval: time.Minute}, testLogger())

	if err := w.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if _, ok := boards.boards[domain.MetricGold]; ok {
		t.Error("failed board recorded")
	}
	if len(boards.boards) != len(domain.StatMetrics)-1 {
		t.Errorf("rebuilt %d boards", len(boards.boards))
	}
}

func TestRebuildSourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("db down")}
	w := NewSyncWorker(source, newFakeBoards(), &config.SyncConfig{Interval: time.Minute}, testLogger())

	if err := w.Rebuild(context.Background()); err == nil {
		t.Fatal("Rebuild() succeeded with failing source")
	}
}

func TestStartStop(t *testing.T) {
	w := NewSyncWorker(&fakeSource{}, newFakeBoards(), &config.SyncConfig{Interval: time.Hour}, testLogger())

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !w.IsRunning() {
		t.Error("worker not running after Start")
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if w.IsRunning() {
		t.Error("worker running after Stop")
	}
}
