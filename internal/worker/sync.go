package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/league-stats/internal/config"
	"github.com/league-stats/internal/domain"
)

// TotalsSource is the durable side of the stat boards
type TotalsSource interface {
	GetAccountTotals(ctx context.Context) ([]domain.AccountTotals, error)
	GetDisplayNames(ctx context.Context, accountIDs []string) (map[string]string, error)
}

// BoardWriter is the cache side of the stat boards
type BoardWriter interface {
	ReplaceBoard(ctx context.Context, metric domain.StatMetric, values map[string]int64) error
	BatchSetAccountInfo(ctx context.Context, names map[string]string) error
}

// SyncWorker periodically rebuilds the Redis stat boards from PostgreSQL
type SyncWorker struct {
	source  TotalsSource
	boards  BoardWriter
	config  *config.SyncConfig
	logger  *slog.Logger
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

// NewSyncWorker creates a new sync worker
func NewSyncWorker(
	source TotalsSource,
	boards BoardWriter,
	cfg *config.SyncConfig,
	logger *slog.Logger,
) *SyncWorker {
	return &SyncWorker{
		source: source,
		boards: boards,
		config: cfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins the background sync process
func (w *SyncWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("sync worker started", "interval", w.config.Interval)

	go w.run(ctx)
	return nil
}

// Stop stops the background sync process
func (w *SyncWorker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("sync worker stopped")
	return nil
}

func (w *SyncWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			if err := w.Rebuild(ctx); err != nil {
				w.logger.Error("board rebuild failed", "error", err)
			}
		}
	}
}

// Rebuild replaces every board with the totals stored in PostgreSQL and refreshes
// the cached display names. Boards that fail to rebuild are logged and skipped.
func (w *SyncWorker) Rebuild(ctx context.Context) error {
	startTime := time.Now()

	totals, err := w.source.GetAccountTotals(ctx)
	if err != nil {
		return fmt.Errorf("loading account totals: %w", err)
	}

	errorCount := 0
	for _, metric := range domain.StatMetrics {
		values := make(map[string]int64, len(totals))
		for _, t := range totals {
			values[t.AccountID] = t.Values[metric]
		}
		if err := w.boards.ReplaceBoard(ctx, metric, values); err != nil {
			w.logger.Error("failed to rebuild board", "metric", metric, "error", err)
			errorCount++
		}
	}

	if err := w.refreshNames(ctx, totals); err != nil {
		w.logger.Warn("failed to refresh account names", "error", err)
	}

	w.logger.Info("board rebuild completed",
		"duration", time.Since(startTime),
		"accounts", len(totals),
		"errors", errorCount,
	)
	return nil
}

// refreshNames caches display names in batches
func (w *SyncWorker) refreshNames(ctx context.Context, totals []domain.AccountTotals) error {
	batchSize := w.config.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	for start := 0; start < len(totals); start += batchSize {
		end := min(start+batchSize, len(totals))
		ids := make([]string, 0, end-start)
		for _, t := range totals[start:end] {
			ids = append(ids, t.AccountID)
		}

		names, err := w.source.GetDisplayNames(ctx, ids)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			continue
		}
		if err := w.boards.BatchSetAccountInfo(ctx, names); err != nil {
			return err
		}
	}
	return nil
}

// IsRunning returns whether the worker is currently running
func (w *SyncWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
