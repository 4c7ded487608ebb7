package persist

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"tunnelgate/relay/pkg/config"
)

// Pruner deletes export files older than a maximum age.
type Pruner struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewPruner creates a pruner for the configured export directory.
func NewPruner(cfg *config.PersistConfig) *Pruner {
	return &Pruner{
		dir:    cfg.Directory,
		maxAge: cfg.Retention.MaxAge,
		now:    time.Now,
		logger: slog.Default().With("component", "persist.retention"),
	}
}

// Prune deletes regular files in the export directory whose modification
// time is older than the maximum age. Subdirectories are left alone. A
// zero maximum age or a missing directory prunes nothing.
func (p *Pruner) Prune(ctx context.Context) (int, error) {
	if p.maxAge <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to list export directory: %w", err)
	}

	cutoff := p.now().Add(-p.maxAge)
	deleted := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(p.dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.logger.Warn("failed to delete expired export", "path", path, "error", err)
			continue
		}
		deleted++
	}

	return deleted, nil
}

// Retention runs a Pruner on a cron schedule.
type Retention struct {
	pruner   *Pruner
	schedule string
	onPrune  func(deleted int)
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewRetention creates a retention scheduler. onPrune is called after each
// successful run and may be nil.
func NewRetention(cfg *config.PersistConfig, onPrune func(deleted int)) *Retention {
	return &Retention{
		pruner:   NewPruner(cfg),
		schedule: cfg.Retention.Schedule,
		onPrune:  onPrune,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "persist.scheduler"),
	}
}

// Start begins scheduled pruning. It does nothing when the maximum age is
// zero or the schedule is empty. Pruning stops when ctx is cancelled.
func (r *Retention) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pruner.maxAge <= 0 || r.schedule == "" {
		r.logger.Info("export retention not configured, skipping scheduler")
		return nil
	}
	if r.running {
		return fmt.Errorf("retention scheduler already running")
	}

	if _, err := cron.ParseStandard(r.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", r.schedule, err)
	}

	if _, err := r.cron.AddFunc(r.schedule, func() { r.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	r.cron.Start()
	r.running = true

	r.logger.Info("retention scheduler started",
		"schedule", r.schedule,
		"max_age", r.pruner.maxAge.String(),
	)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()

	return nil
}

// RunOnce executes a single pruning cycle.
func (r *Retention) RunOnce(ctx context.Context) {
	deleted, err := r.pruner.Prune(ctx)
	if err != nil {
		r.logger.Error("scheduled pruning failed", "error", err)
		return
	}

	if deleted > 0 {
		r.logger.Info("scheduled pruning completed", "deleted_count", deleted)
	} else {
		r.logger.Debug("scheduled pruning completed, no exports deleted")
	}

	if r.onPrune != nil {
		r.onPrune(deleted)
	}
}

// Stop stops the scheduler and waits for a running prune to finish.
func (r *Retention) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		<-r.cron.Stop().Done()
		r.running = false
		r.logger.Info("retention scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (r *Retention) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// NextRun returns the next scheduled pruning time, or nil when not scheduled.
func (r *Retention) NextRun() *time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
