package vpn

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// ReportFunc receives the outcome of each scheduled probe.
type ReportFunc func(connected bool, err error)

// Watchdog probes VPN connectivity on a cron schedule. It only observes;
// reconnecting is left to the relay path and the connect endpoint.
type Watchdog struct {
	prober   Prober
	schedule string
	report   ReportFunc
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewWatchdog creates a watchdog. report may be nil.
func NewWatchdog(prober Prober, schedule string, report ReportFunc) *Watchdog {
	return &Watchdog{
		prober:   prober,
		schedule: schedule,
		report:   report,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "vpn.watchdog"),
	}
}

// Start schedules the probe. An empty schedule is a no-op. The watchdog
// stops when ctx is cancelled.
func (w *Watchdog) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.schedule == "" {
		w.logger.Info("watch schedule not configured, skipping watchdog")
		return nil
	}
	if w.running {
		return fmt.Errorf("watchdog already running")
	}

	if _, err := cron.ParseStandard(w.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", w.schedule, err)
	}

	if _, err := w.cron.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule vpn watchdog: %w", err)
	}

	w.cron.Start()
	w.running = true
	w.logger.Info("vpn watchdog started", "schedule", w.schedule)

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}

// RunOnce performs a single probe and reports it.
func (w *Watchdog) RunOnce(ctx context.Context) {
	connected, err := w.prober.IsConnected(ctx)
	if err != nil {
		w.logger.WarnContext(ctx, "scheduled vpn probe failed", "error", err)
	} else if !connected {
		w.logger.WarnContext(ctx, "vpn not connected: public IP is exposed")
	} else {
		w.logger.DebugContext(ctx, "vpn connected")
	}

	if w.report != nil {
		w.report(connected, err)
	}
}

// Stop halts the schedule and waits for a running probe to finish.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	<-w.cron.Stop().Done()
	w.running = false
	w.logger.Info("vpn watchdog stopped")
}

// IsRunning reports whether the schedule is active.
func (w *Watchdog) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
