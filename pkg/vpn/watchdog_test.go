package vpn

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type stubProber struct {
	mu        sync.Mutex
	connected bool
	err       error
	calls     int
}

func (p *stubProber) IsConnected(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.connected, p.err
}

func TestWatchdog_RunOnce(t *testing.T) {
	probeErr := errors.New("unreachable")
	tests := []struct {
		name      string
		connected bool
		err       error
	}{
		{"connected", true, nil},
		{"exposed", false, nil},
		{"error", false, probeErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prober := &stubProber{connected: tt.connected, err: tt.err}

			var gotConnected bool
			var gotErr error
			reported := false
			w := NewWatchdog(prober, "@every 1h", func(connected bool, err error) {
				reported = true
				gotConnected, gotErr = connected, err
			})

			w.RunOnce(context.Background())

			if !reported {
				t.Fatal("report callback not called")
			}
			if gotConnected != tt.connected || !errors.Is(gotErr, tt.err) {
				t.Errorf("reported (%v, %v), want (%v, %v)", gotConnected, gotErr, tt.connected, tt.err)
			}
		})
	}
}

func TestWatchdog_StartStop(t *testing.T) {
	w := NewWatchdog(&stubProber{connected: true}, "@every 1h", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !w.IsRunning() {
		t.Error("expected watchdog to be running")
	}
	if err := w.Start(ctx); err == nil {
		t.Error("expected error when starting twice")
	}

	w.Stop()
	if w.IsRunning() {
		t.Error("expected watchdog to be stopped")
	}
	w.Stop()
}

func TestWatchdog_EmptySchedule(t *testing.T) {
	w := NewWatchdog(&stubProber{}, "", nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if w.IsRunning() {
		t.Error("watchdog should not run without a schedule")
	}
}

func TestWatchdog_InvalidSchedule(t *testing.T) {
	w := NewWatchdog(&stubProber{}, "sometimes", nil)
	if err := w.Start(context.Background()); err == nil {
		t.Error("expected error for invalid schedule")
	}
}
