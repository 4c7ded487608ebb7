// Package server provides the tunnelgate HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"tunnelgate/relay/pkg/config"
	"tunnelgate/relay/pkg/persist"
	"tunnelgate/relay/pkg/proxy/handlers"
	"tunnelgate/relay/pkg/proxy/middleware"
	"tunnelgate/relay/pkg/relay"
	"tunnelgate/relay/pkg/telemetry/health"
	"tunnelgate/relay/pkg/telemetry/metrics"
	"tunnelgate/relay/pkg/vpn"
)

// Route paths.
const (
	RouteForward    = "/forward"
	RouteCheckVPN   = "/check_vpn"
	RouteConnectVPN = "/connect_vpn"
	RouteHealth     = "/health"
	RouteReady      = "/ready"
	RouteVersion    = "/version"
)

// Options carries the collaborators of a Server. Nil fields are built from
// the configuration.
type Options struct {
	Prober      vpn.Prober
	Establisher vpn.Establisher
	Forwarder   *relay.Forwarder
	Collector   *metrics.Collector

	// Version information served on /version.
	Version   string
	Commit    string
	BuildTime string
}

// Server is the tunnelgate HTTP server together with its background jobs.
type Server struct {
	config       *config.Config
	opts         Options
	gate         *handlers.VPNGate
	persister    *persist.Persister
	watchdog     *vpn.Watchdog
	retention    *persist.Retention
	checker      *health.Checker
	handler      http.Handler
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
	addr         net.Addr
}

// NewServer wires the handlers, middleware and background jobs for cfg.
func NewServer(cfg *config.Config, opts Options) *Server {
	if opts.Prober == nil {
		opts.Prober = vpn.NewPIAProber(&cfg.VPN, nil)
	}
	if opts.Establisher == nil {
		opts.Establisher = vpn.NewScriptEstablisher(&cfg.VPN)
	}
	if opts.Forwarder == nil {
		opts.Forwarder = relay.NewForwarder(&cfg.Relay, nil)
	}
	if opts.Collector == nil {
		opts.Collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	s := &Server{
		config:       cfg,
		opts:         opts,
		gate:         handlers.NewVPNGate(opts.Prober, opts.Establisher, opts.Collector),
		checker:      handlers.NewReadinessChecker(cfg),
		shutdownChan: make(chan struct{}),
	}

	if cfg.Persist.Enabled {
		s.persister = persist.NewPersister(&cfg.Persist)
		s.retention = persist.NewRetention(&cfg.Persist, opts.Collector.RecordPruned)
	}

	s.watchdog = vpn.NewWatchdog(opts.Prober, cfg.VPN.WatchSchedule, func(connected bool, err error) {
		switch {
		case err != nil:
			opts.Collector.RecordProbe(metrics.ProbeError)
		case connected:
			opts.Collector.RecordProbe(metrics.ProbeConnected)
		default:
			opts.Collector.RecordProbe(metrics.ProbeExposed)
		}
	})

	s.handler = s.setupRoutes()
	return s
}

// Start starts the HTTP server and background jobs, and blocks until ctx is
// cancelled, Shutdown is called or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	listener, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:        s.handler,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}
	s.isRunning = true
	s.mu.Unlock()

	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()

	if err := s.watchdog.Start(jobCtx); err != nil {
		slog.Warn("vpn watchdog not started", "error", err)
	}
	if s.retention != nil {
		if err := s.retention.Start(jobCtx); err != nil {
			slog.Warn("export retention not started", "error", err)
		}
	}

	s.mu.Lock()
	s.addr = listener.Addr()
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting tunnelgate server",
			"address", listener.Addr().String(),
			"ensure_vpn", s.config.Relay.EnsureVPN,
			"whitelist_mode", s.config.Relay.WhitelistMode,
			"persist_enabled", s.config.Persist.Enabled,
		)

		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.markStopped()
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully stops the HTTP server and background jobs.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		close(s.shutdownChan)

		s.mu.RLock()
		running := s.isRunning
		s.mu.RUnlock()
		if !running {
			return
		}

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.watchdog.Stop()
		if s.retention != nil {
			s.retention.Stop()
		}

		s.markStopped()
		slog.Info("tunnelgate server stopped")
	})

	return shutdownErr
}

func (s *Server) markStopped() {
	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()
}

// setupRoutes registers every endpoint and applies the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	collector := s.opts.Collector

	route := func(path string, h http.Handler) {
		mux.Handle(path, middleware.Instrument(collector, path, h))
	}

	route(RouteForward, handlers.NewForwardHandler(&s.config.Relay, s.gate, s.opts.Forwarder, s.persister, collector))
	route(RouteCheckVPN, handlers.NewCheckVPNHandler(s.gate))
	route(RouteConnectVPN, handlers.NewConnectVPNHandler(s.gate))
	route(RouteHealth, s.checker.LivenessHandler())
	route(RouteReady, s.checker.ReadinessHandler())
	route(RouteVersion, health.VersionHandler(s.opts.Version, s.opts.Commit, s.opts.BuildTime))

	if s.config.Telemetry.Metrics.Enabled {
		mux.Handle(s.config.Telemetry.Metrics.Path, collector.Handler())
	}

	// Outermost last: Recovery, RequestID, Logging, Tracing, mux.
	var handler http.Handler = mux
	handler = middleware.TracingMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the listener address once the server has started.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Watchdog returns the VPN watchdog.
func (s *Server) Watchdog() *vpn.Watchdog {
	return s.watchdog
}
