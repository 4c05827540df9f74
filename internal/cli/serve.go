package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	"vortexgames/internal/audit"
	"vortexgames/internal/config"
	"vortexgames/internal/db"
	"vortexgames/internal/http/server"
	"vortexgames/internal/metrics"
	"vortexgames/internal/session"
	ui "vortexgames/web"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 15 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, config.Load())
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	setupLogger(cfg.Debug)

	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	store := db.NewStore(gdb)
	defer store.Close()
	slog.Info("database ready")

	if cfg.AdminUser != "" && cfg.AdminPassword != "" {
		created, err := store.EnsureBootstrapAdmin(ctx, cfg.AdminUser, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("ensure bootstrap admin: %w", err)
		}
		if created {
			slog.Info("bootstrap admin created", "username", cfg.AdminUser)
		}
	}

	sessions, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	auditLog := audit.New(store, audit.Hooks{
		Written: func(e audit.Entry) {
			m.AuditEvents.WithLabelValues(e.Action).Inc()
		},
		Failed: func(e audit.Entry, err error) {
			m.AuditFailures.WithLabelValues(e.Action).Inc()
			slog.Error("audit write failed", "action", e.Action, "error", err)
		},
	})

	var static fs.FS = ui.StaticFS()
	if cfg.StaticDir != "" {
		static = os.DirFS(cfg.StaticDir)
	}

	srv := &fasthttp.Server{
		Name: "vortexgames",
		Handler: server.New(server.Dependencies{
			Config:   cfg,
			Store:    store,
			Sessions: sessions,
			Audit:    auditLog,
			Metrics:  m,
			Gatherer: reg,
			Static:   static,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(cfg.ListenAddr)
	}()

	slog.Info("vortexgames listening", "addr", cfg.ListenAddr, "sessions", cfg.SessionBackend)
	auditLog.Log(audit.Entry{
		Action:  audit.ActionServerStart,
		Details: "Server online on " + cfg.ListenAddr,
	})

	select {
	case err := <-errCh:
		auditLog.Wait()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		slog.Error("shutdown", "error", err)
	}
	auditLog.Wait()
	return nil
}

// newSessionStore builds the configured backend and returns a func that
// releases it.
func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		rs, err := session.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return rs, func() { rs.Close() }, nil
	default:
		ms := session.NewMemoryStore(cfg.SessionTTL)
		ms.StartSweeper(ctx, sweepInterval)
		return ms, func() {}, nil
	}
}
