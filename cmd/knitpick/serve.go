package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ganot/knitpick/internal/config"
	"github.com/ganot/knitpick/internal/mcp"
	"github.com/ganot/knitpick/internal/metrics"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Transport string `help:"Transport mode (stdio or http); overrides transport.mode"`
	Host      string `help:"HTTP listen host; overrides server.host"`
	Port      int    `help:"HTTP listen port; overrides server.port"`
	Metrics   bool   `help:"Expose /metrics in http mode; overrides metrics.enabled"`
}

func (s *ServeCmd) Run(g *Global) error {
	cfg := g.Config
	if s.Transport != "" {
		cfg.Transport.Mode = s.Transport
	}
	if s.Host != "" {
		cfg.Server.Host = s.Host
	}
	if s.Port != 0 {
		cfg.Server.Port = s.Port
	}
	if s.Metrics {
		cfg.Metrics.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		reg *prom.Registry
		rec metrics.Recorder = metrics.NoopRecorder{}
	)
	if cfg.Metrics.Enabled {
		reg = prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
	}

	p, err := openProjects(ctx, cfg, g.Logger, rec)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			g.Logger.Error("failed to close project store", "error", err)
		}
	}()

	mcpServer := mcp.NewServer(mcp.Config{
		Projects: p.svc,
		Watcher:  p.store,
		Version:  version,
		Logger:   g.Logger,
	})

	if cfg.Transport.Mode == config.TransportStdio {
		return runStdioMode(ctx, g.Logger, mcpServer)
	}
	return runHTTPMode(ctx, g.Logger, newHTTPHandler(mcpServer, reg), cfg.Server.Host, cfg.Server.Port)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or the context is canceled.
	err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

// newHTTPHandler routes /mcp to the streamable transport, plus /health and,
// when reg is set, /metrics.
func newHTTPHandler(mcpServer *sdkmcp.Server, reg *prom.Registry) http.Handler {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if reg != nil {
		router.Handle("/metrics", metrics.HTTPHandler(reg))
	}
	return router
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

