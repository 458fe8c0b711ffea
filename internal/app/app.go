package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"localhost/claude-relay/internal/config"
	"localhost/claude-relay/internal/keysource"
	"localhost/claude-relay/internal/messagesadapter/openaichat"
	"localhost/claude-relay/internal/proxy"
)

// App orchestrates the lifecycle of the relay server and related services.
type App struct {
	cfg    *config.Config
	proxy  *proxy.Proxy
	health *Health
}

// New wires the adapter, credential source, and server from configuration.
func New(cfg *config.Config) (*App, error) {
	adapter := openaichat.NewMessagesAdapter(
		cfg.Upstream.BaseURL,
		keysource.Resolve(cfg.Upstream.APIKey),
		openaichat.WithStreamTimeout(cfg.Upstream.StreamTimeout),
	)

	health := NewHealth()

	relayProxy, err := proxy.New(adapter, health,
		proxy.WithModelMap(cfg.ModelMap),
		proxy.WithMaxRequestBytes(cfg.MaxRequestBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy: %w", err)
	}

	return &App{
		cfg:    cfg,
		proxy:  relayProxy,
		health: health,
	}, nil
}

// Start starts all services and blocks until shutdown is triggered.
// Uses errgroup for runtime error monitoring and shutdown function collection for coordinated cleanup.
func (a *App) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	var shutdownFuncs []func(context.Context) error

	// Startup phase: Start services
	slog.InfoContext(gCtx, "starting relay server", "upstream", a.cfg.Upstream.BaseURL)
	proxyErrCh, err := a.proxy.Start(gCtx, a.cfg.Listen)
	if err != nil {
		return fmt.Errorf("relay startup failed: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, a.proxy.Shutdown)

	a.health.SetReady(true)

	// Monitor runtime errors - errgroup cancels context on first error
	g.Go(func() error {
		select {
		case err := <-proxyErrCh:
			if err != nil {
				slog.ErrorContext(gCtx, "relay runtime error", "error", err)
				return fmt.Errorf("relay: %w", err)
			}
			return nil
		case <-gCtx.Done():
			return nil
		}
	})

	runtimeErr := g.Wait()

	a.health.SetReady(false)
	slog.InfoContext(gCtx, "shutting down services")

	// Shutdown phase: Stop all services
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if runtimeErr != nil {
		errs = append(errs, fmt.Errorf("runtime: %w", runtimeErr))
	}

	for i := len(shutdownFuncs) - 1; i >= 0; i-- {
		if err := shutdownFuncs[i](shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "service shutdown failed", "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("application stopped")
	return nil
}
