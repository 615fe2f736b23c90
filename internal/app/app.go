package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/inbox/internal/auth"
	"github.com/MrSnakeDoc/inbox/internal/config"
	"github.com/MrSnakeDoc/inbox/internal/httpserver"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inbox/internal/logger"
	"github.com/MrSnakeDoc/inbox/internal/scheduler"
	"github.com/MrSnakeDoc/inbox/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	stores      *Stores
	housekeeper *scheduler.Housekeeper
}

// New connects the record store and builds the HTTP server.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	stores, err := OpenStores(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	authorizer := auth.New(cfg.BearerToken, cfg.CORSOrigins)
	if authorizer.OpenMode() {
		loggerClient.Warn("INBOX_BEARER_TOKEN is not set: every request is accepted without credentials")
	}

	housekeeper := scheduler.NewHousekeeper(
		stores.Records,
		loggerClient,
		cfg.HousekeepingSchedule,
		cfg.Retention,
	)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		Records:         stores.Records,
		Authorizer:      authorizer,
		DefaultPageSize: cfg.DefaultPageSize,
		CORSOrigins:     cfg.CORSOrigins,
		HealthCIDRs:     cfg.HealthCIDRs,
		TrustProxy:      cfg.TrustProxy,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		stores:      stores,
		housekeeper: housekeeper,
	}, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting inbox v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("inbox %s (commit=%s, built=%s, go=%s, driver=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion, a.cfg.DBDriver)

	defer a.stores.Close(a.logger)

	if err := a.housekeeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start housekeeping: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.housekeeper.Stop()
		return err
	}

	a.housekeeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ inbox stopped cleanly")
	return nil
}
