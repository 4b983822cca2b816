// Package control wires the data-access layer from configuration and
// manages its lifecycle.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sourabhrustagi/taskgate/internal/auth"
	"github.com/sourabhrustagi/taskgate/internal/core/config"
	"github.com/sourabhrustagi/taskgate/internal/gateway"
	"github.com/sourabhrustagi/taskgate/internal/health"
	"github.com/sourabhrustagi/taskgate/internal/infra/httpapi"
	"github.com/sourabhrustagi/taskgate/internal/infra/mockapi"
	redisclient "github.com/sourabhrustagi/taskgate/internal/infra/redis"
	"github.com/sourabhrustagi/taskgate/internal/infra/storage"
	"github.com/sourabhrustagi/taskgate/internal/infra/storage/memory"
	"github.com/sourabhrustagi/taskgate/internal/infra/storage/postgres"
	"github.com/sourabhrustagi/taskgate/internal/retry"
)

// App owns the gateway and its supporting servers.
type App struct {
	Gateway *gateway.Gateway

	kv     storage.KV
	health *health.Server
	port   int
}

// New initializes storage, the simulated backend, the HTTP transport
// and the gateway from cfg. Storage selection: postgres if configured,
// else redis, else in-process memory.
func New(cfg *config.AppConfig) (*App, error) {
	var kv storage.KV
	switch {
	case cfg.Database.URL != "":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := postgres.NewKV(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init postgres: %w", err)
		}
		kv = db
		slog.Info("Using PostgreSQL storage")
	case cfg.Redis.URL != "":
		rdb, err := redisclient.NewKV(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		kv = rdb
		slog.Info("Using Redis storage")
	default:
		kv = memory.NewKV()
		slog.Info("Using Memory storage")
	}

	creds := auth.NewCredentialStore(kv)
	mock := mockapi.New(kv, cfg.Mock)
	real := httpapi.NewClient(cfg.API, creds)

	policy := retry.Policy{
		MaxAttempts:       cfg.Retry.MaxAttempts,
		BaseDelay:         cfg.Retry.BaseDelay,
		MaxDelay:          cfg.Retry.MaxDelay,
		BackoffMultiplier: cfg.Retry.BackoffMultiplier,
	}

	gw := gateway.New(gateway.Config{
		Mode:        gateway.Mode(cfg.Mode),
		Policy:      policy,
		CallTimeout: cfg.API.Timeout,
	}, mock, real, creds)

	return &App{
		Gateway: gw,
		kv:      kv,
		health:  health.NewServer(kv, cfg.Server.Port),
		port:    cfg.Server.Port,
	}, nil
}

// Start brings up the health/metrics server in the background.
func (a *App) Start(ctx context.Context) error {
	go func() {
		slog.Info("Health server starting", "port", a.port)
		if err := a.health.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts down the servers and closes storage.
func (a *App) Stop(ctx context.Context) error {
	if err := a.health.Stop(ctx); err != nil {
		slog.Warn("Health server shutdown", "error", err)
	}
	return a.kv.Close()
}
