// Package bootstrap wires a Service from configuration. The server and the
// CLI share it so both see the same store and cache.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Mshaban73/Cashier/internal/cache"
	"github.com/Mshaban73/Cashier/internal/config"
	"github.com/Mshaban73/Cashier/internal/logger"
	"github.com/Mshaban73/Cashier/internal/service"
	"github.com/Mshaban73/Cashier/internal/store"
	"github.com/Mshaban73/Cashier/internal/store/memory"
	pgstore "github.com/Mshaban73/Cashier/internal/store/postgres"
	sqlitestore "github.com/Mshaban73/Cashier/internal/store/sqlite"
)

type App struct {
	Service *service.Service
	Backend string
	Cache   string

	closers []func() error
}

// Close releases the store and cache connections in reverse opening order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func openStore(ctx context.Context, cfg config.Config) (store.KV, func() error, error) {
	switch cfg.StoreBackend {
	case "memory":
		kv := memory.New()
		return kv, kv.Close, nil
	case "postgres":
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres unavailable: %w", err)
		}
		return pg, pg.Close, nil
	case "sqlite", "":
		db, err := sqlitestore.New(ctx, cfg.DataPath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite %s unavailable: %w", cfg.DataPath, err)
		}
		return db, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// Open connects the configured store, picks the table cache (redis when it
// answers, otherwise in-process) and loads the service state. A store that
// cannot be opened is fatal; a missing redis is not.
func Open(ctx context.Context, cfg config.Config, log *logrus.Logger) (*App, error) {
	bootLog := logger.Component(log, "bootstrap")

	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Backend: cfg.StoreBackend, closers: []func() error{closeStore}}
	bootLog.WithField("backend", cfg.StoreBackend).Info("store opened")

	var tables cache.ShippingTableCache = cache.NewMemoryShippingTableCache(cfg.ViewCacheTTL())
	app.Cache = "memory"
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisShippingTableCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			bootLog.WithError(err).Warn("redis unavailable, using in-process table cache")
			_ = redisCache.Close()
		} else {
			tables = redisCache
			app.Cache = "redis"
			app.closers = append(app.closers, redisCache.Close)
		}
	}
	bootLog.WithField("cache", app.Cache).Info("table cache selected")

	app.Service = service.New(kv, tables, service.Options{
		Year:     cfg.TrackedYear,
		TableTTL: cfg.ViewCacheTTL(),
		Log:      logger.Component(log, "service"),
	})
	app.Service.Load(ctx)
	return app, nil
}
