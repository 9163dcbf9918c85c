package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Mshaban73/Cashier/internal/bootstrap"
	"github.com/Mshaban73/Cashier/internal/config"
	"github.com/Mshaban73/Cashier/internal/httpapi"
	"github.com/Mshaban73/Cashier/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	if err := validateConfig(cfg); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	app, err := bootstrap.Open(ctx, cfg, log)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("startup failed")
	}

	api := httpapi.New(app.Service, cfg.AllowedOrigin, cfg.RateLimitPerSecond, logger.Component(log, "httpapi"))

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Address(),
			"backend": app.Backend,
			"cache":   app.Cache,
			"year":    app.Service.Year(),
		}).Info("cashier API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown error")
	}
	if err := app.Close(); err != nil {
		log.WithError(err).Warn("close error")
	}

	log.Info("server stopped")
}

func validateConfig(cfg config.Config) error {
	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", cfg.Port)
	}
	if cfg.AllowedOrigin == "" {
		return fmt.Errorf("ALLOWED_ORIGIN must be set")
	}
	if cfg.StoreBackend == "postgres" && cfg.DatabaseURL == "" {
		return fmt.Errorf("STORE_BACKEND=postgres requires DATABASE_URL")
	}
	if cfg.StoreBackend == "sqlite" && cfg.DataPath == "" {
		return fmt.Errorf("STORE_BACKEND=sqlite requires DATA_PATH")
	}
	return nil
}
