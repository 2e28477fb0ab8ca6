package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kagwathi/movenow-dashboard/internal/api"
	"github.com/kagwathi/movenow-dashboard/internal/config"
	"github.com/kagwathi/movenow-dashboard/internal/logging"
	"github.com/kagwathi/movenow-dashboard/internal/session"
	"github.com/kagwathi/movenow-dashboard/internal/web"
)

func main() {
	cfg, err := config.Load()
	logger := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var store session.Store
	if cfg.RedisAddr != "" {
		store = session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		logger.Info("session store: redis", "addr", cfg.RedisAddr)
	} else {
		store = session.NewMemoryStore()
		logger.Info("session store: in-memory")
	}

	client := api.New(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		api.WithTokenSource(&session.StoreTokenSource{Store: store}),
		api.WithUnauthorizedHook(session.ClearOnUnauthorized(store)),
		api.WithEstimateCacheTTL(cfg.EstimateCacheTTL),
	)

	dash := web.NewServer(cfg, client, store, logger)
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      dash,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("dashboard listening", "addr", cfg.HTTPAddr, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	dash.Close()
}
