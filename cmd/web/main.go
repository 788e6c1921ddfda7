package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simchecker/internal/config"
	"simchecker/internal/gateway"
	"simchecker/internal/logger"
	"simchecker/internal/session"
	"simchecker/internal/storage"
	"simchecker/internal/web"
)

func main() {
	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	slog.SetDefault(log)

	slog.Info("config loaded",
		"env", cfg.Env,
		"addr", cfg.HTTPServer.Address,
		"analyze_url", cfg.API.AnalyzeEndpoint(),
		"api_timeout", cfg.API.Timeout,
		"session_store", cfg.Session.Store,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var results session.Store
	switch cfg.Session.Store {
	case "redis":
		client, err := session.Dial(ctx, cfg.Session.RedisAddr)
		if err != nil {
			slog.Error("failed to connect to redis", "addr", cfg.Session.RedisAddr, "err", err)
			os.Exit(1)
		}
		defer client.Close()
		slog.Info("connected to redis", "addr", cfg.Session.RedisAddr)
		results = session.NewRedis(client, cfg.Session.TTL)
	default:
		results = session.NewMemory(cfg.Session.TTL)
	}

	deps := web.Deps{
		Analyzer: gateway.NewGateway(cfg.API.AnalyzeEndpoint(), cfg.API.Timeout),
		Results:  results,
		Cookies: session.Cookies{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Env == logger.EnvProd,
		},
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}

	if cfg.StorageDB.DSN != "" {
		db, err := storage.NewStorage(ctx, cfg.StorageDB.DSN)
		if err != nil {
			slog.Error("failed to connect to storage db", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		deps.History = storage.NewRepository(db)
	} else {
		slog.Info("storage db not configured, dashboard shows placeholder figures")
	}

	srv, err := web.NewServer(deps)
	if err != nil {
		slog.Error("failed to build web server", "err", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		slog.Info("starting web server", "addr", cfg.HTTPServer.Address)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("web server error", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down web server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("web server shutdown error", "err", err)
	}
}
