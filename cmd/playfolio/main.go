package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"playfolio/internal/clients/api"
	"playfolio/internal/clients/catalog"
	"playfolio/internal/config"
	"playfolio/internal/routes"
	"playfolio/internal/session"
	"playfolio/internal/storage/database"
	"playfolio/internal/storage/searchcache"
	"playfolio/internal/web"

	_ "playfolio/internal/controllers"
)

const (
	envLocal = "local"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting playfolio", slog.String("env", cfg.Env))

	storage, err := database.New(cfg.Database)
	if err != nil {
		log.Error("failed to create database", slog.String("error", err.Error()))
		panic("db-err")
	}

	log.Info("storage init", slog.String("driver", cfg.Database.Driver))

	defer func() {
		if err := storage.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	if err := storage.Migrate(); err != nil {
		log.Error("migration", slog.String("error", err.Error()))
		panic("table-err")
	}

	log.Info("database init")

	cache, err := searchcache.New(cfg.SearchCache.Path)
	if err != nil {
		log.Error("failed to create search cache", slog.String("error", err.Error()))
		panic("cache-err")
	}

	pruneCtx, stopPruner := context.WithCancel(context.Background())
	defer stopPruner()

	go cache.RunPruner(pruneCtx, log, cfg.SearchCache.PruneInterval, cfg.SearchCache.TTL, cfg.SearchCache.MaxEntries)

	sessions := session.NewManager(cfg.Session)

	serverAPI := api.New(cfg.API.URL(), cfg.API.Timeout, api.WithLogger(log))

	catalogClient := catalog.New(
		api.New(
			cfg.Catalog.BaseURL,
			cfg.Catalog.Timeout,
			api.WithQueryParam("key", cfg.Catalog.APIKey),
			api.WithLogger(log),
		),
		log,
	)

	pages, err := web.NewPages(log, serverAPI, catalogClient, sessions, cache, cfg.Session.SignInPath)
	if err != nil {
		log.Error("failed to parse templates", slog.String("error", err.Error()))
		panic("templates-err")
	}

	r := routes.SetupRouter(log, storage, sessions, pages, cfg.Cors)

	log.Info("routes init")

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("starting server", slog.String("address", cfg.Address))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		log.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-shutdown:
		log.Info("shutting down", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown error", slog.String("error", err.Error()))
			if err := server.Close(); err != nil {
				log.Error("force shutdown error", slog.String("error", err.Error()))
			}
		}
		signal.Stop(shutdown)
	}
	log.Info("server stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}
	return log
}

// @title Playfolio API
// @version 1.0
// @description REST API behind the Playfolio backlog and library pages
// @BasePath /api
