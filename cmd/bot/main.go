// Package main is the entry point for the team bot server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dugout-labs/teambot/internal/config"
	"github.com/dugout-labs/teambot/internal/conversation"
	"github.com/dugout-labs/teambot/internal/facts"
	"github.com/dugout-labs/teambot/internal/google"
	"github.com/dugout-labs/teambot/internal/groupme"
	"github.com/dugout-labs/teambot/internal/handler"
	"github.com/dugout-labs/teambot/internal/intent"
	"github.com/dugout-labs/teambot/internal/middleware"
	"github.com/dugout-labs/teambot/internal/parser"
	"github.com/dugout-labs/teambot/internal/reminder"
	"github.com/dugout-labs/teambot/internal/service"
	"github.com/dugout-labs/teambot/internal/storage"
	"github.com/dugout-labs/teambot/internal/weather"
	"github.com/dugout-labs/teambot/pkg/logger"
	"github.com/dugout-labs/teambot/pkg/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	log.Info("starting team bot",
		zap.String("bot_name", cfg.GroupMeBotName),
		zap.String("port", cfg.ServerPort))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "teambot", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Moderator persistence
	var mods storage.ModeratorStore
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to database", zap.Error(err))
			os.Exit(1)
		}
		log.Info("moderator store using postgres")
		mods = pg
	} else {
		log.Info("moderator store using memory")
		mods = storage.NewMemoryStore()
	}
	defer mods.Close()

	// External clients and services
	googleClient := google.NewClient(cfg, log)
	groupmeClient := groupme.NewClient(cfg, log)
	weatherClient := weather.NewClient(log)
	factsProvider := facts.New(cfg.TeamName, cfg.TeamEmoji, cfg.EnableTeamFacts, cfg.TeamFactsFile)

	svc := service.New(cfg, googleClient, groupmeClient, mods, factsProvider, log)

	// Parser pipeline
	classifier := intent.NewClassifier(cfg.GroupMeBotName, nil, nil)
	contexts := conversation.NewStore(cfg.SessionTimeout, nil)
	cmdParser := parser.New(cfg.GroupMeBotName, cfg.TeamName, classifier, contexts)

	// Background reminders
	scheduler := reminder.New(svc, weatherClient, factsProvider, cfg, log)
	go scheduler.Start(ctx)

	// Handlers
	fallbackReply := fmt.Sprintf("%s Ahoy! I ran into a problem with that request. Try again in a moment, matey! ⚾", cfg.TeamEmoji)
	webhookHandler := handler.NewWebhookHandler(cmdParser, svc, fallbackReply, log)
	healthHandler := handler.NewHealthHandler(map[string]handler.ReadyChecker{
		"moderator_store": mods,
		"schedule_source": googleClient,
	})

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Post("/webhook", webhookHandler.Receive)
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
