package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadconvert/internal/adapters"
	"leadconvert/internal/ai"
	"leadconvert/internal/analytics"
	"leadconvert/internal/auth"
	"leadconvert/internal/email"
	"leadconvert/internal/events"
	apphttp "leadconvert/internal/http"
	"leadconvert/internal/http/router"
	"leadconvert/internal/interactions"
	"leadconvert/internal/leads"
	"leadconvert/internal/messaging"
	"leadconvert/internal/scores"
	"leadconvert/internal/webhook"
	"leadconvert/internal/whatsapp"
	"leadconvert/migrations"
	"leadconvert/platform/config"
	"leadconvert/platform/db"
	"leadconvert/platform/logger"
	"leadconvert/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Outbound providers. Email falls back to a log-only sender; the WhatsApp
	// and AI clients are nil when their credentials are absent.
	sender := email.NewSender(cfg, log)
	whatsappClient := whatsapp.NewClient(cfg, log)
	aiClient := ai.NewClient(cfg, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, eventBus, log)
	leadsModule := leads.NewModule(pool, eventBus, val, log)
	interactionsModule := interactions.NewModule(pool, leadsModule.Service(), eventBus, log)
	analyticsModule := analytics.NewModule(pool, log)

	// Scoring reads conversation signals from and writes insights back to the
	// interactions store; the adapters break the circular dependency.
	leadsModule.Scorer().SetSignalSource(adapters.NewScoringSignalsAdapter(interactionsModule.Repository()))
	leadsModule.Scorer().SetInsightRecorder(adapters.NewInsightRecorderAdapter(interactionsModule.Repository()))

	messagingModule := messaging.NewModule(leadsModule.Service(), interactionsModule.Service(), sender, cfg, log)
	if whatsappClient != nil {
		messagingModule.Service().SetWhatsAppSender(whatsappClient)
	}
	if aiClient != nil {
		messagingModule.Service().SetCompleter(aiClient)
	}

	webhookModule := webhook.NewModule(leadsModule.Service(), interactionsModule.Service(), cfg, log)

	// Scores module reacts to domain events rather than being called directly
	scoresModule := scores.NewModule(pool, log)
	scoresModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:         cfg,
		Logger:         log,
		Health:         db.NewPoolAdapter(pool),
		EventBus:       eventBus,
		AuthMiddleware: authModule.Middleware(),
		Modules: []apphttp.Module{
			authModule,
			leadsModule,
			interactionsModule,
			messagingModule,
			webhookModule,
			analyticsModule,
			scoresModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
