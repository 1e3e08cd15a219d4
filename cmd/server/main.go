package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/booking_calendar/internal/app"
	"github.com/Freeeeeet/booking_calendar/internal/config"
	"github.com/Freeeeeet/booking_calendar/internal/controller"
	"github.com/Freeeeeet/booking_calendar/internal/notify"
	"github.com/Freeeeeet/booking_calendar/internal/service"
	"github.com/Freeeeeet/booking_calendar/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting booking calendar server",
		"environment", cfg.Environment,
		"instance", cfg.InstanceSlug,
		"storage", cfg.StorageBackend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docStore, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer cleanup()

	if err := docStore.Ping(ctx); err != nil {
		logger.Fatal("Storage is unreachable", zap.Error(err))
	}

	// Уведомления опциональны: без токена сервер работает молча
	var notifier service.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tn, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, cfg.InstanceSlug, logger)
		if err != nil {
			logger.Fatal("Failed to create telegram notifier", zap.Error(err))
		}
		notifier = tn
		logger.Info("Telegram notifications enabled")
	}

	bookingService := service.NewBookingService(docStore, cfg.InstanceSlug, notifier, logger)
	handlers := controller.NewHandlers(bookingService, logger)
	router := controller.NewRouter(handlers, cfg.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// buildStore создаёт хранилище документов по конфигурации.
// Для postgres дополнительно прогоняются миграции.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.DocumentStore, func(), error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}

		migrator, err := app.NewMigrator(pool, "migrations", logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := migrator.Run(ctx); err != nil {
			migrator.Close()
			pool.Close()
			return nil, nil, err
		}
		migrator.Close()

		return storage.NewPostgresStore(pool), pool.Close, nil

	case config.StorageMemory:
		return storage.NewMemoryStore(), func() {}, nil

	default:
		s := storage.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		return s, func() { s.Close() }, nil
	}
}
