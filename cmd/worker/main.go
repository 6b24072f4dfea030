package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/dev-connector/adapters/event"
	"github.com/khoahotran/dev-connector/adapters/media_storage"
	"github.com/khoahotran/dev-connector/adapters/persistence"
	accountUC "github.com/khoahotran/dev-connector/internal/application/usecase/account"
	"github.com/khoahotran/dev-connector/internal/config"
	"github.com/khoahotran/dev-connector/internal/domain/user"
	"github.com/khoahotran/dev-connector/pkg/logger"
	"github.com/khoahotran/dev-connector/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting DevConnector Worker...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(cfg, appLogger, "dev-connector-worker")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	// Database
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	// Cloudinary Uploader
	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	processAccountEventUC := accountUC.NewProcessAccountEventUseCase(userRepo, uploader, cfg.Cloudinary.AvatarFolder, appLogger)

	// Kafka Consumer
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicAccountEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicAccountEvents))

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		log := appLogger.With(zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset))

		var payload user.AccountEvent
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Error("Failed to unmarshal event, skipping", err)
			commitMessage(consumer, msg, log)
			continue
		}

		if err := processAccountEventUC.ExecuteWithRetry(ctx, payload); err != nil {
			if errors.Is(err, context.Canceled) {
				// Uncommitted, so the group redelivers it on the next start.
				appLogger.Info("Worker stopped")
				return
			}
			// Offsets are committed per partition, so moving on drops this
			// event for good.
			log.Error("Dropping account event after retries", err, zap.String("event_type", string(payload.EventType)))
		}

		commitMessage(consumer, msg, log)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
