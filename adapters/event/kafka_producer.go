package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/dev-connector/internal/application/service"
	"github.com/khoahotran/dev-connector/internal/config"
	"github.com/khoahotran/dev-connector/internal/domain/user"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

const (
	TopicAccountEvents = "account.events"
)

type KafkaProducerClient struct {
	AccountEventsWriter *kafka.Writer
	logger              logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	accountWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicAccountEvents,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))

	return &KafkaProducerClient{
		AccountEventsWriter: accountWriter,
		logger:              log,
	}, nil
}

// PublishAccountEvent keys messages by account id so all events for one
// account land on the same partition in order.
func (c *KafkaProducerClient) PublishAccountEvent(ctx context.Context, payload user.AccountEvent) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal account event: %w", err)
	}

	err = c.AccountEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.UserID.String()),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("write account event: %w", err)
	}

	c.logger.Info("Published account event",
		zap.String("event_type", string(payload.EventType)),
		zap.String("user_id", payload.UserID.String()),
	)
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.AccountEventsWriter != nil {
		if err := c.AccountEventsWriter.Close(); err != nil {
			c.logger.Error("Close Kafka writer failed", err)
		}
	}
	c.logger.Info("Closed Kafka Producers")
}

type nopPublisher struct {
	logger logger.Logger
}

// NewNopPublisher drops events. Used when no brokers are configured.
func NewNopPublisher(log logger.Logger) service.EventPublisher {
	return &nopPublisher{logger: log}
}

func (p *nopPublisher) PublishAccountEvent(ctx context.Context, payload user.AccountEvent) error {
	p.logger.Info("Kafka disabled, dropping account event",
		zap.String("event_type", string(payload.EventType)),
		zap.String("user_id", payload.UserID.String()),
	)
	return nil
}
