// Package publisher pushes trade lifecycle updates to Kafka so
// downstream consumers (UI gateways, notification services) see
// settlements and reversions without polling the database.
package publisher

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	tradev1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/trade/v1"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/config"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/errors"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/logger"
)

// Update types carried by TradeUpdate messages.
const (
	UpdateTypeSettled  = "settled"
	UpdateTypeReverted = "reverted"
)

// TradeUpdate is the message payload published per trade state change.
type TradeUpdate struct {
	Type  string         `json:"type"`
	Trade *tradev1.Trade `json:"trade"`
}

// TradePublisher is the interface for publishing trade updates.
//
//go:generate mockgen -source=publisher.go -destination=mock/publisher_mock.go -package=mock
type TradePublisher interface {
	PublishTradeUpdate(ctx context.Context, update *TradeUpdate) error
	Close() error
}

// Publisher represents a Kafka publisher for trade updates.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for trade updates.
func NewPublisher(cfg config.KafkaConfig, logger logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      logger,
	}
}

// PublishTradeUpdate publishes one trade update, keyed by the trade id
// so per-trade ordering is preserved across partitions.
func (p *Publisher) PublishTradeUpdate(ctx context.Context, update *TradeUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return errors.NewErrorDetails("failed to marshal trade update", string(errors.KafkaPublishError), "")
	}

	msg := kafka.Message{
		Key:   []byte(update.Trade.ID()),
		Value: payload,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "tradeId", Value: update.Trade.ID()},
			logger.Field{Key: "type", Value: update.Type},
		)
		return errors.NewErrorDetails("failed to publish trade update", string(errors.KafkaPublishError), "")
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
