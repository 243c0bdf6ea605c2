// Package publish forwards persisted quote snapshots to Kafka.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"cotizaciones/internal/domain"
)

// Config configures a KafkaPublisher.
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// Message is the value written for every snapshot.
type Message struct {
	PlaceCode string                `json:"place_code"`
	PlaceName string                `json:"place_name"`
	Response  *domain.QueryResponse `json:"response"`
}

// MessageWriter is the subset of *kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per QueryResponse, keyed by
// "<place>/<branch>" so a branch's snapshots stay ordered in one partition.
type KafkaPublisher struct {
	writer  MessageWriter
	timeout time.Duration
	logger  *slog.Logger
}

// NewKafkaPublisher builds a publisher over a kafka-go Writer.
func NewKafkaPublisher(cfg Config, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Gzip,
	}
	return NewWithWriter(w, cfg.WriteTimeout, logger), nil
}

// NewWithWriter builds a publisher over any MessageWriter. A zero timeout
// leaves the caller's context deadline in charge.
func NewWithWriter(w MessageWriter, timeout time.Duration, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{writer: w, timeout: timeout, logger: logger}
}

// Publish implements gatherer.Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, place *domain.Place, responses []*domain.QueryResponse) error {
	if len(responses) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(responses))
	for _, r := range responses {
		value, err := json.Marshal(Message{PlaceCode: place.Code, PlaceName: place.Name, Response: r})
		if err != nil {
			return fmt.Errorf("marshal snapshot %s: %w", r.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(place.Code + "/" + r.BranchCode),
			Value: value,
			Time:  r.Date,
		})
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d kafka messages: %w", len(msgs), err)
	}
	p.logger.Debug("snapshots published", "place", place.Code, "count", len(msgs))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
