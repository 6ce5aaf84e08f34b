// Package kafka publishes anomaly flag events so downstream mission
// dashboards can alert on probe problems without parsing report files.
// Publishing is optional; runs without brokers configured skip it entirely.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/aerosurvey/probe-qc/internal/config"
	"github.com/aerosurvey/probe-qc/internal/domain"
)

// Writer produces flag events to a Kafka topic.
// It implements pipeline.FlagPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured flag topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaFlagTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishFlags serializes and publishes every flag from one QC run in a
// single WriteMessages call. Events from the same source file share a key
// so they land on one partition in order.
func (w *Writer) PublishFlags(ctx context.Context, events []domain.FlagEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a FlagEvent into a Kafka message.
func serializeToMessage(event domain.FlagEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize flag event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.SourceFile),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "flag_kind", Value: []byte(event.Kind)},
			{Key: "raised_at", Value: []byte(event.RaisedAt.Format(time.RFC3339))},
		},
	}, nil
}
