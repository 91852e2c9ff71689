package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-report-etl/internal/config"
	"github.com/couchcryptid/quake-report-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes display rows to the sink topic in a
// single WriteMessages call. Rows are keyed by quake id so updates to the same
// event land on the same partition.
func (w *Writer) LoadBatch(ctx context.Context, rows []domain.DisplayRow) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msg, err := serializeToMessage(rows[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write display rows: %w", err)
	}
	w.logger.Debug("batch loaded", "size", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a DisplayRow into a Kafka message.
func serializeToMessage(row domain.DisplayRow) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize display row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(row.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "magnitude_bucket", Value: []byte(row.Display.ColorBucket.String())},
			{Key: "processed_at", Value: []byte(row.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
