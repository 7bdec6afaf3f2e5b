package kafka

import (
	"context"
	"log/slog"
	"sort"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/climate-projection-service/internal/config"
	"github.com/couchcryptid/climate-projection-service/internal/domain"
)

// Writer produces projection and alert messages. Each OutputEvent names its
// topic; events without one go to the sink topic. It implements
// pipeline.BatchLoader.
type Writer struct {
	writer       *kafkago.Writer
	defaultTopic string
	logger       *slog.Logger
}

// NewWriter creates a Kafka producer. The underlying writer has no fixed
// topic so a single batch can span the sink and alert topics.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, defaultTopic: cfg.KafkaSinkTopic, logger: logger}
}

// LoadBatch publishes events in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msgs[i] = serializeToMessage(events[i], w.defaultTopic)
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage converts an OutputEvent into a Kafka message. Headers are
// sorted by key so message bytes are deterministic.
func serializeToMessage(event domain.OutputEvent, defaultTopic string) kafkago.Message {
	topic := event.Topic
	if topic == "" {
		topic = defaultTopic
	}

	keys := make([]string, 0, len(event.Headers))
	for k := range event.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]kafkago.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(event.Headers[k])})
	}

	return kafkago.Message{
		Topic:   topic,
		Key:     event.Key,
		Value:   event.Value,
		Headers: headers,
	}
}
