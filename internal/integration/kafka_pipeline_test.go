//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-projection-service/internal/adapter/kafka"
	"github.com/couchcryptid/climate-projection-service/internal/alerting"
	"github.com/couchcryptid/climate-projection-service/internal/config"
	"github.com/couchcryptid/climate-projection-service/internal/domain"
	"github.com/couchcryptid/climate-projection-service/internal/observability"
	"github.com/couchcryptid/climate-projection-service/internal/pipeline"
)

const (
	testSourceTopic = "test-requests"
	testSinkTopic   = "test-projections"
	testAlertTopic  = "test-alerts"
)

// sinkMessage holds a message read back from an output topic.
type sinkMessage struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

func readMessage(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sinkMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from %s", consumer.Config().Topic)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return sinkMessage{Key: string(msg.Key), Value: msg.Value, Headers: headers}
}

func newConsumer(t *testing.T, broker, topic string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     fmt.Sprintf("test-consumer-%s-%d", topic, time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaAlertTopic:    testAlertTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}
}

func publish(ctx context.Context, t *testing.T, broker string, msgs ...kafkago.Message) {
	t.Helper()
	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, msgs...))
}

func request(t *testing.T, key string, year int, region string) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(domain.ProjectionRequest{Year: year, Region: region})
	require.NoError(t, err)
	return kafkago.Message{Key: []byte(key), Value: payload}
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (Extractor) and
// kafka.Writer (Loader) round-trip a request through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-reader")
	msg := request(t, "req-1", 2040, "North America")
	publish(ctx, t, broker, msg)

	// Retry because the consumer group may need time to rebalance before
	// partitions are assigned and messages become available.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawEvent
	for {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) > 0 {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("req-1"), raw.Key)
	assert.Equal(t, msg.Value, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")
	require.NoError(t, raw.Commit(ctx))

	transformer := pipeline.NewTransformer(nil, testAlertTopic, discardLogger(), observability.NewMetricsForTesting())
	events, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)
	require.Len(t, events, 1)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, events))

	got := readMessage(ctx, t, newConsumer(t, broker, testSinkTopic))
	assert.Equal(t, "north-america:2040", got.Key)
	assert.Equal(t, "North America", got.Headers["region"])
	assert.Equal(t, "2040", got.Headers["year"])
	_, err = time.Parse(time.RFC3339, got.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	var event domain.ProjectionEvent
	require.NoError(t, json.Unmarshal(got.Value, &event))
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, domain.ProjectionResult{
		Temperature:   "1.7",
		Precipitation: "4.3",
		SeaLevel:      "13.2",
		ExtremeEvents: "22.2",
	}, event.Projection)
	assert.Len(t, event.Series, 7)
}

// TestPipelineEndToEnd wires the full pipeline (Reader → Transformer → Writer)
// with real Kafka and checks both the projection and alert topics.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	createTopic(t, broker, testAlertTopic)

	cfg := testConfig(broker, "test-pipeline")
	publish(ctx, t, broker,
		request(t, "a", 2050, "Asia"),
		request(t, "b", 2030, "europe"),
		request(t, "c", 2050, "Oceania"),
	)

	metrics := observability.NewMetricsForTesting()
	alerts := alerting.NewService(domain.DefaultAlertRules(), time.Hour, nil, discardLogger(), metrics)

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	transformer := pipeline.NewTransformer(alerts, testAlertTopic, discardLogger(), metrics)
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	projections := newConsumer(t, broker, testSinkTopic)
	received := make(map[string]sinkMessage, 3)
	for len(received) < 3 {
		m := readMessage(ctx, t, projections)
		received[m.Key] = m
	}

	// Asia 2050 breaches both default rules; Oceania 2050 only the sea level rule.
	alertTopic := newConsumer(t, broker, testAlertTopic)
	var raised []domain.Alert
	for len(raised) < 3 {
		m := readMessage(ctx, t, alertTopic)
		var a domain.Alert
		require.NoError(t, json.Unmarshal(m.Value, &a))
		assert.Equal(t, string(a.Severity), m.Headers["severity"])
		assert.Equal(t, string(a.Region), m.Headers["region"])
		raised = append(raised, a)
	}

	pipelineCancel()
	require.NoError(t, <-errCh)
	assert.True(t, p.Ready())

	require.Contains(t, received, "asia:2050")
	require.Contains(t, received, "europe:2030")
	require.Contains(t, received, "oceania:2050")
	assert.Equal(t, "2", received["asia:2050"].Headers["alert_count"])
	assert.Equal(t, "0", received["europe:2030"].Headers["alert_count"])
	assert.Equal(t, "1", received["oceania:2050"].Headers["alert_count"])

	var oceania domain.ProjectionEvent
	require.NoError(t, json.Unmarshal(received["oceania:2050"].Value, &oceania))
	assert.Equal(t, "34.2", oceania.Projection.SeaLevel)

	byRegion := map[domain.Region]int{}
	for _, a := range raised {
		byRegion[a.Region]++
		assert.Equal(t, domain.StatusActive, a.Status)
	}
	assert.Equal(t, map[domain.Region]int{domain.RegionAsia: 2, domain.RegionOceania: 1}, byRegion)
	assert.Len(t, alerts.Active(), 3)
}

// TestPipelineTransformError verifies that an invalid request (poison pill) is
// skipped and the pipeline continues processing valid requests.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-poison")
	publish(ctx, t, broker,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		request(t, "out-of-range", 2099, "Global"),
		request(t, "good", 2050, "Global"),
	)

	metrics := observability.NewMetricsForTesting()
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	transformer := pipeline.NewTransformer(nil, testAlertTopic, discardLogger(), metrics)
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Only the valid request should appear on the sink topic.
	consumer := newConsumer(t, broker, testSinkTopic)
	got := readMessage(ctx, t, consumer)
	assert.Equal(t, "global:2050", got.Key)

	var event domain.ProjectionEvent
	require.NoError(t, json.Unmarshal(got.Value, &event))
	assert.Equal(t, "26.3", event.Projection.SeaLevel)

	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
