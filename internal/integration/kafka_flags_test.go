//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/aerosurvey/probe-qc/internal/adapter/kafka"
	"github.com/aerosurvey/probe-qc/internal/adapter/solarfile"
	"github.com/aerosurvey/probe-qc/internal/config"
	"github.com/aerosurvey/probe-qc/internal/domain"
	"github.com/aerosurvey/probe-qc/internal/observability"
	"github.com/aerosurvey/probe-qc/internal/pipeline"
)

const testFlagTopic = "test-probe-qc-flags"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("probe-qc-test"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// receivedFlag holds a deserialized message read from the flag topic.
type receivedFlag struct {
	Event   domain.FlagEvent
	Key     string
	Headers map[string]string
}

func readFlag(ctx context.Context, t *testing.T, consumer *kafkago.Reader) receivedFlag {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from flag topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.FlagEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal flag message")

	return receivedFlag{Event: event, Key: string(msg.Key), Headers: headers}
}

func flagConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testFlagTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestWriterPublishFlags verifies that the writer round-trips flag events
// through a real broker with the key and headers intact.
func TestWriterPublishFlags(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testFlagTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaFlagTopic: testFlagTopic,
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	raisedAt := time.Date(2026, time.March, 14, 22, 15, 0, 0, time.UTC)
	events := domain.FlagEvents("flight8_extract.out", "weather", []domain.Flag{
		{Kind: domain.FlagHighWind, Magnitude: 31.2, Unit: "m/s"},
		{Kind: domain.FlagZeroWind, Magnitude: 2.5, Unit: "minutes"},
	}, raisedAt)

	require.NoError(t, writer.PublishFlags(ctx, events))

	consumer := flagConsumer(t, broker)

	first := readFlag(ctx, t, consumer)
	assert.Equal(t, "flight8_extract.out", first.Key)
	assert.Equal(t, string(domain.FlagHighWind), first.Headers["flag_kind"])
	parsed, err := time.Parse(time.RFC3339, first.Headers["raised_at"])
	assert.NoError(t, err, "raised_at should be valid RFC3339")
	assert.True(t, parsed.Equal(raisedAt))
	assert.Equal(t, "weather", first.Event.Probe)
	assert.Equal(t, 31.2, first.Event.Magnitude)

	second := readFlag(ctx, t, consumer)
	assert.Equal(t, string(domain.FlagZeroWind), second.Headers["flag_kind"])
	assert.Equal(t, "minutes", second.Event.Unit)
}

// TestSolarRunPublishesFlags runs the solar QC pipeline against a real broker
// and verifies that anomaly flags raised by the run arrive on the flag topic.
func TestSolarRunPublishesFlags(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testFlagTopic)

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.KafkaBrokers = []string{broker}
	cfg.KafkaFlagTopic = testFlagTopic
	cfg.KafkaEnabled = true

	// A minute of dark samples trips the low-irradiance rule.
	path := filepath.Join(t.TempDir(), "solar_dark.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	fmt.Fprintln(f, "Date,Time,micromoles")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(f, "2026-03-14,08:00:%02d.000000,0.0\n", i)
	}
	require.NoError(t, f.Close())

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	runner := pipeline.NewRunner(nil, solarfile.NewReader(discardLogger()), nil, nil,
		writer, cfg, discardLogger(), observability.NewMetricsForTesting())

	report, _, err := runner.RunSolar(ctx, path, nil)
	require.NoError(t, err)
	require.NotEmpty(t, report.Flags)

	consumer := flagConsumer(t, broker)

	// Dark samples trip both the zero and the low irradiance rule, in order.
	got := readFlag(ctx, t, consumer)
	assert.Equal(t, "solar_dark.csv", got.Key)
	assert.Equal(t, "solar", got.Event.Probe)
	assert.Equal(t, domain.FlagZeroIrradiance, got.Event.Kind)

	got = readFlag(ctx, t, consumer)
	assert.Equal(t, domain.FlagLowIrradiance, got.Event.Kind)
}
