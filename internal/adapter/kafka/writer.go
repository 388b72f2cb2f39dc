package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/seaice-fubu-explorer/internal/config"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/domain"
)

// Header keys set on every figure message.
const (
	HeaderYear        = "year"
	HeaderRunID       = "run_id"
	HeaderGeneratedAt = "generated_at"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces figure messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer messageWriter
	runID  string
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured figure topic. Every
// message it writes carries the same run ID.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaFigureTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return newWriter(w, clockwork.NewRealClock(), logger)
}

func newWriter(w messageWriter, clock clockwork.Clock, logger *slog.Logger) *Writer {
	return &Writer{writer: w, runID: uuid.NewString(), clock: clock, logger: logger}
}

// RunID identifies this writer's publish run.
func (w *Writer) RunID() string { return w.runID }

// LoadBatch serializes and publishes multiple figures in a single
// WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, figures []domain.Figure) error {
	if len(figures) == 0 {
		return nil
	}
	generatedAt := w.clock.Now().UTC()
	msgs := make([]kafkago.Message, len(figures))
	for i := range figures {
		msg, err := serializeToMessage(figures[i], w.runID, generatedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d figures: %w", len(msgs), err)
	}
	w.logger.Debug("figures written", "count", len(msgs), "run_id", w.runID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a figure's view into a Kafka message keyed by year.
func serializeToMessage(fig domain.Figure, runID string, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(fig.View())
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize figure %d: %w", fig.Year, err)
	}
	year := []byte(strconv.Itoa(fig.Year))
	return kafkago.Message{
		Key:   year,
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderYear, Value: year},
			{Key: HeaderRunID, Value: []byte(runID)},
			{Key: HeaderGeneratedAt, Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
