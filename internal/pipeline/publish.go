package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/seaice-fubu-explorer/internal/domain"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/observability"
)

const maxLoadAttempts = 5

// BatchLoader writes multiple figures to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, figures []domain.Figure) error
}

// Publisher sweeps every selectable year and exports its figure.
type Publisher struct {
	service   *Service
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int
}

// NewPublisher creates a Publisher writing batchSize figures per LoadBatch call.
func NewPublisher(svc *Service, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Publisher {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Publisher{
		service:   svc,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// Publish composes and writes the figure of every selectable year, returning
// the number written. Years without data are skipped.
func (p *Publisher) Publish(ctx context.Context) (int, error) {
	choice, err := p.service.Years()
	if err != nil {
		return 0, err
	}
	p.logger.Info("publish started", "years", len(choice.Years), "batch_size", p.batchSize)

	published := 0
	for lo := 0; lo < len(choice.Years); lo += p.batchSize {
		hi := min(lo+p.batchSize, len(choice.Years))
		n, err := p.publishBatch(ctx, choice.Years[lo:hi])
		published += n
		if err != nil {
			return published, err
		}
	}

	p.logger.Info("publish complete", "published", published)
	return published, nil
}

func (p *Publisher) publishBatch(ctx context.Context, years []int) (int, error) {
	start := time.Now()

	batch := make([]domain.Figure, 0, len(years))
	for _, y := range years {
		fig, err := p.service.Figure(ctx, y)
		if err != nil {
			if errors.Is(err, domain.ErrNoDataForYear) {
				p.logger.Warn("no data for year, skipping", "year", y)
				continue
			}
			return 0, fmt.Errorf("compose %d: %w", y, err)
		}
		batch = append(batch, fig)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	if err := p.loadWithRetry(ctx, batch); err != nil {
		return 0, err
	}

	p.metrics.FiguresPublished.Add(float64(len(batch)))
	p.metrics.PublishBatchDuration.Observe(time.Since(start).Seconds())
	return len(batch), nil
}

func (p *Publisher) loadWithRetry(ctx context.Context, batch []domain.Figure) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= maxLoadAttempts; attempt++ {
		if err = p.loader.LoadBatch(ctx, batch); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Error("load batch failed", "error", err, "batch_size", len(batch), "attempt", attempt)
		if attempt == maxLoadAttempts || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("load batch after %d attempts: %w", maxLoadAttempts, err)
}
