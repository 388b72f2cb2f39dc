package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/seaice-fubu-explorer/internal/domain"
	"github.com/couchcryptid/seaice-fubu-explorer/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// ErrNotLoaded is returned while the dataset has not been loaded yet.
var ErrNotLoaded = errors.New("dataset not loaded")

// DatasetLoader fetches and parses the input tables.
type DatasetLoader interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}

// YearChoice lists the selectable years and the initial selection.
type YearChoice struct {
	Years    []int     `json:"years" yaml:"years"`
	Default  int       `json:"default" yaml:"default"`
	LoadedAt time.Time `json:"loaded_at" yaml:"loaded_at"`
}

// Service owns the loaded dataset and answers figure requests against it.
// The dataset is immutable once loaded, so concurrent requests share it.
type Service struct {
	loader      DatasetLoader
	engine      *domain.Engine
	logger      *slog.Logger
	metrics     *observability.Metrics
	maxYear     int
	defaultYear int
	dataset     atomic.Pointer[domain.Dataset]
}

// NewService creates a Service. maxYear clamps the selectable years (0 disables
// the clamp); defaultYear is the initial selection when it is selectable.
func NewService(loader DatasetLoader, logger *slog.Logger, metrics *observability.Metrics, maxYear, defaultYear int) *Service {
	return &Service{
		loader:      loader,
		engine:      domain.NewEngine(logger),
		logger:      logger,
		metrics:     metrics,
		maxYear:     maxYear,
		defaultYear: defaultYear,
	}
}

// Load fetches the dataset once.
func (s *Service) Load(ctx context.Context) error {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	s.dataset.Store(ds)
	s.metrics.DatasetLoaded.Set(1)
	s.metrics.DatasetSamples.Set(float64(ds.Series().Len()))
	return nil
}

// Run retries Load with exponential backoff until it succeeds or ctx is done.
func (s *Service) Run(ctx context.Context) error {
	backoff := initialBackoff
	for {
		err := s.Load(ctx)
		if err == nil {
			s.logger.Info("service ready", "years", len(s.dataset.Load().SelectableYears(s.maxYear)))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Error("dataset load failed, retrying", "error", err, "backoff", backoff)
		if !retry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}

// CheckReadiness returns nil once the dataset is loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.dataset.Load() == nil {
		return ErrNotLoaded
	}
	return nil
}

// Dataset returns the loaded dataset.
func (s *Service) Dataset() (*domain.Dataset, error) {
	ds := s.dataset.Load()
	if ds == nil {
		return nil, ErrNotLoaded
	}
	return ds, nil
}

// Years returns the selectable years. The default falls back to the latest
// selectable year when the configured one has no data.
func (s *Service) Years() (YearChoice, error) {
	ds, err := s.Dataset()
	if err != nil {
		return YearChoice{}, err
	}
	years := ds.SelectableYears(s.maxYear)
	choice := YearChoice{Years: years, Default: s.defaultYear, LoadedAt: ds.LoadedAt()}
	if !slices.Contains(years, s.defaultYear) && len(years) > 0 {
		choice.Default = years[len(years)-1]
	}
	return choice, nil
}

// Figure slices the year and composes its overlay figure.
func (s *Service) Figure(_ context.Context, year int) (domain.Figure, error) {
	ds, err := s.Dataset()
	if err != nil {
		return domain.Figure{}, err
	}

	start := time.Now()
	fig, err := s.engine.Figure(ds, year)
	if err != nil {
		if errors.Is(err, domain.ErrNoDataForYear) {
			s.metrics.FigureErrors.WithLabelValues("no_data").Inc()
		}
		return domain.Figure{}, err
	}

	s.metrics.FigureDuration.Observe(time.Since(start).Seconds())
	s.metrics.FiguresComputed.Inc()
	s.countIssues(fig.Issues)
	return fig, nil
}

// Validate checks the label tables against the series.
func (s *Service) Validate() (domain.Report, error) {
	ds, err := s.Dataset()
	if err != nil {
		return domain.Report{}, err
	}
	return domain.ValidateDataset(ds, s.maxYear), nil
}

func (s *Service) countIssues(issues []error) {
	for _, issue := range issues {
		var oor *domain.EventDateOutOfRangeError
		var pe *domain.PairError
		switch {
		case errors.As(issue, &oor):
			s.metrics.EventDatesOutOfRange.WithLabelValues(oor.Source).Inc()
		case errors.As(issue, &pe) && errors.Is(pe, domain.ErrReversedPair):
			s.metrics.ReversedPairs.WithLabelValues(pe.Source).Inc()
		}
	}
}
