package snap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/seaice-fubu-explorer/internal/domain"
)

// mikeMissing is the sentinel source B writes for an undetected event.
const mikeMissing = "0000"

// Loader assembles a Dataset from the three tables.
type Loader struct {
	opener Opener
	mark   domain.Source
	mike   domain.Source
	logger *slog.Logger
}

// NewLoader creates a loader. mark and mike are the label sources in draw
// precedence order: mark is source A, mike source B.
func NewLoader(opener Opener, mark, mike domain.Source, logger *slog.Logger) *Loader {
	return &Loader{opener: opener, mark: mark, mike: mike, logger: logger}
}

// Load fetches and parses all tables.
func (l *Loader) Load(ctx context.Context) (*domain.Dataset, error) {
	series, err := l.series(ctx)
	if err != nil {
		return nil, err
	}
	mark, err := l.table(ctx, TableMark)
	if err != nil {
		return nil, err
	}
	mike, err := l.table(ctx, TableMike, mikeMissing)
	if err != nil {
		return nil, err
	}

	ds, err := domain.NewDataset(series,
		domain.LabelSet{Source: l.mark, Table: mark},
		domain.LabelSet{Source: l.mike, Table: mike},
	)
	if err != nil {
		return nil, fmt.Errorf("assemble dataset: %w", err)
	}

	l.logger.Info("dataset loaded",
		"samples", series.Len(),
		"years", len(series.Years()),
		"mark_rows", mark.Len(),
		"mike_rows", mike.Len(),
		"loaded_at", ds.LoadedAt(),
	)
	return ds, nil
}

func (l *Loader) series(ctx context.Context) (*domain.Series, error) {
	rc, err := l.opener.Open(ctx, TableSIC)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	s, err := ParseSeries(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", TableSIC, err)
	}
	return s, nil
}

func (l *Loader) table(ctx context.Context, t Table, missing ...string) (*domain.EventTable, error) {
	rc, err := l.opener.Open(ctx, t)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	et, err := ParseEventTable(rc, missing...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", t, err)
	}
	return et, nil
}
