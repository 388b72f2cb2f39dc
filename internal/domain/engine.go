package domain

import (
	"errors"
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Engine builds overlays from a YearSlice. It holds no state besides its
// logger; output depends only on the inputs.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an Engine that logs skipped overlays to logger.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Figure slices year y out of ds and composes its overlays. The only
// returned error is ErrNoDataForYear; per-overlay problems are logged,
// skipped, and recorded in Figure.Issues.
func (e *Engine) Figure(ds *Dataset, y int) (Figure, error) {
	ys, err := SliceYear(ds, y)
	if err != nil {
		return Figure{}, err
	}
	return e.Compose(ys), nil
}

// Compose builds every segment and point overlay for ys.
func (e *Engine) Compose(ys YearSlice) Figure {
	segments, segIssues := BuildSegments(ys)
	points, pointIssues := BuildPoints(ys)

	issues := append(segIssues, pointIssues...)
	for _, err := range issues {
		e.logIssue(err)
	}

	return Figure{
		Year:     ys.Year,
		Layout:   newLayout(ys.Year),
		Base:     ys.Samples,
		Segments: segments,
		Points:   points,
		Issues:   issues,
	}
}

func (e *Engine) logIssue(err error) {
	var oor *EventDateOutOfRangeError
	var pe *PairError
	switch {
	case errors.As(err, &oor):
		e.logger.Warn("event date not in concentration series, skipping point",
			"year", oor.Year,
			"source", oor.Source,
			"metric", oor.Metric,
			"date", oor.Date.String(),
		)
	case errors.As(err, &pe):
		e.logger.Warn("skipping duration segment",
			"year", pe.Year,
			"source", pe.Source,
			"family", pe.Family,
			"start", pe.Start.String(),
			"end", pe.End.String(),
			"reason", pe.Err,
		)
	default:
		e.logger.Warn("overlay skipped", "error", err)
	}
}

// BuildPoints emits one PointOverlay per present metric per source, in
// metric order, source A before source B. A present date that is not in the
// year's series yields an EventDateOutOfRangeError and no point.
func BuildPoints(ys YearSlice) ([]PointOverlay, []error) {
	var points []PointOverlay
	var issues []error

	for _, sr := range ys.Rows {
		for _, m := range metrics {
			d, ok := sr.Row.Date(m).Get()
			if !ok {
				continue
			}

			v, found := ys.At(d)
			if !found {
				issues = append(issues, &EventDateOutOfRangeError{
					Year:   ys.Year,
					Source: sr.Source.ID,
					Metric: m,
					Date:   d,
				})
				continue
			}

			points = append(points, PointOverlay{
				Date:   d,
				Value:  v,
				Metric: m,
				Source: sr.Source.ID,
				Label:  sr.Source.Label,
				Style:  sr.Source.PointStyle(m),
			})
		}
	}
	return points, issues
}

// BuildSegments emits one SegmentOverlay per complete pair for each source
// that contributes segments. Pairs with a missing side are skipped silently;
// reversed or empty pairs are skipped with a PairError.
func BuildSegments(ys YearSlice) ([]SegmentOverlay, []error) {
	var segments []SegmentOverlay
	var issues []error

	for _, pair := range pairs {
		for _, sr := range ys.Rows {
			if !sr.Source.ContributesSegments {
				continue
			}

			start, okStart := sr.Row.Date(pair.Start).Get()
			end, okEnd := sr.Row.Date(pair.End).Get()
			if !okStart || !okEnd {
				continue
			}

			if start.After(end) {
				issues = append(issues, &PairError{
					Year: ys.Year, Source: sr.Source.ID, Family: pair.Family,
					Start: start, End: end, Err: ErrReversedPair,
				})
				continue
			}

			samples := ys.Between(start, end)
			if len(samples) == 0 {
				issues = append(issues, &PairError{
					Year: ys.Year, Source: sr.Source.ID, Family: pair.Family,
					Start: start, End: end, Err: ErrEmptySegment,
				})
				continue
			}

			segments = append(segments, SegmentOverlay{
				Family:  pair.Family,
				Source:  sr.Source.ID,
				Start:   start,
				End:     end,
				Samples: samples,
				Summary: summarize(start, end, samples),
				Style:   sr.Source.SegmentStyle(pair.Family),
			})
		}
	}
	return segments, issues
}

func summarize(start, end Date, samples []Sample) SegmentSummary {
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}
	return SegmentSummary{
		Samples:  len(samples),
		SpanDays: int(end.Time().Sub(start.Time()).Hours()/24) + 1,
		Mean:     stat.Mean(values, nil),
		Min:      floats.Min(values),
		Max:      floats.Max(values),
	}
}
