package domain

import "fmt"

// percentScale converts fractional concentration to percent.
const percentScale = 100

// SourceRow is one source's event row for the sliced year.
type SourceRow struct {
	Source Source
	Row    EventRow
}

// YearSlice is the year-scoped input of the overlay engine.
type YearSlice struct {
	Year    int
	Samples []Sample
	Rows    []SourceRow

	index map[Date]int
}

// SliceYear extracts year y: its percentage-scaled samples and one row per
// label source. A source without a row for y contributes an all-missing row.
func SliceYear(ds *Dataset, y int) (YearSlice, error) {
	samples := ds.Series().Year(y, percentScale)
	if len(samples) == 0 {
		return YearSlice{}, fmt.Errorf("slice year %d: %w", y, ErrNoDataForYear)
	}

	labels := ds.Labels()
	rows := make([]SourceRow, 0, len(labels))
	for _, ls := range labels {
		rows = append(rows, SourceRow{Source: ls.Source, Row: ls.Table.Row(y)})
	}

	return NewYearSlice(y, samples, rows), nil
}

// NewYearSlice builds a slice from already-scaled samples in date order.
func NewYearSlice(y int, samples []Sample, rows []SourceRow) YearSlice {
	index := make(map[Date]int, len(samples))
	for i, s := range samples {
		index[s.Date] = i
	}
	return YearSlice{Year: y, Samples: samples, Rows: rows, index: index}
}

// At returns the scaled value on exactly d.
func (ys YearSlice) At(d Date) (float64, bool) {
	i, ok := ys.index[d]
	if !ok {
		return 0, false
	}
	return ys.Samples[i].Value, true
}

// Between returns the samples with start <= date <= end.
func (ys YearSlice) Between(start, end Date) []Sample {
	var out []Sample
	for _, s := range ys.Samples {
		if s.Date.Before(start) {
			continue
		}
		if s.Date.After(end) {
			break
		}
		out = append(out, s)
	}
	return out
}
