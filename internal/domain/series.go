package domain

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateDate is returned when a series has two samples on one day.
var ErrDuplicateDate = errors.New("duplicate sample date")

// Sample is one daily sea-ice concentration value.
type Sample struct {
	Date  Date    `json:"date" yaml:"date"`
	Value float64 `json:"value" yaml:"value"`
}

// Series is an immutable, date-ordered concentration series with an exact
// date index. Gaps are allowed.
type Series struct {
	samples []Sample
	index   map[Date]int
}

// NewSeries copies and sorts samples. Invalid calendar days and duplicate
// dates are rejected.
func NewSeries(samples []Sample) (*Series, error) {
	sorted := slices.Clone(samples)
	slices.SortFunc(sorted, func(a, b Sample) int { return a.Date.Compare(b.Date) })

	index := make(map[Date]int, len(sorted))
	for i, s := range sorted {
		if !s.Date.Valid() {
			return nil, fmt.Errorf("new series: sample %s is not a calendar day", s.Date)
		}
		if _, dup := index[s.Date]; dup {
			return nil, fmt.Errorf("new series: %w: %s", ErrDuplicateDate, s.Date)
		}
		index[s.Date] = i
	}

	return &Series{samples: sorted, index: index}, nil
}

// Len is the number of samples.
func (s *Series) Len() int { return len(s.samples) }

// Samples returns a copy of the samples in date order.
func (s *Series) Samples() []Sample { return slices.Clone(s.samples) }

// At looks up the value recorded on exactly d.
func (s *Series) At(d Date) (float64, bool) {
	i, ok := s.index[d]
	if !ok {
		return 0, false
	}
	return s.samples[i].Value, true
}

// Years returns the distinct calendar years present, ascending.
func (s *Series) Years() []int {
	var years []int
	for _, smp := range s.samples {
		if n := len(years); n == 0 || years[n-1] != smp.Date.Year {
			years = append(years, smp.Date.Year)
		}
	}
	return years
}

// Year returns the samples falling in calendar year y, in date order,
// with each value multiplied by scale.
func (s *Series) Year(y int, scale float64) []Sample {
	lo, _ := slices.BinarySearchFunc(s.samples, y, func(smp Sample, year int) int {
		return cmpInt(smp.Date.Year, year)
	})
	hi, _ := slices.BinarySearchFunc(s.samples, y+1, func(smp Sample, year int) int {
		return cmpInt(smp.Date.Year, year)
	})

	out := make([]Sample, 0, hi-lo)
	for _, smp := range s.samples[lo:hi] {
		out = append(out, Sample{Date: smp.Date, Value: smp.Value * scale})
	}
	return out
}
