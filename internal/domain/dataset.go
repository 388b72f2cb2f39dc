package domain

import (
	"errors"
	"time"
)

// LabelSet pairs a label source with its event table.
type LabelSet struct {
	Source Source
	Table  *EventTable
}

// Dataset is the immutable context built once at startup: the concentration
// series and the two label sets, in declaration order (source A first).
// It is safe for concurrent readers.
type Dataset struct {
	series   *Series
	labels   [2]LabelSet
	loadedAt time.Time
}

// NewDataset assembles a Dataset. a is source A (foreground, higher
// confidence) and b is source B.
func NewDataset(series *Series, a, b LabelSet) (*Dataset, error) {
	if series == nil {
		return nil, errors.New("new dataset: nil series")
	}
	if a.Source.ID == "" || b.Source.ID == "" {
		return nil, errors.New("new dataset: label source without ID")
	}
	if a.Source.ID == b.Source.ID {
		return nil, errors.New("new dataset: label sources share ID " + a.Source.ID)
	}
	return &Dataset{
		series:   series,
		labels:   [2]LabelSet{a, b},
		loadedAt: clock.Now(),
	}, nil
}

func (d *Dataset) Series() *Series { return d.series }

// Labels returns the label sets in declaration order (A, B).
func (d *Dataset) Labels() []LabelSet {
	return []LabelSet{d.labels[0], d.labels[1]}
}

func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// SelectableYears returns the series years up to and including maxYear.
// A maxYear of zero disables the clamp.
func (d *Dataset) SelectableYears(maxYear int) []int {
	years := d.series.Years()
	if maxYear == 0 {
		return years
	}
	out := years[:0:0]
	for _, y := range years {
		if y <= maxYear {
			out = append(out, y)
		}
	}
	return out
}
