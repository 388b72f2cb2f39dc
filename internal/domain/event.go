package domain

import "slices"

// Metric is one of the four labeled FUBU transition dates.
type Metric string

const (
	BreakupStart  Metric = "breakup_start"
	BreakupEnd    Metric = "breakup_end"
	FreezeupStart Metric = "freezeup_start"
	FreezeupEnd   Metric = "freezeup_end"
)

// metrics is the fixed evaluation order. Point overlays are emitted in this
// order and later overlays draw on top.
var metrics = [...]Metric{BreakupStart, BreakupEnd, FreezeupStart, FreezeupEnd}

// Metrics returns the four metrics in evaluation order.
func Metrics() []Metric {
	out := make([]Metric, len(metrics))
	copy(out, metrics[:])
	return out
}

// ParseMetric maps a column name to a Metric.
func ParseMetric(s string) (Metric, bool) {
	for _, m := range metrics {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

func (m Metric) index() int {
	for i, candidate := range metrics {
		if candidate == m {
			return i
		}
	}
	return -1
}

// Pair groups a start and end metric into a duration family.
type Pair struct {
	Family string
	Start  Metric
	End    Metric
}

var pairs = [...]Pair{
	{Family: "breakup", Start: BreakupStart, End: BreakupEnd},
	{Family: "freezeup", Start: FreezeupStart, End: FreezeupEnd},
}

// Pairs returns the two fixed pairs in declaration order.
func Pairs() []Pair {
	out := make([]Pair, len(pairs))
	copy(out, pairs[:])
	return out
}

// EventDate is either a present calendar date or missing. The zero value is
// missing.
type EventDate struct {
	date    Date
	present bool
}

// Present wraps a recorded date.
func Present(d Date) EventDate { return EventDate{date: d, present: true} }

// Missing is the absent value.
func Missing() EventDate { return EventDate{} }

// Get returns the date and whether it is present.
func (e EventDate) Get() (Date, bool) { return e.date, e.present }

func (e EventDate) IsMissing() bool { return !e.present }

func (e EventDate) String() string {
	if !e.present {
		return "missing"
	}
	return e.date.String()
}

// EventRow holds one year's labeled dates from a single source.
type EventRow struct {
	Year  int
	dates [len(metrics)]EventDate
}

// NewEventRow returns an all-missing row for year.
func NewEventRow(year int) EventRow {
	return EventRow{Year: year}
}

// With returns a copy of r with metric m set to v. Unknown metrics are ignored.
func (r EventRow) With(m Metric, v EventDate) EventRow {
	if i := m.index(); i >= 0 {
		r.dates[i] = v
	}
	return r
}

// Date returns the value recorded for metric m.
func (r EventRow) Date(m Metric) EventDate {
	i := m.index()
	if i < 0 {
		return Missing()
	}
	return r.dates[i]
}

// Empty reports whether all four metrics are missing.
func (r EventRow) Empty() bool {
	for _, d := range r.dates {
		if d.present {
			return false
		}
	}
	return true
}

// EventTable is one label source's collection of rows keyed by year.
type EventTable struct {
	rows map[int]EventRow
}

// NewEventTable indexes rows by year. A later row for the same year replaces
// an earlier one.
func NewEventTable(rows []EventRow) *EventTable {
	t := &EventTable{rows: make(map[int]EventRow, len(rows))}
	for _, r := range rows {
		t.rows[r.Year] = r
	}
	return t
}

// Row returns the row for year, or an all-missing row if the table has none.
func (t *EventTable) Row(year int) EventRow {
	if t == nil {
		return NewEventRow(year)
	}
	if r, ok := t.rows[year]; ok {
		return r
	}
	return NewEventRow(year)
}

// Len is the number of years with a row.
func (t *EventTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Years returns the table's years in ascending order.
func (t *EventTable) Years() []int {
	if t == nil {
		return nil
	}
	years := make([]int, 0, len(t.rows))
	for y := range t.rows {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}
