package domain_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/seaice-fubu-explorer/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fixtures ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(y int, m time.Month, d int) domain.Date { return domain.NewDate(y, m, d) }

// fullYears returns one sample per day for each year. The fractional value is
// day-of-year/1000 so every scaled value is distinct and easy to predict.
func fullYears(years ...int) []domain.Sample {
	var out []domain.Sample
	for _, y := range years {
		for t := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC); t.Year() == y; t = t.AddDate(0, 0, 1) {
			out = append(out, domain.Sample{Date: domain.DateOf(t), Value: float64(t.YearDay()) / 1000})
		}
	}
	return out
}

func percentOn(d domain.Date) float64 {
	return float64(d.Time().YearDay()) / 10
}

type rowSpec map[domain.Metric]domain.Date

func row(year int, spec rowSpec) domain.EventRow {
	r := domain.NewEventRow(year)
	for m, d := range spec {
		r = r.With(m, domain.Present(d))
	}
	return r
}

func newDataset(t *testing.T, samples []domain.Sample, mark, mike []domain.EventRow) *domain.Dataset {
	t.Helper()
	series, err := domain.NewSeries(samples)
	require.NoError(t, err)
	ds, err := domain.NewDataset(series,
		domain.LabelSet{Source: domain.MarkSource(), Table: domain.NewEventTable(mark)},
		domain.LabelSet{Source: domain.MikeSource(), Table: domain.NewEventTable(mike)},
	)
	require.NoError(t, err)
	return ds
}

func pointsFor(fig domain.Figure, source string) []domain.PointOverlay {
	var out []domain.PointOverlay
	for _, p := range fig.Points {
		if p.Source == source {
			out = append(out, p)
		}
	}
	return out
}

// --- scenarios ---

func TestFigure_ScenarioA_BreakupOnly(t *testing.T) {
	ds := newDataset(t, fullYears(2006, 2007, 2008), []domain.EventRow{
		row(2007, rowSpec{
			domain.BreakupStart: day(2007, time.June, 10),
			domain.BreakupEnd:   day(2007, time.June, 25),
		}),
	}, nil)

	fig, err := domain.NewEngine(discardLogger()).Figure(ds, 2007)
	require.NoError(t, err)

	require.Len(t, fig.Points, 2)
	assert.Equal(t, domain.BreakupStart, fig.Points[0].Metric)
	assert.Equal(t, domain.BreakupEnd, fig.Points[1].Metric)
	assert.InDelta(t, percentOn(day(2007, time.June, 10)), fig.Points[0].Value, 1e-9)
	assert.InDelta(t, percentOn(day(2007, time.June, 25)), fig.Points[1].Value, 1e-9)

	require.Len(t, fig.Segments, 1)
	seg := fig.Segments[0]
	assert.Equal(t, "breakup", seg.Family)
	assert.Equal(t, "mark", seg.Source)
	require.Len(t, seg.Samples, 16)
	assert.Equal(t, day(2007, time.June, 10), seg.Samples[0].Date)
	assert.Equal(t, day(2007, time.June, 25), seg.Samples[15].Date)
	assert.Equal(t, 16, seg.Summary.Samples)
	assert.Equal(t, 16, seg.Summary.SpanDays)
	assert.InDelta(t, percentOn(day(2007, time.June, 10)), seg.Summary.Min, 1e-9)
	assert.InDelta(t, percentOn(day(2007, time.June, 25)), seg.Summary.Max, 1e-9)

	for _, p := range fig.Points {
		assert.NotContains(t, string(p.Metric), "freezeup")
	}
	assert.Empty(t, fig.Issues)
}

func TestFigure_ScenarioB_AllMissing(t *testing.T) {
	ds := newDataset(t, fullYears(2005),
		[]domain.EventRow{domain.NewEventRow(2005)},
		[]domain.EventRow{domain.NewEventRow(2005)},
	)

	fig, err := domain.NewEngine(discardLogger()).Figure(ds, 2005)
	require.NoError(t, err)

	assert.Empty(t, fig.Points)
	assert.Empty(t, fig.Segments)
	assert.Empty(t, fig.Issues)

	traces := fig.Traces()
	require.Len(t, traces, 1)
	assert.Equal(t, domain.KindBase, traces[0].Kind)
	assert.Len(t, traces[0].X, 365)
}

func TestFigure_ScenarioC_ImpossibleDateIsReportedAndSkipped(t *testing.T) {
	ds := newDataset(t, fullYears(2008),
		[]domain.EventRow{row(2008, rowSpec{
			domain.BreakupStart:  day(2008, time.June, 5),
			domain.BreakupEnd:    day(2008, time.June, 20),
			domain.FreezeupStart: day(2008, time.October, 15),
			domain.FreezeupEnd:   day(2008, time.November, 2),
		})},
		[]domain.EventRow{row(2008, rowSpec{
			domain.BreakupStart: day(2008, time.February, 30),
			domain.BreakupEnd:   day(2008, time.June, 22),
		})},
	)

	var logs bytes.Buffer
	engine := domain.NewEngine(slog.New(slog.NewTextHandler(&logs, nil)))

	fig, err := engine.Figure(ds, 2008)
	require.NoError(t, err)

	require.Len(t, fig.Issues, 1)
	var oor *domain.EventDateOutOfRangeError
	require.ErrorAs(t, fig.Issues[0], &oor)
	assert.ErrorIs(t, fig.Issues[0], domain.ErrEventDateOutOfRange)
	assert.Equal(t, 2008, oor.Year)
	assert.Equal(t, "mike", oor.Source)
	assert.Equal(t, domain.BreakupStart, oor.Metric)
	assert.Equal(t, "2008-02-30", oor.Date.String())

	assert.Contains(t, logs.String(), "event date not in concentration series")
	assert.Contains(t, logs.String(), "date=2008-02-30")

	assert.Len(t, pointsFor(fig, "mark"), 4)
	mike := pointsFor(fig, "mike")
	require.Len(t, mike, 1)
	assert.Equal(t, domain.BreakupEnd, mike[0].Metric)
	assert.Len(t, fig.Segments, 2)
}

// --- properties ---

func TestFigure_BaseTraceCountsEveryDailySample(t *testing.T) {
	samples := fullYears(2004)
	// drop two days to create gaps
	samples = append(samples[:40], samples[42:]...)
	ds := newDataset(t, samples, nil, nil)

	fig, err := domain.NewEngine(discardLogger()).Figure(ds, 2004)
	require.NoError(t, err)

	assert.Len(t, fig.Base, 364)
	assert.Len(t, fig.Traces()[0].Y, 364)
	assert.InDelta(t, 0.1, fig.Base[0].Value, 1e-9, "values are percentage-scaled")
}

func TestFigure_NoDataForYear(t *testing.T) {
	ds := newDataset(t, fullYears(2007), nil, nil)

	_, err := domain.NewEngine(discardLogger()).Figure(ds, 1999)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoDataForYear)
}

func TestBuildPoints_OrderAndMissing(t *testing.T) {
	ds := newDataset(t, fullYears(2010),
		[]domain.EventRow{row(2010, rowSpec{
			domain.FreezeupEnd:  day(2010, time.December, 1),
			domain.BreakupStart: day(2010, time.May, 30),
		})},
		[]domain.EventRow{row(2010, rowSpec{
			domain.FreezeupStart: day(2010, time.October, 28),
			domain.BreakupEnd:    day(2010, time.July, 4),
		})},
	)
	ys, err := domain.SliceYear(ds, 2010)
	require.NoError(t, err)

	points, issues := domain.BuildPoints(ys)
	require.Empty(t, issues)

	type key struct {
		Source string
		Metric domain.Metric
	}
	got := make([]key, 0, len(points))
	for _, p := range points {
		got = append(got, key{p.Source, p.Metric})
		v, ok := ys.At(p.Date)
		require.True(t, ok)
		assert.Equal(t, v, p.Value)
	}
	want := []key{
		{"mark", domain.BreakupStart},
		{"mark", domain.FreezeupEnd},
		{"mike", domain.BreakupEnd},
		{"mike", domain.FreezeupStart},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("point order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPoints_StylesAreDistinctPerSourceAndMetric(t *testing.T) {
	seen := map[string]bool{}
	for _, src := range []domain.Source{domain.MarkSource(), domain.MikeSource()} {
		for _, m := range domain.Metrics() {
			s := src.PointStyle(m)
			key := fmt.Sprintf("%s|%g|%s", s.Color, s.MarkerSize, s.Symbol)
			assert.False(t, seen[key], "duplicate style for %s %s", src.ID, m)
			seen[key] = true
		}
	}
	assert.Len(t, seen, 8)

	assert.NotEqual(t, domain.MarkSource().MarkerSize, domain.MikeSource().MarkerSize)
	assert.Equal(t, "triangle-up", domain.MikeSource().PointStyle(domain.BreakupStart).Symbol)
}

func TestBuildSegments(t *testing.T) {
	tests := []struct {
		name       string
		mark       rowSpec
		wantFamily []string
		wantIssue  error
	}{
		{
			name: "both pairs complete",
			mark: rowSpec{
				domain.BreakupStart:  day(2009, time.June, 1),
				domain.BreakupEnd:    day(2009, time.June, 3),
				domain.FreezeupStart: day(2009, time.November, 1),
				domain.FreezeupEnd:   day(2009, time.November, 1),
			},
			wantFamily: []string{"breakup", "freezeup"},
		},
		{
			name: "partial pair produces nothing",
			mark: rowSpec{
				domain.BreakupStart: day(2009, time.June, 1),
				domain.FreezeupEnd:  day(2009, time.November, 1),
			},
		},
		{
			name: "reversed pair is skipped with a warning",
			mark: rowSpec{
				domain.BreakupStart: day(2009, time.July, 1),
				domain.BreakupEnd:   day(2009, time.June, 1),
			},
			wantIssue: domain.ErrReversedPair,
		},
		{
			name: "pair outside the year covers no samples",
			mark: rowSpec{
				domain.FreezeupStart: day(2010, time.January, 2),
				domain.FreezeupEnd:   day(2010, time.January, 9),
			},
			wantIssue: domain.ErrEmptySegment,
		},
		{
			name: "pair crossing the year end is cut at December 31",
			mark: rowSpec{
				domain.FreezeupStart: day(2009, time.December, 20),
				domain.FreezeupEnd:   day(2010, time.January, 5),
			},
			wantFamily: []string{"freezeup"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := newDataset(t, fullYears(2009), []domain.EventRow{row(2009, tt.mark)}, nil)
			ys, err := domain.SliceYear(ds, 2009)
			require.NoError(t, err)

			segments, issues := domain.BuildSegments(ys)

			families := make([]string, 0, len(segments))
			for _, s := range segments {
				families = append(families, s.Family)
				assert.False(t, s.Samples[0].Date.Before(s.Start))
				assert.False(t, s.Samples[len(s.Samples)-1].Date.After(s.End))
			}
			if len(tt.wantFamily) == 0 {
				assert.Empty(t, families)
			} else {
				assert.Equal(t, tt.wantFamily, families)
			}

			if tt.wantIssue == nil {
				assert.Empty(t, issues)
				return
			}
			require.Len(t, issues, 1)
			assert.True(t, errors.Is(issues[0], tt.wantIssue))
		})
	}
}

func TestBuildSegments_RespectsContributesSegmentsFlag(t *testing.T) {
	breakup := rowSpec{
		domain.BreakupStart: day(2007, time.June, 10),
		domain.BreakupEnd:   day(2007, time.June, 12),
	}
	samples := fullYears(2007)

	t.Run("source B off by default", func(t *testing.T) {
		ds := newDataset(t, samples, nil, []domain.EventRow{row(2007, breakup)})
		ys, err := domain.SliceYear(ds, 2007)
		require.NoError(t, err)

		segments, _ := domain.BuildSegments(ys)
		assert.Empty(t, segments)
	})

	t.Run("source B enabled", func(t *testing.T) {
		series, err := domain.NewSeries(samples)
		require.NoError(t, err)
		mike := domain.MikeSource()
		mike.ContributesSegments = true
		ds, err := domain.NewDataset(series,
			domain.LabelSet{Source: domain.MarkSource(), Table: domain.NewEventTable([]domain.EventRow{row(2007, breakup)})},
			domain.LabelSet{Source: mike, Table: domain.NewEventTable([]domain.EventRow{row(2007, breakup)})},
		)
		require.NoError(t, err)
		ys, err := domain.SliceYear(ds, 2007)
		require.NoError(t, err)

		segments, _ := domain.BuildSegments(ys)
		require.Len(t, segments, 2)
		assert.Equal(t, "mark", segments[0].Source)
		assert.Equal(t, "mike", segments[1].Source)
		assert.Equal(t, "rgb(249, 184, 99)", segments[1].Style.Color)
	})
}

func TestFigure_Idempotent(t *testing.T) {
	ds := newDataset(t, fullYears(2007),
		[]domain.EventRow{row(2007, rowSpec{
			domain.BreakupStart:  day(2007, time.June, 10),
			domain.BreakupEnd:    day(2007, time.June, 25),
			domain.FreezeupStart: day(2007, time.October, 30),
		})},
		[]domain.EventRow{row(2007, rowSpec{domain.FreezeupEnd: day(2007, time.December, 31)})},
	)
	engine := domain.NewEngine(discardLogger())

	first, err := engine.Figure(ds, 2007)
	require.NoError(t, err)
	second, err := engine.Figure(ds, 2007)
	require.NoError(t, err)

	if diff := cmp.Diff(first.View(), second.View(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("figures differ (-first +second):\n%s", diff)
	}
}

func TestFigure_DoesNotMutateInputs(t *testing.T) {
	samples := fullYears(2007)
	ds := newDataset(t, samples, []domain.EventRow{row(2007, rowSpec{
		domain.BreakupStart: day(2007, time.June, 10),
		domain.BreakupEnd:   day(2007, time.June, 25),
	})}, nil)
	before := ds.Series().Samples()

	_, err := domain.NewEngine(discardLogger()).Figure(ds, 2007)
	require.NoError(t, err)

	assert.Equal(t, before, ds.Series().Samples(), "series values must stay fractional")
}

func TestFigure_DrawOrderGolden(t *testing.T) {
	ds := newDataset(t, fullYears(2007),
		[]domain.EventRow{row(2007, rowSpec{
			domain.BreakupStart: day(2007, time.June, 10),
			domain.BreakupEnd:   day(2007, time.June, 25),
		})},
		[]domain.EventRow{row(2007, rowSpec{
			domain.BreakupStart:  day(2007, time.June, 12),
			domain.FreezeupStart: day(2007, time.October, 20),
		})},
	)

	fig, err := domain.NewEngine(discardLogger()).Figure(ds, 2007)
	require.NoError(t, err)

	var b bytes.Buffer
	for _, tr := range fig.Traces() {
		fmt.Fprintf(&b, "%s\t%s\t%s\tn=%d\t%s..%s\n",
			tr.Kind, tr.Name, tr.Source, len(tr.X), tr.X[0], tr.X[len(tr.X)-1])
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "draw_order_2007", b.Bytes())
}

func TestFigure_FreezeupCrossingYearEnd(t *testing.T) {
	ds := newDataset(t, fullYears(2007, 2008), []domain.EventRow{
		row(2007, rowSpec{
			domain.FreezeupStart: day(2007, time.December, 20),
			domain.FreezeupEnd:   day(2008, time.January, 5),
		}),
	}, nil)
	ys, err := domain.SliceYear(ds, 2007)
	require.NoError(t, err)

	t.Run("points", func(t *testing.T) {
		points, issues := domain.BuildPoints(ys)

		require.Len(t, issues, 1)
		var oor *domain.EventDateOutOfRangeError
		require.ErrorAs(t, issues[0], &oor)
		assert.Equal(t, "mark", oor.Source)
		assert.Equal(t, domain.FreezeupEnd, oor.Metric)
		assert.Equal(t, day(2008, time.January, 5), oor.Date)

		require.Len(t, points, 1)
		assert.Equal(t, domain.FreezeupStart, points[0].Metric)
		assert.Equal(t, day(2007, time.December, 20), points[0].Date)
	})

	t.Run("segments", func(t *testing.T) {
		segments, issues := domain.BuildSegments(ys)
		require.Empty(t, issues)
		require.Len(t, segments, 1)

		seg := segments[0]
		assert.Equal(t, "freezeup", seg.Family)
		assert.Equal(t, day(2007, time.December, 20), seg.Start)
		assert.Equal(t, day(2008, time.January, 5), seg.End)
		require.Len(t, seg.Samples, 12)
		assert.Equal(t, day(2007, time.December, 20), seg.Samples[0].Date)
		assert.Equal(t, day(2007, time.December, 31), seg.Samples[11].Date)
		assert.Equal(t, 12, seg.Summary.Samples)
		assert.Equal(t, 17, seg.Summary.SpanDays)
	})
}

func TestFigure_TracesFromLiteralFigure(t *testing.T) {
	mark, mike := domain.MarkSource(), domain.MikeSource()
	point := func(src domain.Source, m domain.Metric, d domain.Date) domain.PointOverlay {
		return domain.PointOverlay{Date: d, Value: 10, Metric: m, Source: src.ID, Label: src.Label, Style: src.PointStyle(m)}
	}
	fig := domain.Figure{
		Year: 2007,
		Base: fullYears(2007),
		Points: []domain.PointOverlay{
			point(mark, domain.BreakupStart, day(2007, time.June, 10)),
			point(mark, domain.BreakupEnd, day(2007, time.June, 25)),
			point(mike, domain.BreakupStart, day(2007, time.June, 12)),
		},
	}

	traces := fig.Traces()
	require.Len(t, traces, 4)

	var got []string
	for _, tr := range traces[1:] {
		got = append(got, tr.Source+" "+string(tr.Metric))
	}
	want := []string{"mike breakup_start", "mark breakup_start", "mark breakup_end"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("point trace order mismatch (-want +got):\n%s", diff)
	}
}
