package domain

import (
	"fmt"
	"slices"
)

// PointOverlay marks one labeled event date on the concentration curve.
type PointOverlay struct {
	Date   Date
	Value  float64
	Metric Metric
	Source string
	Label  string
	Style  Style
}

// Name is the legend entry, e.g. "breakup_start Mark".
func (p PointOverlay) Name() string { return string(p.Metric) + " " + p.Label }

// SegmentSummary describes the samples covered by a duration segment.
type SegmentSummary struct {
	Samples  int     `json:"samples" yaml:"samples"`
	SpanDays int     `json:"span_days" yaml:"span_days"`
	Mean     float64 `json:"mean" yaml:"mean"`
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
}

// SegmentOverlay is the run of concentration samples between a pair's
// start and end dates, inclusive.
type SegmentOverlay struct {
	Family  string
	Source  string
	Start   Date
	End     Date
	Samples []Sample
	Summary SegmentSummary
	Style   Style
}

// Layout is the figure-level presentation metadata.
type Layout struct {
	Title       string     `json:"title" yaml:"title"`
	XAxisTitle  string     `json:"xaxis_title" yaml:"xaxis_title"`
	YAxisTitle  string     `json:"yaxis_title" yaml:"yaxis_title"`
	YAxisRange  [2]float64 `json:"yaxis_range" yaml:"yaxis_range"`
	HoverFormat string     `json:"hover_format" yaml:"hover_format"`
}

// Trace kinds.
const (
	KindBase    = "base"
	KindSegment = "segment"
	KindPoint   = "point"
)

// Trace is the renderer-facing unit: coordinates plus labels and style,
// enough to draw without domain knowledge.
type Trace struct {
	Kind   string    `json:"kind" yaml:"kind"`
	Name   string    `json:"name" yaml:"name"`
	Text   string    `json:"text,omitempty" yaml:"text,omitempty"`
	Source string    `json:"source,omitempty" yaml:"source,omitempty"`
	Metric Metric    `json:"metric,omitempty" yaml:"metric,omitempty"`
	X      []Date    `json:"x" yaml:"x"`
	Y      []float64 `json:"y" yaml:"y"`
	Style  Style     `json:"style" yaml:"style"`

	Summary *SegmentSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Figure is the complete overlay set for one year.
type Figure struct {
	Year     int
	Layout   Layout
	Base     []Sample
	Segments []SegmentOverlay
	// Points are in evaluation order: source A's four metrics, then source B's.
	Points []PointOverlay
	// Issues are the data problems skipped while building the figure.
	Issues []error
}

// BaseStyle is the style of the concentration trace.
func BaseStyle() Style {
	return Style{
		Mode:       "lines+markers",
		Color:      "black",
		MarkerSize: 2.5,
		LineWidth:  1.2,
		HoverInfo:  "x+y+text",
	}
}

// BaseTraceName names the concentration trace.
const BaseTraceName = "concentration(%)"

// Traces returns the draw order: base trace, segments in pair-declaration
// order, then points grouped by source in reverse declaration order so that
// source A's markers draw last, on top.
func (f Figure) Traces() []Trace {
	traces := make([]Trace, 0, 1+len(f.Segments)+len(f.Points))
	traces = append(traces, baseTrace(f.Base))

	for _, seg := range f.Segments {
		traces = append(traces, segmentTrace(seg))
	}

	order := f.pointSources()
	for i := len(order) - 1; i >= 0; i-- {
		for _, p := range f.Points {
			if p.Source == order[i] {
				traces = append(traces, pointTrace(p))
			}
		}
	}
	return traces
}

// pointSources lists the point sources in order of first appearance.
func (f Figure) pointSources() []string {
	var order []string
	for _, p := range f.Points {
		if !slices.Contains(order, p.Source) {
			order = append(order, p.Source)
		}
	}
	return order
}

func baseTrace(samples []Sample) Trace {
	x, y := unzip(samples)
	return Trace{Kind: KindBase, Name: BaseTraceName, Text: BaseTraceName, X: x, Y: y, Style: BaseStyle()}
}

func segmentTrace(seg SegmentOverlay) Trace {
	x, y := unzip(seg.Samples)
	summary := seg.Summary
	return Trace{
		Kind:    KindSegment,
		Name:    seg.Family,
		Source:  seg.Source,
		X:       x,
		Y:       y,
		Style:   seg.Style,
		Summary: &summary,
	}
}

func pointTrace(p PointOverlay) Trace {
	return Trace{
		Kind:   KindPoint,
		Name:   p.Name(),
		Text:   p.Name(),
		Source: p.Source,
		Metric: p.Metric,
		X:      []Date{p.Date},
		Y:      []float64{p.Value},
		Style:  p.Style,
	}
}

func unzip(samples []Sample) ([]Date, []float64) {
	x := make([]Date, len(samples))
	y := make([]float64, len(samples))
	for i, s := range samples {
		x[i] = s.Date
		y[i] = s.Value
	}
	return x, y
}

// FigureView is the serialisable form of a Figure.
type FigureView struct {
	Year   int      `json:"year" yaml:"year"`
	Layout Layout   `json:"layout" yaml:"layout"`
	Traces []Trace  `json:"traces" yaml:"traces"`
	Issues []string `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// View flattens the figure into draw-ordered traces.
func (f Figure) View() FigureView {
	v := FigureView{Year: f.Year, Layout: f.Layout, Traces: f.Traces()}
	for _, err := range f.Issues {
		v.Issues = append(v.Issues, err.Error())
	}
	return v
}

func newLayout(year int) Layout {
	return Layout{
		Title:       fmt.Sprintf("NSIDC-0051 Sea Ice Concentration %d", year),
		XAxisTitle:  "Time",
		YAxisTitle:  "% Concentration",
		YAxisRange:  [2]float64{0, 100},
		HoverFormat: ".2f",
	}
}
