package domain

// Style carries the rendering hints a plotting shell needs for one trace.
// Field names follow the Plotly scatter vocabulary.
type Style struct {
	Mode        string  `json:"mode" yaml:"mode"`
	Color       string  `json:"color" yaml:"color"`
	MarkerSize  float64 `json:"marker_size" yaml:"marker_size"`
	Symbol      string  `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	LineWidth   float64 `json:"line_width,omitempty" yaml:"line_width,omitempty"`
	HoverInfo   string  `json:"hover_info" yaml:"hover_info"`
	OutlineSize float64 `json:"outline_width,omitempty" yaml:"outline_width,omitempty"`
}

// Source is a named label source. Both sources share the same table shape;
// what differs is styling and whether the source feeds duration segments.
type Source struct {
	ID                  string
	Label               string
	ContributesSegments bool

	PointColors   map[Metric]string
	MarkerSize    float64
	MarkerSymbol  string
	SegmentColors map[string]string // keyed by pair family
}

// PointStyle returns the marker style for metric m from this source.
func (s Source) PointStyle(m Metric) Style {
	return Style{
		Mode:        "markers",
		Color:       s.PointColors[m],
		MarkerSize:  s.MarkerSize,
		Symbol:      s.MarkerSymbol,
		HoverInfo:   "x+y+text",
		OutlineSize: 1,
	}
}

// SegmentStyle returns the line style for a duration segment of family.
func (s Source) SegmentStyle(family string) Style {
	return Style{
		Mode:        "lines+markers",
		Color:       s.SegmentColors[family],
		MarkerSize:  1.4,
		HoverInfo:   "skip",
		OutlineSize: 1,
	}
}

// MarkSource is label source A: drawn in the foreground and, by default,
// the only source feeding duration segments.
func MarkSource() Source {
	return Source{
		ID:                  "mark",
		Label:               "Mark",
		ContributesSegments: true,
		PointColors: map[Metric]string{
			BreakupStart:  "rgb(165, 19, 39)",
			BreakupEnd:    "rgb(68, 8, 16)",
			FreezeupStart: "rgb(19, 60, 163)",
			FreezeupEnd:   "rgb(8, 25, 68)",
		},
		MarkerSize: 7,
		SegmentColors: map[string]string{
			"breakup":  "rgb(165, 19, 39)",
			"freezeup": "rgb(19, 60, 163)",
		},
	}
}

// MikeSource is label source B: larger triangle markers drawn under source A.
func MikeSource() Source {
	return Source{
		ID:    "mike",
		Label: "Mike",
		PointColors: map[Metric]string{
			BreakupStart:  "rgb(249, 184, 99)",
			BreakupEnd:    "rgb(249, 140, 40)",
			FreezeupStart: "rgb(30, 218, 232)",
			FreezeupEnd:   "rgb(20, 150, 200)",
		},
		MarkerSize:   13,
		MarkerSymbol: "triangle-up",
		SegmentColors: map[string]string{
			"breakup":  "rgb(249, 184, 99)",
			"freezeup": "rgb(30, 218, 232)",
		},
	}
}
