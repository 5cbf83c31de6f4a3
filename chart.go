package gochart

import (
	"image/color"
	"sort"
)

// ChartKind selects the geometry strategy used to lay out a chart.
type ChartKind int

const (
	ChartBar ChartKind = iota
	ChartLine
	ChartRadar
)

func (k ChartKind) String() string {
	switch k {
	case ChartBar:
		return "bar"
	case ChartLine:
		return "line"
	case ChartRadar:
		return "radar"
	}
	return "unknown"
}

// ScaleMode selects how an axis range is derived when no explicit bounds are given.
type ScaleMode int

const (
	// ScaleNice rounds the per-division size up to a human-friendly step and
	// snaps the bounds outward to multiples of it. The tick count follows
	// from the step.
	ScaleNice ScaleMode = iota
	// ScalePadded divides the data range into (ticks-3) equal steps and pads
	// one step above and below, always producing the requested tick count.
	// It is the default for bar and line charts.
	ScalePadded
)

// Bar sort orders.
const (
	SortNone = ""
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Sample is one optional numeric value. The zero Sample is missing, which is
// distinct from a present zero.
type Sample struct {
	Value float64
	Valid bool
}

// Value returns a present sample.
func Value(v float64) Sample { return Sample{Value: v, Valid: true} }

// Missing returns an explicit "no value" sample.
func Missing() Sample { return Sample{} }

// Values builds a sample slice where every entry is present.
func Values(vs ...float64) []Sample {
	out := make([]Sample, len(vs))
	for i, v := range vs {
		out[i] = Value(v)
	}
	return out
}

// DataSeries is one named value sequence.
//
// For bar charts each series is one bar and only Values[0] is used. For line
// charts each series is one named x-position and Values holds one sample per
// layer. For radar charts each series is one axis with one sample per layer.
type DataSeries struct {
	Name   string
	Values []Sample
	Color  *Color
	Icon   string // image asset reference
	Text   string // short annotation drawn at a radar axis tip
}

// Sample returns the i-th sample, or a missing sample when out of range.
func (s DataSeries) Sample(i int) Sample {
	if i < 0 || i >= len(s.Values) {
		return Missing()
	}
	return s.Values[i]
}

// ChartConfig holds per-request chart options.
type ChartConfig struct {
	// Min and Max fix the axis bounds. Both must be set, otherwise the axis is auto-scaled.
	Min *float64
	Max *float64
	// Steps is the number of divisions between ticks; the tick count is Steps+1.
	Steps     int
	ScaleMode ScaleMode

	Prefix string
	Suffix string

	SortColors bool
	Fill       bool
	// Multiplier is the supersampling factor (1-5).
	Multiplier int

	Background color.NRGBA // canvas fill before anything is drawn
	Accent     color.NRGBA // grid lines, borders and text
	Surface    color.NRGBA // opaque color used when Flatten is set
	Flatten    bool

	// Palette holds the layer colors for line and radar charts.
	Palette []Color
	// Legends names each layer of a radar chart.
	Legends []string

	XHeader string
	YHeader string
	Sort    string
}

// DefaultChartConfig returns the options used when a request leaves them unset.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Steps:      7,
		ScaleMode:  ScalePadded,
		SortColors: true,
		Fill:       true,
		Multiplier: defaultMultiplier,
		Background: color.NRGBA{R: 128, G: 128, B: 128, A: 30},
		Accent:     color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Surface:    color.NRGBA{R: 54, G: 57, B: 63, A: 255},
	}
}

// TickCount returns the number of ticks requested by Steps.
func (c ChartConfig) TickCount() int { return c.Steps + 1 }

// HasBounds reports whether both explicit bounds are set.
func (c ChartConfig) HasBounds() bool { return c.Min != nil && c.Max != nil }

// SetBounds fixes the axis range.
func (c *ChartConfig) SetBounds(min, max float64) *ChartConfig {
	c.Min = &min
	c.Max = &max
	return c
}

// sortBars returns a copy of series ordered by their first sample.
func sortBars(series []DataSeries, order string) []DataSeries {
	if order != SortAsc && order != SortDesc {
		return series
	}
	sorted := make([]DataSeries, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Sample(0).Value, sorted[j].Sample(0).Value
		if order == SortDesc {
			return a > b
		}
		return a < b
	})
	return sorted
}

// flattenSamples collects every present sample across all series.
func flattenSamples(series []DataSeries) []float64 {
	var out []float64
	for _, s := range series {
		for _, v := range s.Values {
			if v.Valid {
				out = append(out, v.Value)
			}
		}
	}
	return out
}

// layerMatrix transposes series into values[layer][seriesIndex].
func layerMatrix(series []DataSeries) [][]Sample {
	layers := 0
	for _, s := range series {
		if len(s.Values) > layers {
			layers = len(s.Values)
		}
	}
	m := make([][]Sample, layers)
	for i := range m {
		m[i] = make([]Sample, len(series))
		for j, s := range series {
			m[i][j] = s.Sample(i)
		}
	}
	return m
}
