package gochart

import "math"

// Line chart label placement, in nominal pixels.
const (
	lineTickLength  = 10
	lineLabelOffset = 15
	lineLabelSlot   = 0.8 // share of an x slot a label may occupy
)

// buildLineLayout builds one baseline-closed polygon per layer across every
// named x-position. A layer stops at its first missing sample and drops to
// the baseline at the last drawn x; samples after the gap are not connected.
func buildLineLayout(rc *renderContext, series []DataSeries) (*Layout, error) {
	f := newPlotFrame(rc.m)
	l, err := newPlotLayout(rc, f)
	if err != nil {
		return nil, err
	}

	n := len(series)
	xStep := f.width
	if n > 1 {
		xStep = f.width / float64(n-1)
	}
	// A single x-position is drawn as a horizontal segment across the plot,
	// so its tick and label sit in the middle.
	extra := 0.0
	if n == 1 {
		extra = xStep * 0.5
	}

	every := labelStride(rc.axis, series, f.width)
	for i, s := range series {
		x := xStep*float64(i) + f.excess + extra
		length := lineTickLength * f.m
		if i%every == 0 {
			w := rc.axis.Measure(s.Name)
			l.Labels = append(l.Labels, Label{
				Text:  s.Name,
				At:    Point{x - w/2 + 1*f.m, f.graphBottom + lineLabelOffset*f.m},
				Role:  FontAxis,
				Color: rc.cfg.Accent,
			})
		} else {
			length /= 2
		}
		l.Grid = append(l.Grid, Segment{
			From:  Point{x, f.graphBottom},
			To:    Point{x, f.graphBottom + length},
			Color: rc.cfg.Accent,
			Width: 1 * f.m,
		})
	}

	for _, layer := range rc.colors.Order {
		c := rc.colors.ColorOf(layer)
		polygon, line := linePath(rc.scale, f, series, layer, xStep)
		shapes := []Shape{{
			Points: polygon,
			Closed: true,
			Filled: rc.cfg.Fill,
			Fill:   c.RGBA(fillAlpha),
		}}
		if len(line) > 0 {
			shapes = append(shapes, Shape{
				Points:      line,
				Stroke:      c.RGBA(strokeAlpha),
				StrokeWidth: 1 * f.m,
			})
		}
		l.Layers = append(l.Layers, Layer{Index: layer, Shapes: shapes})
	}

	// The border goes on top of the translucent fills.
	l.Overlay = append(l.Overlay, l.Panel...)
	l.Panel = nil
	return l, nil
}

// linePath returns the baseline-closed polygon and the stroked data polyline
// of one layer.
func linePath(scale AxisScale, f plotFrame, series []DataSeries, layer int, xStep float64) ([]Point, []Point) {
	polygon := []Point{{f.excess, f.graphBottom}}
	var line []Point
	for i, s := range series {
		v := s.Sample(layer)
		if !v.Valid {
			last := polygon[len(polygon)-1]
			polygon = append(polygon, Point{last.X, f.graphBottom})
			return polygon, line
		}
		p := Point{xStep*float64(i) + f.excess, f.y(scale, v.Value)}
		polygon = append(polygon, p)
		line = append(line, p)
		if len(series) == 1 {
			end := Point{xStep + f.excess, p.Y}
			polygon = append(polygon, end)
			line = append(line, end)
		}
	}
	return append(polygon, Point{f.graphRight, f.graphBottom}), line
}

// labelStride returns k such that drawing every k-th x label keeps labels
// within lineLabelSlot of their slot width.
func labelStride(m *TextMeasurer, series []DataSeries, width float64) int {
	widest := 0.0
	for _, s := range series {
		widest = math.Max(widest, m.Measure(s.Name))
	}
	slot := width / float64(len(series)) * lineLabelSlot
	if slot <= 0 || widest <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(widest/slot)))
}
