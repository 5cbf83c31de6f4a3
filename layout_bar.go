package gochart

import (
	"image"
	"math"
)

// Plot geometry shared by the bar and line charts, in nominal pixels.
const (
	plotWidth       = 1000
	plotHeight      = 600
	plotExcessRatio = 0.125 // margin around the plot as a fraction of its height
	barGutter       = 25
	axisFontSize    = 10
	headerInset     = 25
)

// plotFrame holds the supersampled geometry of a rectangular plot.
type plotFrame struct {
	m           float64
	width       float64
	height      float64
	excess      float64
	pointLength float64
	graphRight  float64
	graphBottom float64
}

func newPlotFrame(m float64) plotFrame {
	f := plotFrame{m: m, width: plotWidth * m, height: plotHeight * m}
	f.excess = floorPx(f.height * plotExcessRatio)
	f.pointLength = floorPx(f.excess / 7.5)
	f.graphRight = f.width + f.excess
	f.graphBottom = f.height + f.excess
	return f
}

func (f plotFrame) size() image.Point {
	return image.Pt(int(f.width+f.excess*2), int(f.height+f.excess*2))
}

// y maps a value to its device y coordinate.
func (f plotFrame) y(scale AxisScale, v float64) float64 {
	return scale.Position(v)*f.height + f.excess
}

// newPlotLayout creates the layout skeleton shared by bar and line charts:
// the panel border, horizontal grid lines with tick labels, and headers.
func newPlotLayout(rc *renderContext, f plotFrame) (*Layout, error) {
	size := f.size()
	l := &Layout{
		Kind:   rc.kind,
		Size:   size,
		Output: image.Pt(int(float64(size.X)/f.m), int(float64(size.Y)/f.m)),
	}

	l.Panel = append(l.Panel, Shape{
		Points:      rectShape(f.excess, f.excess, f.graphRight, f.graphBottom),
		Closed:      true,
		Stroke:      rc.cfg.Accent,
		StrokeWidth: 1 * f.m,
	})

	scale := rc.scale
	for i := 0; i < scale.TickCount; i++ {
		y := f.height/float64(scale.TickCount-1)*float64(i) + f.excess
		l.Grid = append(l.Grid, Segment{
			From:  Point{f.excess - f.pointLength, y},
			To:    Point{f.graphRight, y},
			Color: rc.cfg.Accent,
			Width: 1 * f.m,
		})

		text := scale.Label(i, rc.cfg.Prefix, rc.cfg.Suffix)
		w, h := rc.axis.Size(text)
		l.Labels = append(l.Labels, Label{
			Text:  text,
			At:    Point{f.excess - f.excess/5 - w, y - h/1.8},
			Role:  FontAxis,
			Color: rc.cfg.Accent,
		})
	}

	// Headers are drawn only as a pair: the x header centered above the plot,
	// the y header reading downwards along the right edge.
	if rc.cfg.XHeader != "" && rc.cfg.YHeader != "" {
		hm, err := rc.measurer(FontHeader, math.Max(1, f.excess-headerInset*f.m))
		if err != nil {
			return nil, err
		}
		xw, xh := hm.Size(rc.cfg.XHeader)
		yw, yh := hm.Size(rc.cfg.YHeader)
		l.Labels = append(l.Labels,
			Label{
				Text:  rc.cfg.XHeader,
				At:    Point{(float64(size.X) - xw) / 2, f.excess - f.excess/7 - xh},
				Role:  FontHeader,
				Color: rc.cfg.Accent,
			},
			Label{
				Text:     rc.cfg.YHeader,
				At:       Point{float64(size.X) - yh, (float64(size.Y) - yw) / 2},
				Role:     FontHeader,
				Color:    rc.cfg.Accent,
				Vertical: true,
			})
	}
	return l, nil
}

// buildBarLayout places one rectangle per category, evenly spaced with a
// fixed gutter, with the category label and optional icon beneath it.
func buildBarLayout(rc *renderContext, series []DataSeries) (*Layout, error) {
	f := newPlotFrame(rc.m)
	l, err := newPlotLayout(rc, f)
	if err != nil {
		return nil, err
	}

	n := float64(len(series))
	gutter := barGutter * f.m
	barWidth := f.width - gutter*2
	if len(series) > 1 {
		barWidth = (f.width - gutter*(n+1)) / n
	}

	labelTop := f.graphBottom + f.excess*0.1
	for i, s := range series {
		x := gutter*float64(i+1) + barWidth*float64(i) + f.excess
		y := f.y(rc.scale, s.Sample(0).Value)
		c := colorOr(s.Color, ColorRed)

		l.Layers = append(l.Layers, Layer{
			Index: i,
			Shapes: []Shape{{
				Points:      rectShape(x, f.graphBottom, x+barWidth, y),
				Closed:      true,
				Filled:      true,
				Fill:        c.RGBA(fillAlpha),
				Stroke:      c.RGBA(strokeAlpha),
				StrokeWidth: 2 * f.m,
			}},
		})

		center := x + barWidth/2
		iconTop := labelTop
		if s.Name != "" {
			w, h := rc.axis.Size(s.Name)
			l.Labels = append(l.Labels, Label{
				Text:  s.Name,
				At:    Point{center - w/2, labelTop},
				Role:  FontAxis,
				Color: rc.cfg.Accent,
			})
			iconTop += h + f.excess*0.05
		}
		if s.Icon != "" {
			size := barIconSize(f, barWidth, iconTop)
			if size >= 1 {
				x0 := int(math.Round(center - size/2))
				y0 := int(math.Round(iconTop))
				l.Icons = append(l.Icons, IconPlacement{
					Ref:  s.Icon,
					Rect: image.Rect(x0, y0, x0+int(size), y0+int(size)),
				})
			}
		}
	}
	return l, nil
}

// barIconSize caps an icon at the space left under the plot and at a quarter
// of the bar width.
func barIconSize(f plotFrame, barWidth, top float64) float64 {
	available := f.graphBottom + f.excess - top - f.excess*0.05
	return math.Floor(math.Min(available, barWidth*0.25))
}
