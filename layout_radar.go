package gochart

import (
	"image"
	"math"
)

// Radar geometry, in nominal pixels.
const (
	radarSize         = 1024
	radarOffset       = 20 // outward shift applied to every vertex so spokes stay visible at 0
	radarFontSize     = 15
	radarLegendSwatch = 15
	radarLegendGap    = 5
	// maxRadarRings bounds the number of grid rings; above it rings are drawn
	// every ceil(max/maxRadarRings) units instead of every unit.
	maxRadarRings = 100
)

// RadarScale returns the ring scale of a radar chart: rings at every integer
// level from 0 up to the ceiling of the largest sample (at least 1).
func RadarScale(samples []float64) AxisScale {
	top := 1.0
	for _, v := range samples {
		top = math.Max(top, v)
	}
	top = math.Ceil(top)
	step := 1.0
	if top > maxRadarRings {
		step = math.Ceil(top / maxRadarRings)
		top = step * math.Ceil(top/step)
	}
	return newScale(0, top, step)
}

// radarFrame holds the supersampled geometry of a radar chart.
type radarFrame struct {
	m      float64
	width  float64
	center Point
	radius float64
	offset float64
	start  float64
	angle  float64
}

func newRadarFrame(m float64, sides int) radarFrame {
	w := radarSize * m
	return radarFrame{
		m:      m,
		width:  w,
		center: Point{w / 2, w / 2},
		radius: w / 3,
		offset: radarOffset * m,
		start:  -math.Pi / 2,
		angle:  2 * math.Pi / float64(sides),
	}
}

func (f radarFrame) axis(i int) Point {
	return unit(f.start + float64(i)*f.angle)
}

// vertex returns the position of fraction along axis i, shifted outward by the fixed offset.
func (f radarFrame) vertex(i int, fraction float64) Point {
	u := f.axis(i)
	return f.center.Add(u.Scale(f.radius * fraction)).Add(u.Scale(f.offset))
}

// buildRadarLayout draws concentric grid rings, one spoke per axis with its
// optional icon or text, and one polygon per layer.
func buildRadarLayout(rc *renderContext, series []DataSeries) (*Layout, error) {
	sides := len(series)
	f := newRadarFrame(rc.m, sides)
	size := image.Pt(int(f.width), int(f.width))
	l := &Layout{
		Kind:   ChartRadar,
		Size:   size,
		Output: image.Pt(radarSize, radarSize),
	}

	top := rc.scale.Max
	for level := 0; level < rc.scale.TickCount; level++ {
		fraction := rc.scale.Tick(rc.scale.TickCount-1-level) / top
		for i := 0; i < sides; i++ {
			l.Underlay = append(l.Underlay, Segment{
				From:  f.vertex(i, fraction),
				To:    f.vertex((i+1)%sides, fraction),
				Color: rc.cfg.Accent,
				Width: 1 * f.m,
			})
		}
	}

	iconSize := int(f.width / 10)
	for i, s := range series {
		u := f.axis(i)
		extend := 1.0
		switch {
		case s.Icon != "":
			extend = 4
		case s.Text != "":
			extend = 2
		}
		tip := f.center.Add(u.Scale(f.radius)).Add(u.Scale(f.offset * extend))
		l.Underlay = append(l.Underlay, Segment{
			From:  f.center.Add(u.Scale(f.offset)),
			To:    tip,
			Color: rc.cfg.Accent,
			Width: 1 * f.m,
		})

		rim := f.center.Add(u.Scale(f.radius))
		switch {
		case s.Icon != "":
			half := float64(iconSize) / 2
			x0 := int(rim.X - half + u.X*float64(iconSize))
			y0 := int(rim.Y - half + u.Y*float64(iconSize))
			l.Icons = append(l.Icons, IconPlacement{
				Ref:  s.Icon,
				Rect: image.Rect(x0, y0, x0+iconSize, y0+iconSize),
			})
		case s.Text != "":
			w, h := rc.axis.Size(s.Text)
			l.Labels = append(l.Labels, Label{
				Text: s.Text,
				At: Point{
					rim.X + u.X*f.offset*2.2 - w/2 + u.X*w*0.7,
					rim.Y + u.Y*f.offset*2.2 - h/2 + u.Y*h*0.7,
				},
				Role:  FontAxis,
				Color: rc.cfg.Accent,
			})
		}
	}

	for _, layer := range rc.colors.Order {
		c := rc.colors.ColorOf(layer)
		polygon := make([]Point, sides)
		for i, s := range series {
			// A missing sample sits at the center, like a zero.
			polygon[i] = f.vertex(i, s.Sample(layer).Value/top)
		}
		l.Layers = append(l.Layers, Layer{
			Index: layer,
			Shapes: []Shape{{
				Points:      polygon,
				Closed:      true,
				Filled:      rc.cfg.Fill,
				Fill:        c.RGBA(fillAlpha),
				Stroke:      c.RGBA(strokeAlpha),
				StrokeWidth: 2 * f.m,
			}},
		})
	}

	buildRadarLegend(rc, f, l)
	return l, nil
}

// buildRadarLegend lays out a swatch and name per named layer along the bottom edge.
func buildRadarLegend(rc *renderContext, f radarFrame, l *Layout) {
	swatch := radarLegendSwatch * f.m
	x := swatch
	layers := len(rc.colors.Colors)
	for i := 0; i < layers && i < len(rc.cfg.Legends); i++ {
		name := rc.cfg.Legends[i]
		c := rc.colors.ColorOf(i)
		l.Overlay = append(l.Overlay, Shape{
			Points: rectShape(x, f.width-swatch*2, x+swatch, f.width-swatch),
			Closed: true,
			Filled: true,
			Fill:   c.RGBA(strokeAlpha),
		})
		x += swatch + radarLegendGap*f.m
		l.Labels = append(l.Labels, Label{
			Text:  name,
			At:    Point{x, f.width - swatch*2.2},
			Role:  FontAxis,
			Color: rc.cfg.Accent,
		})
		x += rc.axis.Measure(name) + swatch*1.2
	}
}
