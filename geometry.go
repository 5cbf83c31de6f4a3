package gochart

import (
	"image"
	"image/color"
	"math"
)

// Point is a position in device pixels.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Scale returns p*k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Shape is a polyline or polygon with its paint.
type Shape struct {
	Points      []Point
	Closed      bool
	Filled      bool
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64 // zero disables the outline
}

// Bounds returns the smallest rectangle containing every point.
func (s Shape) Bounds() (Point, Point) {
	if len(s.Points) == 0 {
		return Point{}, Point{}
	}
	lo, hi := s.Points[0], s.Points[0]
	for _, p := range s.Points[1:] {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// Segment is a straight stroked line.
type Segment struct {
	From, To Point
	Color    color.NRGBA
	Width    float64
}

// FontRole picks which face a label is drawn with.
type FontRole int

const (
	FontAxis FontRole = iota
	FontHeader
)

// Label is a single line of text anchored at its top-left corner. A vertical
// label reads top to bottom; At is then the top-left corner of the rotated text.
type Label struct {
	Text     string
	At       Point
	Role     FontRole
	Color    color.NRGBA
	Vertical bool
}

// IconPlacement positions an image asset in device pixels.
type IconPlacement struct {
	Ref  string
	Rect image.Rectangle
}

// Layer groups the shapes of one series. Each layer is rendered into its own
// transparent buffer before being composited onto the chart.
type Layer struct {
	Index  int
	Shapes []Shape
}

// Layout is the device-pixel geometry of one chart, ready for compositing.
type Layout struct {
	Kind   ChartKind
	Size   image.Point // supersampled canvas size
	Output image.Point // nominal output size

	Panel    []Shape   // background panel and border
	Underlay []Segment // drawn before the series layers
	Icons    []IconPlacement
	Layers   []Layer // in draw order
	Overlay  []Shape // drawn directly onto the chart after the layers
	Grid     []Segment
	Labels   []Label
}

// rectShape returns the closed rectangle spanning two corners.
func rectShape(x0, y0, x1, y1 float64) []Point {
	return []Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// unit returns the unit vector at angle (radians).
func unit(angle float64) Point {
	return Point{math.Cos(angle), math.Sin(angle)}
}
