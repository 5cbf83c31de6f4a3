package gochart

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Canvas is an RGBA raster with antialiased path drawing.
type Canvas struct {
	img *image.RGBA
	z   vector.Rasterizer
}

// NewCanvas returns a w×h canvas filled with fill.
func NewCanvas(w, h int, fill color.Color) *Canvas {
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	if fill != nil {
		draw.Draw(c.img, c.img.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	}
	return c
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// ClearRect resets the pixels inside r to transparent.
func (c *Canvas) ClearRect(r image.Rectangle) {
	draw.Draw(c.img, r, image.Transparent, image.Point{}, draw.Src)
}

// path is a list of closed subpaths in device pixels.
type path [][]Point

func (p path) bounds() image.Rectangle {
	lo := Point{math.Inf(1), math.Inf(1)}
	hi := Point{math.Inf(-1), math.Inf(-1)}
	for _, sub := range p {
		for _, q := range sub {
			lo.X, lo.Y = math.Min(lo.X, q.X), math.Min(lo.Y, q.Y)
			hi.X, hi.Y = math.Max(hi.X, q.X), math.Max(hi.Y, q.Y)
		}
	}
	if lo.X > hi.X {
		return image.Rectangle{}
	}
	return image.Rect(int(math.Floor(lo.X)), int(math.Floor(lo.Y)), int(math.Ceil(hi.X)), int(math.Ceil(hi.Y)))
}

// fill rasterizes p with the non-zero rule. Overlapping subpaths of the same
// orientation union instead of cancelling.
func (c *Canvas) fill(p path, col color.NRGBA) {
	r := p.bounds().Intersect(c.img.Bounds())
	if r.Empty() || col.A == 0 {
		return
	}
	c.z.Reset(r.Dx(), r.Dy())
	c.z.DrawOp = draw.Over
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	for _, sub := range p {
		if len(sub) < 3 {
			continue
		}
		c.z.MoveTo(float32(sub[0].X-ox), float32(sub[0].Y-oy))
		for _, q := range sub[1:] {
			c.z.LineTo(float32(q.X-ox), float32(q.Y-oy))
		}
		c.z.ClosePath()
	}
	c.z.Draw(c.img, r, image.NewUniform(col), image.Point{})
}

// FillPolygon fills the polygon through pts.
func (c *Canvas) FillPolygon(pts []Point, col color.NRGBA) {
	c.fill(path{pts}, col)
}

// StrokePolyline strokes the polyline through pts with square caps. A closed
// polyline also strokes the segment back to the first point.
func (c *Canvas) StrokePolyline(pts []Point, closed bool, width float64, col color.NRGBA) {
	var p path
	for i := 1; i < len(pts); i++ {
		p = appendStroke(p, pts[i-1], pts[i], width)
	}
	if closed && len(pts) > 2 {
		p = appendStroke(p, pts[len(pts)-1], pts[0], width)
	}
	c.fill(p, col)
}

// StrokeSegments strokes every segment, batching runs that share a color and
// width into one rasterization.
func (c *Canvas) StrokeSegments(segs []Segment) {
	for i := 0; i < len(segs); {
		j := i
		var p path
		for ; j < len(segs) && segs[j].Color == segs[i].Color && segs[j].Width == segs[i].Width; j++ {
			p = appendStroke(p, segs[j].From, segs[j].To, segs[j].Width)
		}
		c.fill(p, segs[i].Color)
		i = j
	}
}

// DrawShape fills then strokes s.
func (c *Canvas) DrawShape(s Shape) {
	if s.Filled && len(s.Points) > 2 {
		c.FillPolygon(s.Points, s.Fill)
	}
	if s.StrokeWidth > 0 {
		c.StrokePolyline(s.Points, s.Closed, s.StrokeWidth, s.Stroke)
	}
}

// appendStroke appends the quad covering segment a→b, extended by half the
// width at each end. Every quad winds the same way relative to its direction.
func appendStroke(p path, a, b Point, width float64) path {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 || width <= 0 {
		return p
	}
	half := width / 2
	ux, uy := dx/length*half, dy/length*half
	a = Point{a.X - ux, a.Y - uy}
	b = Point{b.X + ux, b.Y + uy}
	n := Point{-uy, ux}
	return append(p, []Point{
		a.Add(n),
		b.Add(n),
		b.Add(n.Scale(-1)),
		a.Add(n.Scale(-1)),
	})
}

// DrawText draws text with its top-left corner at at.
func (c *Canvas) DrawText(face font.Face, text string, at Point, col color.NRGBA) {
	ascent := face.Metrics().Ascent
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(math.Round(at.X * 64)),
			Y: fixed.Int26_6(math.Round(at.Y*64)) + ascent,
		},
	}
	d.DrawString(text)
}

// DrawImage scales src into r and composites it over the canvas.
func (c *Canvas) DrawImage(src image.Image, r image.Rectangle) {
	if r.Empty() {
		return
	}
	draw.CatmullRom.Scale(c.img, r, src, src.Bounds(), draw.Over, nil)
}

// CompositeRect draws the r part of src over the same part of the canvas.
func (c *Canvas) CompositeRect(src *Canvas, r image.Rectangle) {
	draw.Draw(c.img, r, src.img, r.Min, draw.Over)
}

// Paste draws src over the canvas with its top-left corner at at.
func (c *Canvas) Paste(src image.Image, at image.Point) {
	b := src.Bounds()
	draw.Draw(c.img, image.Rectangle{Min: at, Max: at.Add(b.Size())}, src, b.Min, draw.Over)
}

// Rotate270 returns img rotated 90 degrees clockwise, so text running left to
// right ends up reading top to bottom.
func Rotate270(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			di := out.PixOffset(h-1-y, x)
			copy(out.Pix[di:di+4], img.Pix[si:si+4])
		}
	}
	return out
}

// Resize resamples img to w×h with Catmull-Rom filtering.
func Resize(img image.Image, w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
	return out
}

// Flatten composites img over an opaque surface color.
func Flatten(img image.Image, surface color.NRGBA) *image.RGBA {
	surface.A = 255
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(surface), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}
