package gochart

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// ImageFormat represents the output image format.
type ImageFormat int

const (
	ImageFormatPNG ImageFormat = iota
	ImageFormatJPEG
)

// ParseImageFormat maps "png", "jpg" or "jpeg" to an ImageFormat.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "png":
		return ImageFormatPNG, nil
	case "jpg", "jpeg":
		return ImageFormatJPEG, nil
	}
	return ImageFormatPNG, fmt.Errorf("unknown image format %q", s)
}

// RenderOptions configures the process-wide rendering environment. It is
// shared by concurrent renders and must not be modified while they run.
type RenderOptions struct {
	// FontCache provides the fonts. If nil, a cache holding only the embedded
	// Go fonts is created.
	FontCache *FontCache
	// Images resolves icon references. Nil means charts must not use icons.
	Images *ImageStore
	// AxisFont names the face used for tick labels, category names, legends
	// and radar axis text. Default: DefaultAxisFont.
	AxisFont string
	// HeaderFont names the face used for the x and y headers. Default: DefaultHeaderFont.
	HeaderFont string
	// Logger receives debug records about each render. Nil discards them.
	Logger *slog.Logger
	// Format is the encoding used by SaveImage.
	Format ImageFormat
	// JPEGQuality is the JPEG quality (1-100). Default: 90.
	JPEGQuality int
}

// DefaultRenderOptions returns default rendering options.
func DefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		AxisFont:    DefaultAxisFont,
		HeaderFont:  DefaultHeaderFont,
		Format:      ImageFormatPNG,
		JPEGQuality: 90,
	}
}

// withDefaults returns a copy of opts with every unset field filled in.
func (opts *RenderOptions) withDefaults() *RenderOptions {
	out := DefaultRenderOptions()
	if opts != nil {
		*out = *opts
	}
	if out.FontCache == nil {
		out.FontCache = NewFontCache()
	}
	if out.AxisFont == "" {
		out.AxisFont = DefaultAxisFont
	}
	if out.HeaderFont == "" {
		out.HeaderFont = DefaultHeaderFont
	}
	if out.Logger == nil {
		out.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return out
}

func (opts *RenderOptions) fontName(role FontRole) string {
	if role == FontHeader {
		return opts.HeaderFont
	}
	return opts.AxisFont
}

// chartStrategy holds the per-kind steps of a render.
type chartStrategy struct {
	axisFontSize float64
	scale        func(series []DataSeries, cfg ChartConfig) (AxisScale, error)
	colors       func(series []DataSeries, cfg ChartConfig) ColorAssignment
	build        func(rc *renderContext, series []DataSeries) (*Layout, error)
}

var strategies = map[ChartKind]chartStrategy{
	ChartBar: {
		axisFontSize: axisFontSize,
		scale:        plotScale,
		colors:       func([]DataSeries, ChartConfig) ColorAssignment { return ColorAssignment{} },
		build:        buildBarLayout,
	},
	ChartLine: {
		axisFontSize: axisFontSize,
		scale:        plotScale,
		colors:       layerColors,
		build:        buildLineLayout,
	},
	ChartRadar: {
		axisFontSize: radarFontSize,
		scale: func(series []DataSeries, _ ChartConfig) (AxisScale, error) {
			return RadarScale(flattenSamples(series)), nil
		},
		colors: layerColors,
		build:  buildRadarLayout,
	},
}

func plotScale(series []DataSeries, cfg ChartConfig) (AxisScale, error) {
	return ComputeScale(flattenSamples(series), cfg)
}

// layerColors ranks layers by dominance when SortColors is set and pairs
// them with the palette positionally otherwise.
func layerColors(series []DataSeries, cfg ChartConfig) ColorAssignment {
	layers := layerMatrix(series)
	if cfg.SortColors {
		return RankColors(layers, cfg.Palette)
	}
	return AssignColors(len(layers), cfg.Palette)
}

// renderContext carries the per-render state. Faces are created per render
// and never shared.
type renderContext struct {
	kind   ChartKind
	cfg    ChartConfig
	opts   *RenderOptions
	m      float64
	scale  AxisScale
	colors ColorAssignment
	axis   *TextMeasurer
	faces  map[FontRole]*TextMeasurer
	log    *slog.Logger
}

// measurer creates the face for role at size device pixels and remembers it
// for drawing.
func (rc *renderContext) measurer(role FontRole, size float64) (*TextMeasurer, error) {
	face, err := rc.opts.FontCache.NewFace(rc.opts.fontName(role), size)
	if err != nil {
		return nil, err
	}
	m := NewTextMeasurer(face)
	rc.faces[role] = m
	return m, nil
}

// Render validates series, lays out a chart of the given kind and rasterizes
// it. The returned image has the nominal chart size regardless of the
// multiplier. Invalid input returns a *ValidationError and no image.
func Render(kind ChartKind, series []DataSeries, cfg ChartConfig, opts *RenderOptions) (*image.RGBA, error) {
	rc, series, err := newRenderContext(kind, series, cfg, opts)
	if err != nil {
		return nil, err
	}
	layout, err := rc.layout(series)
	if err != nil {
		return nil, err
	}
	rc.log.Debug("layout built",
		"width", layout.Size.X, "height", layout.Size.Y, "multiplier", rc.m, "layers", len(layout.Layers))

	img, err := rc.composite(layout)
	if err != nil {
		return nil, err
	}
	if cfg.Flatten {
		img = Flatten(img, cfg.Surface)
	}
	return img, nil
}

// newRenderContext validates the input and resolves everything a layout
// needs: the axis scale, the layer colors and the axis face. It returns the
// series in drawing order.
func newRenderContext(kind ChartKind, series []DataSeries, cfg ChartConfig, opts *RenderOptions) (*renderContext, []DataSeries, error) {
	st, ok := strategies[kind]
	if !ok {
		return nil, nil, fmt.Errorf("unsupported chart kind %d", kind)
	}
	opts = opts.withDefaults()
	if err := Validate(kind, series, cfg, opts.Images); err != nil {
		return nil, nil, err
	}
	if kind == ChartBar {
		series = sortBars(series, cfg.Sort)
	}

	rc := &renderContext{
		kind:  kind,
		cfg:   cfg,
		opts:  opts,
		m:     float64(clampMultiplier(cfg.Multiplier)),
		faces: make(map[FontRole]*TextMeasurer, 2),
		log:   opts.Logger.With("chart", kind.String()),
	}
	scale, err := st.scale(series, cfg)
	if err != nil {
		return nil, nil, err
	}
	rc.scale = scale
	rc.colors = st.colors(series, cfg)
	rc.log.Debug("scale computed",
		"min", scale.Min, "max", scale.Max, "step", scale.Step, "ticks", scale.TickCount)
	if len(rc.colors.Order) > 0 {
		rc.log.Debug("layer order", "order", rc.colors.Order)
	}

	if rc.axis, err = rc.measurer(FontAxis, st.axisFontSize*rc.m); err != nil {
		return nil, nil, err
	}
	return rc, series, nil
}

// layout builds the device-pixel geometry of the chart.
func (rc *renderContext) layout(series []DataSeries) (*Layout, error) {
	return strategies[rc.kind].build(rc, series)
}

// RenderBarChart renders one bar per series, colored by the series' own color.
func RenderBarChart(bars []DataSeries, cfg ChartConfig, opts *RenderOptions) (*image.RGBA, error) {
	return Render(ChartBar, bars, cfg, opts)
}

// RenderLineChart renders one filled line per layer across the named x-positions.
func RenderLineChart(points []DataSeries, cfg ChartConfig, opts *RenderOptions) (*image.RGBA, error) {
	return Render(ChartLine, points, cfg, opts)
}

// RenderRadarChart renders one polygon per layer over at least five axes.
func RenderRadarChart(axes []DataSeries, cfg ChartConfig, opts *RenderOptions) (*image.RGBA, error) {
	return Render(ChartRadar, axes, cfg, opts)
}

// composite rasterizes l in a fixed order: background, panel, underlay,
// icons, series layers, overlay, grid, labels. The result is downsampled to
// the nominal size.
func (rc *renderContext) composite(l *Layout) (*image.RGBA, error) {
	canvas := NewCanvas(l.Size.X, l.Size.Y, rc.cfg.Background)
	for _, s := range l.Panel {
		canvas.DrawShape(s)
	}
	canvas.StrokeSegments(l.Underlay)

	for _, icon := range l.Icons {
		if rc.opts.Images == nil {
			return nil, fmt.Errorf("image %q: %w", icon.Ref, ErrUnknownAsset)
		}
		img, err := rc.opts.Images.Image(icon.Ref)
		if err != nil {
			return nil, err
		}
		canvas.DrawImage(img, icon.Rect)
	}

	// Each layer is drawn alone onto a transparent buffer and then composited,
	// so a layer's outline and fill blend with earlier layers exactly once.
	scratch := NewCanvas(l.Size.X, l.Size.Y, nil)
	for _, layer := range l.Layers {
		r := layerBounds(layer).Intersect(scratch.Bounds())
		if r.Empty() {
			continue
		}
		for _, s := range layer.Shapes {
			scratch.DrawShape(s)
		}
		canvas.CompositeRect(scratch, r)
		scratch.ClearRect(r)
	}

	for _, s := range l.Overlay {
		canvas.DrawShape(s)
	}
	canvas.StrokeSegments(l.Grid)

	for _, label := range l.Labels {
		m, ok := rc.faces[label.Role]
		if !ok {
			return nil, fmt.Errorf("no face for label %q", label.Text)
		}
		if label.Vertical {
			canvas.Paste(verticalText(m, label), image.Pt(int(label.At.X), int(label.At.Y)))
			continue
		}
		canvas.DrawText(m.Face(), label.Text, label.At, label.Color)
	}

	if l.Size == l.Output {
		return canvas.Image(), nil
	}
	return Resize(canvas.Image(), l.Output.X, l.Output.Y), nil
}

// verticalText renders label onto its own transparent buffer and rotates it
// to read top to bottom.
func verticalText(m *TextMeasurer, label Label) *image.RGBA {
	w, h := m.Size(label.Text)
	buf := NewCanvas(int(math.Ceil(w)), int(math.Ceil(h)), nil)
	buf.DrawText(m.Face(), label.Text, Point{}, label.Color)
	return Rotate270(buf.Image())
}

// layerBounds returns the pixel rectangle touched by every shape of layer,
// including half the stroke width around outlines.
func layerBounds(layer Layer) image.Rectangle {
	var r image.Rectangle
	for _, s := range layer.Shapes {
		if len(s.Points) == 0 {
			continue
		}
		lo, hi := s.Bounds()
		pad := s.StrokeWidth
		sr := image.Rect(
			int(math.Floor(lo.X-pad)), int(math.Floor(lo.Y-pad)),
			int(math.Ceil(hi.X+pad)), int(math.Ceil(hi.Y+pad)),
		)
		r = r.Union(sr)
	}
	return r
}

// EncodeImage writes img to w in the given format.
func EncodeImage(w io.Writer, img image.Image, format ImageFormat, quality int) error {
	switch format {
	case ImageFormatJPEG:
		if quality <= 0 || quality > 100 {
			quality = 90
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	default:
		return png.Encode(w, img)
	}
}

// SaveImage encodes img into the file at path, creating parent directories.
func SaveImage(img image.Image, path string, opts *RenderOptions) error {
	if opts == nil {
		opts = DefaultRenderOptions()
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := EncodeImage(f, img, opts.Format, opts.JPEGQuality); err != nil {
		f.Close()
		return fmt.Errorf("encode image: %w", err)
	}
	return f.Close()
}
