package gochart

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderBarChart_Size(t *testing.T) {
	bars := []DataSeries{
		{Name: "A", Values: Values(10)},
		{Name: "B", Values: Values(20)},
	}
	for _, m := range []int{1, 2} {
		cfg := DefaultChartConfig()
		cfg.Multiplier = m
		img, err := RenderBarChart(bars, cfg, nil)
		if err != nil {
			t.Fatalf("multiplier %d: RenderBarChart: %v", m, err)
		}
		if b := img.Bounds(); b.Dx() != 1150 || b.Dy() != 750 {
			t.Errorf("multiplier %d: expected 1150x750, got %dx%d", m, b.Dx(), b.Dy())
		}
	}
}

func TestRenderBarChart_Background(t *testing.T) {
	cfg := DefaultChartConfig()
	cfg.Multiplier = 1
	img, err := RenderBarChart([]DataSeries{{Name: "A", Values: Values(10)}}, cfg, nil)
	if err != nil {
		t.Fatalf("RenderBarChart: %v", err)
	}
	// The corner is outside the plot, so only the background is there.
	if a := img.RGBAAt(2, 2).A; a != 30 {
		t.Errorf("expected background alpha 30, got %d", a)
	}
}

func TestRenderBarChart_Flatten(t *testing.T) {
	cfg := DefaultChartConfig()
	cfg.Multiplier = 1
	cfg.Flatten = true
	img, err := RenderBarChart([]DataSeries{{Name: "A", Values: Values(10)}}, cfg, nil)
	if err != nil {
		t.Fatalf("RenderBarChart: %v", err)
	}
	b := img.Bounds()
	for _, p := range []image.Point{{0, 0}, {b.Dx() - 1, 0}, {0, b.Dy() - 1}, {b.Dx() / 2, b.Dy() / 2}} {
		if a := img.RGBAAt(p.X, p.Y).A; a != 255 {
			t.Errorf("expected opaque pixel at %v, got alpha %d", p, a)
		}
	}
}

func TestRenderBarChart_DrawsBar(t *testing.T) {
	cfg := DefaultChartConfig()
	cfg.Multiplier = 1
	cfg.Steps = 4
	cfg.SetBounds(0, 10)
	blue := ColorBlue
	img, err := RenderBarChart([]DataSeries{{Name: "A", Values: Values(10), Color: &blue}}, cfg, nil)
	if err != nil {
		t.Fatalf("RenderBarChart: %v", err)
	}
	// A point inside the bar, away from the grid lines and the outline.
	c := img.RGBAAt(575, 400)
	if c.B <= c.R || c.B <= c.G {
		t.Errorf("expected a blue-tinted bar interior, got %v", c)
	}
}

func TestRenderLineChart(t *testing.T) {
	cfg := DefaultChartConfig()
	cfg.Multiplier = 1
	cfg.XHeader = "day"
	cfg.YHeader = "visits"
	cfg.Palette = []Color{ColorGreen, ColorBlue}
	img, err := RenderLineChart([]DataSeries{
		{Name: "Mon", Values: Values(1, 4)},
		{Name: "Tue", Values: []Sample{Value(3), Missing()}},
		{Name: "Wed", Values: Values(2, 6)},
	}, cfg, nil)
	if err != nil {
		t.Fatalf("RenderLineChart: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1150 || b.Dy() != 750 {
		t.Errorf("expected 1150x750, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderRadarChart(t *testing.T) {
	store := NewImageStore("")
	icon := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range icon.Pix {
		icon.Pix[i] = 255
	}
	store.Add("icons/star.png", icon)

	axes := radarAxes(1, 2, 3, 4, 5)
	axes[0].Icon = "icons/star.png"
	axes[1].Text = "range"
	cfg := DefaultChartConfig()
	cfg.Multiplier = 1
	cfg.Legends = []string{"only"}

	img, err := RenderRadarChart(axes, cfg, &RenderOptions{Images: store})
	if err != nil {
		t.Fatalf("RenderRadarChart: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1024 || b.Dy() != 1024 {
		t.Errorf("expected 1024x1024, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRender_ValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		kind   ChartKind
		series []DataSeries
		want   error
	}{
		{"empty", ChartBar, nil, ErrEmptyDataSet},
		{"missing name", ChartBar, []DataSeries{{Values: Values(1)}}, ErrMissingRequiredField},
		{"missing value", ChartBar, []DataSeries{{Name: "A", Values: []Sample{Missing()}}}, ErrMissingRequiredField},
		{"all missing", ChartLine, []DataSeries{{Name: "A", Values: []Sample{Missing()}}}, ErrEmptyDataSet},
		{"unknown icon", ChartBar, []DataSeries{{Name: "A", Values: Values(1), Icon: "nope.png"}}, ErrUnknownAsset},
		{"too few axes", ChartRadar, radarAxes(1, 2), ErrTooFewRadarAxes},
	}
	opts := &RenderOptions{Images: NewImageStore("")}
	for _, c := range cases {
		img, err := Render(c.kind, c.series, DefaultChartConfig(), opts)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, err)
		}
		if img != nil {
			t.Errorf("%s: expected no image on failure", c.name)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected a *ValidationError, got %T", c.name, err)
		}
	}
}

func TestRender_IconWithoutStore(t *testing.T) {
	img, err := Render(ChartBar, []DataSeries{{Name: "A", Values: Values(1), Icon: "x.png"}}, DefaultChartConfig(), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a *ValidationError, got %v", err)
	}
	if verr.Field != "bars.0.icon" || !errors.Is(err, ErrUnknownAsset) {
		t.Errorf("unexpected error %v", err)
	}
	if img != nil {
		t.Error("expected no image on failure")
	}
}

func TestRender_InvalidSteps(t *testing.T) {
	cfg := DefaultChartConfig()
	cfg.Steps = 0
	_, err := RenderBarChart([]DataSeries{{Name: "A", Values: Values(1)}}, cfg, nil)
	if !errors.Is(err, ErrInvalidStepCount) {
		t.Fatalf("expected ErrInvalidStepCount, got %v", err)
	}
}

func TestRender_UnknownFont(t *testing.T) {
	opts := DefaultRenderOptions()
	opts.AxisFont = "nonexistent-font-xyz-12345"
	_, err := RenderBarChart([]DataSeries{{Name: "A", Values: Values(1)}}, DefaultChartConfig(), opts)
	if !errors.Is(err, ErrUnknownAsset) {
		t.Fatalf("expected ErrUnknownAsset, got %v", err)
	}
}

func TestRotate270(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	src.SetRGBA(1, 0, color.RGBA{B: 255, A: 255})

	out := Rotate270(src)
	if b := out.Bounds(); b.Dx() != 1 || b.Dy() != 2 {
		t.Fatalf("expected 1x2, got %dx%d", b.Dx(), b.Dy())
	}
	if out.RGBAAt(0, 0).R != 255 || out.RGBAAt(0, 1).B != 255 {
		t.Errorf("expected the row to read top to bottom, got %v %v", out.RGBAAt(0, 0), out.RGBAAt(0, 1))
	}
}

func TestCanvas_StrokeUnion(t *testing.T) {
	c := NewCanvas(20, 20, nil)
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	// Two crossing strokes in one path must not cancel where they overlap.
	c.StrokeSegments([]Segment{
		{From: Point{0, 10}, To: Point{20, 10}, Color: white, Width: 4},
		{From: Point{10, 20}, To: Point{10, 0}, Color: white, Width: 4},
	})
	if a := c.Image().RGBAAt(10, 10).A; a != 255 {
		t.Errorf("expected the crossing to be covered, got alpha %d", a)
	}
	if a := c.Image().RGBAAt(2, 2).A; a != 0 {
		t.Errorf("expected untouched pixels to stay clear, got alpha %d", a)
	}
}

func TestParseImageFormat(t *testing.T) {
	cases := map[string]ImageFormat{
		"":      ImageFormatPNG,
		"png":   ImageFormatPNG,
		".PNG":  ImageFormatPNG,
		"jpg":   ImageFormatJPEG,
		".jpeg": ImageFormatJPEG,
	}
	for in, want := range cases {
		got, err := ParseImageFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseImageFormat(%q) = %v, %v; expected %v", in, got, err, want)
		}
	}
	if _, err := ParseImageFormat("tiff"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSaveImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "nested", "chart.png")
	if err := SaveImage(img, pngPath, nil); err != nil {
		t.Fatalf("SaveImage png: %v", err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if decoded.Bounds().Dx() != 40 || decoded.Bounds().Dy() != 30 {
		t.Errorf("unexpected decoded size %v", decoded.Bounds())
	}

	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, ImageFormatJPEG, 0); err != nil {
		t.Fatalf("EncodeImage jpeg: %v", err)
	}
	if _, err := jpeg.Decode(&buf); err != nil {
		t.Errorf("decode jpeg: %v", err)
	}
}
