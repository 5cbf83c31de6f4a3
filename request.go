package gochart

import (
	"fmt"
	"image"
	"io"
	"math"
	"strings"

	json "github.com/goccy/go-json"
)

// ChartRequest is a decoded chart request, ready for Render.
type ChartRequest struct {
	Kind   ChartKind
	Series []DataSeries
	Config ChartConfig
}

// Render validates and renders the request.
func (r *ChartRequest) Render(opts *RenderOptions) (*image.RGBA, error) {
	return Render(r.Kind, r.Series, r.Config, opts)
}

// DecodeRequest decodes a JSON chart request of the given kind. Options the
// body leaves out keep their DefaultChartConfig values. Structural problems
// are reported as a *ValidationError naming the offending field; semantic
// checks are left to Validate.
//
// Bar:   {"bars": [{"name", "value", "colour", "icon"}], "sort", ...}
// Line:  {"series": [{"name", "values"}], "colours", ...}
// Radar: {"data": [{"values", "icon", "text"}], "colours", "legends", ...}
//
// Every kind also accepts min_value, max_value, steps, scale, value_prefix,
// value_suffix, x_header, y_header, multiplier, flatten, sort_colours and fill.
func DecodeRequest(kind ChartKind, r io.Reader) (*ChartRequest, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, newValidationError("", err.Error(), ErrInvalidBody)
	}
	if m == nil {
		return nil, newValidationError("", "expected a JSON object", ErrInvalidBody)
	}

	req := &ChartRequest{Kind: kind, Config: DefaultChartConfig()}
	if err := decodeConfig(m, &req.Config); err != nil {
		return nil, err
	}

	field := seriesField(kind)
	raw, ok := m[field]
	if !ok || raw == nil {
		return nil, newValidationError(field, field+" is required", ErrMissingRequiredField)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, newValidationError(field, "expected a list", ErrInvalidFieldValue)
	}
	req.Series = make([]DataSeries, 0, len(list))
	for i, item := range list {
		prefix := fmt.Sprintf("%s.%d", field, i)
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, newValidationError(prefix, "expected an object", ErrInvalidFieldValue)
		}
		s, err := decodeSeries(kind, obj, prefix)
		if err != nil {
			return nil, err
		}
		req.Series = append(req.Series, s)
	}
	return req, nil
}

func decodeSeries(kind ChartKind, obj map[string]any, prefix string) (DataSeries, error) {
	var s DataSeries
	var err error
	if s.Name, err = stringField(obj, "name", prefix); err != nil {
		return s, err
	}
	if s.Icon, err = stringField(obj, "icon", prefix); err != nil {
		return s, err
	}
	if s.Text, err = stringField(obj, "text", prefix); err != nil {
		return s, err
	}
	if s.Color, err = colorField(obj, prefix); err != nil {
		return s, err
	}

	if kind == ChartBar {
		v, ok := obj["value"]
		if !ok {
			return s, nil
		}
		sample, err := sampleOf(v, prefix+".value")
		if err != nil {
			return s, err
		}
		s.Values = []Sample{sample}
		return s, nil
	}

	switch v := obj["values"].(type) {
	case nil:
	case []any:
		s.Values = make([]Sample, len(v))
		for j, item := range v {
			if s.Values[j], err = sampleOf(item, fmt.Sprintf("%s.values.%d", prefix, j)); err != nil {
				return s, err
			}
		}
	case json.Number:
		// A bare number is a series with a single sample.
		sample, err := sampleOf(v, prefix+".values")
		if err != nil {
			return s, err
		}
		s.Values = []Sample{sample}
	default:
		return s, newValidationError(prefix+".values", "values need to be a number or a list", ErrNonNumericValue)
	}
	return s, nil
}

func decodeConfig(m map[string]any, cfg *ChartConfig) error {
	lo, err := numberField(m, "min_value")
	if err != nil {
		return err
	}
	hi, err := numberField(m, "max_value")
	if err != nil {
		return err
	}
	cfg.Min, cfg.Max = lo, hi

	if err := intField(m, "steps", &cfg.Steps); err != nil {
		return err
	}
	if err := intField(m, "multiplier", &cfg.Multiplier); err != nil {
		return err
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"value_prefix", &cfg.Prefix},
		{"value_suffix", &cfg.Suffix},
		{"x_header", &cfg.XHeader},
		{"y_header", &cfg.YHeader},
		{"sort", &cfg.Sort},
	}
	for _, f := range strs {
		if *f.dst, err = stringField(m, f.key, ""); err != nil {
			return err
		}
	}
	switch cfg.Sort {
	case SortNone, SortAsc, SortDesc:
	default:
		return newValidationError("sort", fmt.Sprintf("unknown sort order %q", cfg.Sort), ErrInvalidFieldValue)
	}

	mode, err := stringField(m, "scale", "")
	if err != nil {
		return err
	}
	switch mode {
	case "":
	case "nice":
		cfg.ScaleMode = ScaleNice
	case "padded":
		cfg.ScaleMode = ScalePadded
	default:
		return newValidationError("scale", fmt.Sprintf("unknown scale mode %q", mode), ErrInvalidFieldValue)
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"sort_colours", &cfg.SortColors},
		{"fill", &cfg.Fill},
		{"flatten", &cfg.Flatten},
	}
	for _, f := range bools {
		v, ok := m[f.key]
		if !ok || v == nil {
			continue
		}
		b, ok := v.(bool)
		if !ok {
			return newValidationError(f.key, "expected a boolean", ErrInvalidFieldValue)
		}
		*f.dst = b
	}

	if cfg.Palette, err = colorList(m, "colours"); err != nil {
		return err
	}
	if cfg.Legends, err = stringList(m, "legends"); err != nil {
		return err
	}
	return nil
}

// sampleOf converts a decoded JSON value to a Sample. null is a missing sample.
func sampleOf(v any, field string) (Sample, error) {
	if v == nil {
		return Missing(), nil
	}
	n, ok := v.(json.Number)
	if !ok {
		return Sample{}, newValidationError(field, fmt.Sprintf("%v is not a number", v), ErrNonNumericValue)
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) {
		return Sample{}, newValidationError(field, fmt.Sprintf("%s is out of range", n), ErrNonNumericValue)
	}
	return Value(f), nil
}

func numberField(m map[string]any, key string) (*float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, err := sampleOf(v, key)
	if err != nil {
		return nil, err
	}
	return &s.Value, nil
}

// intField stores a whole-number field into dst, leaving dst alone when the
// field is absent.
func intField(m map[string]any, key string, dst *int) error {
	v, err := numberField(m, key)
	if err != nil || v == nil {
		return err
	}
	if *v != math.Trunc(*v) || math.Abs(*v) > math.MaxInt32 {
		return newValidationError(key, fmt.Sprintf("%v is not a whole number", *v), ErrInvalidFieldValue)
	}
	*dst = int(*v)
	return nil
}

func stringField(m map[string]any, key, prefix string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", newValidationError(joinField(prefix, key), "expected a string", ErrInvalidFieldValue)
	}
	return s, nil
}

// colorField reads "colour" or "color" as a packed 0xRRGGBB integer or a hex string.
func colorField(m map[string]any, prefix string) (*Color, error) {
	for _, key := range []string{"colour", "color"} {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		c, err := colorOf(v, joinField(prefix, key))
		if err != nil {
			return nil, err
		}
		return &c, nil
	}
	return nil, nil
}

func colorOf(v any, field string) (Color, error) {
	switch v := v.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil || n < 0 || n > 0xFFFFFF {
			return Color{}, newValidationError(field, fmt.Sprintf("%s is not a 24-bit color", v), ErrInvalidFieldValue)
		}
		return NewColor(int(n)), nil
	case string:
		c, err := ParseColor(v)
		if err != nil {
			return Color{}, newValidationError(field, err.Error(), ErrInvalidFieldValue)
		}
		return c, nil
	}
	return Color{}, newValidationError(field, "expected an integer or a hex string", ErrInvalidFieldValue)
}

func colorList(m map[string]any, key string) ([]Color, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, newValidationError(key, "expected a list", ErrInvalidFieldValue)
	}
	out := make([]Color, len(list))
	for i, item := range list {
		c, err := colorOf(item, fmt.Sprintf("%s.%d", key, i))
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func stringList(m map[string]any, key string) ([]string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, newValidationError(key, "expected a list", ErrInvalidFieldValue)
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, newValidationError(fmt.Sprintf("%s.%d", key, i), "expected a string", ErrInvalidFieldValue)
		}
		out[i] = s
	}
	return out, nil
}

func joinField(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return strings.Join([]string{prefix, key}, ".")
}
