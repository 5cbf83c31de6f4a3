package gochart

import (
	"fmt"
	"math"
)

// minRadarAxes is the smallest number of categories a radar chart accepts.
const minRadarAxes = 5

// Validate checks series and cfg for the given chart kind and returns the
// first problem found as a *ValidationError, or nil if rendering can proceed.
// A nil images store resolves no icon, so any icon reference is rejected.
func Validate(kind ChartKind, series []DataSeries, cfg ChartConfig, images *ImageStore) error {
	if len(series) == 0 {
		return newValidationError(seriesField(kind), "no series given", ErrEmptyDataSet)
	}
	if err := checkTickCount(cfg.TickCount()); err != nil {
		return err
	}
	if kind == ChartRadar && len(series) < minRadarAxes {
		return newValidationError(seriesField(kind),
			fmt.Sprintf("%d categories given, at least %d required", len(series), minRadarAxes), ErrTooFewRadarAxes)
	}

	present := 0
	for i, s := range series {
		prefix := fmt.Sprintf("%s.%d", seriesField(kind), i)
		if err := validateSeries(kind, s, prefix); err != nil {
			return err
		}
		for _, v := range s.Values {
			if v.Valid {
				present++
			}
		}
		if s.Icon != "" && (images == nil || !images.Has(s.Icon)) {
			return newValidationError(prefix+".icon", fmt.Sprintf("asset %q not found", s.Icon), ErrUnknownAsset)
		}
	}
	if present == 0 {
		return newValidationError(seriesField(kind), "every sample is missing", ErrEmptyDataSet)
	}

	if cfg.HasBounds() && *cfg.Max < *cfg.Min {
		return newValidationError("max_value", "max_value is below min_value", ErrInvalidBounds)
	}
	return nil
}

func validateSeries(kind ChartKind, s DataSeries, prefix string) error {
	if s.Name == "" && kind != ChartRadar {
		return newValidationError(prefix+".name", "name is required", ErrMissingRequiredField)
	}
	if len(s.Values) == 0 {
		return newValidationError(prefix+valuesField(kind), "value is required", ErrMissingRequiredField)
	}
	if kind == ChartBar && !s.Values[0].Valid {
		return newValidationError(prefix+".value", "value is required", ErrMissingRequiredField)
	}
	for j, v := range s.Values {
		if v.Valid && (math.IsNaN(v.Value) || math.IsInf(v.Value, 0)) {
			return newValidationError(fmt.Sprintf("%s%s.%d", prefix, valuesField(kind), j),
				"value is not a finite number", ErrNonNumericValue)
		}
	}
	return nil
}

// seriesField names the request field that carries the series for kind.
func seriesField(kind ChartKind) string {
	switch kind {
	case ChartBar:
		return "bars"
	case ChartRadar:
		return "data"
	default:
		return "series"
	}
}

func valuesField(kind ChartKind) string {
	if kind == ChartBar {
		return ".value"
	}
	return ".values"
}
