package gochart

import (
	"fmt"
	"math"
)

// Tick count limits for requested scales.
const (
	minTickCount = 2
	maxTickCount = 100
)

// autoDivisions is the number of divisions the nice scale splits the data
// range into before rounding the step.
const autoDivisions = 7

// AxisScale describes a numeric axis. (Max-Min) is an integer multiple of
// Step and TickCount == round((Max-Min)/Step) + 1.
type AxisScale struct {
	Min       float64
	Max       float64
	Step      float64
	TickCount int
}

// Range returns Max-Min.
func (s AxisScale) Range() float64 { return s.Max - s.Min }

// Digits returns the number of decimals used in tick labels. It depends on
// the step magnitude only.
func (s AxisScale) Digits() int {
	if s.Step <= 0 || s.Step >= 1 {
		return 0
	}
	return int(math.Ceil(math.Abs(math.Log10(s.Step))))
}

// Tick returns the value of the i-th tick counted from the top (Max).
func (s AxisScale) Tick(i int) float64 {
	v := s.Max - float64(i)*s.Step
	if math.Abs(v) < math.Abs(s.Step)*1e-9 {
		return 0
	}
	return v
}

// Ticks returns every tick value from Max down to Min.
func (s AxisScale) Ticks() []float64 {
	out := make([]float64, s.TickCount)
	for i := range out {
		out[i] = s.Tick(i)
	}
	return out
}

// Label formats the i-th tick with the scale's precision.
func (s AxisScale) Label(i int, prefix, suffix string) string {
	return fmt.Sprintf("%s%.*f%s", prefix, s.Digits(), s.Tick(i), suffix)
}

// Position maps v to a fraction of the axis height measured from the top,
// clamped to [0, 1]. A zero range places every value in the middle.
func (s AxisScale) Position(v float64) float64 {
	r := s.Range()
	if r == 0 {
		return 0.5
	}
	return clampUnit((s.Max - v) / r)
}

// AutoScale derives a scale whose bounds are round multiples of a nice step.
// divisions is the nominal number of steps the data range is split into.
func AutoScale(samples []float64, divisions int) AxisScale {
	if divisions < 1 {
		divisions = autoDivisions
	}
	rawMin, rawMax := minMax(samples)

	if rawMax == rawMin {
		return degenerateScale(rawMax)
	}

	diff := rawMax - rawMin
	step0 := diff / float64(divisions)
	power := math.Pow(10, math.Ceil(math.Log10(step0)-1))
	step := math.Ceil(step0/power+1) * power

	lo := step * math.Floor(rawMin/step)
	if lo > rawMin {
		lo -= step
	}
	hi := step * math.Ceil((rawMax+1)/step)
	if hi < rawMax {
		hi += step
	}
	return newScale(lo, hi, step)
}

// PaddedScale splits the data range into (ticks-3) steps and adds one step
// of headroom on each side, so the scale always has exactly ticks ticks.
func PaddedScale(samples []float64, ticks int) AxisScale {
	rawMin, rawMax := minMax(samples)
	if rawMax == rawMin || ticks <= 3 {
		return AutoScale(samples, ticks-1)
	}
	step := (rawMax - rawMin) / float64(ticks-3)
	return AxisScale{
		Min:       rawMin - step,
		Max:       rawMax + step,
		Step:      step,
		TickCount: ticks,
	}
}

// FixedScale divides the explicit range [min, max] into steps equal parts.
func FixedScale(min, max float64, steps int) (AxisScale, error) {
	if err := checkTickCount(steps + 1); err != nil {
		return AxisScale{}, err
	}
	ticks := steps + 1
	if max < min {
		return AxisScale{}, newValidationError("max_value", "max_value is below min_value", ErrInvalidBounds)
	}
	return AxisScale{
		Min:       min,
		Max:       max,
		Step:      (max - min) / float64(ticks-1),
		TickCount: ticks,
	}, nil
}

// ComputeScale picks fixed or automatic scaling from cfg. The nice scale
// always splits the range into autoDivisions; Steps drives the fixed and
// padded scales.
func ComputeScale(samples []float64, cfg ChartConfig) (AxisScale, error) {
	if err := checkTickCount(cfg.TickCount()); err != nil {
		return AxisScale{}, err
	}
	if cfg.HasBounds() {
		return FixedScale(*cfg.Min, *cfg.Max, cfg.Steps)
	}
	if len(samples) == 0 {
		return AxisScale{}, newValidationError("values", "no samples to scale", ErrEmptyDataSet)
	}
	if cfg.ScaleMode == ScalePadded {
		return PaddedScale(samples, cfg.TickCount()), nil
	}
	return AutoScale(samples, autoDivisions), nil
}

// checkTickCount rejects tick counts outside [minTickCount, maxTickCount].
func checkTickCount(ticks int) error {
	switch {
	case ticks < minTickCount:
		return newValidationError("steps", fmt.Sprintf("tick count %d is below %d", ticks, minTickCount), ErrInvalidStepCount)
	case ticks > maxTickCount:
		return newValidationError("steps", fmt.Sprintf("tick count %d is above %d", ticks, maxTickCount), ErrInvalidStepCount)
	}
	return nil
}

// degenerateScale surrounds a single repeated value with one step on each side.
func degenerateScale(v float64) AxisScale {
	step := 1.0
	if v != 0 {
		step = math.Pow(10, math.Ceil(math.Log10(math.Abs(v))-1))
	}
	return newScale(v-step, v+step, step)
}

func newScale(lo, hi, step float64) AxisScale {
	return AxisScale{
		Min:       lo,
		Max:       hi,
		Step:      step,
		TickCount: int(math.Round((hi-lo)/step)) + 1,
	}
}

func minMax(samples []float64) (float64, float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	lo, hi := samples[0], samples[0]
	for _, v := range samples[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
