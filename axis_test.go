package gochart

import (
	"errors"
	"math"
	"testing"
)

// nearlyEqual compares two floats with a tolerance relative to their magnitude.
func nearlyEqual(a, b float64) bool {
	const eps = 1e-9
	diff := math.Abs(a - b)
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return diff <= eps*scale
}

func TestAutoScale_TwoBars(t *testing.T) {
	s := AutoScale([]float64{10, 20}, 7)
	if s.Min >= 10 || s.Max <= 20 {
		t.Errorf("expected bounds to enclose [10, 20], got [%v, %v]", s.Min, s.Max)
	}
	if s.Step != 3 {
		t.Errorf("expected step 3, got %v", s.Step)
	}
	if s.Min != 9 || s.Max != 21 {
		t.Errorf("expected [9, 21], got [%v, %v]", s.Min, s.Max)
	}
	if s.TickCount != 5 {
		t.Errorf("expected 5 ticks, got %d", s.TickCount)
	}
}

func TestAutoScale_AllEqual(t *testing.T) {
	s := AutoScale([]float64{5, 5, 5}, 7)
	if s.Min != 4 || s.Max != 6 || s.Step != 1 {
		t.Errorf("expected {4 6 1}, got {%v %v %v}", s.Min, s.Max, s.Step)
	}
	if s.TickCount != 3 {
		t.Errorf("expected 3 ticks, got %d", s.TickCount)
	}
}

func TestAutoScale_AllZero(t *testing.T) {
	s := AutoScale([]float64{0, 0}, 7)
	if s.Min != -1 || s.Max != 1 || s.Step != 1 {
		t.Errorf("expected {-1 1 1}, got {%v %v %v}", s.Min, s.Max, s.Step)
	}
	if s.Position(0) != 0.5 {
		t.Errorf("expected zero to sit in the middle, got %v", s.Position(0))
	}
}

func TestAutoScale_Invariants(t *testing.T) {
	cases := [][]float64{
		{10, 20},
		{-5, 3},
		{0.1, 0.35},
		{1000, 1001},
		{-250, -10},
		{0, 1e6},
		{42},
		{-0.003, 0.002},
		{7, 7, 7},
	}
	for _, samples := range cases {
		s := AutoScale(samples, 7)
		lo, hi := minMax(samples)
		if s.Min > lo || s.Max < hi {
			t.Errorf("%v: scale [%v, %v] does not enclose [%v, %v]", samples, s.Min, s.Max, lo, hi)
		}
		if s.Step <= 0 {
			t.Errorf("%v: expected positive step, got %v", samples, s.Step)
			continue
		}
		if s.TickCount < 2 {
			t.Errorf("%v: expected at least 2 ticks, got %d", samples, s.TickCount)
		}
		steps := s.Range() / s.Step
		if !nearlyEqual(steps, math.Round(steps)) {
			t.Errorf("%v: range %v is not a multiple of step %v", samples, s.Range(), s.Step)
		}
		if got := int(math.Round(steps)) + 1; got != s.TickCount {
			t.Errorf("%v: tick count %d does not match range/step+1 = %d", samples, s.TickCount, got)
		}
	}
}

func TestComputeScale_Padded(t *testing.T) {
	cfg := DefaultChartConfig()
	cfg.ScaleMode = ScalePadded
	s, err := ComputeScale([]float64{10, 20}, cfg)
	if err != nil {
		t.Fatalf("ComputeScale: %v", err)
	}
	if s.Min != 8 || s.Max != 22 {
		t.Errorf("expected [8, 22], got [%v, %v]", s.Min, s.Max)
	}
	if s.TickCount != 8 {
		t.Errorf("expected the default 8 ticks, got %d", s.TickCount)
	}
}

func TestComputeScale_Fixed(t *testing.T) {
	cfg := DefaultChartConfig()
	cfg.Steps = 4
	cfg.SetBounds(0, 100)
	s, err := ComputeScale([]float64{10, 20}, cfg)
	if err != nil {
		t.Fatalf("ComputeScale: %v", err)
	}
	if s.Step != 25 || s.TickCount != 5 {
		t.Errorf("expected step 25 with 5 ticks, got step %v with %d", s.Step, s.TickCount)
	}
	want := []float64{100, 75, 50, 25, 0}
	for i, v := range s.Ticks() {
		if v != want[i] {
			t.Errorf("tick %d: expected %v, got %v", i, want[i], v)
		}
	}
}

func TestComputeScale_Errors(t *testing.T) {
	cfg := DefaultChartConfig()
	cfg.Steps = 0
	if _, err := ComputeScale([]float64{1, 2}, cfg); !errors.Is(err, ErrInvalidStepCount) {
		t.Errorf("expected ErrInvalidStepCount, got %v", err)
	}

	cfg = DefaultChartConfig()
	if _, err := ComputeScale(nil, cfg); !errors.Is(err, ErrEmptyDataSet) {
		t.Errorf("expected ErrEmptyDataSet, got %v", err)
	}

	cfg.SetBounds(10, 0)
	if _, err := ComputeScale([]float64{1}, cfg); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("expected ErrInvalidBounds, got %v", err)
	}
}

func TestAxisScale_Labels(t *testing.T) {
	s := AxisScale{Min: 0, Max: 2, Step: 0.5, TickCount: 5}
	if d := s.Digits(); d != 1 {
		t.Errorf("expected 1 digit, got %d", d)
	}
	if got := s.Label(1, "$", "k"); got != "$1.5k" {
		t.Errorf("expected $1.5k, got %q", got)
	}
	if got := s.Label(4, "", ""); got != "0.0" {
		t.Errorf("expected 0.0, got %q", got)
	}

	if d := (AxisScale{Step: 0.05}).Digits(); d != 2 {
		t.Errorf("expected 2 digits for step 0.05, got %d", d)
	}
	if d := (AxisScale{Step: 3}).Digits(); d != 0 {
		t.Errorf("expected 0 digits for step 3, got %d", d)
	}
}

func TestAxisScale_Position(t *testing.T) {
	s := AxisScale{Min: 0, Max: 10, Step: 1, TickCount: 11}
	cases := []struct {
		v, want float64
	}{
		{10, 0},
		{0, 1},
		{5, 0.5},
		{20, 0},
		{-5, 1},
	}
	for _, c := range cases {
		if got := s.Position(c.v); got != c.want {
			t.Errorf("Position(%v): expected %v, got %v", c.v, c.want, got)
		}
	}
}

func TestComputeScale_DefaultTwoBars(t *testing.T) {
	s, err := ComputeScale([]float64{10, 20}, DefaultChartConfig())
	if err != nil {
		t.Fatalf("ComputeScale: %v", err)
	}
	if s.Min >= 10 || s.Max <= 20 {
		t.Errorf("expected bounds to enclose [10, 20], got [%v, %v]", s.Min, s.Max)
	}
	if s.TickCount != DefaultChartConfig().TickCount() {
		t.Errorf("expected the default %d ticks, got %d", DefaultChartConfig().TickCount(), s.TickCount)
	}
}

func TestComputeScale_NiceIgnoresSteps(t *testing.T) {
	cfg := DefaultChartConfig()
	cfg.ScaleMode = ScaleNice
	cfg.Steps = 90
	s, err := ComputeScale([]float64{10, 20}, cfg)
	if err != nil {
		t.Fatalf("ComputeScale: %v", err)
	}
	if s != AutoScale([]float64{10, 20}, 7) {
		t.Errorf("expected the nice scale to split the range into 7, got %+v", s)
	}
}

func TestComputeScale_TooManyTicks(t *testing.T) {
	cfg := DefaultChartConfig()
	cfg.Steps = maxTickCount
	if _, err := ComputeScale([]float64{1, 2}, cfg); !errors.Is(err, ErrInvalidStepCount) {
		t.Errorf("expected ErrInvalidStepCount, got %v", err)
	}
	if _, err := FixedScale(0, 1, 300000); !errors.Is(err, ErrInvalidStepCount) {
		t.Errorf("expected ErrInvalidStepCount from FixedScale, got %v", err)
	}

	cfg.Steps = maxTickCount - 1
	s, err := ComputeScale([]float64{1, 2}, cfg)
	if err != nil {
		t.Fatalf("ComputeScale at the limit: %v", err)
	}
	if s.TickCount != maxTickCount {
		t.Errorf("expected %d ticks, got %d", maxTickCount, s.TickCount)
	}
}
