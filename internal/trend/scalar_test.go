package trend

import (
	"errors"
	"math"
	"testing"
)

func TestNewScalar_SampleSizeTooSmall(t *testing.T) {
	for _, size := range []int{-1, 0, 1, 2} {
		if _, err := NewScalar(size); !errors.Is(err, ErrSampleSize) {
			t.Errorf("NewScalar(%d) error = %v, want ErrSampleSize", size, err)
		}
	}
}

func TestScalar_TrainingReturnsUnknown(t *testing.T) {
	s, err := NewScalar(6)
	if err != nil {
		t.Fatalf("NewScalar() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		if code := s.Analyze(1000.0 + float64(i)); code != CodeUnknown {
			t.Errorf("Analyze() sample %d = %v, want CodeUnknown while training", i, code)
		}
	}
}

func TestScalar_Rising(t *testing.T) {
	s, err := NewScalar(6)
	if err != nil {
		t.Fatalf("NewScalar() error = %v", err)
	}

	var code Code
	for i := 0; i < 6; i++ {
		code = s.Analyze(1000.0 + float64(i))
	}

	if code != CodeRising {
		t.Errorf("Analyze() = %v, want CodeRising for a monotonic ramp", code)
	}
}

func TestScalar_Falling(t *testing.T) {
	s, err := NewScalar(6)
	if err != nil {
		t.Fatalf("NewScalar() error = %v", err)
	}

	var code Code
	for i := 0; i < 6; i++ {
		code = s.Analyze(1000.0 - 0.5*float64(i))
	}

	if code != CodeFalling {
		t.Errorf("Analyze() = %v, want CodeFalling for a monotonic decline", code)
	}
}

func TestScalar_SteadyUnderNoise(t *testing.T) {
	s, err := NewScalar(6)
	if err != nil {
		t.Fatalf("NewScalar() error = %v", err)
	}

	// Alternating noise around a flat mean: the slope is not
	// statistically distinguishable from zero.
	samples := []float64{1000.1, 999.9, 1000.1, 999.9, 1000.1, 999.9}
	var code Code
	for _, v := range samples {
		code = s.Analyze(v)
	}

	if code != CodeSteady {
		t.Errorf("Analyze() = %v, want CodeSteady for flat noise", code)
	}
}

func TestScalar_SlidingWindow(t *testing.T) {
	s, err := NewScalar(3)
	if err != nil {
		t.Fatalf("NewScalar() error = %v", err)
	}

	// Fill with a decline, then keep feeding a rise: once the rising
	// samples dominate the window the code flips.
	for _, v := range []float64{1010, 1005, 1000} {
		s.Analyze(v)
	}
	var code Code
	for _, v := range []float64{1001, 1002, 1003} {
		code = s.Analyze(v)
	}

	if code != CodeRising {
		t.Errorf("Analyze() = %v, want CodeRising after window turned over", code)
	}
}

func TestScalar_Reset(t *testing.T) {
	s, err := NewScalar(3)
	if err != nil {
		t.Fatalf("NewScalar() error = %v", err)
	}

	for _, v := range []float64{1000, 1001, 1002} {
		s.Analyze(v)
	}
	s.Reset()

	if code := s.Analyze(1003); code != CodeUnknown {
		t.Errorf("Analyze() after Reset() = %v, want CodeUnknown", code)
	}
}

func TestCode_String(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CodeUnknown, "unknown"},
		{CodeRising, "rising"},
		{CodeSteady, "steady"},
		{CodeFalling, "falling"},
		{Code(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("Code(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestTInv_CriticalValue(t *testing.T) {
	// |invt(0.025, 4)| = 2.776 from tables; the approximation should
	// be within a few hundredths.
	got := math.Abs(tInv(0.025, 4))
	want := 2.776

	if diff := got - want; diff > 0.05 || diff < -0.05 {
		t.Errorf("|tInv(0.025, 4)| = %v, want about %v", got, want)
	}
}
