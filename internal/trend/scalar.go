package trend

import (
	"errors"
	"math"
)

// Code classifies the direction of a sampled quantity.
type Code int

const (
	CodeUnknown Code = iota + 1
	CodeRising
	CodeSteady
	CodeFalling
)

// String returns the human-readable code used in payloads and logs.
func (c Code) String() string {
	switch c {
	case CodeRising:
		return "rising"
	case CodeSteady:
		return "steady"
	case CodeFalling:
		return "falling"
	default:
		return "unknown"
	}
}

// ErrSampleSize is returned when an analyzer window is too small to
// carry the regression's n-2 degrees of freedom.
var ErrSampleSize = errors.New("trend: sample size must be greater than 2")

// significance is the α level for the slope hypothesis test.
const significance = 0.05

// Scalar detects a statistically significant rise or fall in a sampled
// quantity over a sliding window.
//
// A least-squares line is fitted over the window and the slope tested
// against H0: β₁ = 0 with a two-tailed t-test. The critical t value is
// computed once at construction from the window size.
//
// Not safe for concurrent use.
type Scalar struct {
	criticalT float64
	samples   []float64
	count     int
}

// NewScalar creates a Scalar analyzer over a window of sampleSize
// observations.
//
// Parameters:
//   - sampleSize: Window length; must be greater than 2
//
// Returns:
//   - *Scalar: Analyzer ready for use
//   - error: ErrSampleSize if the window is too small
func NewScalar(sampleSize int) (*Scalar, error) {
	if sampleSize <= 2 {
		return nil, ErrSampleSize
	}

	return &Scalar{
		criticalT: math.Abs(tInv(significance/2, float64(sampleSize-2))),
		samples:   make([]float64, 0, sampleSize),
	}, nil
}

// Analyze appends a sample to the window and classifies the trend.
//
// It returns CodeUnknown while the window is still filling. Once full,
// the oldest sample is evicted, the regression slope is tested, and
// the result is CodeRising or CodeFalling when the slope is
// statistically non-zero, CodeSteady otherwise.
func (s *Scalar) Analyze(sample float64) Code {
	if len(s.samples) < cap(s.samples) {
		s.samples = append(s.samples, sample)
	} else {
		copy(s.samples, s.samples[1:])
		s.samples[len(s.samples)-1] = sample
	}
	s.count++

	if len(s.samples) < cap(s.samples) {
		return CodeUnknown
	}

	slope, tObserved := slopeTest(s.samples)

	if tObserved > s.criticalT {
		if slope < 0 {
			return CodeFalling
		}
		return CodeRising
	}

	return CodeSteady
}

// Reset purges the window; the analyzer trains again from scratch.
func (s *Scalar) Reset() {
	s.samples = s.samples[:0]
	s.count = 0
}

// slopeTest fits a least-squares line through the samples (x = index)
// and returns the slope together with |tObserved| for H0: β₁ = 0.
func slopeTest(samples []float64) (slope, tObserved float64) {
	n := float64(len(samples))

	var sumX, sumXX, sumY, sumXY float64
	for i, y := range samples {
		x := float64(i)
		sumX += x
		sumXX += x * x
		sumY += y
		sumXY += x * y
	}

	slope = (sumX*sumY - n*sumXY) / (sumX*sumX - n*sumXX)
	intercept := (sumY - slope*sumX) / n

	var sse float64
	for i, y := range samples {
		residual := y - (intercept + slope*float64(i))
		sse += residual * residual
	}

	// tObserved = b₁ / s_b₁ with s_b₁ from the residual variance.
	tObserved = math.Abs(slope / (math.Sqrt(sse/(n-2)) / math.Sqrt(sumXX-sumX*sumX/n)))
	return slope, tObserved
}

// qInv approximates the inverse of the standard normal distribution by
// probability, using the Abramowitz-Stegun rational approximation.
func qInv(x float64) float64 {
	c := [4]float64{2.515517, 0.802853, 0.010328, 0.0}
	d := [4]float64{1.0, 1.432788, 0.189269, 0.001308}

	xa := x
	if xa <= 0 {
		xa = 0.0001
	} else if xa >= 1 {
		xa = 0.9999
	}

	var tempo float64
	if xa < 0.5 {
		tempo = math.Sqrt(math.Log(1 / (xa * xa)))
	} else {
		tempo = math.Sqrt(math.Log(1 / ((1 - xa) * (1 - xa))))
	}

	var sum1, sum2 float64
	xp := 1.0
	for i := 0; i < 4; i++ {
		sum1 += c[i] * xp
		sum2 += d[i] * xp
		xp *= tempo
	}

	result := tempo - sum1/sum2
	if xa > 0.5 {
		return -result
	}
	return result
}

// tInv approximates the left-tailed inverse Student's t-distribution
// for probability x and df degrees of freedom, by series expansion
// around the normal quantile.
func tInv(x, df float64) float64 {
	xa := x
	if xa <= 0 {
		xa = 0.0001
	} else if xa >= 1 {
		xa = 0.9999
	}

	xq := qInv(xa)

	var pwr [10]float64
	pwr[1] = xq
	for i := 2; i <= 9; i++ {
		pwr[i] = pwr[i-1] * xq
	}

	var term [5]float64
	term[1] = 0.25 * (pwr[3] + pwr[1])
	term[2] = (5*pwr[5] + 16*pwr[3] + 3*pwr[1]) / 96
	term[3] = (3*pwr[7] + 19*pwr[7] + 17*pwr[3] - 15*pwr[1]) / 384
	term[4] = (79*pwr[9] + 776*pwr[7] + 1482*pwr[5] - 1920*pwr[3] - 945*pwr[1]) / 92160.0

	sum := xq
	xp := 1.0
	for i := 1; i <= 4; i++ {
		xp *= df
		sum += term[i] / xp
	}
	return sum
}
