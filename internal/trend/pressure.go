package trend

import "math"

// steadyBandHPa is the dead band for the 3-hour pressure change:
// below 1 hPa of absolute change the pressure is considered steady.
const steadyBandHPa = 1.0

// PressureTendency implements the barometric 3-hour tendency: the
// difference between the newest and oldest sample in a sliding window
// sized to span three hours of observations.
//
// Not safe for concurrent use.
type PressureTendency struct {
	samples []float64
}

// NewPressureTendency creates a tendency analyzer over a window of
// sampleSize observations.
//
// Returns:
//   - *PressureTendency: Analyzer ready for use
//   - error: ErrSampleSize if sampleSize is not greater than 2
func NewPressureTendency(sampleSize int) (*PressureTendency, error) {
	if sampleSize <= 2 {
		return nil, ErrSampleSize
	}
	return &PressureTendency{
		samples: make([]float64, 0, sampleSize),
	}, nil
}

// Analyze appends a pressure sample (hPa) and classifies the tendency.
//
// While the window is filling it returns (CodeUnknown, NaN). Once
// full, change is the delta between the newest and oldest sample:
// within ±1 hPa the tendency is Steady, otherwise Rising or Falling by
// the sign of the change.
func (p *PressureTendency) Analyze(sample float64) (Code, float64) {
	if len(p.samples) < cap(p.samples) {
		p.samples = append(p.samples, sample)
	} else {
		copy(p.samples, p.samples[1:])
		p.samples[len(p.samples)-1] = sample
	}

	if len(p.samples) < cap(p.samples) {
		return CodeUnknown, math.NaN()
	}

	change := p.samples[len(p.samples)-1] - p.samples[0]

	switch {
	case math.Abs(change) < steadyBandHPa:
		return CodeSteady, change
	case change < 0:
		return CodeFalling, change
	default:
		return CodeRising, change
	}
}

// Reset purges the window; the analyzer trains again from scratch.
func (p *PressureTendency) Reset() {
	p.samples = p.samples[:0]
}
