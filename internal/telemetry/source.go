package telemetry

import (
	"context"
	"math/rand"
	"time"

	"github.com/nbwx/wxcore/internal/station"
)

// Source produces weather observations on demand.
type Source interface {
	// Sample returns one observation. Implementations should respect
	// ctx for cancellation when sampling involves I/O.
	Sample(ctx context.Context) (station.Observation, error)
}

// Simulated sensor baselines and random-walk step bounds.
const (
	simBasePressureHPa  = 1013.25
	simBaseTemperatureC = 15.0
	simBaseHumidityPct  = 60.0

	simPressureStepHPa  = 0.4
	simTemperatureStepC = 0.3
	simHumidityStepPct  = 1.5

	simMinPressureHPa = 950.0
	simMaxPressureHPa = 1060.0
)

// SimulatedSource generates plausible observations with a seeded random
// walk. Useful for development and soak testing without sensor hardware.
type SimulatedSource struct {
	stationID string
	rng       *rand.Rand

	pressure    float64
	temperature float64
	humidity    float64
}

// NewSimulatedSource creates a simulated source for the given station.
// The same seed reproduces the same observation sequence.
func NewSimulatedSource(stationID string, seed int64) *SimulatedSource {
	return &SimulatedSource{
		stationID:   stationID,
		rng:         rand.New(rand.NewSource(seed)),
		pressure:    simBasePressureHPa,
		temperature: simBaseTemperatureC,
		humidity:    simBaseHumidityPct,
	}
}

// Sample advances the random walk and returns the next observation.
func (s *SimulatedSource) Sample(_ context.Context) (station.Observation, error) {
	s.pressure = clamp(s.pressure+s.step(simPressureStepHPa), simMinPressureHPa, simMaxPressureHPa)
	s.temperature += s.step(simTemperatureStepC)
	s.humidity = clamp(s.humidity+s.step(simHumidityStepPct), 0, 100)

	return station.Observation{
		StationID:    s.stationID,
		ObservedAt:   time.Now().UTC(),
		PressureHPa:  s.pressure,
		TemperatureC: s.temperature,
		HumidityPct:  s.humidity,
	}, nil
}

// step returns a uniform random delta in [-max, max].
func (s *SimulatedSource) step(max float64) float64 {
	return (s.rng.Float64()*2 - 1) * max
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
