// Package trend classifies the short-term direction of a sampled
// meteorological quantity.
//
// Two analyzers are provided:
//
//   - Scalar fits a least-squares regression line over a sliding
//     sample window and runs a two-tailed hypothesis test on the slope
//     (α = 0.05). A trend is only reported when the data statistically
//     supports a non-zero slope; otherwise the quantity is Steady.
//   - PressureTendency implements the classic barometric 3-hour
//     tendency: newest sample minus oldest, with a 1 hPa dead band.
//
// Both report Unknown until their window has filled (the training
// period). Analyzers are not safe for concurrent use; the telemetry
// loop feeds them from a single goroutine.
package trend
