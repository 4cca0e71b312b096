package trial

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RPM returns |speed| converted from rad/s to revolutions per minute.
func RPM(speed []float64) []float64 {
	out := make([]float64, len(speed))
	for i, v := range speed {
		out[i] = math.Abs(v) * 60 / (2 * math.Pi)
	}
	return out
}

// RevPerSec converts a signed angular speed from rad/s to rev/s.
func RevPerSec(speed []float64) []float64 {
	out := make([]float64, len(speed))
	for i, v := range speed {
		out[i] = v / (2 * math.Pi)
	}
	return out
}

// Abs returns the elementwise absolute value of x.
func Abs(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Abs(v)
	}
	return out
}

// Max returns the largest sample of x. It panics if x is empty; trials are
// validated before any derivation runs.
func Max(x []float64) float64 {
	return floats.Max(x)
}
