package render

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Tick schema defaults.
const (
	DefaultTickCount = 5
	DefaultTickRound = 100.0
)

// Ticks rounds max up to the next multiple of round and returns count evenly
// spaced values from 0 to that bound.
func Ticks(max float64, count int, round float64) []float64 {
	if count < 2 {
		count = DefaultTickCount
	}
	if round <= 0 {
		round = DefaultTickRound
	}
	top := 0.0
	if max > 0 && !math.IsInf(max, 0) {
		top = math.Ceil(max/round) * round
	}
	return floats.Span(make([]float64, count), 0, top)
}

// tickInterval is the spacing of an evenly spaced tick slice.
func tickInterval(ticks []float64) float64 {
	if len(ticks) < 2 {
		return 0
	}
	return ticks[1] - ticks[0]
}
