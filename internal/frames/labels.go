package frames

import "math"

// Label placement defaults.
const (
	DefaultMinLabelGap = 30.0
	DefaultLabelStep   = 20.0
)

// PlaceOffsets assigns each value the smallest non-negative multiple of step
// such that value+offset is at least gap away from every position already
// placed. Values are placed in the order given, so callers sort ascending to
// let small values claim the low slots. NaN values get a NaN offset and do
// not take part. steps counts the total number of increments taken.
func PlaceOffsets(values []float64, gap, step float64) (offsets []float64, steps int) {
	if step <= 0 {
		step = DefaultLabelStep
	}
	offsets = make([]float64, len(values))
	placed := make([]float64, 0, len(values))

	for i, v := range values {
		if math.IsNaN(v) {
			offsets[i] = math.NaN()
			continue
		}
		offset := 0.0
		for collides(v+offset, placed, gap) {
			offset += step
			steps++
		}
		placed = append(placed, v+offset)
		offsets[i] = offset
	}
	return offsets, steps
}

func collides(pos float64, placed []float64, gap float64) bool {
	for _, p := range placed {
		if math.Abs(pos-p) < gap {
			return true
		}
	}
	return false
}
