package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicks(t *testing.T) {
	tests := []struct {
		name  string
		max   float64
		count int
		round float64
		want  []float64
	}{
		{"scenario", 20, 5, 100, []float64{0, 25, 50, 75, 100}},
		{"exact hundred", 400, 5, 100, []float64{0, 100, 200, 300, 400}},
		{"rounds up", 1410, 5, 100, []float64{0, 375, 750, 1125, 1500}},
		{"zero max", 0, 5, 100, []float64{0, 0, 0, 0, 0}},
		{"defaults for bad input", 250, 0, 0, []float64{0, 75, 150, 225, 300}},
		{"custom count", 90, 3, 10, []float64{0, 45, 90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ticks(tt.max, tt.count, tt.round)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}
}

func TestTicks_EvenlySpaced(t *testing.T) {
	ticks := Ticks(987, 5, 100)

	assert.Len(t, ticks, 5)
	assert.Equal(t, 0.0, ticks[0])
	assert.Equal(t, 1000.0, ticks[4])
	step := tickInterval(ticks)
	for i := 1; i < len(ticks); i++ {
		assert.InDelta(t, step, ticks[i]-ticks[i-1], 1e-9)
	}
}
