package warheads

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEvents(t *testing.T) {
	events := DefaultEvents()

	assert.Len(t, events, 12)
	assert.True(t, events.Has(1945))
	assert.True(t, events.Has(2006))
	assert.False(t, events.Has(1946))
	assert.Equal(t, "Koniec zimnej wojny", events[1991])
	assert.Equal(t, "USA zrzuca\nbomby atomowe na\nHiroszimę i Nagasaki.", events[1945])
	assert.Equal(t, []int{1945, 1947, 1949, 1952, 1960, 1962, 1964, 1968, 1974, 1986, 1991, 2006}, events.Years())
}

func TestParseEvents(t *testing.T) {
	events, err := ParseEvents(map[string]string{
		"1945":   "First<br>line",
		" 1991 ": "Koniec zimnej wojny ",
	})
	require.NoError(t, err)

	assert.Equal(t, "First\nline", events[1945])
	assert.Equal(t, "Koniec zimnej wojny", events[1991])
}

func TestParseEvents_BadKey(t *testing.T) {
	_, err := ParseEvents(map[string]string{"nineteen": "x"})
	assert.Error(t, err)
}

func TestPalette_Color(t *testing.T) {
	assert.Equal(t, "#636efa", DefaultPalette.Color(0))
	assert.Equal(t, "#EF553B", DefaultPalette.Color(11))
	assert.Equal(t, "#EF553B", DefaultPalette.Color(-1))
	assert.Equal(t, "#ffffff", Palette(nil).Color(3))
	assert.Equal(t, "#FF97FF", DefaultPalette.Color(math.MinInt))
	assert.Equal(t, "#B6E880", DefaultPalette.Color(math.MaxInt))
}
