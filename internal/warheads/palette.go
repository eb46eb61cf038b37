package warheads

// DefaultPalette is the dark-theme colorway the chart assigns by Color index.
var DefaultPalette = Palette{
	"#636efa", "#EF553B", "#00cc96", "#ab63fa", "#FFA15A",
	"#19d3f3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// Palette is an ordered list of CSS hex colors.
type Palette []string

// Color returns the entry for index, wrapping around the palette length.
// Negative indexes count from the start as their absolute value.
func (p Palette) Color(index int) string {
	if len(p) == 0 {
		return "#ffffff"
	}
	i := index % len(p)
	if i < 0 {
		i = -i
	}
	return p[i]
}
