// Package frames turns a warhead dataset into the ordered sequence of
// per-year animation frames: cumulative trend lines, event callouts, the
// peak marker and collision-free country labels.
package frames

import (
	"math"
	"sort"
	"strconv"

	"github.com/banshee-data/warheads.report/internal/monitoring"
	"github.com/banshee-data/warheads.report/internal/warheads"
)

// Styling constants shared with the renderer.
const (
	DefaultHeadroom    = 1.05
	DefaultPeakTooltip = "Największa liczba głowic nuklearnych"

	LeaderBorder = "yellow"
	PlainBorder  = "black"
)

// Settings controls frame construction.
type Settings struct {
	MinLabelGap float64
	LabelStep   float64
	Headroom    float64 // multiple of the global maximum used for callout height
	PeakTooltip string
	Palette     warheads.Palette
}

// DefaultSettings returns the reference configuration.
func DefaultSettings() Settings {
	return Settings{
		MinLabelGap: DefaultMinLabelGap,
		LabelStep:   DefaultLabelStep,
		Headroom:    DefaultHeadroom,
		PeakTooltip: DefaultPeakTooltip,
		Palette:     warheads.DefaultPalette,
	}
}

// Point is one (year, value) sample of a trend line.
type Point struct {
	Year  int
	Value float64
}

// Line is the trend of one country up to and including a frame's year.
type Line struct {
	Country string
	Color   string
	Points  []Point
}

// Event is the callout drawn on an event year: a description box, a bold
// year label and a dashed reference line from 0 to Height.
type Event struct {
	Year        int
	Description string
	YearLabel   string
	Height      float64
}

// Peak marks the largest value of an event year.
type Peak struct {
	Year    int
	Country string
	Value   float64
	Tooltip string
}

// Label is a country's value callout. The arrow tail sits at (Year, Value)
// and the text is shifted up by Offset.
type Label struct {
	Country string
	Year    int
	Value   float64
	Offset  float64
	Color   string
	Border  string
}

// Position is the label's effective y position.
func (l Label) Position() float64 { return l.Value + l.Offset }

// Leader reports whether the label carries the highlight border.
func (l Label) Leader() bool { return l.Border == LeaderBorder }

// Frame is the immutable snapshot shown for one year.
type Frame struct {
	Year    int
	Records []warheads.Record // cumulative: every record with Year <= Year
	Lines   []Line
	Event   *Event
	Peak    *Peak
	Labels  []Label
}

// Stats summarises a build for run metrics.
type Stats struct {
	Frames       int
	EventFrames  int
	LabelsPlaced int
	OffsetSteps  int
}

// Builder constructs frames for a dataset.
type Builder struct {
	settings Settings
	events   warheads.EventSet
}

// NewBuilder creates a builder. Zero-valued settings fall back to defaults.
func NewBuilder(settings Settings, events warheads.EventSet) *Builder {
	def := DefaultSettings()
	if settings.MinLabelGap <= 0 {
		settings.MinLabelGap = def.MinLabelGap
	}
	if settings.LabelStep <= 0 {
		settings.LabelStep = def.LabelStep
	}
	if settings.Headroom <= 0 {
		settings.Headroom = def.Headroom
	}
	if settings.PeakTooltip == "" {
		settings.PeakTooltip = def.PeakTooltip
	}
	if len(settings.Palette) == 0 {
		settings.Palette = def.Palette
	}
	if events == nil {
		events = warheads.EventSet{}
	}
	return &Builder{settings: settings, events: events}
}

// Settings returns the effective settings.
func (b *Builder) Settings() Settings { return b.settings }

// Build returns one frame per distinct year in ascending order.
func (b *Builder) Build(ds *warheads.Dataset) ([]Frame, Stats) {
	height := ds.MaxWarheads() * b.settings.Headroom
	years := ds.Years()

	frames := make([]Frame, 0, len(years))
	var stats Stats
	for _, year := range years {
		f, steps := b.buildFrame(ds, year, height)
		frames = append(frames, f)

		stats.Frames++
		stats.LabelsPlaced += len(f.Labels)
		stats.OffsetSteps += steps
		if f.Event != nil {
			stats.EventFrames++
		}
	}

	monitoring.Stagef("frames", "built %d frames (%d with events, %d labels, %d offset steps)",
		stats.Frames, stats.EventFrames, stats.LabelsPlaced, stats.OffsetSteps)
	return frames, stats
}

func (b *Builder) buildFrame(ds *warheads.Dataset, year int, height float64) (Frame, int) {
	cumulative := ds.Through(year)
	current := warheads.ForYear(cumulative, year)

	f := Frame{
		Year:    year,
		Records: cumulative,
		Lines:   b.Lines(cumulative),
	}

	if text, ok := b.events[year]; ok {
		f.Event = &Event{
			Year:        year,
			Description: text,
			YearLabel:   strconv.Itoa(year),
			Height:      height,
		}
		if peak, ok := PeakOf(current, year, b.settings.PeakTooltip); ok {
			f.Peak = &peak
		}
	}

	var steps int
	f.Labels, steps = b.labels(cumulative, current, year)
	return f, steps
}

// Lines builds one trend line per country in records, in first-appearance
// order, carrying every point of that country in row order.
func (b *Builder) Lines(records []warheads.Record) []Line {
	countries := warheads.Countries(records)
	lines := make([]Line, 0, len(countries))
	for _, country := range countries {
		rows := warheads.ForCountry(records, country)
		points := make([]Point, len(rows))
		for i, r := range rows {
			points[i] = Point{Year: r.Year, Value: r.Warheads}
		}
		lines = append(lines, Line{
			Country: country,
			Color:   b.settings.Palette.Color(rows[0].Color),
			Points:  points,
		})
	}
	return lines
}

// PeakOf returns the marker for the largest value among records.
func PeakOf(records []warheads.Record, year int, tooltip string) (Peak, bool) {
	rec, ok := warheads.Largest(records)
	if !ok {
		return Peak{}, false
	}
	return Peak{Year: year, Country: rec.Country, Value: rec.Warheads, Tooltip: tooltip}, true
}

type labelCandidate struct {
	country string
	value   float64
	color   int
}

func (b *Builder) labels(cumulative, current []warheads.Record, year int) ([]Label, int) {
	// Last value per country at this year; color from the country's first row.
	var candidates []labelCandidate
	index := make(map[string]int)
	for _, r := range current {
		if i, ok := index[r.Country]; ok {
			candidates[i].value = r.Warheads
			continue
		}
		index[r.Country] = len(candidates)
		candidates = append(candidates, labelCandidate{
			country: r.Country,
			value:   r.Warheads,
			color:   warheads.ForCountry(cumulative, r.Country)[0].Color,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		vi, vj := candidates[i].value, candidates[j].value
		if math.IsNaN(vj) {
			return !math.IsNaN(vi)
		}
		return vi < vj
	})

	leader := ""
	if top, ok := warheads.Largest(current); ok && top.Warheads != 0 {
		leader = top.Country
	}

	values := make([]float64, len(candidates))
	for i, c := range candidates {
		values[i] = c.value
	}
	offsets, steps := PlaceOffsets(values, b.settings.MinLabelGap, b.settings.LabelStep)

	labels := make([]Label, 0, len(candidates))
	for i, c := range candidates {
		if math.IsNaN(c.value) {
			continue
		}
		border := PlainBorder
		if c.country == leader {
			border = LeaderBorder
		}
		labels = append(labels, Label{
			Country: c.country,
			Year:    year,
			Value:   c.value,
			Offset:  offsets[i],
			Color:   b.settings.Palette.Color(c.color),
			Border:  border,
		})
	}
	return labels, steps
}
