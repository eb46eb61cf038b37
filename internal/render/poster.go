package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/warheads.report/internal/frames"
	"github.com/banshee-data/warheads.report/internal/monitoring"
	"github.com/banshee-data/warheads.report/internal/warheads"
)

// Poster dimensions.
const (
	PosterWidth  = 12 * vg.Inch
	PosterHeight = 7 * vg.Inch
)

var (
	posterBackground = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
	posterForeground = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	posterMarker     = color.RGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff}
)

// Poster renders the last frame as a static PNG: every trend line, a dashed
// reference line per event year and the placed country labels.
func (r *Renderer) Poster(ds *warheads.Dataset, fr []frames.Frame, events warheads.EventSet) ([]byte, error) {
	if ds == nil || ds.Len() == 0 || len(fr) == 0 {
		return nil, fmt.Errorf("nothing to render")
	}
	s := r.settings
	last := fr[len(fr)-1]

	minYear, maxYear := ds.YearRange()
	maxValue := ds.MaxWarheads()
	ticks := Ticks(maxValue, s.TickCount, s.TickRound)

	p := plot.New()
	p.Title.Text = s.Title
	p.Title.TextStyle.Color = posterForeground
	p.BackgroundColor = posterBackground

	p.X.Min = float64(minYear)
	p.X.Max = float64(maxYear)
	if p.X.Max <= p.X.Min {
		p.X.Max = p.X.Min + 1
	}
	p.X.Color = posterForeground
	p.X.Tick.Marker = plot.ConstantTicks(nil)

	p.Y.Min = 0
	p.Y.Max = maxValue * s.Headroom
	if p.Y.Max <= 0 {
		p.Y.Max = 1
	}
	p.Y.Color = posterForeground
	p.Y.Tick.Color = posterForeground
	p.Y.Tick.Label.Color = posterForeground
	marks := make([]plot.Tick, len(ticks))
	for i, v := range ticks {
		marks[i] = plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(marks)

	for _, year := range events.Years() {
		if year < minYear || year > maxYear {
			continue
		}
		ref, err := plotter.NewLine(plotter.XYs{{X: float64(year), Y: 0}, {X: float64(year), Y: p.Y.Max}})
		if err != nil {
			return nil, fmt.Errorf("event line %d: %w", year, err)
		}
		ref.Color = posterMarker
		ref.Width = vg.Points(1)
		ref.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(ref)
	}

	for _, l := range last.Lines {
		pts := make(plotter.XYs, 0, len(l.Points))
		for _, pt := range l.Points {
			if math.IsNaN(pt.Value) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(pt.Year), Y: pt.Value})
		}
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", l.Country, err)
		}
		c := hexColor(l.Color)
		line.Color = c
		line.Width = vg.Points(2)
		points.Color = c
		points.Radius = vg.Points(2)
		p.Add(line, points)
	}

	if len(last.Labels) > 0 {
		xys := make(plotter.XYs, len(last.Labels))
		texts := make([]string, len(last.Labels))
		for i, l := range last.Labels {
			xys[i] = plotter.XY{X: float64(l.Year), Y: l.Position()}
			texts[i] = l.Country
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return nil, fmt.Errorf("labels: %w", err)
		}
		for i, l := range last.Labels {
			labels.TextStyle[i].Color = hexColor(l.Color)
		}
		labels.Offset = vg.Point{X: vg.Points(6)}
		p.Add(labels)
	}

	w, err := p.WriterTo(PosterWidth, PosterHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create poster canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode poster: %w", err)
	}

	monitoring.Stagef("render", "poster for %d: %d lines, %d labels, %d bytes", last.Year, len(last.Lines), len(last.Labels), buf.Len())
	return buf.Bytes(), nil
}

// hexColor parses #rgb or #rrggbb, returning white for anything else.
func hexColor(s string) color.Color {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.White
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.White
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
