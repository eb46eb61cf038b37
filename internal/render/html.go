// Package render turns built frames into the animated HTML document and the
// optional static poster.
package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"

	"github.com/banshee-data/warheads.report/internal/frames"
	"github.com/banshee-data/warheads.report/internal/monitoring"
	"github.com/banshee-data/warheads.report/internal/warheads"
)

// Document defaults.
const (
	DefaultTitle            = "Liczba głowic jądrowych w czasie według kraju (bez Rosji i USA)"
	DefaultTheme            = "dark"
	DefaultFontFamily       = "Courier New"
	DefaultWidth            = "1200px"
	DefaultHeight           = "700px"
	DefaultAssetsHost       = "https://go-echarts.github.io/go-echarts-assets/assets/"
	DefaultRightMargin      = 200
	DefaultFrameMillis      = 1000
	DefaultEventFrameMillis = 3000
	DefaultTransitionMillis = 500
	DefaultPlayLabel        = "Odtwórz"
	DefaultPauseLabel       = "Pauza"
)

// Settings controls the HTML document.
type Settings struct {
	Title      string
	PageTitle  string
	Theme      string
	FontFamily string
	Width      string
	Height     string
	AssetsHost string

	RightMargin int
	Headroom    float64
	TickCount   int
	TickRound   float64

	FrameMillis      int
	EventFrameMillis int
	TransitionMillis int

	PlayLabel  string
	PauseLabel string
}

// DefaultSettings returns the reference document layout.
func DefaultSettings() Settings {
	return Settings{
		Title:            DefaultTitle,
		PageTitle:        DefaultTitle,
		Theme:            DefaultTheme,
		FontFamily:       DefaultFontFamily,
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		AssetsHost:       DefaultAssetsHost,
		RightMargin:      DefaultRightMargin,
		Headroom:         frames.DefaultHeadroom,
		TickCount:        DefaultTickCount,
		TickRound:        DefaultTickRound,
		FrameMillis:      DefaultFrameMillis,
		EventFrameMillis: DefaultEventFrameMillis,
		TransitionMillis: DefaultTransitionMillis,
		PlayLabel:        DefaultPlayLabel,
		PauseLabel:       DefaultPauseLabel,
	}
}

func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.Title == "" {
		s.Title = def.Title
	}
	if s.PageTitle == "" {
		s.PageTitle = s.Title
	}
	if s.Theme == "" {
		s.Theme = def.Theme
	}
	if s.FontFamily == "" {
		s.FontFamily = def.FontFamily
	}
	if s.Width == "" {
		s.Width = def.Width
	}
	if s.Height == "" {
		s.Height = def.Height
	}
	if s.AssetsHost == "" {
		s.AssetsHost = def.AssetsHost
	}
	if s.RightMargin <= 0 {
		s.RightMargin = def.RightMargin
	}
	if s.Headroom <= 0 {
		s.Headroom = def.Headroom
	}
	if s.TickCount < 2 {
		s.TickCount = def.TickCount
	}
	if s.TickRound <= 0 {
		s.TickRound = def.TickRound
	}
	if s.FrameMillis <= 0 {
		s.FrameMillis = def.FrameMillis
	}
	if s.EventFrameMillis <= 0 {
		s.EventFrameMillis = def.EventFrameMillis
	}
	if s.TransitionMillis < 0 {
		s.TransitionMillis = def.TransitionMillis
	}
	if s.PlayLabel == "" {
		s.PlayLabel = def.PlayLabel
	}
	if s.PauseLabel == "" {
		s.PauseLabel = def.PauseLabel
	}
	return s
}

//go:embed player.js.tmpl
var playerSource string

var playerTemplate = template.Must(template.New("player").Delims("{%", "%}").Parse(playerSource))

// Renderer produces the animated document.
type Renderer struct {
	settings Settings
}

// NewRenderer creates a renderer. Zero-valued settings fall back to defaults.
func NewRenderer(settings Settings) *Renderer {
	return &Renderer{settings: settings.withDefaults()}
}

// Settings returns the effective settings.
func (r *Renderer) Settings() Settings { return r.settings }

// Document renders frames into a self-contained HTML page. The seed traces
// come from the first frame; the player swaps in later frames on demand.
func (r *Renderer) Document(ds *warheads.Dataset, fr []frames.Frame, events warheads.EventSet) ([]byte, error) {
	if ds == nil || ds.Len() == 0 || len(fr) == 0 {
		return nil, fmt.Errorf("nothing to render")
	}
	s := r.settings

	payloads := make([]framePayload, len(fr))
	for i, f := range fr {
		payloads[i] = payloadFor(f)
	}
	framesJSON, err := json.Marshal(payloads)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frames: %w", err)
	}
	stepsJSON, err := json.Marshal(r.steps(fr, events))
	if err != nil {
		return nil, fmt.Errorf("failed to encode steps: %w", err)
	}

	minYear, maxYear := ds.YearRange()
	maxValue := ds.MaxWarheads()
	ticks := Ticks(maxValue, s.TickCount, s.TickRound)

	// The first frame holds exactly the countries reported in the first year.
	first := fr[0]
	seedLines := first.Lines
	var seedPeak *frames.Peak
	if text, ok := events[first.Year]; ok && first.Peak != nil {
		p := *first.Peak
		p.Tooltip = text
		seedPeak = &p
	}

	layoutJSON, err := json.Marshal(r.layout(float64(minYear), float64(maxYear), maxValue, ticks, seedLines, seedPeak))
	if err != nil {
		return nil, fmt.Errorf("failed to encode layout: %w", err)
	}

	chartID := ChartID(framesJSON, stepsJSON, layoutJSON)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  s.PageTitle,
			Theme:      s.Theme,
			Width:      s.Width,
			Height:     s.Height,
			AssetsHost: s.AssetsHost,
			ChartID:    chartID,
		}),
		charts.WithTitleOpts(opts.Title{Title: s.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: minYear, Max: maxYear}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: 0, Max: maxValue * s.Headroom}),
	)

	for _, l := range seedLines {
		data := make([]opts.LineData, len(l.Points))
		for i, p := range l.Points {
			data[i] = opts.LineData{Value: []interface{}{p.Year, seedValue(p.Value)}}
		}
		line.AddSeries(l.Country, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: l.Color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: l.Color, Width: 2}),
		)
	}

	if seedPeak != nil {
		peak := charts.NewScatter()
		peak.AddSeries(seedPeak.Country, []opts.ScatterData{{
			Value:      []interface{}{seedPeak.Year, seedPeak.Value},
			Symbol:     "diamond",
			SymbolSize: 10,
		}}, charts.WithItemStyleOpts(opts.ItemStyle{Color: markerColor}))
		line.Overlap(peak)
	}

	var js bytes.Buffer
	err = playerTemplate.Execute(&js, map[string]string{
		"ChartID":    quote(chartID),
		"Frames":     string(framesJSON),
		"Steps":      string(stepsJSON),
		"Layout":     string(layoutJSON),
		"Transition": fmt.Sprint(s.TransitionMillis),
		"Font":       quote(s.FontFamily),
		"ArrowColor": quote(arrowColor),
		"PlayLabel":  quote(s.PlayLabel),
		"PauseLabel": quote(s.PauseLabel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render player: %w", err)
	}
	line.AddJSFuncs(js.String())

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	monitoring.Stagef("render", "rendered %d frames into %d bytes (chart %s)", len(fr), buf.Len(), chartID)
	return buf.Bytes(), nil
}

func (r *Renderer) steps(fr []frames.Frame, events warheads.EventSet) []step {
	out := make([]step, len(fr))
	for i, f := range fr {
		d := r.settings.FrameMillis
		if events.Has(f.Year) {
			d = r.settings.EventFrameMillis
		}
		out[i] = step{Label: fmt.Sprint(f.Year), Duration: d}
	}
	return out
}

func (r *Renderer) layout(minYear, maxYear, maxValue float64, ticks []float64, seed []frames.Line, peak *frames.Peak) layoutPatch {
	s := r.settings

	series := make([]seedPatch, 0, len(seed)+1)
	for range seed {
		series = append(series, seedPatch{Tooltip: &tooltipOption{Formatter: hoverTemplate}})
	}
	if peak != nil {
		series = append(series, seedPatch{Tooltip: &tooltipOption{Formatter: peak.Tooltip}})
	}

	return layoutPatch{
		TextStyle: map[string]string{"fontFamily": s.FontFamily},
		Title: titlePatch{
			Left:      "center",
			Top:       20,
			TextStyle: map[string]interface{}{"fontFamily": s.FontFamily, "fontSize": 18},
		},
		Grid: gridPatch{Left: 70, Right: s.RightMargin, Top: 90, Bottom: 60},
		XAxis: axisPatch{
			Min:       floatPtr(minYear),
			Max:       floatPtr(maxYear),
			AxisLabel: &axisLabel{Show: false},
			SplitLine: &toggle{Show: false},
			AxisTick:  &toggle{Show: false},
		},
		YAxis: axisPatch{
			Min:       floatPtr(0),
			Max:       floatPtr(maxValue * s.Headroom),
			Interval:  tickInterval(ticks),
			AxisLabel: &axisLabel{Show: true, ShowMaxLabel: false},
			SplitLine: &toggle{Show: false},
		},
		Series:                  series,
		AnimationDurationUpdate: s.TransitionMillis,
		AnimationEasingUpdate:   "cubicInOut",
	}
}

// ChartID derives a stable DOM id from the document payload. Hyphens are
// dropped since go-echarts also uses the id in JavaScript identifiers.
func ChartID(parts ...[]byte) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, bytes.Join(parts, []byte{0}))
	return "warheads" + strings.ReplaceAll(id.String(), "-", "")
}

func seedValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return v
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
