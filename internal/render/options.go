package render

import (
	"math"
	"strconv"

	"github.com/banshee-data/warheads.report/internal/frames"
)

// The types below are the subset of the ECharts option schema the player
// pushes with setOption on every frame. They are marshalled as-is into the
// document.

// xy is a data point encoded as [x, y]. A NaN y becomes ECharts' "-" gap.
type xy struct {
	X float64
	Y float64
}

func (p xy) MarshalJSON() ([]byte, error) {
	y := `"-"`
	if !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) {
		y = strconv.FormatFloat(p.Y, 'f', -1, 64)
	}
	return []byte("[" + strconv.FormatFloat(p.X, 'f', -1, 64) + "," + y + "]"), nil
}

type dataItem struct {
	Value xy           `json:"value"`
	Name  string       `json:"name,omitempty"`
	Label *labelOption `json:"label,omitempty"`
}

type itemStyle struct {
	Color string `json:"color,omitempty"`
}

type lineStyle struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Type  string  `json:"type,omitempty"`
}

type tooltipOption struct {
	Show      *bool  `json:"show,omitempty"`
	Trigger   string `json:"trigger,omitempty"`
	Formatter string `json:"formatter,omitempty"`
}

type labelOption struct {
	Show            bool    `json:"show"`
	Position        string  `json:"position,omitempty"`
	Formatter       string  `json:"formatter,omitempty"`
	Color           string  `json:"color,omitempty"`
	FontSize        int     `json:"fontSize,omitempty"`
	FontWeight      string  `json:"fontWeight,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	BorderColor     string  `json:"borderColor,omitempty"`
	BorderWidth     float64 `json:"borderWidth,omitempty"`
	Padding         int     `json:"padding,omitempty"`
	Align           string  `json:"align,omitempty"`
}

type markLineEnd struct {
	Coord xy `json:"coord"`
}

type markLine struct {
	Silent    bool             `json:"silent"`
	Animation bool             `json:"animation"`
	Symbol    []string         `json:"symbol"`
	Label     *labelOption     `json:"label,omitempty"`
	LineStyle *lineStyle       `json:"lineStyle,omitempty"`
	Data      [][2]markLineEnd `json:"data"`
}

type seriesOption struct {
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Type       string         `json:"type"`
	Data       []dataItem     `json:"data"`
	Symbol     string         `json:"symbol,omitempty"`
	SymbolSize float64        `json:"symbolSize"`
	ItemStyle  *itemStyle     `json:"itemStyle,omitempty"`
	LineStyle  *lineStyle     `json:"lineStyle,omitempty"`
	Tooltip    *tooltipOption `json:"tooltip,omitempty"`
	MarkLine   *markLine      `json:"markLine,omitempty"`
	Silent     bool           `json:"silent,omitempty"`
	Z          int            `json:"z,omitempty"`
}

// labelMark is a country callout drawn by the player as graphic elements:
// a leader from the data point (X, Y) to the text shifted by (DX, DY) pixels.
type labelMark struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Color  string  `json:"color"`
	Border string  `json:"border"`
}

// framePayload is everything the player needs to show one year.
type framePayload struct {
	Year   int            `json:"year"`
	Series []seriesOption `json:"series"`
	Labels []labelMark    `json:"labels"`
}

// step is one scrubber position.
type step struct {
	Label    string `json:"label"`
	Duration int    `json:"duration"`
}

type axisPatch struct {
	Min       *float64   `json:"min,omitempty"`
	Max       *float64   `json:"max,omitempty"`
	Interval  float64    `json:"interval,omitempty"`
	AxisLabel *axisLabel `json:"axisLabel,omitempty"`
	SplitLine *toggle    `json:"splitLine,omitempty"`
	AxisTick  *toggle    `json:"axisTick,omitempty"`
}

type axisLabel struct {
	Show         bool `json:"show"`
	ShowMaxLabel bool `json:"showMaxLabel"`
}

type toggle struct {
	Show bool `json:"show"`
}

type gridPatch struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

type titlePatch struct {
	Left      string                 `json:"left"`
	Top       int                    `json:"top"`
	TextStyle map[string]interface{} `json:"textStyle,omitempty"`
}

// seedPatch attaches tooltips to the statically rendered seed series, which
// are merged by index.
type seedPatch struct {
	Tooltip *tooltipOption `json:"tooltip,omitempty"`
}

// layoutPatch is merged over the option go-echarts renders, covering the
// settings its typed options do not expose.
type layoutPatch struct {
	TextStyle               map[string]string `json:"textStyle"`
	Title                   titlePatch        `json:"title"`
	Grid                    gridPatch         `json:"grid"`
	XAxis                   axisPatch         `json:"xAxis"`
	YAxis                   axisPatch         `json:"yAxis"`
	Series                  []seedPatch       `json:"series,omitempty"`
	AnimationDurationUpdate int               `json:"animationDurationUpdate"`
	AnimationEasingUpdate   string            `json:"animationEasingUpdate"`
}

// hoverTemplate is the trend-line tooltip: country, year and value.
const hoverTemplate = "<b>Kraj</b>: {a}<br/><b>Rok</b>: {@[0]}<br/><b>Liczba głowic</b>: {@[1]}"

func lineSeries(l frames.Line) seriesOption {
	data := make([]dataItem, len(l.Points))
	for i, p := range l.Points {
		data[i] = dataItem{Value: xy{X: float64(p.Year), Y: p.Value}}
	}
	return seriesOption{
		ID:         "line:" + l.Country,
		Name:       l.Country,
		Type:       "line",
		Data:       data,
		Symbol:     "circle",
		SymbolSize: 6,
		ItemStyle:  &itemStyle{Color: l.Color},
		LineStyle:  &lineStyle{Color: l.Color, Width: 2},
		Tooltip:    &tooltipOption{Formatter: hoverTemplate},
	}
}

const (
	markerColor = "lightgrey"
	arrowColor  = "black"
	labelDX     = 50.0
)

func peakSeries(p frames.Peak, tooltip string) seriesOption {
	return seriesOption{
		ID:         "peak",
		Name:       p.Country,
		Type:       "scatter",
		Data:       []dataItem{{Value: xy{X: float64(p.Year), Y: p.Value}}},
		Symbol:     "diamond",
		SymbolSize: 10,
		ItemStyle:  &itemStyle{Color: markerColor},
		Tooltip:    &tooltipOption{Formatter: tooltip},
		Z:          5,
	}
}

func eventSeries(e frames.Event) seriesOption {
	at := xy{X: float64(e.Year), Y: e.Height}
	return seriesOption{
		ID:         "event",
		Type:       "scatter",
		SymbolSize: 0,
		Silent:     true,
		Tooltip:    &tooltipOption{Show: boolPtr(false)},
		Data: []dataItem{
			{Value: at, Label: &labelOption{
				Show:            true,
				Position:        "top",
				Formatter:       e.Description,
				Color:           "white",
				FontSize:        14,
				Align:           "center",
				BackgroundColor: "black",
				BorderColor:     "white",
				BorderWidth:     1,
				Padding:         4,
			}},
			{Value: at, Label: &labelOption{
				Show:            true,
				Position:        "bottom",
				Formatter:       e.YearLabel,
				Color:           "white",
				FontSize:        18,
				FontWeight:      "bold",
				BackgroundColor: "black",
				Padding:         2,
			}},
		},
		MarkLine: &markLine{
			Silent:    true,
			Symbol:    []string{"none", "none"},
			Label:     &labelOption{Show: false},
			LineStyle: &lineStyle{Color: markerColor, Width: 2, Type: "dashed"},
			Data: [][2]markLineEnd{{
				{Coord: xy{X: float64(e.Year), Y: 0}},
				{Coord: at},
			}},
		},
	}
}

func labelMarks(labels []frames.Label) []labelMark {
	marks := make([]labelMark, 0, len(labels))
	for _, l := range labels {
		marks = append(marks, labelMark{
			Text:   l.Country,
			X:      float64(l.Year),
			Y:      l.Value,
			DX:     labelDX,
			DY:     -l.Offset,
			Color:  l.Color,
			Border: l.Border,
		})
	}
	return marks
}

// payloadFor converts a frame into what the player pushes to the chart.
func payloadFor(f frames.Frame) framePayload {
	series := make([]seriesOption, 0, len(f.Lines)+2)
	for _, l := range f.Lines {
		series = append(series, lineSeries(l))
	}
	if f.Event != nil {
		series = append(series, eventSeries(*f.Event))
	}
	if f.Peak != nil {
		series = append(series, peakSeries(*f.Peak, f.Peak.Tooltip))
	}
	return framePayload{Year: f.Year, Series: series, Labels: labelMarks(f.Labels)}
}

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }
