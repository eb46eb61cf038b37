package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"

	"github.com/banshee-data/warheads.report/internal/frames"
	"github.com/banshee-data/warheads.report/internal/fsutil"
	"github.com/banshee-data/warheads.report/internal/render"
	"github.com/banshee-data/warheads.report/internal/warheads"
)

// DefaultConfigPath is the path to the canonical chart defaults file.
const DefaultConfigPath = "config/chart.defaults.json"

// Default input and output paths of the reference run.
const (
	DefaultDataPath   = "Nuclear_warheads_modified_PL.csv"
	DefaultOutputPath = "Nuclear_Warheads_Line_Chart_Without_USA_Russia.html"
)

// DefaultExclude lists the countries left out of the reference chart.
var DefaultExclude = []string{"USA", "Rosja"}

const maxFileSize = 1 * 1024 * 1024 // 1MB

// ChartConfig is the run configuration. Every field is optional; the Get*
// methods supply the reference defaults for nil fields, so partial configs
// are safe.
type ChartConfig struct {
	// Paths
	DataPath    *string `json:"data_path,omitempty" yaml:"data_path,omitempty"`
	OutputPath  *string `json:"output_path,omitempty" yaml:"output_path,omitempty" validate:"omitempty,min=1"`
	PosterPath  *string `json:"poster_path,omitempty" yaml:"poster_path,omitempty"`
	MetricsPath *string `json:"metrics_path,omitempty" yaml:"metrics_path,omitempty"`

	// Loader
	Encoding    *string  `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Exclude     []string `json:"exclude,omitempty" yaml:"exclude,omitempty" validate:"omitempty,dive,min=1"`
	FillMissing *bool    `json:"fill_missing,omitempty" yaml:"fill_missing,omitempty"`

	// Frame builder
	MinLabelGap *float64 `json:"min_label_gap,omitempty" yaml:"min_label_gap,omitempty" validate:"omitempty,gt=0"`
	LabelStep   *float64 `json:"label_step,omitempty" yaml:"label_step,omitempty" validate:"omitempty,gt=0"`
	Headroom    *float64 `json:"headroom,omitempty" yaml:"headroom,omitempty" validate:"omitempty,gte=1"`
	PeakTooltip *string  `json:"peak_tooltip,omitempty" yaml:"peak_tooltip,omitempty"`
	Palette     []string `json:"palette,omitempty" yaml:"palette,omitempty" validate:"omitempty,dive,hexcolor"`

	// Axis ticks
	TickCount *int     `json:"tick_count,omitempty" yaml:"tick_count,omitempty" validate:"omitempty,min=2,max=50"`
	TickRound *float64 `json:"tick_round,omitempty" yaml:"tick_round,omitempty" validate:"omitempty,gt=0"`

	// Playback, in milliseconds
	FrameMillis      *int `json:"frame_ms,omitempty" yaml:"frame_ms,omitempty" validate:"omitempty,gt=0"`
	EventFrameMillis *int `json:"event_frame_ms,omitempty" yaml:"event_frame_ms,omitempty" validate:"omitempty,gt=0"`
	TransitionMillis *int `json:"transition_ms,omitempty" yaml:"transition_ms,omitempty" validate:"omitempty,gte=0"`

	// Document
	Title      *string `json:"title,omitempty" yaml:"title,omitempty"`
	Theme      *string `json:"theme,omitempty" yaml:"theme,omitempty"`
	FontFamily *string `json:"font_family,omitempty" yaml:"font_family,omitempty"`
	Width      *string `json:"width,omitempty" yaml:"width,omitempty"`
	Height     *string `json:"height,omitempty" yaml:"height,omitempty"`
	AssetsHost *string `json:"assets_host,omitempty" yaml:"assets_host,omitempty" validate:"omitempty,url"`
	PlayLabel  *string `json:"play_label,omitempty" yaml:"play_label,omitempty"`
	PauseLabel *string `json:"pause_label,omitempty" yaml:"pause_label,omitempty"`

	// Events replaces the compiled-in event set. Keys are years.
	Events map[string]string `json:"events,omitempty" yaml:"events,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their file names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// EmptyChartConfig returns a ChartConfig with all fields unset.
func EmptyChartConfig() *ChartConfig {
	return &ChartConfig{}
}

// LoadChartConfig loads a ChartConfig from a .json, .yaml or .yml file.
func LoadChartConfig(fsys fsutil.FileSystem, path string) (*ChartConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyChartConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching upwards from the
// working directory. Panics if the file cannot be loaded; intended for tests.
func MustLoadDefaultConfig() *ChartConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadChartConfig(fsutil.OSFileSystem{}, path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks struct constraints and the values that need parsing.
func (c *ChartConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}

	if c.Encoding != nil {
		if _, err := htmlindex.Get(*c.Encoding); err != nil {
			return fmt.Errorf("encoding: unknown encoding %q", *c.Encoding)
		}
	}

	if c.Events != nil {
		if _, err := warheads.ParseEvents(c.Events); err != nil {
			return fmt.Errorf("events: %w", err)
		}
	}

	if c.FrameMillis != nil && c.EventFrameMillis != nil && *c.EventFrameMillis < *c.FrameMillis {
		return fmt.Errorf("event_frame_ms (%d) must not be shorter than frame_ms (%d)", *c.EventFrameMillis, *c.FrameMillis)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, e.Param())
		case "gte", "min":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, e.Param())
		case "hexcolor":
			return fmt.Errorf("%s: %q is not a hex color", field, e.Value())
		case "url":
			return fmt.Errorf("%s: %q is not a URL", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// GetDataPath returns the input CSV path or the default.
func (c *ChartConfig) GetDataPath() string { return stringOr(c.DataPath, DefaultDataPath) }

// GetOutputPath returns the HTML output path or the default.
func (c *ChartConfig) GetOutputPath() string { return stringOr(c.OutputPath, DefaultOutputPath) }

// GetPosterPath returns the PNG poster path; empty disables the poster.
func (c *ChartConfig) GetPosterPath() string { return stringOr(c.PosterPath, "") }

// GetMetricsPath returns the Prometheus textfile path; empty disables it.
func (c *ChartConfig) GetMetricsPath() string { return stringOr(c.MetricsPath, "") }

// GetEncoding returns the input charset label or the default.
func (c *ChartConfig) GetEncoding() string { return stringOr(c.Encoding, warheads.DefaultEncoding) }

// GetExclude returns the excluded countries. An explicit empty list
// disables exclusion.
func (c *ChartConfig) GetExclude() []string {
	if c.Exclude == nil {
		return append([]string(nil), DefaultExclude...)
	}
	return c.Exclude
}

// GetFillMissing returns the fill_missing value or the default.
func (c *ChartConfig) GetFillMissing() bool {
	if c.FillMissing == nil {
		return true // default
	}
	return *c.FillMissing
}

// GetMinLabelGap returns the minimum label gap or the default.
func (c *ChartConfig) GetMinLabelGap() float64 {
	return floatOr(c.MinLabelGap, frames.DefaultMinLabelGap)
}

// GetLabelStep returns the label offset step or the default.
func (c *ChartConfig) GetLabelStep() float64 { return floatOr(c.LabelStep, frames.DefaultLabelStep) }

// GetHeadroom returns the y range multiple or the default.
func (c *ChartConfig) GetHeadroom() float64 { return floatOr(c.Headroom, frames.DefaultHeadroom) }

// GetTickCount returns the number of y-axis ticks or the default.
func (c *ChartConfig) GetTickCount() int { return intOr(c.TickCount, render.DefaultTickCount) }

// GetTickRound returns the tick rounding granularity or the default.
func (c *ChartConfig) GetTickRound() float64 { return floatOr(c.TickRound, render.DefaultTickRound) }

// GetFrameMillis returns the dwell for ordinary years or the default.
func (c *ChartConfig) GetFrameMillis() int { return intOr(c.FrameMillis, render.DefaultFrameMillis) }

// GetEventFrameMillis returns the dwell for event years or the default.
func (c *ChartConfig) GetEventFrameMillis() int {
	return intOr(c.EventFrameMillis, render.DefaultEventFrameMillis)
}

// GetTransitionMillis returns the frame transition duration or the default.
func (c *ChartConfig) GetTransitionMillis() int {
	return intOr(c.TransitionMillis, render.DefaultTransitionMillis)
}

// GetTitle returns the chart title or the default.
func (c *ChartConfig) GetTitle() string { return stringOr(c.Title, render.DefaultTitle) }

// GetEvents returns the configured event set, or the compiled-in events
// when none is configured.
func (c *ChartConfig) GetEvents() (warheads.EventSet, error) {
	if c.Events == nil {
		return warheads.DefaultEvents(), nil
	}
	return warheads.ParseEvents(c.Events)
}

// LoadOptions returns the loader options.
func (c *ChartConfig) LoadOptions() warheads.LoadOptions {
	return warheads.LoadOptions{
		Encoding:    c.GetEncoding(),
		Exclude:     c.GetExclude(),
		FillMissing: c.GetFillMissing(),
	}
}

// FrameSettings returns the frame builder settings.
func (c *ChartConfig) FrameSettings() frames.Settings {
	s := frames.DefaultSettings()
	s.MinLabelGap = c.GetMinLabelGap()
	s.LabelStep = c.GetLabelStep()
	s.Headroom = c.GetHeadroom()
	s.PeakTooltip = stringOr(c.PeakTooltip, frames.DefaultPeakTooltip)
	if len(c.Palette) > 0 {
		s.Palette = warheads.Palette(c.Palette)
	}
	return s
}

// RenderSettings returns the document settings.
func (c *ChartConfig) RenderSettings() render.Settings {
	s := render.DefaultSettings()
	s.Title = c.GetTitle()
	s.PageTitle = s.Title
	s.Theme = stringOr(c.Theme, s.Theme)
	s.FontFamily = stringOr(c.FontFamily, s.FontFamily)
	s.Width = stringOr(c.Width, s.Width)
	s.Height = stringOr(c.Height, s.Height)
	s.AssetsHost = stringOr(c.AssetsHost, s.AssetsHost)
	s.Headroom = c.GetHeadroom()
	s.TickCount = c.GetTickCount()
	s.TickRound = c.GetTickRound()
	s.FrameMillis = c.GetFrameMillis()
	s.EventFrameMillis = c.GetEventFrameMillis()
	s.TransitionMillis = c.GetTransitionMillis()
	s.PlayLabel = stringOr(c.PlayLabel, s.PlayLabel)
	s.PauseLabel = stringOr(c.PauseLabel, s.PauseLabel)
	return s
}
