package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/warheads.report/internal/frames"
	"github.com/banshee-data/warheads.report/internal/fsutil"
	"github.com/banshee-data/warheads.report/internal/render"
	"github.com/banshee-data/warheads.report/internal/warheads"
)

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

func memFS(t *testing.T, name, content string) fsutil.FileSystem {
	t.Helper()
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile(name, []byte(content), 0o644))
	return mfs
}

func TestEmptyChartConfig_Defaults(t *testing.T) {
	cfg := EmptyChartConfig()

	assert.Equal(t, DefaultDataPath, cfg.GetDataPath())
	assert.Equal(t, DefaultOutputPath, cfg.GetOutputPath())
	assert.Empty(t, cfg.GetPosterPath())
	assert.Empty(t, cfg.GetMetricsPath())
	assert.Equal(t, "ISO-8859-2", cfg.GetEncoding())
	assert.Equal(t, []string{"USA", "Rosja"}, cfg.GetExclude())
	assert.True(t, cfg.GetFillMissing())
	assert.Equal(t, 30.0, cfg.GetMinLabelGap())
	assert.Equal(t, 20.0, cfg.GetLabelStep())
	assert.Equal(t, 1.05, cfg.GetHeadroom())
	assert.Equal(t, 5, cfg.GetTickCount())
	assert.Equal(t, 1000, cfg.GetFrameMillis())
	assert.Equal(t, 3000, cfg.GetEventFrameMillis())
	assert.Equal(t, 500, cfg.GetTransitionMillis())

	events, err := cfg.GetEvents()
	require.NoError(t, err)
	assert.Equal(t, warheads.DefaultEvents(), events)
	require.NoError(t, cfg.Validate())
}

func TestDefaultsFileMatchesCompiledDefaults(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	empty := EmptyChartConfig()

	if diff := cmp.Diff(empty.LoadOptions(), cfg.LoadOptions()); diff != "" {
		t.Errorf("load options differ (-compiled +file):\n%s", diff)
	}
	if diff := cmp.Diff(empty.FrameSettings(), cfg.FrameSettings()); diff != "" {
		t.Errorf("frame settings differ (-compiled +file):\n%s", diff)
	}
	if diff := cmp.Diff(empty.RenderSettings(), cfg.RenderSettings()); diff != "" {
		t.Errorf("render settings differ (-compiled +file):\n%s", diff)
	}
	assert.Equal(t, empty.GetDataPath(), cfg.GetDataPath())
	assert.Equal(t, empty.GetOutputPath(), cfg.GetOutputPath())
}

func TestLoadChartConfig_JSON(t *testing.T) {
	fsys := memFS(t, "chart.json", `{
  "data_path": "in.csv",
  "exclude": [],
  "min_label_gap": 45,
  "frame_ms": 800,
  "title": "Custom",
  "events": {"1949": "USSR<br>tests"}
}`)

	cfg, err := LoadChartConfig(fsys, "chart.json")
	require.NoError(t, err)

	assert.Equal(t, "in.csv", cfg.GetDataPath())
	assert.Empty(t, cfg.GetExclude())
	assert.NotNil(t, cfg.GetExclude())
	assert.Equal(t, 45.0, cfg.FrameSettings().MinLabelGap)
	assert.Equal(t, 800, cfg.RenderSettings().FrameMillis)
	assert.Equal(t, "Custom", cfg.RenderSettings().PageTitle)

	events, err := cfg.GetEvents()
	require.NoError(t, err)
	assert.Equal(t, warheads.EventSet{1949: "USSR\ntests"}, events)
}

func TestLoadChartConfig_YAML(t *testing.T) {
	fsys := memFS(t, "chart.yaml", `
encoding: utf-8
exclude: [USA]
fill_missing: false
poster_path: out/poster.png
palette: ["#111111", "#222"]
tick_count: 4
`)

	cfg, err := LoadChartConfig(fsys, "chart.yaml")
	require.NoError(t, err)

	assert.Equal(t, warheads.LoadOptions{Encoding: "utf-8", Exclude: []string{"USA"}, FillMissing: false}, cfg.LoadOptions())
	assert.Equal(t, "out/poster.png", cfg.GetPosterPath())
	assert.Equal(t, warheads.Palette{"#111111", "#222"}, cfg.FrameSettings().Palette)
	assert.Equal(t, 4, cfg.RenderSettings().TickCount)
}

func TestLoadChartConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"bad extension", "chart.toml", "x = 1", "extension"},
		{"bad json", "chart.json", "{", "failed to parse config JSON"},
		{"bad yaml", "chart.yml", "exclude: [", "failed to parse config YAML"},
		{"negative gap", "chart.json", `{"min_label_gap": -1}`, "min_label_gap"},
		{"tick count", "chart.json", `{"tick_count": 1}`, "tick_count"},
		{"palette", "chart.json", `{"palette": ["red"]}`, "not a hex color"},
		{"encoding", "chart.json", `{"encoding": "klingon-8"}`, "unknown encoding"},
		{"event key", "chart.json", `{"events": {"soon": "x"}}`, "not a year"},
		{"assets host", "chart.json", `{"assets_host": "not a url"}`, "assets_host"},
		{"durations", "chart.json", `{"frame_ms": 2000, "event_frame_ms": 1000}`, "event_frame_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadChartConfig(memFS(t, tt.file, tt.content), tt.file)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadChartConfig_TooLarge(t *testing.T) {
	big := `{"title": "` + strings.Repeat("x", maxFileSize) + `"}`
	_, err := LoadChartConfig(memFS(t, "big.json", big), "big.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestLoadChartConfig_Missing(t *testing.T) {
	_, err := LoadChartConfig(fsutil.NewMemoryFileSystem(), "absent.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat config file")
}

func TestRenderSettings_Overrides(t *testing.T) {
	cfg := &ChartConfig{
		Headroom:         ptrFloat64(1.2),
		TransitionMillis: ptrInt(0),
		FontFamily:       ptrString("monospace"),
	}
	require.NoError(t, cfg.Validate())

	s := cfg.RenderSettings()
	assert.Equal(t, 1.2, s.Headroom)
	assert.Equal(t, 0, s.TransitionMillis)
	assert.Equal(t, "monospace", s.FontFamily)
	assert.Equal(t, render.DefaultTheme, s.Theme)
	assert.Equal(t, 1.2, cfg.FrameSettings().Headroom)
	assert.Equal(t, frames.DefaultPeakTooltip, cfg.FrameSettings().PeakTooltip)
}
