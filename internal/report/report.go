// Package report runs the whole pipeline: load the table, build the frames,
// render the document and the optional poster, and record run metrics.
package report

import (
	"fmt"

	"github.com/banshee-data/warheads.report/internal/config"
	"github.com/banshee-data/warheads.report/internal/frames"
	"github.com/banshee-data/warheads.report/internal/fsutil"
	"github.com/banshee-data/warheads.report/internal/monitoring"
	"github.com/banshee-data/warheads.report/internal/render"
	"github.com/banshee-data/warheads.report/internal/timeutil"
	"github.com/banshee-data/warheads.report/internal/warheads"
)

// clock times the pipeline stages.
var clock timeutil.Clock = timeutil.RealClock{}

// Result describes a finished run.
type Result struct {
	OutputPath  string
	PosterPath  string // empty when no poster was written
	MetricsPath string // empty when no textfile was written

	Frames      int
	EventFrames int
	Load        warheads.LoadStats
	HTMLBytes   int
	PosterBytes int
}

// Generate runs one report. metrics may be nil; when it is set and the
// config names a metrics path, the run metrics are written there last.
// Outputs are rendered in memory and written whole, so a failing stage
// leaves no partial document.
func Generate(cfg *config.ChartConfig, fsys fsutil.FileSystem, metrics *monitoring.RunMetrics) (*Result, error) {
	if cfg == nil {
		cfg = config.EmptyChartConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	events, err := cfg.GetEvents()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	timer := stageTimer(metrics)

	stop := timer("load")
	ds, err := warheads.Load(fsys, cfg.GetDataPath(), cfg.LoadOptions())
	stop()
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}

	stop = timer("frames")
	builder := frames.NewBuilder(cfg.FrameSettings(), events)
	fr, stats := builder.Build(ds)
	stop()

	renderer := render.NewRenderer(cfg.RenderSettings())

	stop = timer("render")
	doc, err := renderer.Document(ds, fr, events)
	stop()
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	var poster []byte
	if path := cfg.GetPosterPath(); path != "" {
		stop = timer("poster")
		poster, err = renderer.Poster(ds, fr, events)
		stop()
		if err != nil {
			return nil, fmt.Errorf("render poster: %w", err)
		}
	}

	res := &Result{
		OutputPath:  cfg.GetOutputPath(),
		Frames:      stats.Frames,
		EventFrames: stats.EventFrames,
		Load:        ds.Stats,
		HTMLBytes:   len(doc),
	}

	if err := fsutil.WriteOutput(fsys, res.OutputPath, doc); err != nil {
		return nil, fmt.Errorf("write chart: %w", err)
	}
	if poster != nil {
		res.PosterPath = cfg.GetPosterPath()
		res.PosterBytes = len(poster)
		if err := fsutil.WriteOutput(fsys, res.PosterPath, poster); err != nil {
			return nil, fmt.Errorf("write poster: %w", err)
		}
	}

	if metrics != nil {
		record(metrics, res, stats)
		if path := cfg.GetMetricsPath(); path != "" {
			if err := metrics.WriteTextfile(path); err != nil {
				return nil, fmt.Errorf("write metrics: %w", err)
			}
			res.MetricsPath = path
		}
	}

	monitoring.Stagef("report", "wrote %s (%d frames)", res.OutputPath, res.Frames)
	return res, nil
}

func stageTimer(metrics *monitoring.RunMetrics) func(stage string) func() {
	return func(stage string) func() {
		start := clock.Now()
		return func() {
			if metrics != nil {
				metrics.StageSeconds.WithLabelValues(stage).Set(clock.Since(start).Seconds())
			}
		}
	}
}

func record(m *monitoring.RunMetrics, res *Result, stats frames.Stats) {
	m.RowsRead.Add(float64(res.Load.RowsRead))
	m.RowsExcluded.Add(float64(res.Load.RowsExcluded))
	m.ValuesFilled.Add(float64(res.Load.ValuesFilled))
	m.FramesBuilt.Set(float64(stats.Frames))
	m.EventFrames.Set(float64(stats.EventFrames))
	m.LabelsPlaced.Add(float64(stats.LabelsPlaced))
	m.LabelOffsetStep.Add(float64(stats.OffsetSteps))
	m.OutputBytes.WithLabelValues("html").Set(float64(res.HTMLBytes))
	if res.PosterPath != "" {
		m.OutputBytes.WithLabelValues("poster").Set(float64(res.PosterBytes))
	}
}
