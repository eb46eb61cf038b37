package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RunMetrics holds the counters and gauges describing a single report run.
// Each run owns its registry; WriteTextfile dumps it in the node_exporter
// textfile collector format.
type RunMetrics struct {
	registry *prometheus.Registry

	RowsRead        prometheus.Counter
	RowsExcluded    prometheus.Counter
	ValuesFilled    prometheus.Counter
	FramesBuilt     prometheus.Gauge
	EventFrames     prometheus.Gauge
	LabelsPlaced    prometheus.Counter
	LabelOffsetStep prometheus.Counter
	OutputBytes     *prometheus.GaugeVec
	StageSeconds    *prometheus.GaugeVec
}

// NewRunMetrics registers a fresh metric set on its own registry.
func NewRunMetrics() *RunMetrics {
	reg := prometheus.NewRegistry()
	m := &RunMetrics{registry: reg}

	m.RowsRead = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "warheads_report_rows_read_total",
		Help: "Data rows read from the input table",
	})
	m.RowsExcluded = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "warheads_report_rows_excluded_total",
		Help: "Rows dropped because their country is excluded",
	})
	m.ValuesFilled = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "warheads_report_values_filled_total",
		Help: "Missing values replaced with zero",
	})
	m.FramesBuilt = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "warheads_report_frames",
		Help: "Animation frames built, one per distinct year",
	})
	m.EventFrames = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "warheads_report_event_frames",
		Help: "Frames carrying a historical event annotation",
	})
	m.LabelsPlaced = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "warheads_report_labels_placed_total",
		Help: "Country labels placed across all frames",
	})
	m.LabelOffsetStep = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "warheads_report_label_offset_steps_total",
		Help: "Offset increments taken to separate overlapping labels",
	})
	m.OutputBytes = promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
		Name: "warheads_report_output_bytes",
		Help: "Size of each written output",
	}, []string{"kind"}) // html, poster
	m.StageSeconds = promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
		Name: "warheads_report_stage_seconds",
		Help: "Wall time spent in each pipeline stage",
	}, []string{"stage"}) // load, frames, render, poster

	return m
}

// Registry exposes the underlying registry as a Gatherer.
func (m *RunMetrics) Registry() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics to path atomically.
func (m *RunMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
