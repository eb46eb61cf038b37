// Command warheads renders the animated nuclear-warheads line chart from the
// country/year CSV table.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/warheads.report/internal/config"
	"github.com/banshee-data/warheads.report/internal/fsutil"
	"github.com/banshee-data/warheads.report/internal/monitoring"
	"github.com/banshee-data/warheads.report/internal/report"
	"github.com/banshee-data/warheads.report/internal/version"
)

type options struct {
	configPath  string
	dataPath    string
	outputPath  string
	posterPath  string
	metricsPath string
	quiet       bool
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("warheads", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "Path to a chart config file (.json, .yaml or .yml)")
	fs.StringVar(&o.dataPath, "data", "", "Input CSV (default "+config.DefaultDataPath+")")
	fs.StringVar(&o.outputPath, "output", "", "Output HTML document (default "+config.DefaultOutputPath+")")
	fs.StringVar(&o.posterPath, "poster", "", "Also write a PNG poster of the final frame to this path")
	fs.StringVar(&o.metricsPath, "metrics-file", "", "Write run metrics in Prometheus textfile format to this path")
	fs.BoolVar(&o.quiet, "quiet", false, "Suppress per-stage log lines")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

// chartConfig loads the config file, if any, and applies flag overrides.
func chartConfig(o *options, fsys fsutil.FileSystem) (*config.ChartConfig, error) {
	cfg := config.EmptyChartConfig()
	if o.configPath != "" {
		loaded, err := config.LoadChartConfig(fsys, o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	override := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	override(&cfg.DataPath, o.dataPath)
	override(&cfg.OutputPath, o.outputPath)
	override(&cfg.PosterPath, o.posterPath)
	override(&cfg.MetricsPath, o.metricsPath)
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer, fsys fsutil.FileSystem) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.showVersion {
		fmt.Fprintln(stdout, version.String())
		return nil
	}
	if o.quiet {
		monitoring.SetLogger(nil)
	}

	cfg, err := chartConfig(o, fsys)
	if err != nil {
		return err
	}

	res, err := report.Generate(cfg, fsys, monitoring.NewRunMetrics())
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Animated line chart saved to %s\n", res.OutputPath)
	if res.PosterPath != "" {
		fmt.Fprintf(stdout, "Poster saved to %s\n", res.PosterPath)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, fsutil.OSFileSystem{}); err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		log.Fatalf("warheads: %v", err)
	}
}
