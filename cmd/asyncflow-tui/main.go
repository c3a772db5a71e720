// Command asyncflow-tui runs one scenario and renders its finished
// results as a terminal dashboard.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/asyncflow-sim/asyncflow/pkg/common"
	"github.com/asyncflow-sim/asyncflow/pkg/config"
	"github.com/asyncflow-sim/asyncflow/pkg/engine"
	"github.com/asyncflow-sim/asyncflow/pkg/metrics"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a scenario YAML file (required)")
	seed := flag.Uint64("seed", 0, "rng seed; 0 picks a time-derived seed")
	flag.Parse()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "missing required flag -scenario")
		flag.Usage()
		os.Exit(2)
	}

	sc, err := config.Load(*scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load scenario: %v\n", err)
		os.Exit(1)
	}

	opts := []engine.Option{engine.WithLogger(common.NewLogger(os.Stderr, "asyncflow-tui", common.WarnLevel))}
	if *seed != 0 {
		opts = append(opts, engine.WithSeed(*seed))
	}

	runner, err := engine.NewRunner(sc, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build runner: %v\n", err)
		os.Exit(1)
	}

	results, err := runner.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "run scenario: %v\n", err)
		os.Exit(1)
	}

	if err := runDashboard(*scenarioPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}
}

func runDashboard(scenarioPath string, results *engine.Results) error {
	if err := termui.Init(); err != nil {
		return fmt.Errorf("failed to initialize termui: %w", err)
	}
	defer termui.Close()

	grid := termui.NewGrid()
	termWidth, termHeight := termui.TerminalDimensions()
	grid.SetRect(0, 0, termWidth, termHeight)

	title := widgets.NewParagraph()
	title.Text = fmt.Sprintf("asyncflow run summary — %s", scenarioPath)
	title.Border = false
	title.TextStyle.Fg = termui.ColorGreen

	summary := widgets.NewParagraph()
	summary.Title = "Latency (rqs_clock)"
	summary.Text = fmt.Sprintf(
		"requests completed: %d\nsimulated time:     %.3fs\ncount: %d\nmean:  %.4fs\nstddev: %.4fs\np50:   %.4fs\np95:   %.4fs\np99:   %.4fs",
		results.RequestsCompleted, results.EndedAtS,
		results.Latency.Count, results.Latency.MeanS, results.Latency.StdDevS,
		results.Latency.P50S, results.Latency.P95S, results.Latency.P99S,
	)

	throughput := widgets.NewList()
	throughput.Title = "Throughput windows"
	throughput.Rows = throughputRows(results.Throughput)
	throughput.WrapText = false

	sampled := widgets.NewList()
	sampled.Title = fmt.Sprintf("Latest sampled gauges (servers: %s)", strings.Join(results.ListServerIDs(), ", "))
	sampled.Rows = latestSampleRows(results.Sampled)
	sampled.WrapText = false

	instructions := widgets.NewParagraph()
	instructions.Text = "Press q to quit"
	instructions.Border = false

	grid.Set(
		termui.NewRow(1.0/10, title),
		termui.NewRow(3.0/10, summary),
		termui.NewRow(3.0/10, throughput),
		termui.NewRow(2.0/10, sampled),
		termui.NewRow(1.0/10, instructions),
	)
	termui.Render(grid)

	uiEvents := termui.PollEvents()
	for e := range uiEvents {
		switch e.ID {
		case "q", "<C-c>":
			return nil
		}
	}
	return nil
}

func throughputRows(points []metrics.ThroughputPoint) []string {
	rows := make([]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, fmt.Sprintf("t=%6.2fs  count=%d", p.WindowStartS, p.Count))
	}
	if len(rows) == 0 {
		rows = append(rows, "(no throughput windows recorded)")
	}
	return rows
}

// latestSampleRows shows each metric/component pair's last observed
// value, since Sampled holds every tick rather than just the newest.
func latestSampleRows(samples []metrics.Sample) []string {
	type key struct{ metric, component string }
	latest := make(map[key]metrics.Sample)
	for _, s := range samples {
		latest[key{s.Metric, s.Component}] = s
	}

	keys := make([]key, 0, len(latest))
	for k := range latest {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].metric != keys[j].metric {
			return keys[i].metric < keys[j].metric
		}
		return keys[i].component < keys[j].component
	})

	rows := make([]string, 0, len(keys))
	for _, k := range keys {
		s := latest[k]
		rows = append(rows, fmt.Sprintf("%-24s %-12s t=%6.2fs  value=%g", k.metric, k.component, s.AtS, s.Value))
	}
	if len(rows) == 0 {
		rows = append(rows, "(no sampled metrics recorded)")
	}
	return rows
}
