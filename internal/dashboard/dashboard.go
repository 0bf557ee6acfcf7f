// Package dashboard renders a live terminal view of a dispatch in progress.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/vportales/geoprobe/internal/dispatch"
)

// Dashboard shows running totals, the success-rate gauge, a latency sparkline
// and the live error list while probes are in flight.
type Dashboard struct {
	collector    *dispatch.Collector
	target       string
	workers      int
	shutdownFunc func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex

	grid           *ui.Grid
	summaryPara    *widgets.Paragraph
	successGauge   *widgets.Gauge
	latencySparkle *widgets.SparklineGroup
	errorList      *widgets.List
	startTime      time.Time
}

// New creates a Dashboard. shutdownFunc is invoked when the operator presses
// q or Ctrl-C; it should cancel the dispatch context.
func New(collector *dispatch.Collector, target string, workers int, shutdownFunc func()) (*Dashboard, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize termui: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dashboard{
		collector:    collector,
		target:       target,
		workers:      workers,
		shutdownFunc: shutdownFunc,
		ctx:          ctx,
		cancel:       cancel,
		startTime:    time.Now(),
	}

	d.initWidgets()
	d.setupGrid()
	return d, nil
}

func (d *Dashboard) initWidgets() {
	d.summaryPara = widgets.NewParagraph()
	d.summaryPara.Title = "Probe Run"
	d.summaryPara.Text = "Initializing..."
	d.summaryPara.BorderStyle.Fg = ui.ColorCyan

	d.successGauge = widgets.NewGauge()
	d.successGauge.Title = "Success Rate"
	d.successGauge.Percent = 0
	d.successGauge.BarColor = ui.ColorGreen
	d.successGauge.BorderStyle.Fg = ui.ColorCyan
	d.successGauge.LabelStyle = ui.NewStyle(ui.ColorWhite)

	sparkline := widgets.NewSparkline()
	sparkline.Title = "Latency (ms)"
	sparkline.LineColor = ui.ColorGreen
	sparkline.Data = []float64{0}
	d.latencySparkle = widgets.NewSparklineGroup(sparkline)
	d.latencySparkle.Title = "Successful Probe Latency"
	d.latencySparkle.BorderStyle.Fg = ui.ColorCyan

	d.errorList = widgets.NewList()
	d.errorList.Title = "Errors"
	d.errorList.Rows = []string{"No failures"}
	d.errorList.TextStyle = ui.NewStyle(ui.ColorYellow)
	d.errorList.BorderStyle.Fg = ui.ColorCyan
}

func (d *Dashboard) setupGrid() {
	termWidth, termHeight := ui.TerminalDimensions()

	d.grid = ui.NewGrid()
	d.grid.SetRect(0, 0, termWidth, termHeight)
	d.grid.Set(
		ui.NewRow(0.2,
			ui.NewCol(1.0, d.summaryPara),
		),
		ui.NewRow(0.2,
			ui.NewCol(1.0, d.successGauge),
		),
		ui.NewRow(0.3,
			ui.NewCol(1.0, d.latencySparkle),
		),
		ui.NewRow(0.3,
			ui.NewCol(1.0, d.errorList),
		),
	)
}

// Start begins the dashboard update loop.
func (d *Dashboard) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop stops the dashboard and restores the terminal.
func (d *Dashboard) Stop() {
	d.cancel()
	d.wg.Wait()
	ui.Close()
	// Give terminal time to restore
	time.Sleep(100 * time.Millisecond)
}

func (d *Dashboard) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	uiEvents := ui.PollEvents()

	d.render()
	for {
		select {
		case <-d.ctx.Done():
			for len(uiEvents) > 0 {
				<-uiEvents
			}
			return
		case e := <-uiEvents:
			select {
			case <-d.ctx.Done():
				return
			default:
			}
			switch e.ID {
			case "q", "<C-c>":
				if d.shutdownFunc != nil {
					d.shutdownFunc()
				}
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				d.grid.SetRect(0, 0, payload.Width, payload.Height)
				ui.Clear()
				d.render()
			}
		case <-ticker.C:
			d.update()
			d.render()
		}
	}
}

func (d *Dashboard) update() {
	d.mu.Lock()
	defer d.mu.Unlock()

	total, successes, failures := d.collector.Counts()
	elapsed := time.Since(d.startTime)

	successRate := 0.0
	if total > 0 {
		successRate = float64(successes) / float64(total) * 100
	}

	d.summaryPara.Text = fmt.Sprintf(
		"Target: %s\nWorkers: %d | Elapsed: %s\nSettled: %d/%d | Successes: %d | Failures: %d",
		d.target,
		d.workers,
		elapsed.Round(time.Second),
		total,
		d.workers,
		successes,
		failures,
	)

	d.successGauge.Percent = int(successRate)
	d.successGauge.Label = fmt.Sprintf("%.1f%%", successRate)

	if history := d.collector.LatencyHistory(100); len(history) > 0 {
		d.latencySparkle.Sparklines[0].Data = history
		d.latencySparkle.Title = fmt.Sprintf("Successful Probe Latency | Last: %.0fms", history[len(history)-1])
	}

	d.errorList.Rows = formatErrorRows(d.collector.ErrorBreakdown())
}

func (d *Dashboard) render() {
	d.mu.Lock()
	defer d.mu.Unlock()
	ui.Render(d.grid)
}

func formatErrorRows(errors map[string]int) []string {
	if len(errors) == 0 {
		return []string{"[No failures](fg:green)"}
	}
	names := make([]string, 0, len(errors))
	for name := range errors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if errors[names[i]] == errors[names[j]] {
			return names[i] < names[j]
		}
		return errors[names[i]] > errors[names[j]]
	})
	if len(names) > 10 {
		names = names[:10]
	}
	rows := make([]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, fmt.Sprintf("[%s](fg:red) %d", name, errors[name]))
	}
	return rows
}
