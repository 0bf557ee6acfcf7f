package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/vportales/geoprobe/internal/places"
)

// StreamPrinter writes one status line per settled probe. It is handed to the
// dispatcher as its observer, so lines appear in completion order; the mutex
// keeps lines whole when pool workers finish at the same time.
type StreamPrinter struct {
	mu     sync.Mutex
	writer io.Writer
}

func NewStreamPrinter(w io.Writer) *StreamPrinter {
	if w == nil {
		w = io.Discard
	}
	return &StreamPrinter{writer: w}
}

// Observe prints the status line for one outcome.
func (p *StreamPrinter) Observe(outcome places.Outcome) {
	icon := color.New(color.FgGreen).Sprint("✔")
	if !outcome.Success {
		icon = color.New(color.FgRed).Sprint("✘")
	}

	status := outcome.APIStatus
	if !outcome.Success && outcome.StatusCode == 0 {
		status = "ERROR"
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.writer, "%s Worker %2d: %6.0fms | %-15s | %s\n",
		icon, outcome.WorkerID, outcome.ResponseTimeMs, truncate(outcome.Query, 15), status)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
