package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/vportales/geoprobe/internal/analyze"
	"github.com/vportales/geoprobe/internal/places"
)

// Report is the persisted envelope: the aggregate analysis plus every raw
// outcome record of the run.
type Report struct {
	RunID           string           `json:"run_id"`
	GeneratedAt     time.Time        `json:"generated_at"`
	AnalysisSummary *analyze.Analysis `json:"analysis_summary"`
	DetailedResults []places.Outcome `json:"detailed_results"`
}

// SaveReport writes one JSON report document for the run and returns its
// path. The filename carries the worker count and a sortable timestamp.
func SaveReport(dir string, a *analyze.Analysis, records []places.Outcome, workers int) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	now := time.Now()
	report := Report{
		RunID:           ulid.Make().String(),
		GeneratedAt:     now,
		AnalysisSummary: a,
		DetailedResults: records,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("geoprobe_report_%dworkers_%s.json", workers, now.Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
