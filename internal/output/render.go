package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/vportales/geoprobe/internal/analyze"
)

// PrintRunSummary prints the dispatch totals that precede the analysis.
func PrintRunSummary(w io.Writer, total int, elapsed time.Duration) {
	fmt.Fprintf(w, "\nTotal time:        %.2fs\n", elapsed.Seconds())
	if elapsed > 0 {
		fmt.Fprintf(w, "Requests/sec:      %.2f\n", float64(total)/elapsed.Seconds())
	}
}

// PrintAnalysis outputs a human-readable rendering of the aggregate report.
func PrintAnalysis(w io.Writer, a *analyze.Analysis) {
	fmt.Fprintln(w, "\n--- Probe Analysis ---")
	fmt.Fprintf(w, "Successful:        %d/%d\n", a.SuccessMetrics.SuccessfulRequests, a.TestConfig.TotalRequests)
	fmt.Fprintf(w, "Success rate:      %.2f%%\n", a.SuccessMetrics.SuccessRatePercent)

	perf := a.PerformanceMetrics
	fmt.Fprintln(w, "\nLatency (successful probes):")
	fmt.Fprintf(w, "  Avg:             %.2fms\n", perf.AvgResponseTimeMs)
	fmt.Fprintf(w, "  Min:             %.2fms\n", perf.MinResponseTimeMs)
	fmt.Fprintf(w, "  Max:             %.2fms\n", perf.MaxResponseTimeMs)
	fmt.Fprintf(w, "  P50/P90/P99:     %.2f / %.2f / %.2f ms\n",
		perf.P50ResponseTimeMs, perf.P90ResponseTimeMs, perf.P99ResponseTimeMs)

	if len(a.ErrorAnalysis) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, name := range sortedKeys(a.ErrorAnalysis) {
			fmt.Fprintf(w, "  %s: %d\n", name, a.ErrorAnalysis[name])
		}
	}

	fmt.Fprintln(w, "\nStatus distribution:")
	for _, name := range sortedKeys(a.APIStatusDistribution) {
		fmt.Fprintf(w, "  %s: %d\n", name, a.APIStatusDistribution[name])
	}

	cost := a.CostAnalysis
	fmt.Fprintln(w, "\nCost estimate:")
	fmt.Fprintf(w, "  Successful requests: %d\n", cost.SuccessfulRequests)
	fmt.Fprintf(w, "  Estimated cost:      $%.4f USD ($%.4f/request)\n", cost.EstimatedCostUSD, cost.CostPerRequestUSD)

	sec := a.SecurityAssessment
	fmt.Fprintln(w, "\nSecurity assessment:")
	fmt.Fprintf(w, "  Rate limiting detected:  %s\n", flag(sec.RateLimitingDetected, false))
	fmt.Fprintf(w, "  API restrictions:        %s\n", flag(sec.APIRestrictionsDetected, false))
	fmt.Fprintf(w, "  Quota exceeded:          %s\n", flag(sec.QuotaExceeded, false))
	fmt.Fprintf(w, "  Full functionality:      %s\n", flag(sec.FullFunctionality, true))

	if sec.FullFunctionality && !sec.RateLimitingDetected {
		alert := color.New(color.FgRed, color.Bold)
		fmt.Fprintln(w, "\nCRITICAL:")
		fmt.Fprintln(w, alert.Sprint("  API fully functional with no rate limiting detected."))
		fmt.Fprintln(w, alert.Sprint("  High abuse and cost exposure; restrict the key."))
	}
}

// PrintJSONAnalysis outputs the aggregate report as indented JSON.
func PrintJSONAnalysis(w io.Writer, a *analyze.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

// flag renders a boolean as YES/NO. When trueIsBad is set, YES is the alarming
// state and is shown red (an unthrottled key is the finding, not a pass).
func flag(v, trueIsBad bool) string {
	good := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	if v {
		if trueIsBad {
			return bad.Sprint("YES")
		}
		return good.Sprint("YES")
	}
	if trueIsBad {
		return good.Sprint("NO")
	}
	return bad.Sprint("NO")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
