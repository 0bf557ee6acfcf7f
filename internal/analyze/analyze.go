// Package analyze reduces a completed set of outcome records to the
// aggregate report. Analysis is a pure function of its input: the same
// records always produce the same numbers.
package analyze

import (
	"errors"
	"math"
	"strings"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/vportales/geoprobe/internal/places"
)

// ErrNoResults is returned when there are no outcome records to analyze. An
// empty run yields no report rather than misleading zeros.
var ErrNoResults = errors.New("no outcome records to analyze")

// Options carries the run parameters echoed into the report.
type Options struct {
	Workers         int
	PricePerRequest float64
}

type Analysis struct {
	TestConfig            TestConfig         `json:"test_config"`
	SuccessMetrics        SuccessMetrics     `json:"success_metrics"`
	PerformanceMetrics    PerformanceMetrics `json:"performance_metrics"`
	ErrorAnalysis         map[string]int     `json:"error_analysis"`
	APIStatusDistribution map[string]int     `json:"api_status_distribution"`
	CostAnalysis          CostAnalysis       `json:"cost_analysis"`
	SecurityAssessment    SecurityAssessment `json:"security_assessment"`
}

type TestConfig struct {
	Workers       int `json:"workers"`
	TotalRequests int `json:"total_requests"`
}

type SuccessMetrics struct {
	SuccessfulRequests int     `json:"successful_requests"`
	FailedRequests     int     `json:"failed_requests"`
	SuccessRatePercent float64 `json:"success_rate_percent"`
}

type PerformanceMetrics struct {
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
	MinResponseTimeMs float64 `json:"min_response_time_ms"`
	MaxResponseTimeMs float64 `json:"max_response_time_ms"`
	P50ResponseTimeMs float64 `json:"p50_response_time_ms"`
	P90ResponseTimeMs float64 `json:"p90_response_time_ms"`
	P99ResponseTimeMs float64 `json:"p99_response_time_ms"`
}

type CostAnalysis struct {
	SuccessfulRequests int     `json:"successful_requests"`
	EstimatedCostUSD   float64 `json:"estimated_cost_usd"`
	CostPerRequestUSD  float64 `json:"cost_per_request_usd"`
}

type SecurityAssessment struct {
	RateLimitingDetected    bool `json:"rate_limiting_detected"`
	APIRestrictionsDetected bool `json:"api_restrictions_detected"`
	QuotaExceeded           bool `json:"quota_exceeded"`
	FullFunctionality       bool `json:"full_functionality"`
}

// Analyze computes the aggregate report over a complete, non-empty outcome
// record set.
func Analyze(records []places.Outcome, opt Options) (*Analysis, error) {
	if len(records) == 0 {
		return nil, ErrNoResults
	}

	total := len(records)
	successes := 0
	errorCounts := map[string]int{}
	statusCounts := map[string]int{}

	rateLimiting := false
	restrictions := false
	quotaExceeded := false

	// Latencies from 1µs to 60s with 3 significant figures, successes only.
	hist := hdrhistogram.New(1, 60_000_000, 3)
	var sumMs, minMs, maxMs float64

	for _, record := range records {
		status := record.APIStatus
		if status == "" {
			status = places.StatusUnknown
		}
		statusCounts[status]++
		if status == places.StatusOverQueryLimit {
			quotaExceeded = true
		}

		if record.Success {
			successes++
			ms := record.ResponseTimeMs
			sumMs += ms
			if successes == 1 || ms < minMs {
				minMs = ms
			}
			if ms > maxMs {
				maxMs = ms
			}
			_ = hist.RecordValue(clampMicros(ms, hist))
			continue
		}

		errText := record.Error
		if errText == "" {
			errText = "Unknown error"
		}
		errorCounts[errText]++
		if strings.Contains(strings.ToLower(errText), "rate limit") {
			rateLimiting = true
		}
		if strings.Contains(errText, "403") {
			restrictions = true
		}
	}

	successRate := float64(successes) / float64(total) * 100

	perf := PerformanceMetrics{}
	if successes > 0 {
		perf.AvgResponseTimeMs = sumMs / float64(successes)
		perf.MinResponseTimeMs = minMs
		perf.MaxResponseTimeMs = maxMs
		perf.P50ResponseTimeMs = float64(hist.ValueAtQuantile(50)) / 1000
		perf.P90ResponseTimeMs = float64(hist.ValueAtQuantile(90)) / 1000
		perf.P99ResponseTimeMs = float64(hist.ValueAtQuantile(99)) / 1000
	}

	return &Analysis{
		TestConfig: TestConfig{
			Workers:       opt.Workers,
			TotalRequests: total,
		},
		SuccessMetrics: SuccessMetrics{
			SuccessfulRequests: successes,
			FailedRequests:     total - successes,
			SuccessRatePercent: round2(successRate),
		},
		PerformanceMetrics:    perf,
		ErrorAnalysis:         errorCounts,
		APIStatusDistribution: statusCounts,
		CostAnalysis: CostAnalysis{
			SuccessfulRequests: successes,
			EstimatedCostUSD:   round4(float64(successes) * opt.PricePerRequest),
			CostPerRequestUSD:  opt.PricePerRequest,
		},
		SecurityAssessment: SecurityAssessment{
			RateLimitingDetected:    rateLimiting,
			APIRestrictionsDetected: restrictions,
			QuotaExceeded:           quotaExceeded,
			FullFunctionality:       successRate > 90,
		},
	}, nil
}

func clampMicros(ms float64, hist *hdrhistogram.Histogram) int64 {
	us := int64(math.Round(ms * 1000))
	if us < hist.LowestTrackableValue() {
		us = hist.LowestTrackableValue()
	}
	if us > hist.HighestTrackableValue() {
		us = hist.HighestTrackableValue()
	}
	return us
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
