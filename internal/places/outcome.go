package places

import "time"

// Outcome is the immutable record of one dispatched probe. It is created
// exactly once per probe, for successes and failures alike.
type Outcome struct {
	WorkerID       int       `json:"worker_id"`
	Query          string    `json:"query"`
	Timestamp      time.Time `json:"timestamp"`
	ResponseTimeMs float64   `json:"response_time_ms"`
	StatusCode     int       `json:"status_code"`
	Success        bool      `json:"success"`
	ResultsCount   int       `json:"results_count"`
	APIStatus      string    `json:"api_status"`
	Error          string    `json:"error,omitempty"`
}
