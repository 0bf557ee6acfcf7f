package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Mode selects the dispatch strategy for a run.
type Mode string

const (
	// ModePooled runs probes on a fixed-size worker pool fed from a task queue.
	ModePooled Mode = "pooled"
	// ModeCooperative issues every probe at once over one shared session.
	ModeCooperative Mode = "cooperative"
)

// DefaultTarget is the Places-style text search endpoint probed by default.
const DefaultTarget = "https://maps.googleapis.com/maps/api/place/textsearch/json"

type Config struct {
	TargetURL       string        `mapstructure:"target"`
	APIKey          string        `mapstructure:"api_key"`
	Workers         int           `mapstructure:"workers"`
	Mode            Mode          `mapstructure:"mode"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Rate            int           `mapstructure:"rate"`
	PricePerRequest float64       `mapstructure:"price_per_request"`
	Location        string        `mapstructure:"location"`
	Radius          int           `mapstructure:"radius"`
	Language        string        `mapstructure:"language"`
	QueriesFile     string        `mapstructure:"queries_file"`
	OutputDir       string        `mapstructure:"output_dir"`
	NoSave          bool          `mapstructure:"no_save"`
	JSONOutput      bool          `mapstructure:"json_output"`
	Dashboard       bool          `mapstructure:"dashboard"`
	Tracing         TracingConfig `mapstructure:"tracing"`
	ConfigFile      string        `mapstructure:"-"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	Protocol    string `mapstructure:"protocol"`
	Insecure    bool   `mapstructure:"insecure"`
	ServiceName string `mapstructure:"service_name"`
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if strings.TrimSpace(c.TargetURL) == "" {
		issues = append(issues, "target is required")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		issues = append(issues, "api_key is required (flag, config file, or GEOPROBE_API_KEY)")
	}
	if c.Workers < 1 {
		issues = append(issues, "workers must be >= 1")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate must be >= 0")
	}
	if c.Timeout <= 0 {
		issues = append(issues, "timeout must be > 0")
	}
	if c.PricePerRequest < 0 {
		issues = append(issues, "price_per_request must be >= 0")
	}
	if c.Radius <= 0 {
		issues = append(issues, "radius must be > 0")
	}
	if !validLocation(c.Location) {
		issues = append(issues, fmt.Sprintf("location %q must be a lat,lng pair", c.Location))
	}

	switch c.Mode {
	case ModePooled, ModeCooperative:
	default:
		issues = append(issues, fmt.Sprintf("mode %q is not supported (use pooled or cooperative)", c.Mode))
	}

	if c.Dashboard && c.JSONOutput {
		issues = append(issues, "dashboard and json-output are mutually exclusive")
	}

	tracingIssues := validateTracingConfig(c.Tracing)
	if len(tracingIssues) > 0 {
		issues = append(issues, tracingIssues...)
	}

	if c.Workers > 500 {
		fmt.Fprintf(os.Stderr, "WARNING: High worker count configured (%d). Ensure you have authorization to probe the target system.\n", c.Workers)
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateTracingConfig(tr TracingConfig) []string {
	if !tr.Enabled {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(tr.Protocol)) {
	case "", "grpc", "http":
		return nil
	default:
		return []string{fmt.Sprintf("tracing: protocol %q is not supported (use grpc or http)", tr.Protocol)}
	}
}

func validLocation(loc string) bool {
	parts := strings.Split(strings.TrimSpace(loc), ",")
	if len(parts) != 2 {
		return false
	}
	for _, part := range parts {
		if _, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err != nil {
			return false
		}
	}
	return true
}
