package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vportales/geoprobe/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEOPROBE_API_KEY", "")

	cfg, err := config.NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TargetURL != config.DefaultTarget {
		t.Errorf("TargetURL = %q", cfg.TargetURL)
	}
	if cfg.Workers != 50 {
		t.Errorf("Workers = %d, want 50", cfg.Workers)
	}
	if cfg.Mode != config.ModePooled {
		t.Errorf("Mode = %q, want pooled", cfg.Mode)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Rate != 0 {
		t.Errorf("Rate = %d, want 0", cfg.Rate)
	}
	if cfg.PricePerRequest != 0.017 {
		t.Errorf("PricePerRequest = %v, want 0.017", cfg.PricePerRequest)
	}
	if cfg.Location != "-33.4489,-70.6693" {
		t.Errorf("Location = %q", cfg.Location)
	}
	if cfg.Radius != 50000 {
		t.Errorf("Radius = %d, want 50000", cfg.Radius)
	}
	if cfg.Language != "es" {
		t.Errorf("Language = %q, want es", cfg.Language)
	}
	if cfg.OutputDir != "." {
		t.Errorf("OutputDir = %q, want .", cfg.OutputDir)
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{
		"--api-key", "flag-key",
		"-w", "120",
		"-m", "Cooperative",
		"-r", "10",
		"--timeout", "5s",
		"--price", "0.02",
		"--no-save",
		"--json-output",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.APIKey != "flag-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Workers != 120 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.Mode != config.ModeCooperative {
		t.Errorf("Mode = %q, want lowercased cooperative", cfg.Mode)
	}
	if cfg.Rate != 10 {
		t.Errorf("Rate = %d", cfg.Rate)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.PricePerRequest != 0.02 {
		t.Errorf("PricePerRequest = %v", cfg.PricePerRequest)
	}
	if !cfg.NoSave {
		t.Error("NoSave = false")
	}
	if !cfg.JSONOutput {
		t.Error("JSONOutput = false")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geoprobe.yaml")
	content := strings.Join([]string{
		"api_key: file-key",
		"workers: 200",
		"mode: cooperative",
		"rate: 25",
		"language: en",
		"tracing:",
		"  enabled: true",
		"  endpoint: localhost:4317",
		"  protocol: grpc",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.APIKey != "file-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Workers != 200 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.Mode != config.ModeCooperative {
		t.Errorf("Mode = %q", cfg.Mode)
	}
	if cfg.Rate != 25 {
		t.Errorf("Rate = %d", cfg.Rate)
	}
	if cfg.Language != "en" {
		t.Errorf("Language = %q", cfg.Language)
	}
	if !cfg.Tracing.Enabled {
		t.Error("Tracing.Enabled = false")
	}
	if cfg.Tracing.Endpoint != "localhost:4317" {
		t.Errorf("Tracing.Endpoint = %q", cfg.Tracing.Endpoint)
	}
}

func TestLoadFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geoprobe.yaml")
	if err := os.WriteFile(path, []byte("workers: 200\napi_key: file-key\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path, "-w", "10"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Workers != 10 {
		t.Errorf("Workers = %d, want flag to win over file", cfg.Workers)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("APIKey = %q, want file value preserved", cfg.APIKey)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := config.NewLoader().Load([]string{"--config", "/nonexistent/geoprobe.yaml"}); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GEOPROBE_API_KEY", "env-key")

	cfg, err := config.NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env fallback", cfg.APIKey)
	}
}

func TestLoadFlagBeatsEnvAPIKey(t *testing.T) {
	t.Setenv("GEOPROBE_API_KEY", "env-key")

	cfg, err := config.NewLoader().Load([]string{"--api-key", "flag-key"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "flag-key" {
		t.Errorf("APIKey = %q, want flag to win", cfg.APIKey)
	}
}

func TestLoadHelp(t *testing.T) {
	if _, err := config.NewLoader().Load([]string{"--help"}); !errors.Is(err, config.ErrHelpRequested) {
		t.Fatalf("err = %v, want ErrHelpRequested", err)
	}
}

func TestLoadUnknownFlag(t *testing.T) {
	if _, err := config.NewLoader().Load([]string{"--bogus"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func validConfig() config.Config {
	return config.Config{
		TargetURL:       config.DefaultTarget,
		APIKey:          "key",
		Workers:         50,
		Mode:            config.ModePooled,
		Timeout:         30 * time.Second,
		PricePerRequest: 0.017,
		Location:        "-33.4489,-70.6693",
		Radius:          50000,
		Language:        "es",
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing api key", func(c *config.Config) { c.APIKey = "" }},
		{"missing target", func(c *config.Config) { c.TargetURL = "  " }},
		{"zero workers", func(c *config.Config) { c.Workers = 0 }},
		{"negative rate", func(c *config.Config) { c.Rate = -1 }},
		{"zero timeout", func(c *config.Config) { c.Timeout = 0 }},
		{"negative price", func(c *config.Config) { c.PricePerRequest = -0.01 }},
		{"zero radius", func(c *config.Config) { c.Radius = 0 }},
		{"bad location", func(c *config.Config) { c.Location = "santiago" }},
		{"bad mode", func(c *config.Config) { c.Mode = "burst" }},
		{"dashboard with json", func(c *config.Config) { c.Dashboard = true; c.JSONOutput = true }},
		{"bad trace protocol", func(c *config.Config) {
			c.Tracing.Enabled = true
			c.Tracing.Protocol = "ftp"
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr config.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err type %T, want ValidationError", err)
			}
			if len(verr.Issues()) == 0 {
				t.Fatal("ValidationError has no issues")
			}
		})
	}
}

func TestValidateCollectsMultipleIssues(t *testing.T) {
	cfg := validConfig()
	cfg.APIKey = ""
	cfg.Workers = 0
	cfg.Timeout = 0

	err := cfg.Validate()
	var verr config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v", err)
	}
	if got := len(verr.Issues()); got != 3 {
		t.Fatalf("got %d issues, want 3: %v", got, verr.Issues())
	}
}
