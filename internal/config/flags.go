package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "geoprobe",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Target flags
	flags.String("target", DefaultTarget, "Text search endpoint to probe")
	flags.String("api-key", "", "API key sent with every probe (falls back to GEOPROBE_API_KEY)")
	flags.String("location", "-33.4489,-70.6693", "Anchor coordinates as lat,lng")
	flags.Int("radius", 50000, "Search radius in meters")
	flags.String("language", "es", "Response language code")
	flags.String("queries-file", "", "CSV, JSON or YAML file with the probe query catalog")

	// Load control flags
	flags.IntP("workers", "w", 50, "Number of probes to dispatch (one per worker index)")
	flags.StringP("mode", "m", string(ModePooled), "Dispatch strategy: 'pooled' or 'cooperative'")
	flags.IntP("rate", "r", 0, "Probes per second pacing limit (0 means unlimited)")
	flags.Duration("timeout", 30*time.Second, "Per-probe timeout")

	// Report flags
	flags.Float64("price", 0.017, "Billed price per successful request in USD")
	flags.String("output-dir", ".", "Directory for the persisted JSON report")
	flags.Bool("no-save", false, "Skip writing the JSON report file")
	flags.Bool("json-output", false, "Emit the analysis as JSON instead of the console summary")
	flags.Bool("dashboard", false, "Show live terminal dashboard during dispatch")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Tracing flags
	flags.Bool("trace", false, "Export one OTLP span per probe")
	flags.String("trace-endpoint", "", "OTLP collector endpoint (falls back to OTEL_EXPORTER_OTLP_ENDPOINT)")
	flags.String("trace-protocol", "grpc", "OTLP transport: 'grpc' or 'http'")
	flags.Bool("trace-insecure", false, "Skip TLS verification for the OTLP exporter")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("target") {
		val, err := fs.GetString("target")
		if err != nil {
			return err
		}
		cfg.TargetURL = strings.TrimSpace(val)
	}
	if fs.Changed("api-key") {
		val, err := fs.GetString("api-key")
		if err != nil {
			return err
		}
		cfg.APIKey = strings.TrimSpace(val)
	}
	if fs.Changed("location") {
		val, err := fs.GetString("location")
		if err != nil {
			return err
		}
		cfg.Location = strings.TrimSpace(val)
	}
	if fs.Changed("radius") {
		val, err := fs.GetInt("radius")
		if err != nil {
			return err
		}
		cfg.Radius = val
	}
	if fs.Changed("language") {
		val, err := fs.GetString("language")
		if err != nil {
			return err
		}
		cfg.Language = strings.TrimSpace(val)
	}
	if fs.Changed("queries-file") {
		val, err := fs.GetString("queries-file")
		if err != nil {
			return err
		}
		cfg.QueriesFile = strings.TrimSpace(val)
	}
	if fs.Changed("workers") {
		val, err := fs.GetInt("workers")
		if err != nil {
			return err
		}
		cfg.Workers = val
	}
	if fs.Changed("mode") {
		val, err := fs.GetString("mode")
		if err != nil {
			return err
		}
		cfg.Mode = Mode(strings.ToLower(strings.TrimSpace(val)))
	}
	if fs.Changed("rate") {
		val, err := fs.GetInt("rate")
		if err != nil {
			return err
		}
		cfg.Rate = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("price") {
		val, err := fs.GetFloat64("price")
		if err != nil {
			return err
		}
		cfg.PricePerRequest = val
	}
	if fs.Changed("output-dir") {
		val, err := fs.GetString("output-dir")
		if err != nil {
			return err
		}
		cfg.OutputDir = strings.TrimSpace(val)
	}
	if fs.Changed("no-save") {
		val, err := fs.GetBool("no-save")
		if err != nil {
			return err
		}
		cfg.NoSave = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("dashboard") {
		val, err := fs.GetBool("dashboard")
		if err != nil {
			return err
		}
		cfg.Dashboard = val
	}
	if fs.Changed("trace") {
		val, err := fs.GetBool("trace")
		if err != nil {
			return err
		}
		cfg.Tracing.Enabled = val
	}
	if fs.Changed("trace-endpoint") {
		val, err := fs.GetString("trace-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("trace-protocol") {
		val, err := fs.GetString("trace-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("trace-insecure") {
		val, err := fs.GetBool("trace-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	return nil
}
