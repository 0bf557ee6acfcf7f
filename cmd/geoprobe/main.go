package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/vportales/geoprobe/internal/analyze"
	"github.com/vportales/geoprobe/internal/catalog"
	"github.com/vportales/geoprobe/internal/config"
	"github.com/vportales/geoprobe/internal/dashboard"
	"github.com/vportales/geoprobe/internal/dispatch"
	"github.com/vportales/geoprobe/internal/output"
	"github.com/vportales/geoprobe/internal/places"
	"github.com/vportales/geoprobe/internal/tracing"
)

const tracerShutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	queries := catalog.DefaultQueries
	if cfg.QueriesFile != "" {
		queries, err = catalog.LoadQueries(cfg.QueriesFile)
		if err != nil {
			return err
		}
	}
	cat, err := catalog.New(queries, catalog.Shared{
		Key:      cfg.APIKey,
		Location: cfg.Location,
		Radius:   cfg.Radius,
		Language: cfg.Language,
	})
	if err != nil {
		return err
	}

	prober, err := places.NewProber(places.NewClient(cfg.Timeout), cat, cfg.TargetURL)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tracer, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer shutdownCancel()
		_ = tracer.Shutdown(shutdownCtx)
	}()

	var requester dispatch.Requester = prober
	if cfg.Tracing.Enabled {
		requester = &tracedRequester{next: prober, tracer: tracer.Tracer()}
	}

	collector := dispatch.NewCollector(cfg.Workers)

	var observer dispatch.Observer
	if !cfg.JSONOutput && !cfg.Dashboard {
		printer := output.NewStreamPrinter(os.Stdout)
		observer = printer.Observe
	}

	d, err := dispatch.New(toDispatchStrategy(cfg.Mode), dispatch.Options{
		Workers:       cfg.Workers,
		RatePerSecond: cfg.Rate,
		Requester:     requester,
		Observer:      observer,
		Collector:     collector,
	})
	if err != nil {
		return err
	}

	stopDash := func() {}
	if cfg.Dashboard {
		dash, err := dashboard.New(collector, cfg.TargetURL, cfg.Workers, cancel)
		if err != nil {
			return err
		}
		dash.Start()
		var once sync.Once
		stopDash = func() { once.Do(dash.Stop) }
		defer stopDash()
	}

	result := d.Dispatch(ctx)
	stopDash()

	analysis, err := analyze.Analyze(result.Outcomes, analyze.Options{
		Workers:         cfg.Workers,
		PricePerRequest: cfg.PricePerRequest,
	})
	if err != nil {
		if errors.Is(err, analyze.ErrNoResults) {
			fmt.Fprintln(os.Stdout, "No results to analyze")
			return nil
		}
		return err
	}

	if cfg.JSONOutput {
		if err := output.PrintJSONAnalysis(os.Stdout, analysis); err != nil {
			return err
		}
	} else {
		output.PrintRunSummary(os.Stdout, len(result.Outcomes), result.Duration)
		output.PrintAnalysis(os.Stdout, analysis)
	}

	if !cfg.NoSave {
		path, err := output.SaveReport(cfg.OutputDir, analysis, result.Outcomes, cfg.Workers)
		if err != nil {
			return err
		}
		if !cfg.JSONOutput {
			fmt.Fprintf(os.Stdout, "\nReport saved to %s\n", path)
		}
	}

	return nil
}

func toDispatchStrategy(mode config.Mode) dispatch.Strategy {
	switch mode {
	case config.ModeCooperative:
		return dispatch.StrategyCooperative
	default:
		return dispatch.StrategyPooled
	}
}
