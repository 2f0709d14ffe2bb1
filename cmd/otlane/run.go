package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"trafficlab/otlane/pkg/config"
	"trafficlab/otlane/pkg/cse"
	"trafficlab/otlane/pkg/cse/source"
	"trafficlab/otlane/pkg/results"
	"trafficlab/otlane/pkg/simulation"
	"trafficlab/otlane/pkg/telemetry/logging"
	"trafficlab/otlane/pkg/telemetry/metrics"
	"trafficlab/otlane/pkg/telemetry/tracing"
)

var runFlags struct {
	steps    int
	logLevel string
	rules    string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation with the configured rule set",
	Long: `Run the simulation loop with the specified configuration.

Each timestep the synthetic vehicle feed advances the fleet, the rule set
classifies every vehicle for overtaking-lane access, and per-step counts go
to the metrics collector and the results journal.

Examples:
  # Run with built-in defaults
  otlane run

  # Run with a custom config
  otlane run --config /etc/otlane/config.yaml

  # Override the rule file and step count
  otlane run --rules rules.yaml --steps 500

  # Validate config without running
  otlane run --dry-run`,
	RunE: runSimulation,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runFlags.steps, "steps", -1, "override the number of timesteps (0 runs until interrupted)")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runFlags.rules, "rules", "", "override the rule specification path")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without running")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.steps >= 0 {
		cfg.Simulation.Steps = runFlags.steps
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}
	if runFlags.rules != "" {
		cfg.Rules.Path = runFlags.rules
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Otlane v%s\n", Version)
	if cfgFile != "" {
		fmt.Printf("Loading configuration from: %s\n", cfgFile)
	}
	fmt.Println("✓ Configuration loaded")

	// Metrics
	collector := metrics.NewCollector(&cfg.Metrics.Config, prometheus.NewRegistry())
	if cfg.Metrics.Enabled && cfg.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{}))
		metricsSrv := &http.Server{Addr: cfg.Metrics.Listen, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			metricsSrv.Shutdown(shutdownCtx)
		}()
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Metrics.Listen)
	}

	// Tracing
	tracer, err := tracing.New(&cfg.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer tracer.Shutdown(context.Background())

	// Rule set
	dispatcher := cse.NewDispatcher(logger, cse.WithCollector(collector))
	opts := []simulation.RunnerOption{
		simulation.WithCollector(collector),
		simulation.WithTracer(tracer),
	}

	if cfg.Rules.Path != "" {
		src := source.NewFileSource(cfg.Rules.Path, logger)
		specs, err := src.LoadSpecs(ctx)
		if err != nil {
			return fmt.Errorf("failed to load rules: %w", err)
		}
		if err := dispatcher.AddRulesFromConfig(specs); err != nil {
			return fmt.Errorf("invalid rule configuration: %w", err)
		}
		if cfg.Rules.Watch {
			opts = append(opts, simulation.WithRuleReload(src))
		}
	}
	fmt.Printf("✓ Rule set loaded (%d rules)\n", dispatcher.Size())

	// Scheduled rule profiles
	if len(cfg.Profiles) > 0 {
		scheduler, err := simulation.NewScheduler(cfg.Profiles, logger)
		if err != nil {
			return fmt.Errorf("invalid rule profiles: %w", err)
		}
		opts = append(opts, simulation.WithScheduler(scheduler))
		fmt.Printf("✓ Rule profiles scheduled (%d profiles)\n", scheduler.Len())
	}

	// Results journal
	if cfg.Results.Enabled {
		store, err := results.Open(cfg.Results.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open results journal: %w", err)
		}
		defer store.Close()
		opts = append(opts, simulation.WithResults(store))
		fmt.Printf("✓ Results journal: %s\n", cfg.Results.DBPath)
	}

	feed := simulation.NewSpawner(cfg.Simulation.Spawn, cfg.Simulation.StepLength)
	runner := simulation.NewRunner(cfg.Simulation, dispatcher, feed, nil, logger, opts...)

	fmt.Println("\nPress Ctrl+C to stop")
	return runner.Run(ctx)
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadFile(cfgFile)
}
