package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-sim/internal/command"
	"github.com/nerrad567/gray-logic-sim/internal/history"
	"github.com/nerrad567/gray-logic-sim/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-sim/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-sim/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-sim/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-sim/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-sim/internal/simulation"
	"github.com/nerrad567/gray-logic-sim/internal/telemetry"
)

// stdStream selects stdin or stdout in place of a file path.
const stdStream = "-"

type runOptions struct {
	configPath string
	input      string
	output     string
	runID      string
}

func newRunCmd(configPath *string) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [input] [output]",
		Short: "Execute a command script and write the log",
		Long: `Execute a tab-separated command script.

The input defaults to simulation.input from the configuration, then stdin.
The output defaults to simulation.output, then stdout. Use "-" for either
stream explicitly.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath = *configPath
			if len(args) > 0 {
				opts.input = args[0]
			}
			if len(args) > 1 {
				opts.output = args[1]
			}
			return runSimulation(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "identifier stored with history rows (generated when empty)")
	return cmd
}

// runSimulation is the run command, separated from cobra for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - opts: Paths and run identifier from the command line
//   - stdin, stdout: Streams used when no file is configured
//
// Returns:
//   - error: Setup or I/O failure. Failed script commands are only logged.
func runSimulation(ctx context.Context, opts runOptions, stdin io.Reader, stdout io.Writer) (err error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.input != "" {
		cfg.Simulation.Input = opts.input
	}
	if opts.output != "" {
		cfg.Simulation.Output = opts.output
	}

	log := logging.New(cfg.Logging, version)
	defer log.Close() //nolint:errcheck // Nothing left to report to
	log.Info("starting Gray Logic Sim",
		"version", version,
		"commit", commit,
		"site", cfg.Site.ID,
	)

	sim := simulation.New()
	sim.SetLogger(log)

	if cfg.History.Enabled {
		db, store, histErr := openHistory(ctx, cfg.History, opts.runID)
		if histErr != nil {
			return histErr
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing history database", "error", closeErr)
			}
		}()
		sim.AddRecorder(store)
		log.Info("history enabled", "path", db.Path(), "run_id", store.RunID())
	}

	var statePublisher *telemetry.StatePublisher
	if cfg.MQTT.Enabled {
		topics := mqtt.Topics{Site: cfg.Site.ID}
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT, topics)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		mqttClient.SetLogger(log)
		defer func() {
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		statePublisher = telemetry.NewStatePublisher(mqttClient, topics)
		sim.AddRecorder(statePublisher)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	}

	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		influxClient.SetOnError(func(writeErr error) {
			log.Error("InfluxDB write error", "error", writeErr)
		})
		// Close flushes pending points.
		defer func() {
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		sim.AddRecorder(telemetry.NewMetricsWriter(influxClient, cfg.Site.ID))
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	}

	in, closeIn, err := openInput(cfg.Simulation.Input, stdin)
	if err != nil {
		return err
	}
	defer closeIn() //nolint:errcheck // Read-only file

	out, closeOut, err := openOutput(cfg.Simulation.Output, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeOut(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", closeErr)
		}
	}()

	interp := command.New(sim)
	interp.SetLogger(log)
	if _, err = interp.Run(ctx, in, out); err != nil {
		return err
	}

	if statePublisher != nil && sim.ClockSet() {
		report, reportErr := sim.Report()
		if reportErr == nil {
			reportErr = statePublisher.PublishReport(report)
		}
		if reportErr != nil {
			log.Warn("publishing final report failed", "error", reportErr)
		}
	}
	return nil
}

// openHistory opens the history database, applies migrations and returns
// a store bound to runID.
func openHistory(ctx context.Context, cfg config.HistoryConfig, runID string) (*database.DB, *history.Store, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // Already failing
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, history.NewStore(db.DB, runID), nil
}

func openInput(path string, stdin io.Reader) (io.Reader, func() error, error) {
	if path == "" || path == stdStream {
		return stdin, noClose, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return f, f.Close, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == stdStream {
		return stdout, noClose, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	return f, f.Close, nil
}

func noClose() error { return nil }
