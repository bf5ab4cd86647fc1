// wxcore - Weather Station Telemetry Core
//
// This is the main entry point for the wxcore daemon. It samples
// weather observations, archives them in SQLite, analyses trends, and
// publishes telemetry over MQTT with optional InfluxDB storage.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nbwx/wxcore/migrations"

	"github.com/nbwx/wxcore/internal/api"
	"github.com/nbwx/wxcore/internal/infrastructure/config"
	"github.com/nbwx/wxcore/internal/infrastructure/database"
	"github.com/nbwx/wxcore/internal/infrastructure/influxdb"
	"github.com/nbwx/wxcore/internal/infrastructure/logging"
	"github.com/nbwx/wxcore/internal/infrastructure/mqtt"
	"github.com/nbwx/wxcore/internal/station"
	"github.com/nbwx/wxcore/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting wxcore",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the observation archive
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	repo := station.NewSQLiteRepository(db.DB)

	// Connect to the MQTT broker; Start blocks until the connection
	// outcome is known
	conn := mqtt.NewConnector(cfg.MQTT)
	conn.SetLogger(log)
	if err := conn.Start(); err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if stopErr := conn.Stop(); stopErr != nil && !errors.Is(stopErr, mqtt.ErrNotStarted) {
			log.Error("error stopping MQTT", "error", stopErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	var series telemetry.TimeSeries
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		series = influxClient
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the operational HTTP API (optional)
	if cfg.API.Enabled {
		var seriesHealth api.HealthChecker
		if influxClient != nil {
			seriesHealth = influxClient
		}
		apiServer, err := api.New(api.Deps{
			Config:       cfg.API,
			StationID:    cfg.Station.ID,
			Logger:       log,
			Observations: repo,
			Database:     db,
			Broker:       conn,
			TimeSeries:   seriesHealth,
			Version:      version,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		if err := apiServer.Start(ctx); err != nil {
			return fmt.Errorf("starting API server: %w", err)
		}
		defer func() {
			if closeErr := apiServer.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("API server disabled")
	}

	source, err := newSource(cfg)
	if err != nil {
		return err
	}

	publisher, err := telemetry.NewPublisher(
		cfg.Station.ID,
		conn.Handle(),
		repo,
		series,
		cfg.Telemetry.TrendSamples,
		cfg.Telemetry.TendencySamples,
		log,
	)
	if err != nil {
		return fmt.Errorf("assembling telemetry pipeline: %w", err)
	}

	log.Info("initialisation complete, starting telemetry",
		"station_id", cfg.Station.ID,
		"sample_interval", cfg.Telemetry.GetSampleInterval(),
	)

	if err := telemetry.Run(ctx, publisher, source, cfg.Telemetry.GetSampleInterval()); err != nil &&
		!errors.Is(err, context.Canceled) {
		return fmt.Errorf("telemetry loop: %w", err)
	}

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. InfluxDB (if enabled)
	// 2. MQTT
	// 3. Database

	log.Info("wxcore stopped")
	return nil
}

// newSource builds the observation source selected in config.
func newSource(cfg *config.Config) (telemetry.Source, error) {
	switch cfg.Telemetry.Source {
	case "sim", "":
		return telemetry.NewSimulatedSource(cfg.Station.ID, 1), nil
	default:
		return nil, fmt.Errorf("unknown telemetry source %q", cfg.Telemetry.Source)
	}
}

// getConfigPath returns the configuration file path.
// Uses WXCORE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("WXCORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
