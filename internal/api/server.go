// Package api provides the operational HTTP API for wxcore.
//
// It exposes health, status, and recent-observation endpoints for
// monitoring and local tooling. The server follows the same lifecycle
// pattern as the other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nbwx/wxcore/internal/infrastructure/config"
	"github.com/nbwx/wxcore/internal/infrastructure/logging"
	"github.com/nbwx/wxcore/internal/station"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// ObservationReader serves recent observations from the archive.
// Satisfied by station.SQLiteRepository.
type ObservationReader interface {
	Recent(ctx context.Context, stationID string, limit int) ([]station.Observation, error)
}

// HealthChecker reports the health of an infrastructure connection.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// BrokerStatus reports the MQTT connection state.
// Satisfied by mqtt.Connector.
type BrokerStatus interface {
	IsConnected() bool
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config       config.APIConfig
	StationID    string
	Logger       *logging.Logger
	Observations ObservationReader
	Database     HealthChecker
	Broker       BrokerStatus
	TimeSeries   HealthChecker // nil when InfluxDB is disabled
	Version      string
}

// Server is the operational HTTP server for wxcore.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg          config.APIConfig
	stationID    string
	logger       *logging.Logger
	observations ObservationReader
	database     HealthChecker
	broker       BrokerStatus
	series       HealthChecker
	version      string
	startedAt    time.Time
	server       *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, archive reader)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Observations == nil {
		return nil, fmt.Errorf("observation reader is required")
	}
	if deps.StationID == "" {
		return nil, fmt.Errorf("station id is required")
	}

	return &Server{
		cfg:          deps.Config,
		stationID:    deps.StationID,
		logger:       deps.Logger,
		observations: deps.Observations,
		database:     deps.Database,
		broker:       deps.Broker,
		series:       deps.TimeSeries,
		version:      deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// The listener runs in a background goroutine; stop it with Close().
//
// Parameters:
//   - ctx: Unused for the listener lifetime; kept for lifecycle
//     symmetry with the other components
//
// Returns:
//   - error: nil (listen errors are logged asynchronously)
func (s *Server) Start(_ context.Context) error {
	s.startedAt = time.Now().UTC()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
