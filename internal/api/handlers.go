package api

import (
	"net/http"
	"strconv"
	"time"
)

// maxObservationsLimit caps the ?limit= parameter on /observations.
const maxObservationsLimit = 500

// healthResponse is the payload for GET /api/v1/health.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// statusResponse is the payload for GET /api/v1/status.
type statusResponse struct {
	StationID     string `json:"station_id"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	MQTTConnected bool   `json:"mqtt_connected"`
}

// handleHealth reports the health of the daemon's infrastructure
// connections. Returns 503 when any check fails.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	healthy := true

	if s.database != nil {
		if err := s.database.HealthCheck(r.Context()); err != nil {
			checks["database"] = err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}

	if s.broker != nil {
		if s.broker.IsConnected() {
			checks["mqtt"] = "ok"
		} else {
			checks["mqtt"] = "disconnected"
			healthy = false
		}
	}

	if s.series != nil {
		if err := s.series.HealthCheck(r.Context()); err != nil {
			checks["influxdb"] = err.Error()
			healthy = false
		} else {
			checks["influxdb"] = "ok"
		}
	}

	status := http.StatusOK
	resp := healthResponse{Status: "ok", Checks: checks}
	if !healthy {
		status = http.StatusServiceUnavailable
		resp.Status = "degraded"
	}

	writeJSON(w, status, resp)
}

// handleStatus reports station identity, version, and uptime.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	connected := false
	if s.broker != nil {
		connected = s.broker.IsConnected()
	}

	writeJSON(w, http.StatusOK, statusResponse{
		StationID:     s.stationID,
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		MQTTConnected: connected,
	})
}

// handleObservations serves recent observations from the archive,
// newest first. Accepts an optional ?limit= query parameter.
func (s *Server) handleObservations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxObservationsLimit {
			writeBadRequest(w, "limit must be an integer between 1 and 500")
			return
		}
		limit = parsed
	}

	observations, err := s.observations.Recent(r.Context(), s.stationID, limit)
	if err != nil {
		s.logger.Error("failed to read observations", "error", err)
		writeInternalError(w, "failed to read observations")
		return
	}

	writeJSON(w, http.StatusOK, observations)
}
