package station

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500
)

// SQLiteRepository persists observations in the observations table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite observation repository.
//
// Parameters:
//   - db: Open SQLite connection used for queries
//
// Returns:
//   - *SQLiteRepository: Repository instance ready for use
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save inserts an observation and fills in its row ID.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - obs: Observation to persist; ObservedAt defaults to now if zero
//
// Returns:
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteRepository) Save(ctx context.Context, obs *Observation) error {
	if obs == nil {
		return fmt.Errorf("observation is required")
	}
	if obs.StationID == "" {
		return fmt.Errorf("station id is required")
	}
	if obs.ObservedAt.IsZero() {
		obs.ObservedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO observations (station_id, observed_at, pressure_hpa, temperature_c, humidity_pct)
		 VALUES (?, ?, ?, ?, ?)`,
		obs.StationID,
		obs.ObservedAt.UTC().Format(time.RFC3339),
		obs.PressureHPa,
		obs.TemperatureC,
		obs.HumidityPct,
	)
	if err != nil {
		return fmt.Errorf("inserting observation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading insert id: %w", err)
	}
	obs.ID = id

	return nil
}

// Recent returns the latest observations for a station, ordered newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - stationID: Station identifier
//   - limit: Maximum entries to return (default 50, max 500)
//
// Returns:
//   - []Observation: Observations ordered by observed_at DESC
//   - error: nil on success, otherwise the underlying query error
func (r *SQLiteRepository) Recent(ctx context.Context, stationID string, limit int) ([]Observation, error) {
	if stationID == "" {
		return nil, fmt.Errorf("station id is required")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, station_id, observed_at, pressure_hpa, temperature_c, humidity_pct
		 FROM observations
		 WHERE station_id = ?
		 ORDER BY observed_at DESC
		 LIMIT ?`,
		stationID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	observations := make([]Observation, 0, limit)
	for rows.Next() {
		var obs Observation
		var observedAt string

		if err := rows.Scan(&obs.ID, &obs.StationID, &observedAt,
			&obs.PressureHPa, &obs.TemperatureC, &obs.HumidityPct); err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}

		timestamp, err := parseObservedAt(observedAt)
		if err != nil {
			return nil, err
		}
		obs.ObservedAt = timestamp

		observations = append(observations, obs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating observations: %w", err)
	}

	return observations, nil
}

// Prune deletes observations older than the given duration.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - olderThan: Duration to retain (observations older than now-olderThan are deleted)
//
// Returns:
//   - int64: Number of rows deleted
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM observations WHERE observed_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting observations: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

// parseObservedAt parses a timestamp stored in SQLite.
func parseObservedAt(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("observed_at is empty")
	}

	timestamp, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing observed_at: %w", err)
	}

	return timestamp, nil
}
