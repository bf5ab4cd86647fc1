// Package station defines the weather station domain model and its
// SQLite-backed observation archive.
//
// An Observation is one sampled reading (pressure, temperature,
// humidity) from a station. SQLiteRepository persists observations,
// serves recent history newest first, and prunes aged rows so the
// archive stays bounded on long-running deployments.
package station
