// Package database provides the SQLite observation archive for wxcore.
//
// The archive uses WAL mode with a single-writer connection pool and
// applies embedded schema migrations at startup. The station keeps a
// local copy of every observation so an uplink outage never loses
// data.
package database
