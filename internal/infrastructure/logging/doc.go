// Package logging provides structured logging for wxcore.
//
// It wraps log/slog with level parsing from configuration and default
// service/version attributes on every record.
package logging
