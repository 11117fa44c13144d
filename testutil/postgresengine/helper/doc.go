// Package helper provides testing utilities, fixtures, and spies for PostgreSQL catalog engine testing.
//
// This package contains shared testing infrastructure including a slog handler spy
// for capturing and validating log output, a metrics collector spy, and Given* helpers
// for arranging catalog rows used across the PostgreSQL engine test suite.
package helper
