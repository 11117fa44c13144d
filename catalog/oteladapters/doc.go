// Package oteladapters plugs OpenTelemetry into the catalog observability interfaces.
//
// MetricsCollector maps catalog.MetricsCollector onto OpenTelemetry instruments and
// SlogBridgeLogger routes catalog.ContextualLogger output through the otelslog bridge,
// so log records carry the trace context of the calling request.
package oteladapters
