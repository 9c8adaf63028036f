// Package otel provides a stub for OpenTelemetry tracing setup.
// Distributed tracing export will be wired once a collector is deployed.
package otel

import (
	"context"
	"log/slog"
)

// ShutdownFunc is called to flush and shut down the trace provider.
type ShutdownFunc func(ctx context.Context) error

// InitTracer returns a no-op shutdown function. Metrics instruments work
// against the global meter provider regardless.
func InitTracer(serviceName string) ShutdownFunc {
	slog.Info("otel tracing not exported", "service", serviceName)
	return func(_ context.Context) error {
		return nil
	}
}
