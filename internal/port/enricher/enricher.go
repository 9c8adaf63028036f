// Package enricher defines the port for the external company enrichment provider.
package enricher

import (
	"context"
	"errors"

	"github.com/lodestarhq/lodestar/internal/domain/enrichment"
)

// Sentinel errors a provider implementation wraps so the orchestrator can
// classify failures without knowing the provider's wire protocol.
var (
	// ErrNoAPIKey indicates the provider credential is not configured.
	ErrNoAPIKey = errors.New("enrichment api key not configured")

	// ErrTimeout indicates the provider call exceeded its time budget.
	ErrTimeout = errors.New("enrichment request timed out")

	// ErrAuth indicates the provider rejected the configured credential.
	ErrAuth = errors.New("enrichment authentication failed")
)

// Request identifies the company to enrich.
type Request struct {
	Name   string `json:"name"`
	Domain string `json:"domain,omitempty"`
}

// Provider is the port interface for the external enrichment service.
type Provider interface {
	// Configured reports whether a credential is set. Callers check this
	// before attempting a network call.
	Configured() bool

	// Enrich fetches structured enrichment data for a company. The
	// implementation must enforce its own timeout and wrap failures in the
	// sentinel errors above where they apply.
	Enrich(ctx context.Context, req Request) (*enrichment.Data, error)
}
