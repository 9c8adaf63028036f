package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/lodestarhq/lodestar/internal/adapter/otel"
	"github.com/lodestarhq/lodestar/internal/adapter/ws"
	"github.com/lodestarhq/lodestar/internal/domain"
	"github.com/lodestarhq/lodestar/internal/domain/enrichment"
	"github.com/lodestarhq/lodestar/internal/port/cache"
	"github.com/lodestarhq/lodestar/internal/port/database"
	"github.com/lodestarhq/lodestar/internal/port/enricher"
	"github.com/lodestarhq/lodestar/internal/port/messagequeue"
	"github.com/lodestarhq/lodestar/internal/resilience"
)

// EnrichmentService orchestrates company enrichment runs. It owns the
// circuit breaker guarding the external provider, so every run for every
// company shares one view of the provider's health.
type EnrichmentService struct {
	store    database.Store
	provider enricher.Provider
	breaker  *resilience.Breaker
	queue    messagequeue.Queue
	hub      *ws.Hub
	metrics  *otel.Metrics
	cache    cache.Cache
	sem      *semaphore.Weighted

	statusTTL time.Duration
}

// EnrichmentOptions carries the optional collaborators for the orchestrator.
// Nil fields are skipped at runtime.
type EnrichmentOptions struct {
	Queue         messagequeue.Queue
	Hub           *ws.Hub
	Metrics       *otel.Metrics
	Cache         cache.Cache
	StatusTTL     time.Duration
	MaxConcurrent int64
}

// NewEnrichmentService creates a new enrichment orchestrator.
func NewEnrichmentService(store database.Store, provider enricher.Provider, breaker *resilience.Breaker, opts EnrichmentOptions) *EnrichmentService {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	return &EnrichmentService{
		store:     store,
		provider:  provider,
		breaker:   breaker,
		queue:     opts.Queue,
		hub:       opts.Hub,
		metrics:   opts.Metrics,
		cache:     opts.Cache,
		sem:       semaphore.NewWeighted(opts.MaxConcurrent),
		statusTTL: opts.StatusTTL,
	}
}

// Start accepts an enrichment request for a company. It validates the
// company, refuses unconfigured providers, and atomically claims the
// processing slot. At most one run per company is in flight unless force
// is set. The actual provider call happens in Run.
func (s *EnrichmentService) Start(ctx context.Context, companyID string, force bool) (enrichment.Result, error) {
	if _, err := s.store.GetCompany(ctx, companyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return enrichment.Failure(enrichment.ErrNotFound), nil
		}
		return enrichment.Result{}, fmt.Errorf("get company: %w", err)
	}

	// No key, no run. Refused before any state is touched: a request that
	// was never accepted must not leave a failed record behind.
	if !s.provider.Configured() {
		return enrichment.Failure(enrichment.ErrAPIKeyMissing), nil
	}

	claimed, err := s.store.MarkEnrichmentProcessing(ctx, companyID, force)
	if err != nil {
		return enrichment.Result{}, fmt.Errorf("mark processing: %w", err)
	}
	if !claimed {
		return enrichment.Failure(enrichment.ErrAlreadyProcessing), nil
	}

	s.invalidateStatus(ctx, companyID)
	s.broadcastStatus(ctx, companyID, enrichment.StatusProcessing, "")
	if s.metrics != nil {
		s.metrics.EnrichmentsStarted.Add(ctx, 1)
	}
	return enrichment.Processing(), nil
}

// Run executes an enrichment that Start already accepted. It always leaves
// the company's record in a terminal state (enriched or failed), never
// stuck at processing, whatever the provider does.
func (s *EnrichmentService) Run(ctx context.Context, companyID string) enrichment.Result {
	start := time.Now()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return s.fail(ctx, companyID, enrichment.ErrTimeout)
	}
	defer s.sem.Release(1)

	c, err := s.store.GetCompany(ctx, companyID)
	if err != nil {
		kind := classify(err)
		if kind == enrichment.ErrNetwork {
			slog.Error("enrichment failed", "company_id", companyID, "error", err)
		}
		return s.fail(ctx, companyID, kind)
	}

	// Credentials are re-checked at run time so a key removed between
	// accept and run fails as api_key_missing without the provider being
	// called or the breaker counting it.
	if !s.provider.Configured() {
		return s.fail(ctx, companyID, enrichment.ErrAPIKeyMissing)
	}

	data, err := resilience.Do(s.breaker, func() (*enrichment.Data, error) {
		return s.provider.Enrich(ctx, enricher.Request{Name: c.Name, Domain: c.Domain})
	})
	if err != nil {
		kind := classify(err)
		if kind == enrichment.ErrNetwork {
			// The catch-all kind hides the cause from clients; keep it in
			// the server log.
			slog.Error("enrichment failed", "company_id", companyID, "error", err)
		}
		return s.fail(ctx, companyID, kind)
	}

	if err := s.store.CompleteEnrichment(ctx, companyID, data); err != nil {
		slog.Error("persist enrichment failed", "company_id", companyID, "error", err)
		return s.fail(ctx, companyID, enrichment.ErrNetwork)
	}

	s.invalidateStatus(ctx, companyID)
	s.broadcastStatus(ctx, companyID, enrichment.StatusEnriched, "")
	s.publishCompleted(ctx, companyID, data)
	if s.metrics != nil {
		s.metrics.RecordEnrichmentSuccess(ctx, time.Since(start))
	}
	return enrichment.Enriched(data)
}

// GetStatus returns the current enrichment state for a company. Reads are
// served from the L1 cache for a short TTL, and never mutate the record.
func (s *EnrichmentService) GetStatus(ctx context.Context, companyID string) (*enrichment.Record, error) {
	key := "enrichment:status:" + companyID

	if s.cache != nil {
		if raw, ok, _ := s.cache.Get(ctx, key); ok {
			var rec enrichment.Record
			if err := json.Unmarshal(raw, &rec); err == nil {
				return &rec, nil
			}
		}
	}

	rec, err := s.store.GetEnrichmentRecord(ctx, companyID)
	if err != nil {
		return nil, err
	}

	// The status row stores no payload; an enriched read joins it back in
	// from the company's enrichment columns.
	if rec.Status == enrichment.StatusEnriched {
		c, err := s.store.GetCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		rec.Data = &enrichment.Data{
			Description:   c.Description,
			Sector:        c.Sector,
			EstimatedSize: c.EstimatedSize,
			PainPoints:    c.PainPoints,
		}
	}

	if s.cache != nil && s.statusTTL > 0 {
		if raw, err := json.Marshal(rec); err == nil {
			_ = s.cache.Set(ctx, key, raw, s.statusTTL)
		}
	}
	return rec, nil
}

// BreakerState exposes the provider breaker state for health reporting.
func (s *EnrichmentService) BreakerState() resilience.State {
	return s.breaker.State()
}

// fail records a terminal failure, clears the processing flag, and emits
// the failure events.
func (s *EnrichmentService) fail(ctx context.Context, companyID string, kind enrichment.ErrorKind) enrichment.Result {
	if err := s.store.FailEnrichment(ctx, companyID, kind); err != nil {
		slog.Error("record enrichment failure", "company_id", companyID, "kind", kind, "error", err)
	}
	s.invalidateStatus(ctx, companyID)
	s.broadcastStatus(ctx, companyID, enrichment.StatusFailed, string(kind))
	s.publishFailed(ctx, companyID, kind)
	if s.metrics != nil {
		s.metrics.RecordEnrichmentFailure(ctx, string(kind))
	}
	return enrichment.Failure(kind)
}

// classify maps a provider or breaker error onto the closed error kind set.
func classify(err error) enrichment.ErrorKind {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return enrichment.ErrServiceUnavailable
	case errors.Is(err, enricher.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return enrichment.ErrTimeout
	case errors.Is(err, enricher.ErrNoAPIKey), errors.Is(err, enricher.ErrAuth):
		return enrichment.ErrAPIKeyMissing
	case errors.Is(err, domain.ErrNotFound):
		return enrichment.ErrNotFound
	default:
		return enrichment.ErrNetwork
	}
}

func (s *EnrichmentService) invalidateStatus(ctx context.Context, companyID string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "enrichment:status:"+companyID)
	}
}

func (s *EnrichmentService) broadcastStatus(ctx context.Context, companyID string, status enrichment.Status, errKind string) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(ctx, ws.EventEnrichmentStatus, ws.EnrichmentStatusEvent{
		CompanyID: companyID,
		Status:    string(status),
		Error:     errKind,
	})
}

func (s *EnrichmentService) publishCompleted(ctx context.Context, companyID string, data *enrichment.Data) {
	if s.queue == nil {
		return
	}
	payload, err := json.Marshal(messagequeue.EnrichmentCompletedPayload{
		CompanyID:     companyID,
		Sector:        data.Sector,
		EstimatedSize: data.EstimatedSize,
	})
	if err != nil {
		return
	}
	if err := s.queue.Publish(ctx, messagequeue.SubjectEnrichmentCompleted, payload); err != nil {
		slog.Warn("publish enrichment completed failed", "company_id", companyID, "error", err)
	}
}

func (s *EnrichmentService) publishFailed(ctx context.Context, companyID string, kind enrichment.ErrorKind) {
	if s.queue == nil {
		return
	}
	payload, err := json.Marshal(messagequeue.EnrichmentFailedPayload{
		CompanyID: companyID,
		ErrorKind: string(kind),
	})
	if err != nil {
		return
	}
	if err := s.queue.Publish(ctx, messagequeue.SubjectEnrichmentFailed, payload); err != nil {
		slog.Warn("publish enrichment failed event failed", "company_id", companyID, "error", err)
	}
}
