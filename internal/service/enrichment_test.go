package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lodestarhq/lodestar/internal/domain"
	"github.com/lodestarhq/lodestar/internal/domain/company"
	"github.com/lodestarhq/lodestar/internal/domain/enrichment"
	"github.com/lodestarhq/lodestar/internal/port/database"
	"github.com/lodestarhq/lodestar/internal/port/enricher"
	"github.com/lodestarhq/lodestar/internal/resilience"
)

type fakeEnrichStore struct {
	database.Store
	mu         sync.Mutex
	companies  map[string]*company.Company
	records    map[string]*enrichment.Record
	companyErr error
}

func newFakeEnrichStore() *fakeEnrichStore {
	return &fakeEnrichStore{
		companies: make(map[string]*company.Company),
		records:   make(map[string]*enrichment.Record),
	}
}

func (f *fakeEnrichStore) GetCompany(_ context.Context, id string) (*company.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.companyErr != nil {
		return nil, f.companyErr
	}
	c, ok := f.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeEnrichStore) GetEnrichmentRecord(_ context.Context, companyID string) (*enrichment.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[companyID]
	if !ok {
		return &enrichment.Record{CompanyID: companyID, Status: enrichment.StatusIdle}, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeEnrichStore) MarkEnrichmentProcessing(_ context.Context, companyID string, force bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[companyID]
	if ok && rec.Status == enrichment.StatusProcessing && !force {
		return false, nil
	}
	f.records[companyID] = &enrichment.Record{
		CompanyID: companyID,
		Status:    enrichment.StatusProcessing,
		UpdatedAt: time.Now(),
	}
	return true, nil
}

func (f *fakeEnrichStore) CompleteEnrichment(_ context.Context, companyID string, data *enrichment.Data) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.companies[companyID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Description = data.Description
	c.Sector = data.Sector
	c.EstimatedSize = data.EstimatedSize
	c.PainPoints = data.PainPoints
	f.records[companyID] = &enrichment.Record{
		CompanyID: companyID,
		Status:    enrichment.StatusEnriched,
		UpdatedAt: time.Now(),
	}
	return nil
}

func (f *fakeEnrichStore) FailEnrichment(_ context.Context, companyID string, kind enrichment.ErrorKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[companyID] = &enrichment.Record{
		CompanyID: companyID,
		Status:    enrichment.StatusFailed,
		LastError: kind,
		UpdatedAt: time.Now(),
	}
	return nil
}

type fakeProvider struct {
	mu         sync.Mutex
	configured bool
	data       *enrichment.Data
	err        error
	calls      int
}

func (p *fakeProvider) Configured() bool { return p.configured }

func (p *fakeProvider) Enrich(_ context.Context, _ enricher.Request) (*enrichment.Data, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.data, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func newEnrichFixture(provider *fakeProvider) (*EnrichmentService, *fakeEnrichStore) {
	store := newFakeEnrichStore()
	store.companies["c1"] = &company.Company{ID: "c1", Name: "Acme", Domain: "acme.test"}
	breaker := resilience.NewBreaker(3, time.Minute)
	svc := NewEnrichmentService(store, provider, breaker, EnrichmentOptions{MaxConcurrent: 4})
	return svc, store
}

func TestEnrichmentHappyPath(t *testing.T) {
	provider := &fakeProvider{
		configured: true,
		data: &enrichment.Data{
			Description:   "Makes anvils",
			Sector:        "manufacturing",
			EstimatedSize: "51-200",
			PainPoints:    []string{"logistics"},
		},
	}
	svc, store := newEnrichFixture(provider)
	ctx := context.Background()

	res, err := svc.Start(ctx, "c1", false)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !res.Success || res.Status != enrichment.StatusProcessing {
		t.Fatalf("Start result = %+v", res)
	}

	res = svc.Run(ctx, "c1")
	if !res.Success || res.Status != enrichment.StatusEnriched {
		t.Fatalf("Run result = %+v", res)
	}
	if res.Data == nil || res.Data.Sector != "manufacturing" {
		t.Fatalf("data = %+v", res.Data)
	}

	rec, err := svc.GetStatus(ctx, "c1")
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if rec.Status != enrichment.StatusEnriched {
		t.Errorf("status = %s, want enriched", rec.Status)
	}
	// An enriched status read carries the payload back out.
	if rec.Data == nil || rec.Data.Description != "Makes anvils" || rec.Data.Sector != "manufacturing" {
		t.Errorf("status read data = %+v", rec.Data)
	}
	if store.companies["c1"].Description != "Makes anvils" {
		t.Error("enriched fields not written to company")
	}
}

func TestEnrichmentUnknownCompany(t *testing.T) {
	svc, _ := newEnrichFixture(&fakeProvider{configured: true})

	res, err := svc.Start(context.Background(), "missing", false)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if res.Success || res.Error != enrichment.ErrNotFound {
		t.Fatalf("result = %+v, want not_found", res)
	}
}

func TestEnrichmentNoAPIKey(t *testing.T) {
	provider := &fakeProvider{configured: false}
	svc, _ := newEnrichFixture(provider)
	ctx := context.Background()

	res, err := svc.Start(ctx, "c1", false)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if res.Success || res.Error != enrichment.ErrAPIKeyMissing {
		t.Fatalf("result = %+v, want api_key_missing", res)
	}
	if provider.callCount() != 0 {
		t.Error("provider must not be called without a key")
	}

	// A refused request was never accepted, so no failure is recorded.
	rec, _ := svc.GetStatus(ctx, "c1")
	if rec.Status != enrichment.StatusIdle {
		t.Errorf("record = %+v, want idle", rec)
	}
}

func TestEnrichmentKeyRemovedBeforeRun(t *testing.T) {
	provider := &fakeProvider{configured: true}
	svc, _ := newEnrichFixture(provider)
	ctx := context.Background()

	if _, err := svc.Start(ctx, "c1", false); err != nil {
		t.Fatalf("Start: %v", err)
	}
	provider.configured = false

	res := svc.Run(ctx, "c1")
	if res.Success || res.Error != enrichment.ErrAPIKeyMissing {
		t.Fatalf("result = %+v, want api_key_missing", res)
	}
	if provider.callCount() != 0 {
		t.Error("provider must not be called without a key")
	}
	if svc.BreakerState() != resilience.StateClosed {
		t.Error("missing key must not count against the breaker")
	}

	rec, _ := svc.GetStatus(ctx, "c1")
	if rec.Status != enrichment.StatusFailed || rec.LastError != enrichment.ErrAPIKeyMissing {
		t.Errorf("record = %+v", rec)
	}
}

func TestEnrichmentTransientLookupFailure(t *testing.T) {
	svc, store := newEnrichFixture(&fakeProvider{configured: true})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "c1", false); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// A DB hiccup during the run is not a missing company; it falls into
	// the network_error catch-all.
	store.mu.Lock()
	store.companyErr = errors.New("connection refused")
	store.mu.Unlock()

	res := svc.Run(ctx, "c1")
	if res.Success || res.Error != enrichment.ErrNetwork {
		t.Fatalf("result = %+v, want network_error", res)
	}
}

func TestEnrichmentAlreadyProcessing(t *testing.T) {
	svc, _ := newEnrichFixture(&fakeProvider{configured: true})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "c1", false); err != nil {
		t.Fatalf("first Start: %v", err)
	}

	res, err := svc.Start(ctx, "c1", false)
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if res.Success || res.Error != enrichment.ErrAlreadyProcessing {
		t.Fatalf("result = %+v, want enrichment_already_processing", res)
	}
}

func TestEnrichmentForceBypassesInFlight(t *testing.T) {
	svc, _ := newEnrichFixture(&fakeProvider{configured: true})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "c1", false); err != nil {
		t.Fatalf("first Start: %v", err)
	}

	res, err := svc.Start(ctx, "c1", true)
	if err != nil {
		t.Fatalf("forced Start: %v", err)
	}
	if !res.Success || res.Status != enrichment.StatusProcessing {
		t.Fatalf("forced result = %+v", res)
	}
}

func TestEnrichmentFailureKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want enrichment.ErrorKind
	}{
		{"timeout", enricher.ErrTimeout, enrichment.ErrTimeout},
		{"deadline", context.DeadlineExceeded, enrichment.ErrTimeout},
		{"auth", enricher.ErrAuth, enrichment.ErrAPIKeyMissing},
		{"catchall", errors.New("connection reset"), enrichment.ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{configured: true, err: tt.err}
			svc, _ := newEnrichFixture(provider)
			ctx := context.Background()

			if _, err := svc.Start(ctx, "c1", false); err != nil {
				t.Fatalf("Start: %v", err)
			}
			res := svc.Run(ctx, "c1")
			if res.Success || res.Error != tt.want {
				t.Fatalf("result = %+v, want %s", res, tt.want)
			}

			// Terminal outcome must clear the processing flag so the next
			// attempt is accepted.
			rec, _ := svc.GetStatus(ctx, "c1")
			if rec.Status != enrichment.StatusFailed {
				t.Fatalf("status = %s, want failed", rec.Status)
			}
			if rec.LastError != tt.want {
				t.Fatalf("last error = %s, want %s", rec.LastError, tt.want)
			}
			if res2, _ := svc.Start(ctx, "c1", false); !res2.Success {
				t.Fatalf("retry after failure refused: %+v", res2)
			}
		})
	}
}

func TestEnrichmentOpenBreakerShortCircuits(t *testing.T) {
	provider := &fakeProvider{configured: true, err: errors.New("boom")}
	svc, _ := newEnrichFixture(provider)
	ctx := context.Background()

	// Trip the breaker: 3 consecutive failures.
	for range 3 {
		if _, err := svc.Start(ctx, "c1", false); err != nil {
			t.Fatalf("Start: %v", err)
		}
		svc.Run(ctx, "c1")
	}
	if svc.BreakerState() != resilience.StateOpen {
		t.Fatalf("breaker state = %s, want open", svc.BreakerState())
	}

	calls := provider.callCount()
	if _, err := svc.Start(ctx, "c1", false); err != nil {
		t.Fatalf("Start: %v", err)
	}
	res := svc.Run(ctx, "c1")
	if res.Success || res.Error != enrichment.ErrServiceUnavailable {
		t.Fatalf("result = %+v, want service_unavailable", res)
	}
	if provider.callCount() != calls {
		t.Error("provider called while breaker open")
	}
}

func TestEnrichmentStatusIdleByDefault(t *testing.T) {
	svc, _ := newEnrichFixture(&fakeProvider{configured: true})

	rec, err := svc.GetStatus(context.Background(), "c1")
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if rec.Status != enrichment.StatusIdle {
		t.Errorf("status = %s, want idle", rec.Status)
	}
}

func TestEnrichmentStatusReadIsIdempotent(t *testing.T) {
	svc, _ := newEnrichFixture(&fakeProvider{configured: true})
	ctx := context.Background()

	if _, err := svc.Start(ctx, "c1", false); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for range 5 {
		rec, err := svc.GetStatus(ctx, "c1")
		if err != nil {
			t.Fatalf("GetStatus: %v", err)
		}
		if rec.Status != enrichment.StatusProcessing {
			t.Fatalf("status = %s, want processing", rec.Status)
		}
	}
}

func TestEnrichmentConcurrentStartSingleWinner(t *testing.T) {
	svc, _ := newEnrichFixture(&fakeProvider{configured: true})
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	accepted := make(chan struct{}, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Start(ctx, "c1", false)
			if err != nil {
				t.Errorf("Start: %v", err)
				return
			}
			if res.Success {
				accepted <- struct{}{}
			} else if res.Error != enrichment.ErrAlreadyProcessing {
				t.Errorf("loser got %+v", res)
			}
		}()
	}
	wg.Wait()
	close(accepted)

	if got := len(accepted); got != 1 {
		t.Fatalf("%d starts accepted, want exactly 1", got)
	}
}
