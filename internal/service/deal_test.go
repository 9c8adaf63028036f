package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lodestarhq/lodestar/internal/domain"
	"github.com/lodestarhq/lodestar/internal/domain/company"
	"github.com/lodestarhq/lodestar/internal/domain/deal"
	"github.com/lodestarhq/lodestar/internal/port/database"
	"github.com/lodestarhq/lodestar/internal/port/messagequeue"
)

type fakeDealStore struct {
	database.Store
	companies map[string]*company.Company
	deals     map[string]*deal.Deal
	nextID    int
}

func newFakeDealStore() *fakeDealStore {
	return &fakeDealStore{
		companies: make(map[string]*company.Company),
		deals:     make(map[string]*deal.Deal),
	}
}

func (f *fakeDealStore) GetCompany(_ context.Context, id string) (*company.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeDealStore) GetDeal(_ context.Context, id string) (*deal.Deal, error) {
	d, ok := f.deals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDealStore) CreateDeal(_ context.Context, req *deal.CreateRequest) (*deal.Deal, error) {
	f.nextID++
	d := &deal.Deal{
		ID:        string(rune('a' + f.nextID)),
		CompanyID: req.CompanyID,
		Title:     req.Title,
		Stage:     deal.StageLead,
		AmountUSD: req.AmountUSD,
	}
	f.deals[d.ID] = d
	return d, nil
}

func (f *fakeDealStore) UpdateDealStage(_ context.Context, id string, stage deal.Stage, version int) error {
	d, ok := f.deals[id]
	if !ok {
		return domain.ErrNotFound
	}
	if d.Version != version {
		return domain.ErrConflict
	}
	d.Stage = stage
	d.Version++
	return nil
}

type spyQueue struct {
	published []string
}

func (q *spyQueue) Publish(_ context.Context, subject string, _ []byte) error {
	q.published = append(q.published, subject)
	return nil
}

func (q *spyQueue) Subscribe(_ context.Context, _ string, _ messagequeue.Handler) (func(), error) {
	return func() {}, nil
}

func (q *spyQueue) Close() error      { return nil }
func (q *spyQueue) IsConnected() bool { return true }

func seedDeal(t *testing.T, svc *DealService, store *fakeDealStore) *deal.Deal {
	t.Helper()
	store.companies["c1"] = &company.Company{ID: "c1", Name: "Acme"}
	d, err := svc.Create(context.Background(), &deal.CreateRequest{
		CompanyID: "c1", Title: "Pilot", AmountUSD: 5000,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return d
}

func TestDealCreateStartsAtLead(t *testing.T) {
	store := newFakeDealStore()
	svc := NewDealService(store, nil, nil, nil)
	d := seedDeal(t, svc, store)
	if d.Stage != deal.StageLead {
		t.Errorf("stage = %s, want lead", d.Stage)
	}
}

func TestDealCreateUnknownCompany(t *testing.T) {
	store := newFakeDealStore()
	svc := NewDealService(store, nil, nil, nil)
	_, err := svc.Create(context.Background(), &deal.CreateRequest{
		CompanyID: "missing", Title: "Pilot",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDealStageTransitions(t *testing.T) {
	store := newFakeDealStore()
	queue := &spyQueue{}
	svc := NewDealService(store, queue, nil, nil)
	d := seedDeal(t, svc, store)
	ctx := context.Background()

	// lead -> proposal skips qualified and must be rejected.
	if _, err := svc.ChangeStage(ctx, d.ID, deal.ChangeStageRequest{Stage: deal.StageProposal}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("lead->proposal err = %v, want ErrValidation", err)
	}

	for _, stage := range []deal.Stage{deal.StageQualified, deal.StageProposal, deal.StageWon} {
		if _, err := svc.ChangeStage(ctx, d.ID, deal.ChangeStageRequest{Stage: stage}); err != nil {
			t.Fatalf("ChangeStage(%s): %v", stage, err)
		}
	}

	// won is terminal.
	if _, err := svc.ChangeStage(ctx, d.ID, deal.ChangeStageRequest{Stage: deal.StageLost}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("won->lost err = %v, want ErrValidation", err)
	}

	if len(queue.published) != 3 {
		t.Errorf("published %d events, want 3", len(queue.published))
	}
}

func TestDealStageUnknown(t *testing.T) {
	store := newFakeDealStore()
	svc := NewDealService(store, nil, nil, nil)
	d := seedDeal(t, svc, store)

	if _, err := svc.ChangeStage(context.Background(), d.ID, deal.ChangeStageRequest{Stage: "archived"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
