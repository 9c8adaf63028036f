package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lodestarhq/lodestar/internal/adapter/otel"
	"github.com/lodestarhq/lodestar/internal/adapter/ws"
	"github.com/lodestarhq/lodestar/internal/domain"
	"github.com/lodestarhq/lodestar/internal/domain/deal"
	"github.com/lodestarhq/lodestar/internal/port/database"
	"github.com/lodestarhq/lodestar/internal/port/messagequeue"
)

// DealService provides CRUD and pipeline operations for deals.
type DealService struct {
	store   database.Store
	queue   messagequeue.Queue
	hub     *ws.Hub
	metrics *otel.Metrics
}

// NewDealService creates a new DealService. queue, hub and metrics may be
// nil; events and metrics are then skipped.
func NewDealService(store database.Store, queue messagequeue.Queue, hub *ws.Hub, metrics *otel.Metrics) *DealService {
	return &DealService{store: store, queue: queue, hub: hub, metrics: metrics}
}

// List returns all deals, optionally scoped to a company.
func (s *DealService) List(ctx context.Context, companyID string) ([]deal.Deal, error) {
	return s.store.ListDeals(ctx, companyID)
}

// Get returns a single deal by ID.
func (s *DealService) Get(ctx context.Context, id string) (*deal.Deal, error) {
	return s.store.GetDeal(ctx, id)
}

// Create validates and persists a new deal. New deals always start at the
// lead stage.
func (s *DealService) Create(ctx context.Context, req *deal.CreateRequest) (*deal.Deal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetCompany(ctx, req.CompanyID); err != nil {
		return nil, fmt.Errorf("company lookup: %w", err)
	}
	d, err := s.store.CreateDeal(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create deal: %w", err)
	}
	return d, nil
}

// Update applies a partial update to a deal's non-stage fields.
func (s *DealService) Update(ctx context.Context, id string, req deal.UpdateRequest) (*deal.Deal, error) {
	d, err := s.store.GetDeal(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.AmountUSD != nil {
		if *req.AmountUSD < 0 {
			return nil, fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
		}
		d.AmountUSD = *req.AmountUSD
	}
	if req.CloseDate != nil {
		d.CloseDate = req.CloseDate
	}

	if err := s.store.UpdateDeal(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ChangeStage moves a deal to a new pipeline stage, enforcing the allowed
// transitions. Terminal stages (won, lost) reject all moves.
func (s *DealService) ChangeStage(ctx context.Context, id string, req deal.ChangeStageRequest) (*deal.Deal, error) {
	if !deal.ValidStages[req.Stage] {
		return nil, fmt.Errorf("%w: unknown stage %q", domain.ErrValidation, req.Stage)
	}

	d, err := s.store.GetDeal(ctx, id)
	if err != nil {
		return nil, err
	}

	if !deal.CanTransition(d.Stage, req.Stage) {
		return nil, fmt.Errorf("%w: cannot move deal from %s to %s", domain.ErrValidation, d.Stage, req.Stage)
	}

	from := d.Stage
	if err := s.store.UpdateDealStage(ctx, id, req.Stage, d.Version); err != nil {
		return nil, err
	}
	d.Stage = req.Stage
	d.Version++

	s.publishStageChange(ctx, d, from)
	if s.metrics != nil {
		s.metrics.DealStageChanges.Add(ctx, 1)
	}
	return d, nil
}

// Delete removes a deal.
func (s *DealService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteDeal(ctx, id)
}

func (s *DealService) publishStageChange(ctx context.Context, d *deal.Deal, from deal.Stage) {
	if s.queue != nil {
		payload, err := json.Marshal(messagequeue.DealStageChangedPayload{
			DealID:    d.ID,
			CompanyID: d.CompanyID,
			FromStage: string(from),
			ToStage:   string(d.Stage),
		})
		if err == nil {
			if err := s.queue.Publish(ctx, messagequeue.SubjectDealStageChanged, payload); err != nil {
				slog.Warn("publish deal stage change failed", "deal_id", d.ID, "error", err)
			}
		}
	}
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, ws.EventDealStage, ws.DealStageEvent{
			DealID:    d.ID,
			CompanyID: d.CompanyID,
			Stage:     string(d.Stage),
		})
	}
}
