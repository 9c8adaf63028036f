package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event type constants for WebSocket messages.
const (
	EventEnrichmentStatus = "enrichment.status"
	EventDealStage        = "deal.stage"
)

// EnrichmentStatusEvent is broadcast when a company's enrichment status changes.
type EnrichmentStatusEvent struct {
	CompanyID string `json:"company_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// DealStageEvent is broadcast when a deal moves to a new pipeline stage.
type DealStageEvent struct {
	DealID    string `json:"deal_id"`
	CompanyID string `json:"company_id"`
	Stage     string `json:"stage"`
}

// BroadcastEvent is a convenience method that marshals a typed event and broadcasts it.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
