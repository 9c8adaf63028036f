package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lodestarhq/lodestar/internal/domain/enrichment"
)

// enrichRequest is the body for POST /api/v1/enrichment.
type enrichRequest struct {
	CompanyID string `json:"company_id"`
	Force     bool   `json:"force"`
}

// StartEnrichment handles POST /api/v1/enrichment.
//
// The request is accepted or refused synchronously; the provider call runs
// in the background with its own timeout, detached from the request
// context. An accepted run answers 202 with a processing result.
func (h *Handlers) StartEnrichment(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[enrichRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.CompanyID, "company_id") {
		return
	}
	if err := uuid.Validate(req.CompanyID); err != nil {
		writeError(w, http.StatusBadRequest, "company_id must be a valid UUID")
		return
	}

	res, err := h.Enrichment.Start(r.Context(), req.CompanyID, req.Force)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if !res.Success {
		writeJSON(w, res.Error.HTTPStatus(), res)
		return
	}

	timeout := h.EnrichmentRunTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		h.Enrichment.Run(ctx, req.CompanyID)
	}()

	writeJSON(w, http.StatusAccepted, res)
}

// GetEnrichmentStatus handles GET /api/v1/enrichment?company_id=
func (h *Handlers) GetEnrichmentStatus(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company_id")
	if !requireField(w, companyID, "company_id") {
		return
	}
	if err := uuid.Validate(companyID); err != nil {
		writeError(w, http.StatusBadRequest, "company_id must be a valid UUID")
		return
	}

	rec, err := h.Enrichment.GetStatus(r.Context(), companyID)
	if err != nil {
		writeDomainError(w, err, "company not found")
		return
	}

	res := enrichment.Result{Success: true, Status: rec.Status}
	switch rec.Status {
	case enrichment.StatusEnriched:
		res = enrichment.Enriched(rec.Data)
	case enrichment.StatusFailed:
		res = enrichment.Failure(rec.LastError)
	}

	// A failed run only ever surfaces through this poll, so the error kind's
	// own status code applies here too.
	code := http.StatusOK
	if !res.Success {
		code = res.Error.HTTPStatus()
	}
	writeJSON(w, code, res)
}
