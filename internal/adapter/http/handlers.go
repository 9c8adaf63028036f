package http

import (
	"net/http"
	"time"

	"github.com/lodestarhq/lodestar/internal/adapter/ws"
	"github.com/lodestarhq/lodestar/internal/service"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Companies  *service.CompanyService
	Contacts   *service.ContactService
	Deals      *service.DealService
	Enrichment *service.EnrichmentService
	Settings   *service.SettingsService
	Auth       *service.AuthService
	Hub        *ws.Hub

	// EnrichmentRunTimeout bounds a detached background enrichment run.
	EnrichmentRunTimeout time.Duration
}

// ListCompanies handles GET /api/v1/companies
func (h *Handlers) ListCompanies(w http.ResponseWriter, r *http.Request) {
	handleList(h.Companies.List)(w, r)
}

// GetCompany handles GET /api/v1/companies/{id}
func (h *Handlers) GetCompany(w http.ResponseWriter, r *http.Request) {
	handleGet(h.Companies.Get, "company not found")(w, r)
}

// CreateCompany handles POST /api/v1/companies
func (h *Handlers) CreateCompany(w http.ResponseWriter, r *http.Request) {
	handleCreate(h.Companies.Create)(w, r)
}

// UpdateCompany handles PUT /api/v1/companies/{id}
func (h *Handlers) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	handleUpdate(h.Companies.Update, "company not found")(w, r)
}

// DeleteCompany handles DELETE /api/v1/companies/{id}
func (h *Handlers) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	handleDelete(h.Companies.Delete, "company not found")(w, r)
}

// ListContacts handles GET /api/v1/contacts?company_id=
func (h *Handlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	handleListByQuery("company_id", h.Contacts.List)(w, r)
}

// GetContact handles GET /api/v1/contacts/{id}
func (h *Handlers) GetContact(w http.ResponseWriter, r *http.Request) {
	handleGet(h.Contacts.Get, "contact not found")(w, r)
}

// CreateContact handles POST /api/v1/contacts
func (h *Handlers) CreateContact(w http.ResponseWriter, r *http.Request) {
	handleCreate(h.Contacts.Create)(w, r)
}

// UpdateContact handles PUT /api/v1/contacts/{id}
func (h *Handlers) UpdateContact(w http.ResponseWriter, r *http.Request) {
	handleUpdate(h.Contacts.Update, "contact not found")(w, r)
}

// DeleteContact handles DELETE /api/v1/contacts/{id}
func (h *Handlers) DeleteContact(w http.ResponseWriter, r *http.Request) {
	handleDelete(h.Contacts.Delete, "contact not found")(w, r)
}

// ListDeals handles GET /api/v1/deals?company_id=
func (h *Handlers) ListDeals(w http.ResponseWriter, r *http.Request) {
	handleListByQuery("company_id", h.Deals.List)(w, r)
}

// GetDeal handles GET /api/v1/deals/{id}
func (h *Handlers) GetDeal(w http.ResponseWriter, r *http.Request) {
	handleGet(h.Deals.Get, "deal not found")(w, r)
}

// CreateDeal handles POST /api/v1/deals
func (h *Handlers) CreateDeal(w http.ResponseWriter, r *http.Request) {
	handleCreate(h.Deals.Create)(w, r)
}

// UpdateDeal handles PUT /api/v1/deals/{id}
func (h *Handlers) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	handleUpdate(h.Deals.Update, "deal not found")(w, r)
}

// ChangeDealStage handles POST /api/v1/deals/{id}/stage
func (h *Handlers) ChangeDealStage(w http.ResponseWriter, r *http.Request) {
	handleUpdate(h.Deals.ChangeStage, "deal not found")(w, r)
}

// DeleteDeal handles DELETE /api/v1/deals/{id}
func (h *Handlers) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	handleDelete(h.Deals.Delete, "deal not found")(w, r)
}
