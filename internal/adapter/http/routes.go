package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lodestarhq/lodestar/internal/domain/user"
	"github.com/lodestarhq/lodestar/internal/middleware"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Companies
		r.Get("/companies", h.ListCompanies)
		r.Post("/companies", h.CreateCompany)
		r.Get("/companies/{id}", h.GetCompany)
		r.Put("/companies/{id}", h.UpdateCompany)
		r.Delete("/companies/{id}", h.DeleteCompany)

		// Contacts
		r.Get("/contacts", h.ListContacts)
		r.Post("/contacts", h.CreateContact)
		r.Get("/contacts/{id}", h.GetContact)
		r.Put("/contacts/{id}", h.UpdateContact)
		r.Delete("/contacts/{id}", h.DeleteContact)

		// Deals / pipeline
		r.Get("/deals", h.ListDeals)
		r.Post("/deals", h.CreateDeal)
		r.Get("/deals/{id}", h.GetDeal)
		r.Put("/deals/{id}", h.UpdateDeal)
		r.Post("/deals/{id}/stage", h.ChangeDealStage)
		r.Delete("/deals/{id}", h.DeleteDeal)

		// Enrichment
		r.Post("/enrichment", h.StartEnrichment)
		r.Get("/enrichment", h.GetEnrichmentStatus)

		// Settings
		r.Get("/settings", h.GetSettings)
		r.Get("/settings/{key}", h.GetSetting)
		r.Put("/settings", h.UpdateSettings)

		// Auth (login is exempted by the auth middleware)
		r.Post("/auth/login", h.Login)
		r.Get("/auth/me", h.GetCurrentUser)
		r.Post("/auth/change-password", h.ChangePassword)

		// Users (admin only)
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(user.RoleAdmin))
			r.Get("/", h.ListUsersHandler)
			r.Post("/", h.CreateUserHandler)
			r.Put("/{id}", h.UpdateUserHandler)
			r.Delete("/{id}", h.DeleteUserHandler)
		})
	})
}
