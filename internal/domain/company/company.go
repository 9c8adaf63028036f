// Package company defines the Company domain entity.
package company

import "time"

// Company represents an organization tracked in the CRM.
type Company struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Domain  string `json:"domain,omitempty"`
	Sector  string `json:"sector,omitempty"`
	Size    string `json:"size,omitempty"`
	Notes   string `json:"notes,omitempty"`
	OwnerID string `json:"owner_id,omitempty"`

	// Fields populated by the enrichment provider.
	Description   string   `json:"description,omitempty"`
	EstimatedSize string   `json:"estimated_size,omitempty"`
	PainPoints    []string `json:"pain_points"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest holds the fields needed to create a new company.
type CreateRequest struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Sector string `json:"sector"`
	Size   string `json:"size"`
	Notes  string `json:"notes"`
}

// UpdateRequest holds partial updates for a company. Nil fields are left unchanged.
type UpdateRequest struct {
	Name   *string `json:"name,omitempty"`
	Domain *string `json:"domain,omitempty"`
	Sector *string `json:"sector,omitempty"`
	Size   *string `json:"size,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}
