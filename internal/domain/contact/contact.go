// Package contact defines the Contact domain entity.
package contact

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/lodestarhq/lodestar/internal/domain"
)

// Contact represents a person, optionally linked to a company.
type Contact struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id,omitempty"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Title     string    `json:"title,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest holds the fields needed to create a new contact.
type CreateRequest struct {
	CompanyID string `json:"company_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Title     string `json:"title"`
	Notes     string `json:"notes"`
}

// UpdateRequest holds partial updates for a contact.
type UpdateRequest struct {
	CompanyID *string `json:"company_id,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Title     *string `json:"title,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// Validate checks that the CreateRequest has a usable name and email.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" && strings.TrimSpace(r.LastName) == "" {
		return fmt.Errorf("%w: contact needs a first or last name", domain.ErrValidation)
	}
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			return fmt.Errorf("%w: invalid email format", domain.ErrValidation)
		}
	}
	return nil
}
