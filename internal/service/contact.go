package service

import (
	"context"
	"fmt"

	"github.com/lodestarhq/lodestar/internal/domain/contact"
	"github.com/lodestarhq/lodestar/internal/port/database"
)

// ContactService provides CRUD operations for contacts.
type ContactService struct {
	store database.Store
}

// NewContactService creates a new ContactService.
func NewContactService(store database.Store) *ContactService {
	return &ContactService{store: store}
}

// List returns all contacts, optionally scoped to a company.
func (s *ContactService) List(ctx context.Context, companyID string) ([]contact.Contact, error) {
	return s.store.ListContacts(ctx, companyID)
}

// Get returns a single contact by ID.
func (s *ContactService) Get(ctx context.Context, id string) (*contact.Contact, error) {
	return s.store.GetContact(ctx, id)
}

// Create validates and persists a new contact.
func (s *ContactService) Create(ctx context.Context, req *contact.CreateRequest) (*contact.Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c, err := s.store.CreateContact(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return c, nil
}

// Update applies a partial update to a contact.
func (s *ContactService) Update(ctx context.Context, id string, req contact.UpdateRequest) (*contact.Contact, error) {
	c, err := s.store.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CompanyID != nil {
		c.CompanyID = *req.CompanyID
	}
	if req.FirstName != nil {
		c.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		c.LastName = *req.LastName
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}

	if err := s.store.UpdateContact(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a contact.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteContact(ctx, id)
}
