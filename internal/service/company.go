// Package service contains the application services that sit between the
// HTTP adapter and the ports.
package service

import (
	"context"
	"fmt"

	"github.com/lodestarhq/lodestar/internal/domain/company"
	"github.com/lodestarhq/lodestar/internal/port/database"
)

// CompanyService provides CRUD operations for companies.
type CompanyService struct {
	store database.Store
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(store database.Store) *CompanyService {
	return &CompanyService{store: store}
}

// List returns all companies.
func (s *CompanyService) List(ctx context.Context) ([]company.Company, error) {
	return s.store.ListCompanies(ctx)
}

// Get returns a single company by ID.
func (s *CompanyService) Get(ctx context.Context, id string) (*company.Company, error) {
	return s.store.GetCompany(ctx, id)
}

// Create validates and persists a new company.
func (s *CompanyService) Create(ctx context.Context, req *company.CreateRequest) (*company.Company, error) {
	if err := company.ValidateCreateRequest(req); err != nil {
		return nil, err
	}
	c, err := s.store.CreateCompany(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return c, nil
}

// Update applies a partial update with optimistic concurrency. A stale
// version returns domain.ErrConflict from the store.
func (s *CompanyService) Update(ctx context.Context, id string, req company.UpdateRequest) (*company.Company, error) {
	if err := company.ValidateUpdateRequest(req); err != nil {
		return nil, err
	}

	c, err := s.store.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Domain != nil {
		c.Domain = *req.Domain
	}
	if req.Sector != nil {
		c.Sector = *req.Sector
	}
	if req.Size != nil {
		c.Size = *req.Size
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}

	if err := s.store.UpdateCompany(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a company and everything hanging off it.
func (s *CompanyService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteCompany(ctx, id)
}
