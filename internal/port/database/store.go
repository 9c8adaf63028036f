// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/lodestarhq/lodestar/internal/domain/company"
	"github.com/lodestarhq/lodestar/internal/domain/contact"
	"github.com/lodestarhq/lodestar/internal/domain/deal"
	"github.com/lodestarhq/lodestar/internal/domain/enrichment"
	"github.com/lodestarhq/lodestar/internal/domain/settings"
	"github.com/lodestarhq/lodestar/internal/domain/user"
)

// Store is the port interface for database operations.
type Store interface {
	// Companies
	ListCompanies(ctx context.Context) ([]company.Company, error)
	GetCompany(ctx context.Context, id string) (*company.Company, error)
	CreateCompany(ctx context.Context, req *company.CreateRequest) (*company.Company, error)
	UpdateCompany(ctx context.Context, c *company.Company) error
	DeleteCompany(ctx context.Context, id string) error

	// Contacts
	ListContacts(ctx context.Context, companyID string) ([]contact.Contact, error)
	GetContact(ctx context.Context, id string) (*contact.Contact, error)
	CreateContact(ctx context.Context, req *contact.CreateRequest) (*contact.Contact, error)
	UpdateContact(ctx context.Context, c *contact.Contact) error
	DeleteContact(ctx context.Context, id string) error

	// Deals
	ListDeals(ctx context.Context, companyID string) ([]deal.Deal, error)
	GetDeal(ctx context.Context, id string) (*deal.Deal, error)
	CreateDeal(ctx context.Context, req *deal.CreateRequest) (*deal.Deal, error)
	UpdateDeal(ctx context.Context, d *deal.Deal) error
	UpdateDealStage(ctx context.Context, id string, stage deal.Stage, version int) error
	DeleteDeal(ctx context.Context, id string) error

	// Enrichment status. MarkEnrichmentProcessing must be atomic: it returns
	// false (and no error) when the company is already processing and force
	// is not set.
	GetEnrichmentRecord(ctx context.Context, companyID string) (*enrichment.Record, error)
	MarkEnrichmentProcessing(ctx context.Context, companyID string, force bool) (bool, error)
	CompleteEnrichment(ctx context.Context, companyID string, data *enrichment.Data) error
	FailEnrichment(ctx context.Context, companyID string, kind enrichment.ErrorKind) error

	// Users
	ListUsers(ctx context.Context) ([]user.User, error)
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	CreateUser(ctx context.Context, u *user.User) error
	UpdateUser(ctx context.Context, u *user.User) error
	DeleteUser(ctx context.Context, id string) error

	// Settings
	ListSettings(ctx context.Context) ([]settings.Setting, error)
	GetSetting(ctx context.Context, key string) (*settings.Setting, error)
	UpsertSetting(ctx context.Context, key string, value []byte) error
}
