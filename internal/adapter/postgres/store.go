package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lodestarhq/lodestar/internal/domain"
	"github.com/lodestarhq/lodestar/internal/domain/company"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const companyColumns = `id, name, domain, sector, size, notes, owner_id,
	description, estimated_size, pain_points, version, created_at, updated_at`

func scanCompany(row scannable) (company.Company, error) {
	var c company.Company
	var ownerID *string
	var painPoints []byte
	err := row.Scan(&c.ID, &c.Name, &c.Domain, &c.Sector, &c.Size, &c.Notes, &ownerID,
		&c.Description, &c.EstimatedSize, &painPoints, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return company.Company{}, err
	}
	c.OwnerID = emptyIfNull(ownerID)
	if len(painPoints) > 0 {
		if err := json.Unmarshal(painPoints, &c.PainPoints); err != nil {
			return company.Company{}, fmt.Errorf("unmarshal pain_points: %w", err)
		}
	}
	c.PainPoints = orEmpty(c.PainPoints)
	return c, nil
}

// ListCompanies returns all companies, newest first.
func (s *Store) ListCompanies(ctx context.Context) ([]company.Company, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []company.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// GetCompany returns a single company by id.
func (s *Store) GetCompany(ctx context.Context, id string) (*company.Company, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)

	c, err := scanCompany(row)
	if err != nil {
		return nil, notFoundWrap(err, "get company %s", id)
	}
	return &c, nil
}

// CreateCompany inserts a new company and returns the stored row.
func (s *Store) CreateCompany(ctx context.Context, req *company.CreateRequest) (*company.Company, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO companies (name, domain, sector, size, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+companyColumns,
		req.Name, req.Domain, req.Sector, req.Size, req.Notes)

	c, err := scanCompany(row)
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return &c, nil
}

// UpdateCompany writes a company's editable fields, guarded by the version
// column for optimistic concurrency.
func (s *Store) UpdateCompany(ctx context.Context, c *company.Company) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE companies
		 SET name = $2, domain = $3, sector = $4, size = $5, notes = $6,
		     version = version + 1, updated_at = NOW()
		 WHERE id = $1 AND version = $7`,
		c.ID, c.Name, c.Domain, c.Sector, c.Size, c.Notes, c.Version)
	if err != nil {
		return fmt.Errorf("update company %s: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update company %s: %w", c.ID, domain.ErrConflict)
	}
	c.Version++
	return nil
}

// DeleteCompany removes a company. Contacts keep their row (company_id goes
// NULL); deals and the enrichment record cascade.
func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete company %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
