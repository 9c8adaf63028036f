package postgres

import (
	"context"
	"fmt"

	"github.com/lodestarhq/lodestar/internal/domain"
	"github.com/lodestarhq/lodestar/internal/domain/contact"
)

const contactColumns = `id, company_id, first_name, last_name, email, phone, title, notes, created_at, updated_at`

func scanContact(row scannable) (contact.Contact, error) {
	var c contact.Contact
	var companyID *string
	err := row.Scan(&c.ID, &companyID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Title, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return contact.Contact{}, err
	}
	c.CompanyID = emptyIfNull(companyID)
	return c, nil
}

// ListContacts returns contacts, optionally filtered to one company.
func (s *Store) ListContacts(ctx context.Context, companyID string) ([]contact.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY last_name, first_name`
	args := []any{}
	if companyID != "" {
		query = `SELECT ` + contactColumns + ` FROM contacts WHERE company_id = $1 ORDER BY last_name, first_name`
		args = append(args, companyID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []contact.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// GetContact returns a single contact by id.
func (s *Store) GetContact(ctx context.Context, id string) (*contact.Contact, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)

	c, err := scanContact(row)
	if err != nil {
		return nil, notFoundWrap(err, "get contact %s", id)
	}
	return &c, nil
}

// CreateContact inserts a new contact and returns the stored row.
func (s *Store) CreateContact(ctx context.Context, req *contact.CreateRequest) (*contact.Contact, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO contacts (company_id, first_name, last_name, email, phone, title, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+contactColumns,
		nullIfEmpty(req.CompanyID), req.FirstName, req.LastName, req.Email, req.Phone, req.Title, req.Notes)

	c, err := scanContact(row)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return &c, nil
}

// UpdateContact writes a contact's fields.
func (s *Store) UpdateContact(ctx context.Context, c *contact.Contact) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE contacts
		 SET company_id = $2, first_name = $3, last_name = $4, email = $5,
		     phone = $6, title = $7, notes = $8, updated_at = NOW()
		 WHERE id = $1`,
		c.ID, nullIfEmpty(c.CompanyID), c.FirstName, c.LastName, c.Email, c.Phone, c.Title, c.Notes)
	if err != nil {
		return fmt.Errorf("update contact %s: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update contact %s: %w", c.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteContact removes a contact.
func (s *Store) DeleteContact(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete contact %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
