package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lodestarhq/lodestar/internal/domain"
	"github.com/lodestarhq/lodestar/internal/domain/deal"
)

const dealColumns = `id, company_id, title, stage, amount_usd, close_date, owner_id, version, created_at, updated_at`

func scanDeal(row scannable) (deal.Deal, error) {
	var d deal.Deal
	var ownerID *string
	var closeDate *time.Time
	err := row.Scan(&d.ID, &d.CompanyID, &d.Title, &d.Stage, &d.AmountUSD,
		&closeDate, &ownerID, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return deal.Deal{}, err
	}
	d.OwnerID = emptyIfNull(ownerID)
	d.CloseDate = closeDate
	return d, nil
}

// ListDeals returns deals, optionally filtered to one company.
func (s *Store) ListDeals(ctx context.Context, companyID string) ([]deal.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals ORDER BY created_at DESC`
	args := []any{}
	if companyID != "" {
		query = `SELECT ` + dealColumns + ` FROM deals WHERE company_id = $1 ORDER BY created_at DESC`
		args = append(args, companyID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var deals []deal.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

// GetDeal returns a single deal by id.
func (s *Store) GetDeal(ctx context.Context, id string) (*deal.Deal, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE id = $1`, id)

	d, err := scanDeal(row)
	if err != nil {
		return nil, notFoundWrap(err, "get deal %s", id)
	}
	return &d, nil
}

// CreateDeal inserts a new deal at the lead stage and returns the stored row.
func (s *Store) CreateDeal(ctx context.Context, req *deal.CreateRequest) (*deal.Deal, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO deals (company_id, title, stage, amount_usd, close_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+dealColumns,
		req.CompanyID, req.Title, deal.StageLead, req.AmountUSD, nullTime(req.CloseDate))

	d, err := scanDeal(row)
	if err != nil {
		return nil, fmt.Errorf("create deal: %w", err)
	}
	return &d, nil
}

// UpdateDeal writes a deal's editable fields, guarded by the version column.
func (s *Store) UpdateDeal(ctx context.Context, d *deal.Deal) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE deals
		 SET title = $2, amount_usd = $3, close_date = $4,
		     version = version + 1, updated_at = NOW()
		 WHERE id = $1 AND version = $5`,
		d.ID, d.Title, d.AmountUSD, nullTime(d.CloseDate), d.Version)
	if err != nil {
		return fmt.Errorf("update deal %s: %w", d.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update deal %s: %w", d.ID, domain.ErrConflict)
	}
	d.Version++
	return nil
}

// UpdateDealStage moves a deal to a new stage, guarded by the version column.
// Stage rules are enforced by the service layer before this call.
func (s *Store) UpdateDealStage(ctx context.Context, id string, stage deal.Stage, version int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE deals SET stage = $2, version = version + 1, updated_at = NOW()
		 WHERE id = $1 AND version = $3`,
		id, stage, version)
	if err != nil {
		return fmt.Errorf("update deal stage %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update deal stage %s: %w", id, domain.ErrConflict)
	}
	return nil
}

// DeleteDeal removes a deal.
func (s *Store) DeleteDeal(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete deal %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete deal %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
