package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lodestarhq/lodestar/internal/domain/enrichment"
)

// GetEnrichmentRecord returns the enrichment status row for a company.
// A company that was never enriched gets an idle record, not an error.
func (s *Store) GetEnrichmentRecord(ctx context.Context, companyID string) (*enrichment.Record, error) {
	var rec enrichment.Record
	var lastError string
	err := s.pool.QueryRow(ctx,
		`SELECT company_id, status, last_error, updated_at
		 FROM enrichment_status WHERE company_id = $1`, companyID).
		Scan(&rec.CompanyID, &rec.Status, &lastError, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &enrichment.Record{CompanyID: companyID, Status: enrichment.StatusIdle}, nil
		}
		return nil, fmt.Errorf("get enrichment record %s: %w", companyID, err)
	}
	rec.LastError = enrichment.ErrorKind(lastError)
	return &rec, nil
}

// MarkEnrichmentProcessing atomically claims the processing marker for a
// company. The conditional upsert is the at-most-one-in-flight guard: when
// the row is already processing and force is not set, zero rows are affected
// and the claim is refused.
func (s *Store) MarkEnrichmentProcessing(ctx context.Context, companyID string, force bool) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO enrichment_status (company_id, status, last_error, updated_at)
		 VALUES ($1, 'processing', '', NOW())
		 ON CONFLICT (company_id) DO UPDATE
		 SET status = 'processing', last_error = '', updated_at = NOW()
		 WHERE enrichment_status.status <> 'processing' OR $2`,
		companyID, force)
	if err != nil {
		return false, fmt.Errorf("mark enrichment processing %s: %w", companyID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// CompleteEnrichment persists the enriched payload onto the company row and
// flips the status record to enriched, in one transaction.
func (s *Store) CompleteEnrichment(ctx context.Context, companyID string, data *enrichment.Data) error {
	painPoints, err := json.Marshal(orEmpty(data.PainPoints))
	if err != nil {
		return fmt.Errorf("marshal pain_points: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin complete enrichment: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`UPDATE companies
		 SET description = $2, sector = $3, estimated_size = $4, pain_points = $5, updated_at = NOW()
		 WHERE id = $1`,
		companyID, data.Description, data.Sector, data.EstimatedSize, painPoints)
	if err != nil {
		return fmt.Errorf("persist enrichment data %s: %w", companyID, err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE enrichment_status
		 SET status = 'enriched', last_error = '', updated_at = NOW()
		 WHERE company_id = $1`,
		companyID)
	if err != nil {
		return fmt.Errorf("complete enrichment %s: %w", companyID, err)
	}

	return tx.Commit(ctx)
}

// FailEnrichment records a terminal failure, clearing the processing marker.
func (s *Store) FailEnrichment(ctx context.Context, companyID string, kind enrichment.ErrorKind) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO enrichment_status (company_id, status, last_error, updated_at)
		 VALUES ($1, 'failed', $2, NOW())
		 ON CONFLICT (company_id) DO UPDATE
		 SET status = 'failed', last_error = $2, updated_at = NOW()`,
		companyID, string(kind))
	if err != nil {
		return fmt.Errorf("fail enrichment %s: %w", companyID, err)
	}
	return nil
}
