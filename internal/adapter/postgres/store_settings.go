package postgres

import (
	"context"
	"fmt"

	"github.com/lodestarhq/lodestar/internal/domain/settings"
)

// ListSettings returns all settings ordered by key.
func (s *Store) ListSettings(ctx context.Context) ([]settings.Setting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var result []settings.Setting
	for rows.Next() {
		var st settings.Setting
		if err := rows.Scan(&st.Key, &st.Value, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		result = append(result, st)
	}
	return result, rows.Err()
}

// GetSetting returns a single setting by key.
func (s *Store) GetSetting(ctx context.Context, key string) (*settings.Setting, error) {
	var st settings.Setting
	err := s.pool.QueryRow(ctx,
		`SELECT key, value, updated_at FROM settings WHERE key = $1`, key).
		Scan(&st.Key, &st.Value, &st.UpdatedAt)
	if err != nil {
		return nil, notFoundWrap(err, "get setting %s", key)
	}
	return &st, nil
}

// UpsertSetting inserts or updates a single setting.
func (s *Store) UpsertSetting(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO settings (key, value, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
