// Package settings stores application configuration and provider API keys in
// SQLite. Settings are plain key/value strings; API keys are sealed before
// they hit disk and are never returned in plaintext through read paths.
package settings

import (
	"context"
	"database/sql"
	"fmt"
)

// Well-known setting keys.
const (
	KeyDefaultModel      = "default_model"
	KeyMaxTokens         = "max_tokens"
	KeyTemperature       = "temperature"
	KeyLoggingEnabled    = "logging_enabled"
	KeyModelsRefreshedAt = "models_refreshed_at"
)

// Service manages the settings table.
type Service struct {
	db *sql.DB
}

// NewService creates a new settings service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Get returns one setting value. Returns sql.ErrNoRows when the key is
// absent.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAll returns every stored setting.
func (s *Service) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("settings: get all: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("settings: scan: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Set upserts a single setting.
func (s *Service) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("settings: set %q: %w", key, err)
	}
	return nil
}

// SetMany upserts a batch of settings atomically: either all writes land or
// none do.
func (s *Service) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("settings: begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for k, v := range values {
		if k == "" {
			return fmt.Errorf("settings: empty key in batch")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
			k, v,
		); err != nil {
			return fmt.Errorf("settings: set %q: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("settings: commit batch: %w", err)
	}
	return nil
}

// Delete removes a setting. Returns false when the key was absent.
func (s *Service) Delete(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("settings: delete %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
