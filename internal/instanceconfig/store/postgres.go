package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"crmkit/internal/instanceconfig/models"
	"crmkit/pkg/platform/sentinel"
)

// PostgresStore persists instances and configuration rows in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed configuration store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindInstanceByName returns the instance with exactly the given name.
func (s *PostgresStore) FindInstanceByName(ctx context.Context, name string) (*models.Instance, error) {
	var instance models.Instance
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM instances WHERE name = $1`,
		name,
	).Scan(&instance.ID, &instance.Name, &instance.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("find instance %q: %w", name, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find instance %q: %w", name, err)
	}
	return &instance, nil
}

// FindOverride returns the value of the first override row matching
// (instanceID, key). Row ordering beyond the first match is unspecified.
func (s *PostgresStore) FindOverride(ctx context.Context, instanceID uuid.UUID, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM instance_config_overrides WHERE instance_id = $1 AND key = $2 LIMIT 1`,
		instanceID, key,
	).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("find override %q: %w", key, sentinel.ErrNotFound)
		}
		return "", fmt.Errorf("find override %q: %w", key, err)
	}
	return value, nil
}

// FindDefault returns the global default value for a key.
func (s *PostgresStore) FindDefault(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM instance_config_defaults WHERE key = $1 LIMIT 1`,
		key,
	).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("find default %q: %w", key, sentinel.ErrNotFound)
		}
		return "", fmt.Errorf("find default %q: %w", key, err)
	}
	return value, nil
}
