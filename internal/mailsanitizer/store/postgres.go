package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"crmkit/internal/mailsanitizer/models"
	"crmkit/pkg/platform/sentinel"
)

// PostgresStore resolves directory users and group memberships from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed directory store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindUserByEmail returns the user whose email exactly equals the argument.
func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name FROM directory_users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("find user %q: %w", email, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user %q: %w", email, err)
	}
	return &user, nil
}

// IsGroupMember reports whether the user belongs to the given group.
func (s *PostgresStore) IsGroupMember(ctx context.Context, userID uuid.UUID, groupID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM group_memberships WHERE user_id = $1 AND group_id = $2
		)`,
		userID, groupID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check group membership: %w", err)
	}
	return exists, nil
}
