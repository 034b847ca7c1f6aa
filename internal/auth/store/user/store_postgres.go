package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"antygravity/internal/auth/models"
	id "antygravity/pkg/domain"
	"antygravity/pkg/platform/sentinel"
)

// PostgresStore persists users.
//
// Schema:
//
//	CREATE TABLE users (
//	    id            UUID PRIMARY KEY,
//	    email         TEXT NOT NULL,
//	    password_hash TEXT NOT NULL DEFAULT '',
//	    full_name     TEXT NOT NULL DEFAULT '',
//	    avatar_url    TEXT NOT NULL DEFAULT '',
//	    is_parent     BOOLEAN NOT NULL DEFAULT TRUE,
//	    is_active     BOOLEAN NOT NULL DEFAULT TRUE,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    updated_at    TIMESTAMPTZ NOT NULL
//	);
//	CREATE UNIQUE INDEX users_email_key ON users (LOWER(email));
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = "id, email, password_hash, full_name, avatar_url, is_parent, is_active, created_at, updated_at"

const uniqueViolation = "23505"

func (s *PostgresStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		u.ID.String(), u.Email, u.PasswordHash, u.FullName, u.AvatarURL,
		u.IsParent, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	result := *u
	return &result, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, userID.String()))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return s.scanOne(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresStore) Update(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, full_name = $4, avatar_url = $5,
		    is_parent = $6, is_active = $7, updated_at = $8
		WHERE id = $1
		RETURNING ` + userColumns

	return s.scanOne(s.db.QueryRowContext(ctx, query,
		u.ID.String(), u.Email, u.PasswordHash, u.FullName, u.AvatarURL,
		u.IsParent, u.IsActive, u.UpdatedAt,
	))
}

func (s *PostgresStore) scanOne(row *sql.Row) (*models.User, error) {
	var (
		u     models.User
		rawID string
	)
	err := row.Scan(&rawID, &u.Email, &u.PasswordHash, &u.FullName, &u.AvatarURL,
		&u.IsParent, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID, err = id.ParseUserID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	return &u, nil
}
