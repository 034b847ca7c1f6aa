package social

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"antygravity/internal/auth/models"
	id "antygravity/pkg/domain"
	"antygravity/pkg/platform/sentinel"
)

// PostgresStore persists social account links.
//
// Schema:
//
//	CREATE TABLE social_accounts (
//	    id               UUID PRIMARY KEY,
//	    user_id          UUID NOT NULL REFERENCES users (id),
//	    provider         TEXT NOT NULL,
//	    provider_user_id TEXT NOT NULL,
//	    email            TEXT NOT NULL DEFAULT '',
//	    created_at       TIMESTAMPTZ NOT NULL,
//	    UNIQUE (provider, provider_user_id)
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const socialColumns = "id, user_id, provider, provider_user_id, email, created_at"

const uniqueViolation = "23505"

func (s *PostgresStore) Create(ctx context.Context, account *models.SocialAccount) (*models.SocialAccount, error) {
	query := `
		INSERT INTO social_accounts (` + socialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		account.ID.String(), account.UserID.String(), string(account.Provider),
		account.ProviderUserID, account.Email, account.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, fmt.Errorf("social account already linked: %w", sentinel.ErrConflict)
		}
		return nil, fmt.Errorf("insert social account: %w", err)
	}

	result := *account
	return &result, nil
}

func (s *PostgresStore) FindByProviderSubject(ctx context.Context, provider models.Provider, subject string) (*models.SocialAccount, error) {
	query := `SELECT ` + socialColumns + ` FROM social_accounts WHERE provider = $1 AND provider_user_id = $2`

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, string(provider), subject))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("social account not found: %w", sentinel.ErrNotFound)
		}
		return nil, err
	}
	return account, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.SocialAccount, error) {
	query := `SELECT ` + socialColumns + ` FROM social_accounts WHERE user_id = $1 ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("query social accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.SocialAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate social accounts: %w", err)
	}
	return accounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.SocialAccount, error) {
	var (
		account   models.SocialAccount
		rawID     string
		rawUserID string
		provider  string
	)
	err := row.Scan(&rawID, &rawUserID, &provider, &account.ProviderUserID, &account.Email, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan social account: %w", err)
	}

	account.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse social account id: %w", err)
	}
	account.UserID, err = id.ParseUserID(rawUserID)
	if err != nil {
		return nil, fmt.Errorf("parse social account user id: %w", err)
	}
	account.Provider = models.Provider(provider)
	return &account, nil
}
