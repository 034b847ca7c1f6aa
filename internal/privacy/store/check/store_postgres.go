package check

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"antygravity/internal/privacy/models"
	id "antygravity/pkg/domain"
)

// PostgresStore persists privacy checks in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE privacy_checks (
//	    id                  UUID PRIMARY KEY,
//	    user_id             UUID NOT NULL,
//	    app_package_name    TEXT NOT NULL,
//	    app_name            TEXT NOT NULL,
//	    permissions         TEXT[] NOT NULL DEFAULT '{}',
//	    network_usage_level TEXT NOT NULL,
//	    score               INT NOT NULL,
//	    explanation         TEXT NOT NULL,
//	    suggested_action    TEXT NOT NULL,
//	    created_at          TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX privacy_checks_user_created_idx
//	    ON privacy_checks (user_id, created_at DESC);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, check *models.PrivacyCheck) error {
	query := `
		INSERT INTO privacy_checks (
			id, user_id, app_package_name, app_name, permissions,
			network_usage_level, score, explanation, suggested_action, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		check.ID.String(),
		check.UserID.String(),
		check.AppPackageName,
		check.AppName,
		pq.Array(check.Permissions),
		string(check.NetworkUsageLevel),
		check.Score,
		check.Explanation,
		string(check.SuggestedAction),
		check.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save privacy check: %w", err)
	}
	return nil
}

// ListByUser returns the user's checks newest first.
func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.PrivacyCheck, error) {
	query := `
		SELECT id, user_id, app_package_name, app_name, permissions,
		       network_usage_level, score, explanation, suggested_action, created_at
		FROM privacy_checks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list privacy checks: %w", err)
	}
	defer rows.Close()

	var checks []*models.PrivacyCheck
	for rows.Next() {
		var (
			c           models.PrivacyCheck
			rawID       string
			rawUserID   string
			permissions pq.StringArray
			level       string
			action      string
		)
		if err := rows.Scan(&rawID, &rawUserID, &c.AppPackageName, &c.AppName,
			&permissions, &level, &c.Score, &c.Explanation, &action, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan privacy check: %w", err)
		}
		checkID, err := id.ParseCheckID(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse check id: %w", err)
		}
		ownerID, err := id.ParseUserID(rawUserID)
		if err != nil {
			return nil, fmt.Errorf("parse user id: %w", err)
		}
		c.ID = checkID
		c.UserID = ownerID
		c.Permissions = permissions
		c.NetworkUsageLevel = models.NetworkUsageLevel(level)
		c.SuggestedAction = models.SuggestedAction(action)
		checks = append(checks, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate privacy checks: %w", err)
	}
	return checks, nil
}
