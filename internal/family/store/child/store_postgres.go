package child

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"antygravity/internal/family/models"
	id "antygravity/pkg/domain"
	"antygravity/pkg/platform/sentinel"
)

// PostgresStore persists child profiles.
//
// Schema:
//
//	CREATE TABLE children (
//	    id           UUID PRIMARY KEY,
//	    user_id      UUID NOT NULL REFERENCES users (id),
//	    name         TEXT NOT NULL,
//	    age          INT NOT NULL DEFAULT 0,
//	    avatar_color TEXT NOT NULL DEFAULT '#6366F1',
//	    created_at   TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const childColumns = "id, user_id, name, age, avatar_color, created_at"

func (s *PostgresStore) Create(ctx context.Context, child *models.ChildProfile) (*models.ChildProfile, error) {
	query := `
		INSERT INTO children (` + childColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		child.ID.String(), child.UserID.String(), child.Name, child.Age,
		child.AvatarColor, child.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert child: %w", err)
	}

	result := *child
	return &result, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, childID id.ChildID) (*models.ChildProfile, error) {
	query := `SELECT ` + childColumns + ` FROM children WHERE id = $1`

	child, err := scanChild(s.db.QueryRowContext(ctx, query, childID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("child not found: %w", sentinel.ErrNotFound)
		}
		return nil, err
	}
	return child, nil
}

func (s *PostgresStore) ListByParent(ctx context.Context, parentID id.UserID) ([]*models.ChildProfile, error) {
	query := `SELECT ` + childColumns + ` FROM children WHERE user_id = $1 ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, parentID.String())
	if err != nil {
		return nil, fmt.Errorf("query children: %w", err)
	}
	defer rows.Close()

	var children []*models.ChildProfile
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate children: %w", err)
	}
	return children, nil
}

func (s *PostgresStore) Update(ctx context.Context, child *models.ChildProfile) (*models.ChildProfile, error) {
	query := `
		UPDATE children
		SET name = $2, age = $3, avatar_color = $4
		WHERE id = $1
		RETURNING ` + childColumns

	updated, err := scanChild(s.db.QueryRowContext(ctx, query,
		child.ID.String(), child.Name, child.Age, child.AvatarColor,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("child not found: %w", sentinel.ErrNotFound)
		}
		return nil, err
	}
	return updated, nil
}

func (s *PostgresStore) Delete(ctx context.Context, childID id.ChildID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM children WHERE id = $1`, childID.String())
	if err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("child not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChild(row rowScanner) (*models.ChildProfile, error) {
	var (
		child     models.ChildProfile
		rawID     string
		rawUserID string
	)
	err := row.Scan(&rawID, &rawUserID, &child.Name, &child.Age, &child.AvatarColor, &child.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan child: %w", err)
	}

	child.ID, err = id.ParseChildID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse child id: %w", err)
	}
	child.UserID, err = id.ParseUserID(rawUserID)
	if err != nil {
		return nil, fmt.Errorf("parse child user id: %w", err)
	}
	return &child, nil
}
