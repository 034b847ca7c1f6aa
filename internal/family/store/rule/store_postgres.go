package rule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"antygravity/internal/family/models"
	id "antygravity/pkg/domain"
	"antygravity/pkg/platform/sentinel"
)

// PostgresStore persists parental rules.
//
// Schema:
//
//	CREATE TABLE parental_rules (
//	    id                  UUID PRIMARY KEY,
//	    parent_id           UUID NOT NULL REFERENCES users (id),
//	    child_id            UUID NOT NULL REFERENCES children (id),
//	    rule_type           TEXT NOT NULL,
//	    app_package_name    TEXT NOT NULL DEFAULT '',
//	    category            TEXT NOT NULL DEFAULT '',
//	    daily_limit_minutes INT NOT NULL DEFAULT 0,
//	    bedtime_start       TEXT NOT NULL DEFAULT '',
//	    bedtime_end         TEXT NOT NULL DEFAULT '',
//	    is_active           BOOLEAN NOT NULL DEFAULT TRUE,
//	    created_at          TIMESTAMPTZ NOT NULL,
//	    updated_at          TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const ruleColumns = "id, parent_id, child_id, rule_type, app_package_name, category, daily_limit_minutes, bedtime_start, bedtime_end, is_active, created_at, updated_at"

func (s *PostgresStore) Create(ctx context.Context, r *models.ParentalRule) (*models.ParentalRule, error) {
	query := `
		INSERT INTO parental_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.ExecContext(ctx, query,
		r.ID.String(), r.ParentID.String(), r.ChildID.String(), string(r.RuleType),
		r.AppPackageName, r.Category, r.DailyLimitMinutes,
		r.BedtimeStart, r.BedtimeEnd, r.IsActive, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert rule: %w", err)
	}

	result := *r
	return &result, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, ruleID id.RuleID) (*models.ParentalRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM parental_rules WHERE id = $1`

	r, err := scanRule(s.db.QueryRowContext(ctx, query, ruleID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rule not found: %w", sentinel.ErrNotFound)
		}
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) ListByParent(ctx context.Context, parentID id.UserID, childID id.ChildID) ([]*models.ParentalRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM parental_rules WHERE parent_id = $1`
	args := []any{parentID.String()}
	if !childID.IsNil() {
		query += ` AND child_id = $2`
		args = append(args, childID.String())
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	var rules []*models.ParentalRule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}
	return rules, nil
}

func (s *PostgresStore) Update(ctx context.Context, r *models.ParentalRule) (*models.ParentalRule, error) {
	query := `
		UPDATE parental_rules
		SET app_package_name = $2, category = $3, daily_limit_minutes = $4,
		    bedtime_start = $5, bedtime_end = $6, is_active = $7, updated_at = $8
		WHERE id = $1
		RETURNING ` + ruleColumns

	updated, err := scanRule(s.db.QueryRowContext(ctx, query,
		r.ID.String(), r.AppPackageName, r.Category, r.DailyLimitMinutes,
		r.BedtimeStart, r.BedtimeEnd, r.IsActive, r.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rule not found: %w", sentinel.ErrNotFound)
		}
		return nil, err
	}
	return updated, nil
}

func (s *PostgresStore) Delete(ctx context.Context, ruleID id.RuleID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM parental_rules WHERE id = $1`, ruleID.String())
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rule not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*models.ParentalRule, error) {
	var (
		r           models.ParentalRule
		rawID       string
		rawParentID string
		rawChildID  string
		ruleType    string
	)
	err := row.Scan(&rawID, &rawParentID, &rawChildID, &ruleType,
		&r.AppPackageName, &r.Category, &r.DailyLimitMinutes,
		&r.BedtimeStart, &r.BedtimeEnd, &r.IsActive, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan rule: %w", err)
	}

	r.ID, err = id.ParseRuleID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse rule id: %w", err)
	}
	r.ParentID, err = id.ParseUserID(rawParentID)
	if err != nil {
		return nil, fmt.Errorf("parse rule parent id: %w", err)
	}
	r.ChildID, err = id.ParseChildID(rawChildID)
	if err != nil {
		return nil, fmt.Errorf("parse rule child id: %w", err)
	}
	r.RuleType = models.RuleType(ruleType)
	return &r, nil
}
