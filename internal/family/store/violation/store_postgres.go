package violation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"antygravity/internal/family/models"
	id "antygravity/pkg/domain"
)

// PostgresStore persists rule violations.
//
// Schema:
//
//	CREATE TABLE rule_violations (
//	    id          UUID PRIMARY KEY,
//	    child_id    UUID NOT NULL REFERENCES children (id),
//	    rule_id     UUID NOT NULL REFERENCES parental_rules (id),
//	    description TEXT NOT NULL DEFAULT '',
//	    occurred_at TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, v *models.RuleViolation) (*models.RuleViolation, error) {
	query := `
		INSERT INTO rule_violations (id, child_id, rule_id, description, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.ExecContext(ctx, query,
		v.ID.String(), v.ChildID.String(), v.RuleID.String(), v.Description, v.OccurredAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert violation: %w", err)
	}

	result := *v
	return &result, nil
}

func (s *PostgresStore) ListByChildren(ctx context.Context, childIDs []id.ChildID, filter models.ViolationFilter) ([]*models.RuleViolation, error) {
	if len(childIDs) == 0 {
		return nil, nil
	}

	rawIDs := make([]string, len(childIDs))
	for i, childID := range childIDs {
		rawIDs[i] = childID.String()
	}

	query := `
		SELECT id, child_id, rule_id, description, occurred_at
		FROM rule_violations
		WHERE child_id = ANY($1::uuid[])`
	args := []any{pq.Array(rawIDs)}

	if !filter.Start.IsZero() {
		args = append(args, filter.Start)
		query += fmt.Sprintf(" AND occurred_at >= $%d", len(args))
	}
	if !filter.End.IsZero() {
		args = append(args, filter.End)
		query += fmt.Sprintf(" AND occurred_at <= $%d", len(args))
	}
	query += " ORDER BY occurred_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query violations: %w", err)
	}
	defer rows.Close()

	var violations []*models.RuleViolation
	for rows.Next() {
		var (
			v          models.RuleViolation
			rawID      string
			rawChildID string
			rawRuleID  string
		)
		if err := rows.Scan(&rawID, &rawChildID, &rawRuleID, &v.Description, &v.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan violation: %w", err)
		}
		if v.ID, err = id.ParseViolationID(rawID); err != nil {
			return nil, fmt.Errorf("parse violation id: %w", err)
		}
		if v.ChildID, err = id.ParseChildID(rawChildID); err != nil {
			return nil, fmt.Errorf("parse violation child id: %w", err)
		}
		if v.RuleID, err = id.ParseRuleID(rawRuleID); err != nil {
			return nil, fmt.Errorf("parse violation rule id: %w", err)
		}
		violations = append(violations, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate violations: %w", err)
	}
	return violations, nil
}
