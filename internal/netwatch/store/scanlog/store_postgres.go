package scanlog

import (
	"context"
	"database/sql"
	"fmt"

	"antygravity/internal/netwatch/models"
	id "antygravity/pkg/domain"
)

// PostgresStore persists scan logs in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE scan_logs (
//	    id            UUID PRIMARY KEY,
//	    owner_id      UUID NOT NULL,
//	    network_ssid  TEXT NOT NULL DEFAULT '',
//	    network_bssid TEXT NOT NULL DEFAULT '',
//	    client_info   TEXT NOT NULL DEFAULT '',
//	    payload       JSONB NOT NULL,
//	    created_at    TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX scan_logs_owner_created_idx
//	    ON scan_logs (owner_id, created_at DESC);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, scan *models.ScanLog) error {
	query := `
		INSERT INTO scan_logs (id, owner_id, network_ssid, network_bssid, client_info, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		scan.ID.String(),
		scan.OwnerID.String(),
		scan.NetworkSSID,
		scan.NetworkBSSID,
		scan.ClientInfo,
		[]byte(scan.Payload),
		scan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append scan log: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's scans newest first.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.ScanLog, error) {
	query := `
		SELECT id, owner_id, network_ssid, network_bssid, client_info, payload, created_at
		FROM scan_logs
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("list scan logs: %w", err)
	}
	defer rows.Close()

	var scans []*models.ScanLog
	for rows.Next() {
		var (
			scan       models.ScanLog
			rawID      string
			rawOwnerID string
			payload    []byte
		)
		if err := rows.Scan(&rawID, &rawOwnerID, &scan.NetworkSSID, &scan.NetworkBSSID,
			&scan.ClientInfo, &payload, &scan.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan scan log: %w", err)
		}
		scanID, err := id.ParseScanID(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse scan id: %w", err)
		}
		ownerID, err := id.ParseUserID(rawOwnerID)
		if err != nil {
			return nil, fmt.Errorf("parse owner id: %w", err)
		}
		scan.ID = scanID
		scan.OwnerID = ownerID
		scan.Payload = payload
		scans = append(scans, &scan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scan logs: %w", err)
	}
	return scans, nil
}
