package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"antygravity/internal/netwatch/models"
	id "antygravity/pkg/domain"
	"antygravity/pkg/platform/sentinel"
)

// PostgresStore persists the device registry in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE devices (
//	    id            UUID PRIMARY KEY,
//	    owner_id      UUID NOT NULL,
//	    name          TEXT NOT NULL DEFAULT '',
//	    ip_address    TEXT NOT NULL,
//	    mac_address   TEXT NOT NULL DEFAULT '',
//	    device_type   TEXT NOT NULL,
//	    is_trusted    BOOLEAN NOT NULL DEFAULT FALSE,
//	    is_blocked    BOOLEAN NOT NULL DEFAULT FALSE,
//	    first_seen_at TIMESTAMPTZ NOT NULL,
//	    last_seen_at  TIMESTAMPTZ NOT NULL
//	);
//
// The identity key is enforced with two partial unique indexes, so
// concurrent scans for the same owner cannot race duplicate rows in:
//
//	CREATE UNIQUE INDEX devices_owner_mac_key
//	    ON devices (owner_id, mac_address) WHERE mac_address <> '';
//	CREATE UNIQUE INDEX devices_owner_ip_key
//	    ON devices (owner_id, ip_address) WHERE mac_address = '';
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const deviceColumns = `id, owner_id, name, ip_address, mac_address, device_type,
		is_trusted, is_blocked, first_seen_at, last_seen_at`

func (s *PostgresStore) FindByKey(ctx context.Context, key models.Key) (*models.Device, error) {
	var (
		query string
		arg   string
	)
	if key.MACAddress != "" {
		query = `SELECT ` + deviceColumns + ` FROM devices WHERE owner_id = $1 AND mac_address = $2`
		arg = key.MACAddress
	} else {
		query = `SELECT ` + deviceColumns + ` FROM devices WHERE owner_id = $1 AND ip_address = $2 AND mac_address = ''`
		arg = key.IPAddress
	}
	return s.queryOne(ctx, query, key.OwnerID.String(), arg)
}

func (s *PostgresStore) FindByID(ctx context.Context, deviceID id.DeviceID) (*models.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1`
	return s.queryOne(ctx, query, deviceID.String())
}

func (s *PostgresStore) Create(ctx context.Context, device *models.Device) (*models.Device, error) {
	query := `
		INSERT INTO devices (
			id, owner_id, name, ip_address, mac_address, device_type,
			is_trusted, is_blocked, first_seen_at, last_seen_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		device.ID.String(),
		device.OwnerID.String(),
		device.Name,
		device.IPAddress,
		device.MACAddress,
		string(device.Type),
		device.IsTrusted,
		device.IsBlocked,
		device.FirstSeenAt,
		device.LastSeenAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("device already exists for key: %w", sentinel.ErrConflict)
		}
		return nil, fmt.Errorf("create device: %w", err)
	}
	cp := *device
	return &cp, nil
}

func (s *PostgresStore) Update(ctx context.Context, device *models.Device) (*models.Device, error) {
	query := `
		UPDATE devices
		SET name = $2, ip_address = $3, mac_address = $4, device_type = $5,
		    last_seen_at = $6
		WHERE id = $1
		RETURNING ` + deviceColumns + `
	`
	updated, err := s.scanOne(s.db.QueryRowContext(ctx, query,
		device.ID.String(),
		device.Name,
		device.IPAddress,
		device.MACAddress,
		string(device.Type),
		device.LastSeenAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("device not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("update device: %w", err)
	}
	return updated, nil
}

// ListByOwner returns the owner's devices, most recently seen first.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE owner_id = $1 ORDER BY last_seen_at DESC`
	rows, err := s.db.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var devices []*models.Device
	for rows.Next() {
		device, err := s.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, device)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate devices: %w", err)
	}
	return devices, nil
}

// Execute atomically validates and mutates one device under SELECT ... FOR
// UPDATE, so concurrent trust transitions serialize on the row.
func (s *PostgresStore) Execute(ctx context.Context, deviceID id.DeviceID, validate func(*models.Device) error, mutate func(*models.Device)) (*models.Device, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin device tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1 FOR UPDATE`
	device, err := s.scanOne(tx.QueryRowContext(ctx, query, deviceID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("device not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find device for update: %w", err)
	}

	if err := validate(device); err != nil {
		return nil, err
	}
	mutate(device)

	update := `
		UPDATE devices
		SET name = $2, ip_address = $3, device_type = $4,
		    is_trusted = $5, is_blocked = $6, last_seen_at = $7
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, update,
		device.ID.String(),
		device.Name,
		device.IPAddress,
		string(device.Type),
		device.IsTrusted,
		device.IsBlocked,
		device.LastSeenAt,
	); err != nil {
		return nil, fmt.Errorf("apply device mutation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit device tx: %w", err)
	}
	return device, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) queryOne(ctx context.Context, query string, args ...any) (*models.Device, error) {
	device, err := s.scanOne(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("device not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find device: %w", err)
	}
	return device, nil
}

func (s *PostgresStore) scanOne(row rowScanner) (*models.Device, error) {
	var (
		d          models.Device
		rawID      string
		rawOwnerID string
		deviceType string
	)
	if err := row.Scan(&rawID, &rawOwnerID, &d.Name, &d.IPAddress, &d.MACAddress,
		&deviceType, &d.IsTrusted, &d.IsBlocked, &d.FirstSeenAt, &d.LastSeenAt); err != nil {
		return nil, err
	}
	deviceID, err := id.ParseDeviceID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse device id: %w", err)
	}
	ownerID, err := id.ParseUserID(rawOwnerID)
	if err != nil {
		return nil, fmt.Errorf("parse owner id: %w", err)
	}
	d.ID = deviceID
	d.OwnerID = ownerID
	d.Type = models.DeviceType(deviceType)
	return &d, nil
}
