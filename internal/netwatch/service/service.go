package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"antygravity/internal/netwatch/models"
	"antygravity/internal/netwatch/registry"
	id "antygravity/pkg/domain"
	dErrors "antygravity/pkg/domain-errors"
	"antygravity/pkg/platform/audit"
	"antygravity/pkg/platform/sentinel"
	"antygravity/pkg/requestcontext"
)

// DeviceStore is the full device registry contract the service depends on.
type DeviceStore interface {
	registry.DeviceStore
	FindByID(ctx context.Context, deviceID id.DeviceID) (*models.Device, error)
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Device, error)
	Execute(ctx context.Context, deviceID id.DeviceID, validate func(*models.Device) error, mutate func(*models.Device)) (*models.Device, error)
}

// ScanStore persists submitted scan logs.
type ScanStore interface {
	Append(ctx context.Context, scan *models.ScanLog) error
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.ScanLog, error)
}

// Service owns scan ingestion and the device trust state machine.
type Service struct {
	devices    DeviceStore
	scans      ScanStore
	reconciler *registry.Reconciler
	auditor    *audit.Emitter
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithAuditor attaches the audit emitter.
func WithAuditor(a *audit.Emitter) Option {
	return func(s *Service) { s.auditor = a }
}

func NewService(devices DeviceStore, scans ScanStore, reconciler *registry.Reconciler, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		devices:    devices,
		scans:      scans,
		reconciler: reconciler,
		logger:     logger,
		tracer:     otel.Tracer("antygravity/netwatch"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SubmitScan records the raw scan and reconciles its observations into the
// device registry. The scan log commits before reconciliation: a partial
// reconciliation failure keeps the log and any devices already upserted.
func (s *Service) SubmitScan(ctx context.Context, ownerID id.UserID, req models.SubmitScanRequest) (*models.SubmitScanResult, error) {
	ctx, span := s.tracer.Start(ctx, "netwatch.submit_scan")
	defer span.End()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode scan payload")
	}

	scan := &models.ScanLog{
		ID:           id.ScanID(uuid.New()),
		OwnerID:      ownerID,
		NetworkSSID:  req.NetworkSSID,
		NetworkBSSID: req.NetworkBSSID,
		ClientInfo:   clientLabel(requestcontext.UserAgent(ctx)),
		Payload:      payload,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.scans.Append(ctx, scan); err != nil {
		s.logger.ErrorContext(ctx, "failed to append scan log",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record scan")
	}

	devices, err := s.reconciler.Reconcile(ctx, ownerID, req.Devices, scan.CreatedAt)
	if err != nil {
		s.logger.ErrorContext(ctx, "scan reconciliation failed",
			"request_id", requestcontext.RequestID(ctx),
			"scan_id", scan.ID.String(),
			"error", err.Error(),
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("netwatch.observations", len(req.Devices)),
		attribute.Int("netwatch.devices_touched", len(devices)),
	)
	if s.auditor != nil {
		s.auditor.Emit(ctx, ownerID, audit.EventScanSubmitted, scan.ID.String(),
			fmt.Sprintf("%d observations", len(req.Devices)))
	}

	return &models.SubmitScanResult{Scan: scan, Devices: devices}, nil
}

// ListDevices returns the owner's registry, most recently seen first.
func (s *Service) ListDevices(ctx context.Context, ownerID id.UserID) ([]*models.Device, error) {
	devices, err := s.devices.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list devices")
	}
	return devices, nil
}

// ListScans returns the owner's submitted scans, newest first.
func (s *Service) ListScans(ctx context.Context, ownerID id.UserID) ([]*models.ScanLog, error) {
	scans, err := s.scans.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list scans")
	}
	return scans, nil
}

// MarkTrusted moves the device to the trusted state, clearing blocked.
// Idempotent.
func (s *Service) MarkTrusted(ctx context.Context, ownerID id.UserID, deviceID id.DeviceID) (*models.Device, error) {
	return s.transition(ctx, ownerID, deviceID, audit.EventDeviceTrusted, (*models.Device).MarkTrusted)
}

// MarkBlocked moves the device to the blocked state, clearing trusted.
// Idempotent.
func (s *Service) MarkBlocked(ctx context.Context, ownerID id.UserID, deviceID id.DeviceID) (*models.Device, error) {
	return s.transition(ctx, ownerID, deviceID, audit.EventDeviceBlocked, (*models.Device).MarkBlocked)
}

// Unmark returns the device to the neutral state. Idempotent.
func (s *Service) Unmark(ctx context.Context, ownerID id.UserID, deviceID id.DeviceID) (*models.Device, error) {
	return s.transition(ctx, ownerID, deviceID, audit.EventDeviceUnmarked, (*models.Device).Unmark)
}

// transition runs one trust state change under the store's atomic Execute.
// Ownership is validated while the row lock is held; a device belonging to
// another user reads as not found.
func (s *Service) transition(ctx context.Context, ownerID id.UserID, deviceID id.DeviceID, event audit.AuditEvent, mutate func(*models.Device)) (*models.Device, error) {
	device, err := s.devices.Execute(ctx, deviceID,
		func(d *models.Device) error {
			if d.OwnerID != ownerID {
				return fmt.Errorf("device not owned by caller: %w", sentinel.ErrNotFound)
			}
			return nil
		},
		mutate,
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "device not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update device")
	}

	if s.auditor != nil {
		s.auditor.Emit(ctx, ownerID, event, device.ID.String(), "")
	}
	return device, nil
}

// clientLabel condenses a User-Agent header into a short stored label.
func clientLabel(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	parts := make([]string, 0, 3)
	if name != "" {
		if version != "" {
			name = name + "/" + version
		}
		parts = append(parts, name)
	}
	if os := ua.OS(); os != "" {
		parts = append(parts, os)
	}
	if ua.Mobile() {
		parts = append(parts, "mobile")
	}
	if len(parts) == 0 {
		return rawUA
	}
	return strings.Join(parts, " ")
}
