// Package registry merges raw scan observations into the persistent device
// registry.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"antygravity/internal/netwatch/metrics"
	"antygravity/internal/netwatch/models"
	id "antygravity/pkg/domain"
	dErrors "antygravity/pkg/domain-errors"
	"antygravity/pkg/platform/sentinel"
	"antygravity/pkg/requestcontext"
)

// defaultIPAddress is stored when an observation matched by MAC carries no
// IP at creation time.
const defaultIPAddress = "0.0.0.0"

// DeviceStore is the slice of the device store reconciliation needs.
type DeviceStore interface {
	FindByKey(ctx context.Context, key models.Key) (*models.Device, error)
	Create(ctx context.Context, device *models.Device) (*models.Device, error)
	Update(ctx context.Context, device *models.Device) (*models.Device, error)
}

// Reconciler applies scan observations to the device registry one at a
// time, in input order. It creates devices on first sight and refreshes
// known ones; it never deletes and never touches trust flags.
type Reconciler struct {
	store   DeviceStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewReconciler(store DeviceStore, logger *slog.Logger, metrics *metrics.Metrics) *Reconciler {
	return &Reconciler{store: store, logger: logger, metrics: metrics}
}

// Reconcile merges the observations into the owner's registry and returns
// the devices touched, in processing order.
//
// Two observations sharing an identity key within one batch both apply;
// the later one wins. That mirrors the client's scan ordering and is kept
// deliberately, but it can silently drop the earlier observation's name
// and type, so duplicates are logged at debug level.
func (r *Reconciler) Reconcile(ctx context.Context, ownerID id.UserID, observations []models.Observation, observedAt time.Time) ([]*models.Device, error) {
	start := time.Now()
	defer func() { r.metrics.ObserveReconcile(time.Since(start)) }()

	touched := make([]*models.Device, 0, len(observations))
	seen := make(map[models.Key]bool, len(observations))

	for _, obs := range observations {
		if obs.Empty() {
			r.metrics.RecordSkipped()
			r.logger.WarnContext(ctx, "skipping observation without mac or ip",
				"request_id", requestcontext.RequestID(ctx),
			)
			continue
		}

		key := obs.IdentityKey(ownerID)
		if seen[key] {
			r.logger.DebugContext(ctx, "duplicate identity key in batch, last write wins",
				"request_id", requestcontext.RequestID(ctx),
				"mac_address", key.MACAddress,
				"ip_address", key.IPAddress,
			)
		}
		seen[key] = true

		device, err := r.apply(ctx, key, obs, observedAt)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reconcile device")
		}
		touched = append(touched, device)
	}
	return touched, nil
}

func (r *Reconciler) apply(ctx context.Context, key models.Key, obs models.Observation, observedAt time.Time) (*models.Device, error) {
	existing, err := r.store.FindByKey(ctx, key)
	switch {
	case err == nil:
		return r.refresh(ctx, existing, obs, observedAt)
	case errors.Is(err, sentinel.ErrNotFound):
		return r.create(ctx, key, obs, observedAt)
	default:
		return nil, err
	}
}

func (r *Reconciler) create(ctx context.Context, key models.Key, obs models.Observation, observedAt time.Time) (*models.Device, error) {
	device := &models.Device{
		ID:          id.DeviceID(uuid.New()),
		OwnerID:     key.OwnerID,
		Name:        obs.Name,
		IPAddress:   obs.IPAddress,
		MACAddress:  key.MACAddress,
		Type:        obs.DeviceType,
		FirstSeenAt: observedAt,
		LastSeenAt:  observedAt,
	}
	if device.IPAddress == "" {
		device.IPAddress = defaultIPAddress
	}
	if device.Type == "" {
		device.Type = models.DeviceUnknown
	}

	created, err := r.store.Create(ctx, device)
	if errors.Is(err, sentinel.ErrConflict) {
		// A concurrent scan created the same key first. Fall back to a
		// refresh of the winning row.
		existing, findErr := r.store.FindByKey(ctx, key)
		if findErr != nil {
			return nil, findErr
		}
		return r.refresh(ctx, existing, obs, observedAt)
	}
	if err != nil {
		return nil, err
	}
	r.metrics.RecordCreated()
	return created, nil
}

// refresh applies an observation to a known device: IP, name, and type move
// only when the observation supplies them, last_seen always advances, trust
// flags stay untouched.
func (r *Reconciler) refresh(ctx context.Context, device *models.Device, obs models.Observation, observedAt time.Time) (*models.Device, error) {
	if obs.IPAddress != "" {
		device.IPAddress = obs.IPAddress
	}
	if obs.Name != "" {
		device.Name = obs.Name
	}
	if obs.DeviceType != "" {
		device.Type = obs.DeviceType
	}
	device.LastSeenAt = observedAt

	updated, err := r.store.Update(ctx, device)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordUpdated()
	return updated, nil
}
