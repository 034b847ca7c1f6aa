package device

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"antygravity/internal/netwatch/models"
	id "antygravity/pkg/domain"
	"antygravity/pkg/platform/sentinel"
)

// InMemoryStore keeps the device registry in memory. Used in tests and
// when no database is configured. The mutex spans whole operations so the
// Execute validate-then-mutate sequence is atomic.
type InMemoryStore struct {
	mu    sync.RWMutex
	byID  map[id.DeviceID]*models.Device
	byKey map[models.Key]id.DeviceID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:  make(map[id.DeviceID]*models.Device),
		byKey: make(map[models.Key]id.DeviceID),
	}
}

func keyOf(d *models.Device) models.Key {
	if d.MACAddress != "" {
		return models.Key{OwnerID: d.OwnerID, MACAddress: d.MACAddress}
	}
	return models.Key{OwnerID: d.OwnerID, IPAddress: d.IPAddress}
}

func (s *InMemoryStore) FindByKey(_ context.Context, key models.Key) (*models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deviceID, ok := s.byKey[key]
	if !ok {
		return nil, fmt.Errorf("device not found: %w", sentinel.ErrNotFound)
	}
	cp := *s.byID[deviceID]
	return &cp, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, deviceID id.DeviceID) (*models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	device, ok := s.byID[deviceID]
	if !ok {
		return nil, fmt.Errorf("device not found: %w", sentinel.ErrNotFound)
	}
	cp := *device
	return &cp, nil
}

func (s *InMemoryStore) Create(_ context.Context, device *models.Device) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(device)
	if _, exists := s.byKey[key]; exists {
		return nil, fmt.Errorf("device already exists for key: %w", sentinel.ErrConflict)
	}
	cp := *device
	s.byID[cp.ID] = &cp
	s.byKey[key] = cp.ID

	out := cp
	return &out, nil
}

func (s *InMemoryStore) Update(_ context.Context, device *models.Device) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[device.ID]
	if !ok {
		return nil, fmt.Errorf("device not found: %w", sentinel.ErrNotFound)
	}
	delete(s.byKey, keyOf(stored))
	cp := *device
	s.byID[cp.ID] = &cp
	s.byKey[keyOf(&cp)] = cp.ID

	out := cp
	return &out, nil
}

// ListByOwner returns the owner's devices, most recently seen first.
func (s *InMemoryStore) ListByOwner(_ context.Context, ownerID id.UserID) ([]*models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var devices []*models.Device
	for _, device := range s.byID {
		if device.OwnerID == ownerID {
			cp := *device
			devices = append(devices, &cp)
		}
	}
	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].LastSeenAt.After(devices[j].LastSeenAt)
	})
	return devices, nil
}

// Execute atomically validates and mutates one device while the store lock
// is held, then returns the updated copy.
func (s *InMemoryStore) Execute(_ context.Context, deviceID id.DeviceID, validate func(*models.Device) error, mutate func(*models.Device)) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	device, ok := s.byID[deviceID]
	if !ok {
		return nil, fmt.Errorf("device not found: %w", sentinel.ErrNotFound)
	}
	if err := validate(device); err != nil {
		return nil, err
	}
	mutate(device)

	cp := *device
	return &cp, nil
}
