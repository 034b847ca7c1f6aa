package scanlog

import (
	"context"
	"sort"
	"sync"

	"antygravity/internal/netwatch/models"
	id "antygravity/pkg/domain"
)

// InMemoryStore keeps scan logs in memory. Used in tests and when no
// database is configured.
type InMemoryStore struct {
	mu    sync.RWMutex
	scans map[string][]*models.ScanLog // keyed by owner ID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{scans: make(map[string][]*models.ScanLog)}
}

func (s *InMemoryStore) Append(_ context.Context, scan *models.ScanLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *scan
	key := scan.OwnerID.String()
	s.scans[key] = append(s.scans[key], &cp)
	return nil
}

// ListByOwner returns the owner's scans newest first.
func (s *InMemoryStore) ListByOwner(_ context.Context, ownerID id.UserID) ([]*models.ScanLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.scans[ownerID.String()]
	out := make([]*models.ScanLog, 0, len(stored))
	for _, scan := range stored {
		cp := *scan
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
