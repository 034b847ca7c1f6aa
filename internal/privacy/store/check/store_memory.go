package check

import (
	"context"
	"sort"
	"sync"

	"antygravity/internal/privacy/models"
	id "antygravity/pkg/domain"
)

// InMemoryStore keeps privacy checks in memory. Used in tests and when no
// database is configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	checks map[string][]*models.PrivacyCheck // keyed by user ID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{checks: make(map[string][]*models.PrivacyCheck)}
}

func (s *InMemoryStore) Save(_ context.Context, check *models.PrivacyCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *check
	key := check.UserID.String()
	s.checks[key] = append(s.checks[key], &cp)
	return nil
}

// ListByUser returns the user's checks newest first.
func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]*models.PrivacyCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.checks[userID.String()]
	out := make([]*models.PrivacyCheck, 0, len(stored))
	for _, c := range stored {
		cp := *c
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks = make(map[string][]*models.PrivacyCheck)
}
