package child

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"antygravity/internal/family/models"
	id "antygravity/pkg/domain"
	"antygravity/pkg/platform/sentinel"
)

// InMemoryStore keeps child profiles in a map guarded by a mutex.
type InMemoryStore struct {
	mu       sync.RWMutex
	children map[id.ChildID]*models.ChildProfile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{children: make(map[id.ChildID]*models.ChildProfile)}
}

func (s *InMemoryStore) Create(ctx context.Context, child *models.ChildProfile) (*models.ChildProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.children[child.ID]; exists {
		return nil, fmt.Errorf("child already exists: %w", sentinel.ErrConflict)
	}

	stored := *child
	s.children[child.ID] = &stored

	result := stored
	return &result, nil
}

func (s *InMemoryStore) FindByID(ctx context.Context, childID id.ChildID) (*models.ChildProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	child, ok := s.children[childID]
	if !ok {
		return nil, fmt.Errorf("child not found: %w", sentinel.ErrNotFound)
	}
	result := *child
	return &result, nil
}

func (s *InMemoryStore) ListByParent(ctx context.Context, parentID id.UserID) ([]*models.ChildProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.ChildProfile
	for _, child := range s.children {
		if child.UserID == parentID {
			copied := *child
			result = append(result, &copied)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *InMemoryStore) Update(ctx context.Context, child *models.ChildProfile) (*models.ChildProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.children[child.ID]; !ok {
		return nil, fmt.Errorf("child not found: %w", sentinel.ErrNotFound)
	}

	stored := *child
	s.children[child.ID] = &stored

	result := stored
	return &result, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, childID id.ChildID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.children[childID]; !ok {
		return fmt.Errorf("child not found: %w", sentinel.ErrNotFound)
	}
	delete(s.children, childID)
	return nil
}
