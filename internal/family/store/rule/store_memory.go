package rule

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"antygravity/internal/family/models"
	id "antygravity/pkg/domain"
	"antygravity/pkg/platform/sentinel"
)

// InMemoryStore keeps parental rules in a map guarded by a mutex.
type InMemoryStore struct {
	mu    sync.RWMutex
	rules map[id.RuleID]*models.ParentalRule
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{rules: make(map[id.RuleID]*models.ParentalRule)}
}

func (s *InMemoryStore) Create(ctx context.Context, r *models.ParentalRule) (*models.ParentalRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rules[r.ID]; exists {
		return nil, fmt.Errorf("rule already exists: %w", sentinel.ErrConflict)
	}

	stored := *r
	s.rules[r.ID] = &stored

	result := stored
	return &result, nil
}

func (s *InMemoryStore) FindByID(ctx context.Context, ruleID id.RuleID) (*models.ParentalRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules[ruleID]
	if !ok {
		return nil, fmt.Errorf("rule not found: %w", sentinel.ErrNotFound)
	}
	result := *r
	return &result, nil
}

// ListByParent returns the parent's rules, optionally narrowed to one child.
func (s *InMemoryStore) ListByParent(ctx context.Context, parentID id.UserID, childID id.ChildID) ([]*models.ParentalRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.ParentalRule
	for _, r := range s.rules {
		if r.ParentID != parentID {
			continue
		}
		if !childID.IsNil() && r.ChildID != childID {
			continue
		}
		copied := *r
		result = append(result, &copied)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *InMemoryStore) Update(ctx context.Context, r *models.ParentalRule) (*models.ParentalRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[r.ID]; !ok {
		return nil, fmt.Errorf("rule not found: %w", sentinel.ErrNotFound)
	}

	stored := *r
	s.rules[r.ID] = &stored

	result := stored
	return &result, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, ruleID id.RuleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[ruleID]; !ok {
		return fmt.Errorf("rule not found: %w", sentinel.ErrNotFound)
	}
	delete(s.rules, ruleID)
	return nil
}
