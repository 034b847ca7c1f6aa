package violation

import (
	"context"
	"sort"
	"sync"

	"antygravity/internal/family/models"
	id "antygravity/pkg/domain"
)

// InMemoryStore keeps rule violations in a slice guarded by a mutex.
type InMemoryStore struct {
	mu         sync.RWMutex
	violations []*models.RuleViolation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Create(ctx context.Context, v *models.RuleViolation) (*models.RuleViolation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *v
	s.violations = append(s.violations, &stored)

	result := stored
	return &result, nil
}

// ListByChildren returns violations for the given children, newest first,
// narrowed by the filter's time bounds.
func (s *InMemoryStore) ListByChildren(ctx context.Context, childIDs []id.ChildID, filter models.ViolationFilter) ([]*models.RuleViolation, error) {
	allowed := make(map[id.ChildID]bool, len(childIDs))
	for _, childID := range childIDs {
		allowed[childID] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.RuleViolation
	for _, v := range s.violations {
		if !allowed[v.ChildID] {
			continue
		}
		if !filter.Start.IsZero() && v.OccurredAt.Before(filter.Start) {
			continue
		}
		if !filter.End.IsZero() && v.OccurredAt.After(filter.End) {
			continue
		}
		copied := *v
		result = append(result, &copied)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].OccurredAt.After(result[j].OccurredAt)
	})
	return result, nil
}
