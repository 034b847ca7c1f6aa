package user

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"antygravity/internal/auth/models"
	id "antygravity/pkg/domain"
	"antygravity/pkg/platform/sentinel"
)

// InMemoryStore keeps users in maps guarded by a mutex. Email lookups are
// case-insensitive, matching the Postgres unique index on LOWER(email).
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.UserID]*models.User
	byEmail map[string]id.UserID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
	}
}

func emailKey(email string) string { return strings.ToLower(email) }

func (s *InMemoryStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[emailKey(u.Email)]; exists {
		return nil, fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
	}
	if _, exists := s.byID[u.ID]; exists {
		return nil, fmt.Errorf("user id already exists: %w", sentinel.ErrConflict)
	}

	stored := *u
	s.byID[u.ID] = &stored
	s.byEmail[emailKey(u.Email)] = u.ID

	result := stored
	return &result, nil
}

func (s *InMemoryStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[userID]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	result := *u
	return &result, nil
}

func (s *InMemoryStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	result := *s.byID[userID]
	return &result, nil
}

func (s *InMemoryStore) Update(ctx context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[u.ID]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	if emailKey(existing.Email) != emailKey(u.Email) {
		delete(s.byEmail, emailKey(existing.Email))
		s.byEmail[emailKey(u.Email)] = u.ID
	}

	stored := *u
	s.byID[u.ID] = &stored

	result := stored
	return &result, nil
}
