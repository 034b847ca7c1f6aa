package social

import (
	"context"
	"fmt"
	"sync"

	"antygravity/internal/auth/models"
	id "antygravity/pkg/domain"
	"antygravity/pkg/platform/sentinel"
)

type providerKey struct {
	provider models.Provider
	subject  string
}

// InMemoryStore keeps social account links keyed by (provider, subject).
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[providerKey]*models.SocialAccount
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{accounts: make(map[providerKey]*models.SocialAccount)}
}

func (s *InMemoryStore) Create(ctx context.Context, account *models.SocialAccount) (*models.SocialAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := providerKey{provider: account.Provider, subject: account.ProviderUserID}
	if _, exists := s.accounts[key]; exists {
		return nil, fmt.Errorf("social account already linked: %w", sentinel.ErrConflict)
	}

	stored := *account
	s.accounts[key] = &stored

	result := stored
	return &result, nil
}

func (s *InMemoryStore) FindByProviderSubject(ctx context.Context, provider models.Provider, subject string) (*models.SocialAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[providerKey{provider: provider, subject: subject}]
	if !ok {
		return nil, fmt.Errorf("social account not found: %w", sentinel.ErrNotFound)
	}
	result := *account
	return &result, nil
}

func (s *InMemoryStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.SocialAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.SocialAccount
	for _, account := range s.accounts {
		if account.UserID == userID {
			copied := *account
			result = append(result, &copied)
		}
	}
	return result, nil
}
