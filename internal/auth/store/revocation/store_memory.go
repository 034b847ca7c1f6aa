// Package revocation tracks refresh token JTIs that have been logged out
// before their natural expiry.
package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemoryList is the single-instance fallback when Redis is not
// configured. Entries expire lazily on read.
type InMemoryList struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewInMemoryList() *InMemoryList {
	return &InMemoryList{revoked: make(map[string]time.Time)}
}

func (l *InMemoryList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// RevokeOnce reports whether this call revoked the JTI. An entry whose TTL
// has lapsed counts as absent and can be revoked again.
func (l *InMemoryList) RevokeOnce(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if jti == "" {
		return true, nil
	}
	if err := validateTTL(ttl); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if expiresAt, ok := l.revoked[jti]; ok && time.Now().Before(expiresAt) {
		return false, nil
	}
	l.revoked[jti] = time.Now().Add(ttl)
	return true, nil
}

func (l *InMemoryList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}

	l.mu.RLock()
	expiresAt, ok := l.revoked[jti]
	l.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if time.Now().After(expiresAt) {
		l.mu.Lock()
		delete(l.revoked, jti)
		l.mu.Unlock()
		return false, nil
	}
	return true, nil
}
