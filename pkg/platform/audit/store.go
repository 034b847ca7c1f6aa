package audit

import "context"

// Store persists audit events. Implementations must be safe for concurrent
// use; the worker and request handlers may append simultaneously.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID string) ([]Event, error)
}
