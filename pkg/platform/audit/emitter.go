package audit

import (
	"context"
	"log/slog"
	"time"

	id "antygravity/pkg/domain"
	"antygravity/pkg/requestcontext"
)

// Emitter hands events to the background worker over a buffered channel.
// Emission never blocks request handling: when the buffer is full the event
// is dropped and counted, because audit must not take down the hot path.
type Emitter struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewEmitter creates an emitter with the given buffer size. The returned
// channel feeds a Worker.
func NewEmitter(buffer int, logger *slog.Logger) *Emitter {
	if buffer <= 0 {
		buffer = 256
	}
	return &Emitter{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Inbox exposes the event channel for the worker.
func (e *Emitter) Inbox() <-chan Event { return e.inbox }

// Emit queues an audit event, filling in category, timestamp, and request ID
// from context. Drops (with a warning) when the buffer is full.
func (e *Emitter) Emit(ctx context.Context, userID id.UserID, action AuditEvent, subject, detail string) {
	event := Event{
		Category:  action.Category(),
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Action:    string(action),
		Subject:   subject,
		Detail:    detail,
		RequestID: requestcontext.RequestID(ctx),
	}
	select {
	case e.inbox <- event:
	default:
		if e.logger != nil {
			e.logger.Warn("audit buffer full, event dropped",
				"action", event.Action,
				"user_id", event.UserID.String(),
			)
		}
	}
}
