package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher buffers audit events for the Worker. Emission is best-effort:
// audit must never block or fail a registration, so a full buffer drops the
// event with a log line instead of stalling the caller.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Emit queues an event, stamping it if the caller did not.
func (p *Publisher) Emit(_ context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit buffer full, dropping event", "action", event.Action)
	}
}

// Inbox exposes the queue for the Worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}
