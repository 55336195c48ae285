package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from the publisher's inbox and appends them to
// the sink. Sink failures are logged and the event dropped; the trail is
// best-effort and must not wedge the drain loop.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run drains the inbox until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				w.logger.Error("failed to append audit event",
					"action", event.Action, "error", err)
			}
		}
	}
}
