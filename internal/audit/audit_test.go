package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Test_WorkerDrainsPublishedEvents(t *testing.T) {
	sink := NewMemorySink()
	publisher := NewPublisher(16, discardLogger())
	worker := NewWorker(sink, publisher.Inbox(), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	publisher.Emit(ctx, Event{Action: ActionRegistrationStarted, RegistrationID: "reg-1"})
	publisher.Emit(ctx, Event{Action: ActionStepCompleted, RegistrationID: "reg-1", Step: 1})

	require.Eventually(t, func() bool {
		return len(sink.Events()) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	events := sink.Events()
	assert.Equal(t, ActionRegistrationStarted, events[0].Action)
	assert.Equal(t, ActionStepCompleted, events[1].Action)
	assert.Equal(t, 1, events[1].Step)
	assert.False(t, events[0].Timestamp.IsZero(), "publisher should stamp events")
}

func Test_EmitDropsWhenBufferFull(t *testing.T) {
	publisher := NewPublisher(1, discardLogger())
	ctx := context.Background()

	publisher.Emit(ctx, Event{Action: ActionRegistrationStarted})
	// No worker draining: the second emit must not block.
	doneCh := make(chan struct{})
	go func() {
		publisher.Emit(ctx, Event{Action: ActionStepCompleted})
		close(doneCh)
	}()

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full buffer")
	}
}

func Test_EmitPreservesExplicitTimestamp(t *testing.T) {
	publisher := NewPublisher(1, discardLogger())
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	publisher.Emit(context.Background(), Event{Action: ActionWentBack, Timestamp: stamp})

	event := <-publisher.Inbox()
	assert.Equal(t, stamp, event.Timestamp)
}
