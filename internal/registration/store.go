package registration

import "context"

// Store holds in-progress registration records between wizard interactions.
// Each record has exactly one writer (its own session), so stores need no
// per-record locking beyond making individual calls safe.
type Store interface {
	Put(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
}

// Archive receives the final composite record exactly once, when a
// registration completes. Failures are surfaced verbatim to the caller; the
// stepper never retries.
type Archive interface {
	Save(ctx context.Context, rec *Record) error
}
