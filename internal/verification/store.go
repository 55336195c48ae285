package verification

import "context"

// Store persists challenges keyed by correlation id, with a secondary lookup
// by email so the stepper can ask whether an email has been verified.
type Store interface {
	Save(ctx context.Context, challenge Challenge) error
	Find(ctx context.Context, correlationID string) (Challenge, error)
	FindByEmail(ctx context.Context, email string) (Challenge, error)
}
