//go:build integration

package registration

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"sportsreg/internal/settlement"
	"sportsreg/pkg/platform/sentinel"
	"sportsreg/pkg/testutil/containers"
)

func newArchive(t *testing.T) *PostgresArchive {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, containers.NewPostgresURL(t))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	archive := NewPostgresArchive(pool)
	require.NoError(t, archive.Schema(ctx))
	return archive
}

func completedRecord(id, email string) *Record {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &Record{
		ID:             id,
		UserType:       UserTypeStudent,
		Email:          email,
		State:          StateComplete,
		CurrentStep:    6,
		CompletedSteps: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
		Settlement: &settlement.Outcome{
			Mode:       settlement.ModeDirectPayment,
			Status:     settlement.StatusPending,
			Amount:     600,
			SelectedAt: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func Test_PostgresArchiveRoundTrip(t *testing.T) {
	archive := newArchive(t)
	ctx := context.Background()

	want := completedRecord("reg-1", "amina@example.com")
	require.NoError(t, archive.Save(ctx, want))

	got, err := archive.Find(ctx, "reg-1")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func Test_PostgresArchiveSaveOverwrites(t *testing.T) {
	archive := newArchive(t)
	ctx := context.Background()

	rec := completedRecord("reg-2", "amina@example.com")
	require.NoError(t, archive.Save(ctx, rec))

	rec.Settlement.Mode = settlement.ModeSponsorshipRequest
	rec.UpdatedAt = rec.UpdatedAt.Add(time.Minute)
	require.NoError(t, archive.Save(ctx, rec))

	got, err := archive.Find(ctx, "reg-2")
	require.NoError(t, err)
	require.Equal(t, settlement.ModeSponsorshipRequest, got.Settlement.Mode)
}

func Test_PostgresArchiveListByEmail(t *testing.T) {
	archive := newArchive(t)
	ctx := context.Background()

	first := completedRecord("reg-3", "list@example.com")
	second := completedRecord("reg-4", "list@example.com")
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	require.NoError(t, archive.Save(ctx, first))
	require.NoError(t, archive.Save(ctx, second))
	require.NoError(t, archive.Save(ctx, completedRecord("reg-5", "other@example.com")))

	got, err := archive.ListByEmail(ctx, "list@example.com")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "reg-4", got[0].ID, "newest first")
}

func Test_PostgresArchiveFindMissing(t *testing.T) {
	archive := newArchive(t)

	_, err := archive.Find(context.Background(), "missing")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}
