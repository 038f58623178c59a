package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelier/booking-saga/internal/coordinator/sagalog"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "saga.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSaveAndGetLatest(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	entries := []*sagalog.SagaLog{
		{SagaID: "res1", Status: sagalog.StatusStarted, Payload: `{"hotelId":"htl1"}`, ErrorMessages: "[]", UpdatedAt: base},
		{SagaID: "res1", Status: sagalog.StatusStepDone, CurrentStep: "create_reservation", ErrorMessages: "[]", UpdatedAt: base.Add(time.Millisecond)},
		{SagaID: "res1", Status: sagalog.StatusCompleted, CurrentStep: "finalize_records", ErrorMessages: "[]", UpdatedAt: base.Add(2 * time.Millisecond)},
	}
	for _, e := range entries {
		require.NoError(t, repo.Save(ctx, e))
	}

	latest, err := repo.GetLatest(ctx, "res1")
	require.NoError(t, err)
	assert.Equal(t, sagalog.StatusCompleted, latest.Status)
	assert.Equal(t, "finalize_records", latest.CurrentStep)
	assert.Empty(t, latest.Payload, "payload is only stored on the STARTED row")
}

func TestGetLatestNotFound(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.GetLatest(context.Background(), "res_missing")
	assert.ErrorIs(t, err, sagalog.ErrNotFound)
}

func TestSaveIsAppendOnly(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Save(ctx, &sagalog.SagaLog{SagaID: "res1", Status: sagalog.StatusStarted, ErrorMessages: "[]", UpdatedAt: now}))
	require.NoError(t, repo.Save(ctx, &sagalog.SagaLog{SagaID: "res1", Status: sagalog.StatusStarted, ErrorMessages: "[]", UpdatedAt: now}))

	latest, err := repo.GetLatest(ctx, "res1")
	require.NoError(t, err)
	assert.Equal(t, sagalog.StatusStarted, latest.Status)
}
