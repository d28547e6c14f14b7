package gormstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/infrastructure/persistence/gormstore"
	"github.com/JoeShih716/go-platform-automation/pkg/database"
)

func newTestStore(t *testing.T) (*gormstore.Store, *database.Client) {
	t.Helper()
	client, err := database.NewClientWithDialector(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = client.Close() })

	store := gormstore.NewStore(client)
	require.NoError(t, store.AutoMigrate(context.Background()))
	return store, client
}

func depositJob(id string) *domain.Job {
	return &domain.Job{
		ID:          id,
		Kind:        domain.JobKindDeposit,
		Platform:    domain.PlatformOrionStars,
		PlayerRef:   "alice",
		Amount:      decimal.RequireFromString("50.25"),
		RequestedBy: "ops-1",
		Priority:    domain.PriorityDefault,
		State:       domain.JobStateQueued,
		CreatedAt:   time.Now().UTC(),
	}
}

func bonusJob(id string) *domain.Job {
	return &domain.Job{
		ID:          id,
		Kind:        domain.JobKindBonusClaim,
		Platform:    domain.PlatformGameVault,
		PlayerRef:   "bob",
		BonusID:     "B-1",
		RequestedBy: "ops-2",
		Priority:    domain.PriorityDefault,
		State:       domain.JobStateQueued,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestStore_TransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	job := depositJob("job-1")

	require.NoError(t, store.CreatePending(ctx, job))
	require.NoError(t, store.CreatePending(ctx, job), "create pending is idempotent")

	status, err := store.FindByJobID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobKindDeposit, status.Kind)
	assert.Equal(t, string(domain.TransactionStatusPending), status.Status)

	at := time.Now().UTC()
	applied, err := store.ApplyTerminal(ctx, domain.TerminalWrite{
		JobID:           "job-1",
		Kind:            domain.JobKindDeposit,
		Status:          string(domain.TransactionStatusCompleted),
		ConfirmationRef: "X123",
		Outcome:         domain.Success("X123"),
		At:              at,
	})
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = store.ApplyTerminal(ctx, domain.TerminalWrite{
		JobID:   "job-1",
		Kind:    domain.JobKindDeposit,
		Status:  string(domain.TransactionStatusFailed),
		Note:    "late duplicate",
		Outcome: domain.PermanentFailure("late duplicate"),
		At:      at,
	})
	require.NoError(t, err)
	assert.False(t, applied, "terminal record must not change")

	rec, err := store.GetTransactionRecord(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, rec.Status)
	assert.Equal(t, "X123", rec.ConfirmationRef)
	assert.Equal(t, "ops-1", rec.RequestedBy)
	assert.True(t, rec.Amount.Equal(decimal.RequireFromString("50.25")))
	require.NotNil(t, rec.CompletedAt)
}

func TestStore_BonusLifecycle(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.CreatePending(ctx, bonusJob("job-b")))

	applied, err := store.ApplyTerminal(ctx, domain.TerminalWrite{
		JobID:      "job-b",
		Kind:       domain.JobKindBonusClaim,
		Status:     string(domain.BonusStatusRejected),
		ResolvedBy: "ops-2",
		Note:       "bonus already claimed",
		Outcome:    domain.PermanentFailure("bonus already claimed"),
		At:         time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.True(t, applied)

	rec, err := store.GetBonusRecord(ctx, "job-b")
	require.NoError(t, err)
	assert.Equal(t, domain.BonusStatusRejected, rec.Status)
	assert.Equal(t, "ops-2", rec.ResolvedBy)
	assert.Equal(t, "bonus already claimed", rec.Note)
	assert.NotNil(t, rec.ResolvedAt)

	status, err := store.FindByJobID(ctx, "job-b")
	require.NoError(t, err)
	assert.Equal(t, domain.JobKindBonusClaim, status.Kind)
	assert.Equal(t, "rejected", status.Status)
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.FindByJobID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	applied, err := store.ApplyTerminal(ctx, domain.TerminalWrite{JobID: "missing", Kind: domain.JobKindWithdraw, Status: "failed"})
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	assert.False(t, applied)
}

func TestStore_Upsert(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	rec := domain.PendingBonusRecord(bonusJob("job-u"), "")
	require.NoError(t, store.UpsertBonusRecord(ctx, rec))
	require.NotEmpty(t, rec.ID)

	rec.Note = "checked manually"
	require.NoError(t, store.UpsertBonusRecord(ctx, rec))

	got, err := store.GetBonusRecord(ctx, "job-u")
	require.NoError(t, err)
	assert.Equal(t, "checked manually", got.Note)

	tx := domain.PendingTransactionRecord(depositJob("job-t"), "tx-1")
	require.NoError(t, store.UpsertTransactionRecord(ctx, tx))
	tx.Status = domain.TransactionStatusFailed
	require.NoError(t, store.UpsertTransactionRecord(ctx, tx))

	gotTx, err := store.GetTransactionRecord(ctx, "job-t")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusFailed, gotTx.Status)
}

func TestStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	store, client := newTestStore(t)
	require.NoError(t, client.Close())

	err := store.CreatePending(ctx, depositJob("job-x"))
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	_, err = store.ApplyTerminal(ctx, domain.TerminalWrite{JobID: "job-x", Kind: domain.JobKindDeposit, Status: "completed"})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
