package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	queue "github.com/JoeShih716/go-platform-automation/internal/infrastructure/queue/redis"
	"github.com/JoeShih716/go-platform-automation/pkg/redis"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *clock {
	return &clock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func newTestQueue(t *testing.T, c *clock) *queue.Queue {
	t.Helper()
	mr := miniredis.RunT(t)
	rds, err := redis.NewClient(redis.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rds.Close() })

	return queue.NewQueue(rds, queue.Options{
		Namespace: "test",
		LeaseTTL:  time.Minute,
		Now:       c.Now,
	}, nil)
}

func newJob(id, player string, priority domain.Priority) *domain.Job {
	return &domain.Job{
		ID:          id,
		Kind:        domain.JobKindDeposit,
		Platform:    domain.PlatformMilkyway,
		PlayerRef:   player,
		Amount:      decimal.NewFromInt(10),
		RequestedBy: "ops",
		Priority:    priority,
		State:       domain.JobStateQueued,
	}
}

func dequeueID(t *testing.T, q *queue.Queue) string {
	t.Helper()
	job, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	return job.ID
}

func assertEmpty(t *testing.T, q *queue.Queue) {
	t.Helper()
	_, err := q.Dequeue(context.Background())
	assert.ErrorIs(t, err, domain.ErrQueueEmpty)
}

func complete(t *testing.T, q *queue.Queue, id string) {
	t.Helper()
	job, err := q.Get(context.Background(), id)
	require.NoError(t, err)
	job.State = domain.JobStateSucceeded
	require.NoError(t, q.Complete(context.Background(), job))
}

func TestQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, newClock())

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.Enqueue(ctx, newJob(id, "player-"+id, domain.PriorityDefault)))
	}

	assert.Equal(t, "a", dequeueID(t, q))
	assert.Equal(t, "b", dequeueID(t, q))
	assert.Equal(t, "c", dequeueID(t, q))
	assertEmpty(t, q)
}

func TestQueue_Priority(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, newClock())

	require.NoError(t, q.Enqueue(ctx, newJob("normal", "alice", domain.PriorityDefault)))
	require.NoError(t, q.Enqueue(ctx, newJob("urgent", "bob", domain.PriorityHigh)))

	assert.Equal(t, "urgent", dequeueID(t, q))
	assert.Equal(t, "normal", dequeueID(t, q))
}

func TestQueue_SerialKeyOrdering(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, newClock())

	// 同一玩家的高優先權工作不能插隊
	require.NoError(t, q.Enqueue(ctx, newJob("first", "alice", domain.PriorityDefault)))
	require.NoError(t, q.Enqueue(ctx, newJob("second", "alice", domain.PriorityHigh)))
	require.NoError(t, q.Enqueue(ctx, newJob("other", "bob", domain.PriorityDefault)))

	assert.Equal(t, "first", dequeueID(t, q))
	assert.Equal(t, "other", dequeueID(t, q))
	assertEmpty(t, q)

	complete(t, q, "first")
	assert.Equal(t, "second", dequeueID(t, q))
}

func TestQueue_RetryDelay(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	q := newTestQueue(t, c)

	require.NoError(t, q.Enqueue(ctx, newJob("a1", "alice", domain.PriorityDefault)))
	require.NoError(t, q.Enqueue(ctx, newJob("a2", "alice", domain.PriorityDefault)))

	job, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", job.ID)
	assert.Equal(t, 1, job.AttemptCount)
	assert.Equal(t, domain.JobStateInProgress, job.State)

	job.LastError = "balance unchanged after submit"
	require.NoError(t, q.Retry(ctx, job, 30*time.Second))

	stored, err := q.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStateRetrying, stored.State)
	assert.Equal(t, "balance unchanged after submit", stored.LastError)

	// a2 仍需等待 a1
	assertEmpty(t, q)

	c.Advance(31 * time.Second)
	job, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", job.ID)
	assert.Equal(t, 2, job.AttemptCount)

	complete(t, q, "a1")
	assert.Equal(t, "a2", dequeueID(t, q))
}

func TestQueue_RetryKeepsAttemptCount(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, newClock())

	require.NoError(t, q.Enqueue(ctx, newJob("a1", "alice", domain.PriorityDefault)))
	job, err := q.Dequeue(ctx)
	require.NoError(t, err)

	// 儲存層無法寫入時不消耗嘗試次數
	job.AttemptCount--
	require.NoError(t, q.Retry(ctx, job, 0))

	job, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, job.AttemptCount)
}

func TestQueue_RetryKeepsSubmittedMarker(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, newClock())

	require.NoError(t, q.Enqueue(ctx, newJob("a1", "alice", domain.PriorityDefault)))
	job, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.False(t, job.Submitted)

	job.Submitted = true
	require.NoError(t, q.Retry(ctx, job, 0))

	job, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, job.AttemptCount)
	assert.True(t, job.Ref().Submitted)
}

func TestQueue_ReapExpired(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	q := newTestQueue(t, c)

	require.NoError(t, q.Enqueue(ctx, newJob("a1", "alice", domain.PriorityDefault)))
	_, err := q.Dequeue(ctx)
	require.NoError(t, err)

	n, err := q.ReapExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	c.Advance(2 * time.Minute)
	n, err = q.ReapExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := q.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStateQueued, stored.State)

	job, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", job.ID)
	assert.Equal(t, 2, job.AttemptCount)
}

func TestQueue_StaleCopyDropped(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	q := newTestQueue(t, c)

	require.NoError(t, q.Enqueue(ctx, newJob("a1", "alice", domain.PriorityDefault)))
	job, err := q.Dequeue(ctx)
	require.NoError(t, err)

	// 租約過期被放回佇列，但原本的 worker 仍完成了工作
	c.Advance(2 * time.Minute)
	_, err = q.ReapExpired(ctx)
	require.NoError(t, err)
	job.State = domain.JobStateSucceeded
	require.NoError(t, q.Complete(ctx, job))

	assertEmpty(t, q)
}

func TestQueue_Get(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, newClock())

	_, err := q.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	require.NoError(t, q.Enqueue(ctx, newJob("a1", "alice", domain.PriorityDefault)))
	job, err := q.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStateQueued, job.State)
	assert.Equal(t, 0, job.AttemptCount)
	assert.True(t, job.Amount.Equal(decimal.NewFromInt(10)))

	_, err = q.Dequeue(ctx)
	require.NoError(t, err)
	complete(t, q, "a1")

	job, err = q.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStateSucceeded, job.State)
	assert.Equal(t, 1, job.AttemptCount)
}

func TestQueue_EnqueueValidation(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, newClock())

	bad := newJob("bad", "alice", domain.PriorityDefault)
	bad.Amount = decimal.Zero
	assert.ErrorIs(t, q.Enqueue(ctx, bad), domain.ErrInvalidJob)

	require.NoError(t, q.Enqueue(ctx, newJob("dup", "alice", domain.PriorityDefault)))
	require.NoError(t, q.Enqueue(ctx, newJob("dup", "alice", domain.PriorityDefault)))
	assert.Equal(t, "dup", dequeueID(t, q))
	assertEmpty(t, q)
}

func TestQueue_CompleteRequiresTerminalState(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, newClock())

	require.NoError(t, q.Enqueue(ctx, newJob("a1", "alice", domain.PriorityDefault)))
	job, err := q.Dequeue(ctx)
	require.NoError(t, err)

	assert.Error(t, q.Complete(ctx, job))
}

func TestQueue_Wakeups(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := newTestQueue(t, newClock())

	wake := q.Wakeups(ctx)
	require.NoError(t, q.Enqueue(ctx, newJob("a1", "alice", domain.PriorityDefault)))

	select {
	case <-wake:
	case <-time.After(2 * time.Second):
		t.Fatal("no wakeup after enqueue")
	}
}

func TestQueue_Depth(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, newClock())

	require.NoError(t, q.Enqueue(ctx, newJob("a1", "alice", domain.PriorityDefault)))
	require.NoError(t, q.Enqueue(ctx, newJob("b1", "bob", domain.PriorityHigh)))
	require.NoError(t, q.Enqueue(ctx, newJob("c1", "carol", domain.PriorityDefault)))
	_, err := q.Dequeue(ctx)
	require.NoError(t, err)

	depth, err := q.Depth(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, depth["ready_high"])
	assert.EqualValues(t, 2, depth["ready_default"])
	assert.EqualValues(t, 1, depth["inflight"])
	assert.EqualValues(t, 0, depth["delayed"])
}
