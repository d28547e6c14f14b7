package service_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-platform-automation/internal/app/worker/service"
	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
	queue "github.com/JoeShih716/go-platform-automation/internal/infrastructure/queue/redis"
	"github.com/JoeShih716/go-platform-automation/pkg/redis"
)

type fakeLease struct{ sess *domain.PlatformSession }

func (l *fakeLease) Session() *domain.PlatformSession { return l.sess }
func (l *fakeLease) Release()                         {}
func (l *fakeLease) Abort()                           {}

type fakeSessions struct{ seq atomic.Int64 }

func (m *fakeSessions) Acquire(_ context.Context, p domain.Platform) (ports.SessionLease, error) {
	id := fmt.Sprintf("sess-%d", m.seq.Add(1))
	return &fakeLease{sess: domain.NewPlatformSession(id, p, "agent", domain.RunModeHeadless, nil)}, nil
}

func (m *fakeSessions) Active() int64 { return 0 }

// recordingAdapter 記錄每位玩家的執行順序並偵測同玩家重疊執行
type recordingAdapter struct {
	mu      sync.Mutex
	active  map[string]int
	order   map[string][]string
	overlap bool
}

func newRecordingAdapter() *recordingAdapter {
	return &recordingAdapter{active: map[string]int{}, order: map[string][]string{}}
}

func (a *recordingAdapter) run(ref domain.ActionRef) domain.ActionOutcome {
	a.mu.Lock()
	if a.active[ref.PlayerRef] > 0 {
		a.overlap = true
	}
	a.active[ref.PlayerRef]++
	a.order[ref.PlayerRef] = append(a.order[ref.PlayerRef], ref.JobID)
	a.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	a.mu.Lock()
	a.active[ref.PlayerRef]--
	a.mu.Unlock()
	return domain.Success("C-" + ref.JobID)
}

func (a *recordingAdapter) Platform() domain.Platform { return domain.PlatformMilkyway }

func (a *recordingAdapter) Login(context.Context, domain.Page, domain.Credentials) error { return nil }

func (a *recordingAdapter) Deposit(_ context.Context, _ *domain.PlatformSession, ref domain.ActionRef, _ decimal.Decimal) domain.ActionOutcome {
	return a.run(ref)
}

func (a *recordingAdapter) Withdraw(_ context.Context, _ *domain.PlatformSession, ref domain.ActionRef, _ decimal.Decimal) domain.ActionOutcome {
	return a.run(ref)
}

func (a *recordingAdapter) ClaimBonus(_ context.Context, _ *domain.PlatformSession, ref domain.ActionRef, _ string) domain.ActionOutcome {
	return a.run(ref)
}

func (a *recordingAdapter) Logout(context.Context, *domain.PlatformSession) error { return nil }

type countingReporter struct{ applied atomic.Int64 }

func (r *countingReporter) Apply(context.Context, *domain.Job, domain.ActionOutcome) (bool, error) {
	r.applied.Add(1)
	return true, nil
}

func TestWorker_PerPlayerOrdering(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rds, err := redis.NewClient(redis.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rds.Close() })

	q := queue.NewQueue(rds, queue.Options{Namespace: "pool", LeaseTTL: time.Minute}, nil)
	adapter := newRecordingAdapter()
	reporter := &countingReporter{}
	svc := service.NewWorkerService(q, &fakeSessions{}, single(adapter), reporter, service.Config{
		Workers:     4,
		MaxAttempts: 3,
		JobTimeout:  5 * time.Second,
	}, nil)

	players := []string{"alice", "bob"}
	want := map[string][]string{}
	total := 0
	for i := 0; i < 6; i++ {
		for _, player := range players {
			priority := domain.PriorityDefault
			if i%2 == 1 {
				priority = domain.PriorityHigh
			}
			id := fmt.Sprintf("%s-%d", player, i)
			job := &domain.Job{
				ID:          id,
				Kind:        domain.JobKindDeposit,
				Platform:    domain.PlatformMilkyway,
				PlayerRef:   player,
				Amount:      decimal.NewFromInt(int64(i + 1)),
				RequestedBy: "ops",
				Priority:    priority,
				State:       domain.JobStateQueued,
			}
			require.NoError(t, q.Enqueue(ctx, job))
			want[player] = append(want[player], id)
			total++
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for reporter.applied.Load() < int64(total) && time.Now().Before(deadline) {
				ok, err := svc.ProcessNext(ctx)
				if err != nil || !ok {
					time.Sleep(2 * time.Millisecond)
				}
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, total, reporter.applied.Load())
	assert.False(t, adapter.overlap, "jobs for one player must never run concurrently")
	for _, player := range players {
		assert.Equal(t, want[player], adapter.order[player], "player %s", player)
	}
	assert.EqualValues(t, total, svc.Stats().Succeeded)
}
