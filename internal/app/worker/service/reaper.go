package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
)

// Locker 分散式鎖，確保多個 worker 副本同一時間只有一個執行回收
type Locker interface {
	AcquireLock(ctx context.Context, key string, value string, expiration time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string, value string) error
}

// Reaper 定期把租約過期 (worker 當機或卡住) 的工作放回佇列
type Reaper struct {
	queue   ports.JobQueue
	locker  Locker
	lockKey string
	owner   string
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewReaper(queue ports.JobQueue, locker Locker, lockKey string, logger *slog.Logger) *Reaper {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	return &Reaper{
		queue:   queue,
		locker:  locker,
		lockKey: lockKey,
		owner:   uuid.New().String(),
		cron:    cron.New(cron.WithChain(cron.Recover(cronLogger))),
		logger:  logger.With("component", "lease_reaper"),
	}
}

// Start 依 schedule (例如 "@every 30s") 啟動排程
func (r *Reaper) Start(schedule string) error {
	if _, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.Warn("reap failed", "error", err)
		}
	}); err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("lease reaper scheduled", "schedule", schedule)
	return nil
}

// Stop 停止排程，回傳的 context 在執行中的回收結束後 Done
func (r *Reaper) Stop() context.Context {
	return r.cron.Stop()
}

// RunOnce 取得鎖後回收一次，沒拿到鎖回傳 0
func (r *Reaper) RunOnce(ctx context.Context) (int, error) {
	ok, err := r.locker.AcquireLock(ctx, r.lockKey, r.owner, 30*time.Second)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	defer func() {
		if err := r.locker.ReleaseLock(context.WithoutCancel(ctx), r.lockKey, r.owner); err != nil {
			r.logger.Warn("release reaper lock failed", "error", err)
		}
	}()
	return r.queue.ReapExpired(ctx)
}
