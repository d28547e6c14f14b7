package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
)

// Config Worker 設定
type Config struct {
	Workers       int
	MaxAttempts   int
	BackoffBase   time.Duration
	BackoffMax    time.Duration
	JobTimeout    time.Duration // 單一工作 (含登入) 的上限，超過會強制關閉瀏覽器
	PollInterval  time.Duration
	SettleTimeout time.Duration
}

// Stats 執行統計
type Stats struct {
	InFlight  int64 `json:"in_flight"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Retried   int64 `json:"retried"`
}

// WorkerService 從佇列取出工作並在平台上執行
type WorkerService struct {
	queue    ports.JobQueue
	sessions ports.SessionManager
	adapters ports.AdapterResolver
	reporter ports.ResultReporter
	cfg      Config
	logger   *slog.Logger

	inFlight  int64
	succeeded int64
	failed    int64
	retried   int64
}

func NewWorkerService(queue ports.JobQueue, sessions ports.SessionManager, adapters ports.AdapterResolver, reporter ports.ResultReporter, cfg Config, logger *slog.Logger) *WorkerService {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 25 * time.Second
	}
	if cfg.BackoffMax < cfg.BackoffBase {
		cfg.BackoffMax = cfg.BackoffBase
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 300 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.SettleTimeout <= 0 {
		cfg.SettleTimeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkerService{
		queue:    queue,
		sessions: sessions,
		adapters: adapters,
		reporter: reporter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run 啟動 Workers 個 goroutine，阻塞直到 ctx 結束且所有進行中的工作完成
func (s *WorkerService) Run(ctx context.Context) {
	wake := s.queue.Wakeups(ctx)
	notify := make(chan struct{}, s.cfg.Workers)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-wake:
				for i := 0; i < s.cfg.Workers; i++ {
					select {
					case notify <- struct{}{}:
					default:
					}
				}
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.loop(ctx, id, notify)
		}(i)
	}
	s.logger.Info("workers started", "count", s.cfg.Workers)
	wg.Wait()
	s.logger.Info("workers stopped")
}

func (s *WorkerService) loop(ctx context.Context, id int, notify <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		for ctx.Err() == nil {
			ok, err := s.ProcessNext(ctx)
			if err != nil {
				s.logger.Warn("dequeue failed", "worker", id, "error", err)
				break
			}
			if !ok {
				break
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-notify:
		}
	}
}

// ProcessNext 取出並執行一個工作，佇列為空時回傳 false
// 工作開始後不受 ctx 取消影響 (關機時等待進行中的工作結束)
func (s *WorkerService) ProcessNext(ctx context.Context) (bool, error) {
	job, err := s.queue.Dequeue(ctx)
	if errors.Is(err, domain.ErrQueueEmpty) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	atomic.AddInt64(&s.inFlight, 1)
	defer atomic.AddInt64(&s.inFlight, -1)

	s.process(context.WithoutCancel(ctx), job)
	return true, nil
}

func (s *WorkerService) process(ctx context.Context, job *domain.Job) {
	log := s.logger.With("job_id", job.ID, "kind", string(job.Kind), "platform", job.Platform.String(), "player", job.PlayerRef, "attempt", job.AttemptCount)

	// 租約過期被回收的工作也會計入次數
	if job.AttemptCount > s.cfg.MaxAttempts {
		log.Warn("attempt limit exceeded before execution")
		ctx, cancel := context.WithTimeout(ctx, s.cfg.SettleTimeout)
		defer cancel()
		s.finalize(ctx, job, domain.RetryableFailure(fmt.Sprintf("exceeded %d attempts", s.cfg.MaxAttempts)))
		return
	}

	start := time.Now()
	outcome := s.execute(ctx, job)
	log.Info("job executed", "outcome", outcome.String(), "elapsed", time.Since(start).String())
	s.settle(ctx, job, outcome)
}

// execute 取得會話並呼叫平台 Adapter
// 超過 JobTimeout 時不登出直接關閉瀏覽器，結果為可重試失敗
func (s *WorkerService) execute(ctx context.Context, job *domain.Job) domain.ActionOutcome {
	adapter, err := s.adapters.Adapter(job.Platform)
	if err != nil {
		return domain.PermanentFailure(err.Error())
	}

	jobCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	lease, err := s.sessions.Acquire(jobCtx, job.Platform)
	if err != nil {
		var authErr *domain.AuthError
		switch {
		case errors.As(err, &authErr):
			return domain.AuthFailure(authErr)
		case errors.Is(err, ports.ErrNoCredentials):
			return domain.PermanentFailure(err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			return domain.RetryableFailure("session acquire timeout")
		default:
			return domain.RetryableFailure("session: " + err.Error())
		}
	}

	// 逾時時 Adapter 可能已按下送出，標記隨重試保存
	var submitted atomic.Bool
	ref := job.Ref()
	ref.OnSubmit = func() { submitted.Store(true) }
	defer func() {
		if submitted.Load() {
			job.Submitted = true
		}
	}()

	done := make(chan domain.ActionOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("adapter panic", "job_id", job.ID, "panic", r)
				done <- domain.RetryableFailure(fmt.Sprintf("adapter panic: %v", r))
			}
		}()
		done <- perform(jobCtx, adapter, lease.Session(), job, ref)
	}()

	select {
	case outcome := <-done:
		lease.Release()
		return outcome
	case <-jobCtx.Done():
		lease.Abort()
		return domain.RetryableFailure("job timeout")
	}
}

func perform(ctx context.Context, adapter ports.PlatformAdapter, sess *domain.PlatformSession, job *domain.Job, ref domain.ActionRef) domain.ActionOutcome {
	switch job.Kind {
	case domain.JobKindDeposit:
		return adapter.Deposit(ctx, sess, ref, job.Amount)
	case domain.JobKindWithdraw:
		return adapter.Withdraw(ctx, sess, ref, job.Amount)
	case domain.JobKindBonusClaim:
		return adapter.ClaimBonus(ctx, sess, ref, job.BonusID)
	}
	return domain.PermanentFailure(fmt.Sprintf("unsupported job kind %q", job.Kind))
}

// settle 可重試且未達上限時延遲重排，否則寫入終態
func (s *WorkerService) settle(ctx context.Context, job *domain.Job, outcome domain.ActionOutcome) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SettleTimeout)
	defer cancel()

	job.LastError = outcome.Reason
	final := outcome.IsSuccess() || outcome.IsPermanent() || job.AttemptCount >= s.cfg.MaxAttempts
	if !final {
		delay := Backoff(s.cfg.BackoffBase, s.cfg.BackoffMax, job.AttemptCount)
		if err := s.queue.Retry(ctx, job, delay); err != nil {
			s.logger.Error("requeue failed; lease reaper will recover the job", "job_id", job.ID, "error", err)
			return
		}
		atomic.AddInt64(&s.retried, 1)
		s.logger.Info("job scheduled for retry", "job_id", job.ID, "attempt", job.AttemptCount, "delay", delay.String(), "reason", outcome.Reason)
		return
	}
	s.finalize(ctx, job, outcome)
}

// finalize 寫入紀錄並結束工作
// 儲存失敗時本次嘗試不計入次數，延遲後重新排入佇列
func (s *WorkerService) finalize(ctx context.Context, job *domain.Job, outcome domain.ActionOutcome) {
	if _, err := s.reporter.Apply(ctx, job, outcome); err != nil {
		job.AttemptCount--
		delay := Backoff(s.cfg.BackoffBase, s.cfg.BackoffMax, max(job.AttemptCount, 1))
		s.logger.Error("record write failed; job requeued", "job_id", job.ID, "delay", delay.String(), "error", err)
		if err := s.queue.Retry(ctx, job, delay); err != nil {
			s.logger.Error("requeue failed; lease reaper will recover the job", "job_id", job.ID, "error", err)
		}
		return
	}

	if outcome.IsSuccess() {
		job.State = domain.JobStateSucceeded
		atomic.AddInt64(&s.succeeded, 1)
	} else {
		job.State = domain.JobStateFailed
		atomic.AddInt64(&s.failed, 1)
	}
	if err := s.queue.Complete(ctx, job); err != nil {
		s.logger.Error("complete job failed", "job_id", job.ID, "error", err)
	}
}

// Stats 目前統計
func (s *WorkerService) Stats() Stats {
	return Stats{
		InFlight:  atomic.LoadInt64(&s.inFlight),
		Succeeded: atomic.LoadInt64(&s.succeeded),
		Failed:    atomic.LoadInt64(&s.failed),
		Retried:   atomic.LoadInt64(&s.retried),
	}
}

// Backoff 指數退避: base * 2^(attempt-1)，上限 max
func Backoff(base, limit time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= limit {
			return limit
		}
	}
	if d > limit {
		return limit
	}
	return d
}
