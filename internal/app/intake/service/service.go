package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
)

// IntakeService 受理後台送出的工作
// 流程: 驗證 -> 建立 pending 紀錄 -> 加入佇列，回傳 job id (非同步執行)
// 紀錄的終態一律經由 ResultReporter 寫入
type IntakeService struct {
	queue    ports.JobQueue
	store    ports.RecordStore
	reporter ports.ResultReporter
	now      func() time.Time
	logger   *slog.Logger
}

// NewIntakeService 建立受理服務
func NewIntakeService(queue ports.JobQueue, store ports.RecordStore, reporter ports.ResultReporter, logger *slog.Logger) *IntakeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntakeService{
		queue:    queue,
		store:    store,
		reporter: reporter,
		now:      time.Now,
		logger:   logger.With("component", "intake"),
	}
}

// Submit 驗證並受理工作
//
// 參數:
//
//	ctx: context.Context - 上下文
//	req: domain.NewJobRequest - 後台請求
//
// 回傳值:
//
//	*domain.Job: 已加入佇列的工作
//	error: 驗證失敗包裝 domain.ErrInvalidJob，儲存失敗包裝 domain.ErrStorageUnavailable
func (s *IntakeService) Submit(ctx context.Context, req domain.NewJobRequest) (*domain.Job, error) {
	job, err := domain.NewJob(req, s.now())
	if err != nil {
		return nil, err
	}
	log := s.logger.With("job_id", job.ID, "kind", string(job.Kind), "platform", job.Platform.String(), "player", job.PlayerRef)

	if err := s.store.CreatePending(ctx, job); err != nil {
		log.Error("create pending record failed", "error", err)
		return nil, err
	}

	if err := s.queue.Enqueue(ctx, job); err != nil {
		log.Error("enqueue failed", "error", err)
		return s.recoverEnqueue(context.WithoutCancel(ctx), job, err)
	}

	log.Info("job accepted", "priority", string(job.Priority), "requested_by", job.RequestedBy)
	return job, nil
}

// recoverEnqueue 加入佇列回傳錯誤時，腳本可能已經執行 (例如讀取逾時)
//
// 佇列中已有此工作: 視為受理成功
// 確認不存在: 經由 Reporter 將紀錄標為失敗
// 無法確認: 紀錄保持 pending，避免與之後執行的結果衝突
func (s *IntakeService) recoverEnqueue(ctx context.Context, job *domain.Job, enqueueErr error) (*domain.Job, error) {
	log := s.logger.With("job_id", job.ID, "kind", string(job.Kind))

	queued, err := s.queue.Get(ctx, job.ID)
	if err == nil {
		log.Warn("enqueue reported an error but the job is queued; accepted", "enqueue_error", enqueueErr)
		job.State = queued.State
		return job, nil
	}
	if !errors.Is(err, domain.ErrJobNotFound) {
		log.Error("cannot confirm enqueue; record left pending", "error", err)
		return nil, fmt.Errorf("enqueue job %s: %w", job.ID, enqueueErr)
	}

	outcome := domain.RetryableFailure("enqueue failed: " + enqueueErr.Error())
	if _, err := s.reporter.Apply(ctx, job, outcome); err != nil {
		log.Error("mark record failed", "error", err)
	}
	return nil, fmt.Errorf("enqueue job %s: %w", job.ID, enqueueErr)
}

// GetJob 查詢佇列中的工作
func (s *IntakeService) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.queue.Get(ctx, jobID)
}

// GetRecord 查詢工作對應的紀錄狀態
func (s *IntakeService) GetRecord(ctx context.Context, jobID string) (*domain.RecordStatus, error) {
	return s.store.FindByJobID(ctx, jobID)
}
