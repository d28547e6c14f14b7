package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
)

// maxNoteLength 與紀錄表 note 欄位長度一致
const maxNoteLength = 512

// Reporter 實作 ports.ResultReporter
//
// 紀錄的終態只會寫入一次 (條件式更新)，重複送達的結果回傳 applied=false。
// 寫入成功後發佈 OutcomeEvent，發佈失敗只記錄日誌。
type Reporter struct {
	store     ports.RecordStore
	publisher ports.EventPublisher
	now       func() time.Time
	logger    *slog.Logger
}

var _ ports.ResultReporter = (*Reporter)(nil)

// NewReporter 建立 Reporter，publisher 可為 nil
func NewReporter(store ports.RecordStore, publisher ports.EventPublisher, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		store:     store,
		publisher: publisher,
		now:       time.Now,
		logger:    logger.With("component", "result_reporter"),
	}
}

// Apply 將結果寫入對應紀錄
//
// 參數:
//
//	ctx: context.Context - 上下文
//	job: *domain.Job - 完成的工作
//	outcome: domain.ActionOutcome - 最終結果 (可重試失敗在此視為失敗)
//
// 回傳值:
//
//	bool: 是否為本次寫入終態
//	error: 儲存失敗時包裝 domain.ErrStorageUnavailable
func (r *Reporter) Apply(ctx context.Context, job *domain.Job, outcome domain.ActionOutcome) (bool, error) {
	w := domain.TerminalWrite{
		JobID:           job.ID,
		Kind:            job.Kind,
		Status:          Status(job.Kind, outcome),
		ConfirmationRef: outcome.ConfirmationRef,
		ResolvedBy:      job.RequestedBy,
		Note:            truncateNote(outcome.Reason),
		Outcome:         outcome,
		At:              r.now().UTC(),
	}

	applied, err := r.store.ApplyTerminal(ctx, w)
	if errors.Is(err, domain.ErrRecordNotFound) {
		// 紀錄可能在 intake 建立時失敗，補建後再寫一次
		if err := r.store.CreatePending(ctx, job); err != nil {
			return false, storageError(err)
		}
		applied, err = r.store.ApplyTerminal(ctx, w)
	}
	if err != nil {
		return false, storageError(err)
	}

	log := r.logger.With("job_id", job.ID, "kind", string(job.Kind), "status", w.Status)
	if !applied {
		log.Info("record already terminal; duplicate outcome ignored")
		return false, nil
	}
	log.Info("record resolved", "confirmation", w.ConfirmationRef, "note", w.Note)

	if r.publisher != nil {
		event := domain.OutcomeEvent{
			JobID:           job.ID,
			Kind:            job.Kind,
			Platform:        job.Platform,
			PlayerRef:       job.PlayerRef,
			Amount:          job.Amount,
			BonusID:         job.BonusID,
			Status:          w.Status,
			ConfirmationRef: w.ConfirmationRef,
			Reason:          outcome.Reason,
			Attempts:        job.AttemptCount,
			OccurredAt:      w.At,
		}
		if err := r.publisher.PublishOutcome(ctx, event); err != nil {
			log.Warn("publish outcome failed", "error", err)
		}
	}
	return true, nil
}

// Status 結果對應的紀錄狀態
//
//	存提款: success -> completed，其餘 -> failed
//	紅利:   success -> approved，平台拒絕 -> rejected，其餘 -> failed
func Status(kind domain.JobKind, outcome domain.ActionOutcome) string {
	if kind.IsTransaction() {
		if outcome.IsSuccess() {
			return string(domain.TransactionStatusCompleted)
		}
		return string(domain.TransactionStatusFailed)
	}
	switch {
	case outcome.IsSuccess():
		return string(domain.BonusStatusApproved)
	case outcome.IsPermanent() && !outcome.Auth:
		return string(domain.BonusStatusRejected)
	default:
		return string(domain.BonusStatusFailed)
	}
}

func storageError(err error) error {
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}

// truncateNote 依字元 (rune) 截斷，超出欄位長度的原因會讓寫入永遠失敗
func truncateNote(note string) string {
	runes := []rune(note)
	if len(runes) <= maxNoteLength {
		return note
	}
	return string(runes[:maxNoteLength-3]) + "..."
}
