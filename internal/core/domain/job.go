package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobKind 工作類型
type JobKind string

const (
	JobKindDeposit    JobKind = "deposit"
	JobKindWithdraw   JobKind = "withdraw"
	JobKindBonusClaim JobKind = "bonus_claim"
)

// ParseJobKind 解析工作類型
func ParseJobKind(raw string) (JobKind, error) {
	switch JobKind(strings.ToLower(strings.TrimSpace(raw))) {
	case JobKindDeposit:
		return JobKindDeposit, nil
	case JobKindWithdraw:
		return JobKindWithdraw, nil
	case JobKindBonusClaim, "bonus", "bonusclaim":
		return JobKindBonusClaim, nil
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidJob, raw)
}

// IsTransaction 存提款類工作 (寫入 TransactionRecord)
func (k JobKind) IsTransaction() bool {
	return k == JobKindDeposit || k == JobKindWithdraw
}

// Priority 佇列優先等級
type Priority string

const (
	PriorityHigh    Priority = "high"
	PriorityDefault Priority = "default"
)

// Priorities 依出列順序排列
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityDefault}
}

// ParsePriority 空字串視為 default
func ParsePriority(raw string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PriorityDefault:
		return PriorityDefault, nil
	case PriorityHigh:
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidJob, raw)
}

// JobState 工作狀態機
//
//	queued -> in_progress -> {succeeded, failed, retrying}
//	retrying -> queued
type JobState string

const (
	JobStateQueued     JobState = "queued"
	JobStateInProgress JobState = "in_progress"
	JobStateRetrying   JobState = "retrying"
	JobStateSucceeded  JobState = "succeeded"
	JobStateFailed     JobState = "failed"
)

// IsTerminal 成功或失敗皆為終態
func (s JobState) IsTerminal() bool {
	return s == JobStateSucceeded || s == JobStateFailed
}

// Job 一個待執行的自動化動作 (存款/提款/領取紅利)
type Job struct {
	ID           string          `json:"id"`
	Kind         JobKind         `json:"kind"`
	Platform     Platform        `json:"platform"`
	PlayerRef    string          `json:"player_ref"`
	Amount       decimal.Decimal `json:"amount"`
	BonusID      string          `json:"bonus_id,omitempty"`
	RequestedBy  string          `json:"requested_by"`
	Priority     Priority        `json:"priority"`
	State        JobState        `json:"state"`
	AttemptCount int             `json:"attempt_count"`
	Submitted    bool            `json:"submitted,omitempty"` // 先前的嘗試已在平台送出過動作
	LastError    string          `json:"last_error,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewJobRequest 後台送出的工作請求 (尚未驗證)
type NewJobRequest struct {
	Kind        string
	Platform    string
	PlayerRef   string
	Amount      string
	BonusID     string
	RequestedBy string
	Priority    string
}

// NewJob 驗證請求並建立 Job
//
// 參數:
//
//	req: NewJobRequest - 後台請求內容
//	now: time.Time - 建立時間
//
// 回傳值:
//
//	*Job: 狀態為 queued 的新工作
//	error: 驗證失敗回傳包裝 ErrInvalidJob 的錯誤
func NewJob(req NewJobRequest, now time.Time) (*Job, error) {
	kind, err := ParseJobKind(req.Kind)
	if err != nil {
		return nil, err
	}
	platform, err := ParsePlatform(req.Platform)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	priority, err := ParsePriority(req.Priority)
	if err != nil {
		return nil, err
	}

	job := &Job{
		ID:          uuid.New().String(),
		Kind:        kind,
		Platform:    platform,
		PlayerRef:   strings.TrimSpace(req.PlayerRef),
		BonusID:     strings.TrimSpace(req.BonusID),
		RequestedBy: strings.TrimSpace(req.RequestedBy),
		Priority:    priority,
		State:       JobStateQueued,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}

	if amount := strings.TrimSpace(req.Amount); amount != "" {
		job.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("%w: amount %q is not a decimal", ErrInvalidJob, req.Amount)
		}
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// AmountPlaces 平台與紀錄金額的小數位數
const AmountPlaces = 2

// Validate 檢查 Job 不變量: amount 與 bonusId 依 kind 恰好擇一
func (j *Job) Validate() error {
	if j.PlayerRef == "" {
		return fmt.Errorf("%w: player_ref is required", ErrInvalidJob)
	}
	if j.RequestedBy == "" {
		return fmt.Errorf("%w: requested_by is required", ErrInvalidJob)
	}
	switch j.Kind {
	case JobKindDeposit, JobKindWithdraw:
		if !j.Amount.IsPositive() {
			return fmt.Errorf("%w: %s requires a positive amount", ErrInvalidJob, j.Kind)
		}
		if !j.Amount.Equal(j.Amount.Truncate(AmountPlaces)) {
			return fmt.Errorf("%w: amount %s has more than %d decimal places", ErrInvalidJob, j.Amount.String(), AmountPlaces)
		}
		if j.BonusID != "" {
			return fmt.Errorf("%w: %s must not carry bonus_id", ErrInvalidJob, j.Kind)
		}
	case JobKindBonusClaim:
		if j.BonusID == "" {
			return fmt.Errorf("%w: bonus_claim requires bonus_id", ErrInvalidJob)
		}
		if !j.Amount.IsZero() {
			return fmt.Errorf("%w: bonus_claim must not carry amount", ErrInvalidJob)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidJob, j.Kind)
	}
	return nil
}

// SerialKey 同一 (platform, playerRef) 的工作必須串行執行
func (j *Job) SerialKey() string {
	return string(j.Platform) + ":" + j.PlayerRef
}

// Ref 供平台 Adapter 使用的工作識別資訊
func (j *Job) Ref() ActionRef {
	return ActionRef{
		JobID:     j.ID,
		PlayerRef: j.PlayerRef,
		Attempt:   j.AttemptCount,
		Submitted: j.Submitted,
	}
}

// ActionRef 平台動作所需的識別資訊
// JobID 會寫入平台端的備註，重試時用來查詢是否已經提交過
type ActionRef struct {
	JobID     string
	PlayerRef string
	Attempt   int
	Submitted bool   // 先前的嘗試已送出過動作
	OnSubmit  func() // Adapter 按下送出前呼叫，可為 nil
}

// MarkSubmitted 通知呼叫端動作即將送出
func (r ActionRef) MarkSubmitted() {
	if r.OnSubmit != nil {
		r.OnSubmit()
	}
}

// Tag 寫入平台備註的標記
func (r ActionRef) Tag() string {
	if len(r.JobID) > 8 {
		return "job-" + r.JobID[:8]
	}
	return "job-" + r.JobID
}
