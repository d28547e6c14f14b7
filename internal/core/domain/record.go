package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BonusStatus 紅利紀錄狀態
type BonusStatus string

const (
	BonusStatusPending  BonusStatus = "pending"
	BonusStatusApproved BonusStatus = "approved"
	BonusStatusRejected BonusStatus = "rejected"
	BonusStatusFailed   BonusStatus = "failed"
)

// TransactionStatus 存提款紀錄狀態
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// BonusRecord 紅利領取紀錄 (舊名 BonusClaim，僅改名)
type BonusRecord struct {
	ID              string
	JobID           string
	PlayerRef       string
	BonusID         string
	Platform        Platform
	Status          BonusStatus
	ConfirmationRef string
	ResolvedBy      string
	ResolvedAt      *time.Time
	Note            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TransactionRecord 存提款紀錄
// JobID 只是回查用的參照，不代表擁有關係
type TransactionRecord struct {
	ID              string
	JobID           string
	PlayerRef       string
	Platform        Platform
	Kind            JobKind
	Amount          decimal.Decimal
	Status          TransactionStatus
	ConfirmationRef string
	RequestedBy     string
	Note            string
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TerminalWrite Result Reporter 對紀錄做的一次終態寫入
type TerminalWrite struct {
	JobID           string
	Kind            JobKind
	Status          string
	ConfirmationRef string
	ResolvedBy      string
	Note            string
	Outcome         ActionOutcome
	At              time.Time
}

// RecordStatus 供查詢用的紀錄狀態摘要
type RecordStatus struct {
	JobID           string    `json:"job_id"`
	Kind            JobKind   `json:"kind"`
	Status          string    `json:"status"`
	ConfirmationRef string    `json:"confirmation_ref,omitempty"`
	Note            string    `json:"note,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PendingBonusRecord 依 Job 建立待處理的紅利紀錄
func PendingBonusRecord(job *Job, id string) *BonusRecord {
	return &BonusRecord{
		ID:        id,
		JobID:     job.ID,
		PlayerRef: job.PlayerRef,
		BonusID:   job.BonusID,
		Platform:  job.Platform,
		Status:    BonusStatusPending,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.CreatedAt,
	}
}

// PendingTransactionRecord 依 Job 建立待處理的存提款紀錄
func PendingTransactionRecord(job *Job, id string) *TransactionRecord {
	return &TransactionRecord{
		ID:          id,
		JobID:       job.ID,
		PlayerRef:   job.PlayerRef,
		Platform:    job.Platform,
		Kind:        job.Kind,
		Amount:      job.Amount,
		Status:      TransactionStatusPending,
		RequestedBy: job.RequestedBy,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.CreatedAt,
	}
}
