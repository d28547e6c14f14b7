package gormstore

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
)

// bonusRecordModel bonus_records 資料表
type bonusRecordModel struct {
	ID              string `gorm:"primaryKey;size:36"`
	JobID           string `gorm:"size:36;uniqueIndex"`
	PlayerRef       string `gorm:"size:64;index:idx_bonus_player"`
	BonusID         string `gorm:"size:64"`
	Platform        string `gorm:"size:32;index:idx_bonus_player"`
	Status          string `gorm:"size:16;index"`
	ConfirmationRef string `gorm:"size:128"`
	ResolvedBy      string `gorm:"size:64"`
	ResolvedAt      *time.Time
	Note            string `gorm:"size:512"` // Reporter 寫入前已截斷
	Detail          datatypes.JSON
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (bonusRecordModel) TableName() string { return "bonus_records" }

// transactionRecordModel transaction_records 資料表
type transactionRecordModel struct {
	ID              string          `gorm:"primaryKey;size:36"`
	JobID           string          `gorm:"size:36;uniqueIndex"`
	PlayerRef       string          `gorm:"size:64;index:idx_tx_player"`
	Platform        string          `gorm:"size:32;index:idx_tx_player"`
	Kind            string          `gorm:"size:16"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,2)"`
	Status          string          `gorm:"size:16;index"`
	ConfirmationRef string          `gorm:"size:128"`
	RequestedBy     string          `gorm:"size:64"`
	Note            string          `gorm:"size:512"` // Reporter 寫入前已截斷
	Detail          datatypes.JSON
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (transactionRecordModel) TableName() string { return "transaction_records" }

func bonusToModel(r *domain.BonusRecord) *bonusRecordModel {
	return &bonusRecordModel{
		ID:              r.ID,
		JobID:           r.JobID,
		PlayerRef:       r.PlayerRef,
		BonusID:         r.BonusID,
		Platform:        string(r.Platform),
		Status:          string(r.Status),
		ConfirmationRef: r.ConfirmationRef,
		ResolvedBy:      r.ResolvedBy,
		ResolvedAt:      r.ResolvedAt,
		Note:            r.Note,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func transactionToModel(r *domain.TransactionRecord) *transactionRecordModel {
	return &transactionRecordModel{
		ID:              r.ID,
		JobID:           r.JobID,
		PlayerRef:       r.PlayerRef,
		Platform:        string(r.Platform),
		Kind:            string(r.Kind),
		Amount:          r.Amount,
		Status:          string(r.Status),
		ConfirmationRef: r.ConfirmationRef,
		RequestedBy:     r.RequestedBy,
		Note:            r.Note,
		CompletedAt:     r.CompletedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (m *bonusRecordModel) toDomain() *domain.BonusRecord {
	return &domain.BonusRecord{
		ID:              m.ID,
		JobID:           m.JobID,
		PlayerRef:       m.PlayerRef,
		BonusID:         m.BonusID,
		Platform:        domain.Platform(m.Platform),
		Status:          domain.BonusStatus(m.Status),
		ConfirmationRef: m.ConfirmationRef,
		ResolvedBy:      m.ResolvedBy,
		ResolvedAt:      m.ResolvedAt,
		Note:            m.Note,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (m *transactionRecordModel) toDomain() *domain.TransactionRecord {
	return &domain.TransactionRecord{
		ID:              m.ID,
		JobID:           m.JobID,
		PlayerRef:       m.PlayerRef,
		Platform:        domain.Platform(m.Platform),
		Kind:            domain.JobKind(m.Kind),
		Amount:          m.Amount,
		Status:          domain.TransactionStatus(m.Status),
		ConfirmationRef: m.ConfirmationRef,
		RequestedBy:     m.RequestedBy,
		Note:            m.Note,
		CompletedAt:     m.CompletedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
