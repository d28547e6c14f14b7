package ports

import (
	"context"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
)

// RecordStore 定義紅利與存提款紀錄的存取介面
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_record_store.go -package=mock_ports github.com/JoeShih716/go-platform-automation/internal/core/ports RecordStore
type RecordStore interface {
	// CreatePending 依 Job 建立待處理紀錄 (依 JobID 冪等)
	CreatePending(ctx context.Context, job *domain.Job) error

	// ApplyTerminal 僅當紀錄仍為 pending 時寫入終態
	// 回傳 false 代表已是終態 (不視為錯誤)
	ApplyTerminal(ctx context.Context, w domain.TerminalWrite) (bool, error)

	// UpsertBonusRecord 依 ID 新增或更新
	UpsertBonusRecord(ctx context.Context, r *domain.BonusRecord) error

	// UpsertTransactionRecord 依 ID 新增或更新
	UpsertTransactionRecord(ctx context.Context, r *domain.TransactionRecord) error

	// FindByJobID 查詢工作對應紀錄的狀態
	FindByJobID(ctx context.Context, jobID string) (*domain.RecordStatus, error)
}
