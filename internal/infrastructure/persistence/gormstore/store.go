package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
	"github.com/JoeShih716/go-platform-automation/pkg/database"
)

// ensure interface compliance
var _ ports.RecordStore = (*Store)(nil)

// Store 實作 ports.RecordStore (MySQL / Postgres / SQLite 皆可)
type Store struct {
	client *database.Client
}

// NewStore 建立紀錄儲存
func NewStore(client *database.Client) *Store {
	return &Store{client: client}
}

// AutoMigrate 建立或更新資料表
func (s *Store) AutoMigrate(ctx context.Context) error {
	return s.db(ctx).AutoMigrate(&bonusRecordModel{}, &transactionRecordModel{})
}

// CreatePending 依 JobID 冪等建立 pending 紀錄
func (s *Store) CreatePending(ctx context.Context, job *domain.Job) error {
	id := uuid.New().String()
	var model any
	if job.Kind.IsTransaction() {
		model = transactionToModel(domain.PendingTransactionRecord(job, id))
	} else {
		model = bonusToModel(domain.PendingBonusRecord(job, id))
	}

	err := s.db(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "job_id"}}, DoNothing: true}).
		Create(model).Error
	if err != nil {
		return unavailable(err)
	}
	return nil
}

// ApplyTerminal 僅在紀錄仍為 pending 時寫入終態 (條件式更新)
func (s *Store) ApplyTerminal(ctx context.Context, w domain.TerminalWrite) (bool, error) {
	detail, err := json.Marshal(w.Outcome)
	if err != nil {
		return false, err
	}

	var (
		model   any
		pending string
		updates map[string]any
	)
	if w.Kind.IsTransaction() {
		model = &transactionRecordModel{}
		pending = string(domain.TransactionStatusPending)
		updates = map[string]any{
			"status":           w.Status,
			"confirmation_ref": w.ConfirmationRef,
			"note":             w.Note,
			"detail":           datatypes.JSON(detail),
			"completed_at":     w.At,
			"updated_at":       w.At,
		}
	} else {
		model = &bonusRecordModel{}
		pending = string(domain.BonusStatusPending)
		updates = map[string]any{
			"status":           w.Status,
			"confirmation_ref": w.ConfirmationRef,
			"resolved_by":      w.ResolvedBy,
			"resolved_at":      w.At,
			"note":             w.Note,
			"detail":           datatypes.JSON(detail),
			"updated_at":       w.At,
		}
	}

	res := s.db(ctx).Model(model).
		Where("job_id = ? AND status = ?", w.JobID, pending).
		Updates(updates)
	if res.Error != nil {
		return false, unavailable(res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	if err := s.db(ctx).Model(model).Where("job_id = ?", w.JobID).Count(&count).Error; err != nil {
		return false, unavailable(err)
	}
	if count == 0 {
		return false, domain.ErrRecordNotFound
	}
	return false, nil
}

// UpsertBonusRecord 依 ID 新增或更新
func (s *Store) UpsertBonusRecord(ctx context.Context, r *domain.BonusRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	err := s.db(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(bonusToModel(r)).Error
	if err != nil {
		return unavailable(err)
	}
	return nil
}

// UpsertTransactionRecord 依 ID 新增或更新
func (s *Store) UpsertTransactionRecord(ctx context.Context, r *domain.TransactionRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	err := s.db(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(transactionToModel(r)).Error
	if err != nil {
		return unavailable(err)
	}
	return nil
}

// FindByJobID 先查存提款，再查紅利
func (s *Store) FindByJobID(ctx context.Context, jobID string) (*domain.RecordStatus, error) {
	var tx transactionRecordModel
	err := s.db(ctx).Where("job_id = ?", jobID).First(&tx).Error
	if err == nil {
		return &domain.RecordStatus{
			JobID:           tx.JobID,
			Kind:            domain.JobKind(tx.Kind),
			Status:          tx.Status,
			ConfirmationRef: tx.ConfirmationRef,
			Note:            tx.Note,
			UpdatedAt:       tx.UpdatedAt,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, unavailable(err)
	}

	var bonus bonusRecordModel
	err = s.db(ctx).Where("job_id = ?", jobID).First(&bonus).Error
	if err == nil {
		return &domain.RecordStatus{
			JobID:           bonus.JobID,
			Kind:            domain.JobKindBonusClaim,
			Status:          bonus.Status,
			ConfirmationRef: bonus.ConfirmationRef,
			Note:            bonus.Note,
			UpdatedAt:       bonus.UpdatedAt,
		}, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRecordNotFound
	}
	return nil, unavailable(err)
}

// GetBonusRecord 依 JobID 取得紅利紀錄
func (s *Store) GetBonusRecord(ctx context.Context, jobID string) (*domain.BonusRecord, error) {
	var m bonusRecordModel
	if err := s.db(ctx).Where("job_id = ?", jobID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, unavailable(err)
	}
	return m.toDomain(), nil
}

// GetTransactionRecord 依 JobID 取得存提款紀錄
func (s *Store) GetTransactionRecord(ctx context.Context, jobID string) (*domain.TransactionRecord, error) {
	var m transactionRecordModel
	if err := s.db(ctx).Where("job_id = ?", jobID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, unavailable(err)
	}
	return m.toDomain(), nil
}

func (s *Store) db(ctx context.Context) *gorm.DB {
	return s.client.DB().WithContext(ctx)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}
