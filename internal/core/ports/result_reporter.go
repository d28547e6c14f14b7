package ports

import (
	"context"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
)

// ResultReporter 將平台結果寫入紀錄，每個 Job 至多一次終態寫入
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_result_reporter.go -package=mock_ports github.com/JoeShih716/go-platform-automation/internal/core/ports ResultReporter
type ResultReporter interface {
	// Apply 寫入終態；重複送達回傳 (false, nil)
	// 儲存失敗回傳 domain.ErrStorageUnavailable
	Apply(ctx context.Context, job *domain.Job, outcome domain.ActionOutcome) (bool, error)
}

// EventPublisher 發佈工作結果通知
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_event_publisher.go -package=mock_ports github.com/JoeShih716/go-platform-automation/internal/core/ports EventPublisher
type EventPublisher interface {
	PublishOutcome(ctx context.Context, event domain.OutcomeEvent) error
}
