package ports

import (
	"context"
	"time"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
)

// JobQueue 定義持久化工作佇列
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_job_queue.go -package=mock_ports github.com/JoeShih716/go-platform-automation/internal/core/ports JobQueue
type JobQueue interface {
	// Enqueue 加入佇列 (同一 serial key 依加入順序編號)
	Enqueue(ctx context.Context, job *domain.Job) error

	// Dequeue 取出下一個可執行的工作並持有租約
	// 沒有可執行的工作時回傳 domain.ErrQueueEmpty
	Dequeue(ctx context.Context) (*domain.Job, error)

	// Complete 工作進入終態，釋放 serial key 讓下一個工作執行
	Complete(ctx context.Context, job *domain.Job) error

	// Retry 工作延遲後重新排入佇列，serial key 保持佔用
	Retry(ctx context.Context, job *domain.Job, delay time.Duration) error

	// Get 查詢工作
	Get(ctx context.Context, jobID string) (*domain.Job, error)

	// ReapExpired 將租約過期的工作重新排入佇列，回傳處理數量
	ReapExpired(ctx context.Context) (int, error)

	// Wakeups 有新工作加入時收到通知
	Wakeups(ctx context.Context) <-chan struct{}
}
