package events

import (
	"context"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
	"github.com/JoeShih716/go-platform-automation/pkg/rabbitmq"
)

// DefaultExchange 結果通知使用的 topic exchange
const DefaultExchange = "automation.events"

// OutcomePublisher 將工作結果發佈到 RabbitMQ
// routing key 為 automation.job.<status>，例如 automation.job.completed
type OutcomePublisher struct {
	publisher rabbitmq.Publisher
	exchange  string
}

var _ ports.EventPublisher = (*OutcomePublisher)(nil)

func NewOutcomePublisher(publisher rabbitmq.Publisher, exchange string) *OutcomePublisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &OutcomePublisher{publisher: publisher, exchange: exchange}
}

// PublishOutcome 實作 ports.EventPublisher
func (p *OutcomePublisher) PublishOutcome(ctx context.Context, event domain.OutcomeEvent) error {
	return p.publisher.Publish(ctx, p.exchange, RoutingKey(event.Status), event)
}

// RoutingKey 依紀錄狀態產生 routing key
func RoutingKey(status string) string {
	return "automation.job." + status
}
