package events_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/infrastructure/events"
)

type published struct {
	exchange   string
	routingKey string
	body       any
}

type recordingPublisher struct {
	calls []published
}

func (r *recordingPublisher) Publish(_ context.Context, exchange, routingKey string, body any) error {
	r.calls = append(r.calls, published{exchange, routingKey, body})
	return nil
}

func (r *recordingPublisher) Close() {}

func TestOutcomePublisher(t *testing.T) {
	rec := &recordingPublisher{}
	pub := events.NewOutcomePublisher(rec, "")

	event := domain.OutcomeEvent{JobID: "job-1", Kind: domain.JobKindDeposit, Status: "completed", ConfirmationRef: "X123"}
	require.NoError(t, pub.PublishOutcome(context.Background(), event))

	require.Len(t, rec.calls, 1)
	assert.Equal(t, events.DefaultExchange, rec.calls[0].exchange)
	assert.Equal(t, "automation.job.completed", rec.calls[0].routingKey)
	assert.Equal(t, event, rec.calls[0].body)
}
