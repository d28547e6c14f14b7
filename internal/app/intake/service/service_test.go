package service_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/JoeShih716/go-platform-automation/internal/app/intake/service"
	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	mock_ports "github.com/JoeShih716/go-platform-automation/test/mocks/core/ports"
)

func TestIntakeService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Deposit accepted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		queue := mock_ports.NewMockJobQueue(ctrl)
		store := mock_ports.NewMockRecordStore(ctrl)
		svc := service.NewIntakeService(queue, store, mock_ports.NewMockResultReporter(ctrl), slog.Default())

		gomock.InOrder(
			store.EXPECT().CreatePending(gomock.Any(), gomock.Any()).Return(nil),
			queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil),
		)

		job, err := svc.Submit(ctx, domain.NewJobRequest{
			Kind:        "deposit",
			Platform:    "MW",
			PlayerRef:   "P1",
			Amount:      "50",
			RequestedBy: "ops-1",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, job.ID)
		assert.Equal(t, domain.PlatformMilkyway, job.Platform)
		assert.Equal(t, domain.PriorityDefault, job.Priority)
		assert.Equal(t, domain.JobStateQueued, job.State)
		assert.True(t, job.Amount.Equal(decimal.NewFromInt(50)))
	})

	t.Run("Invalid request is rejected before storage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := service.NewIntakeService(mock_ports.NewMockJobQueue(ctrl), mock_ports.NewMockRecordStore(ctrl), mock_ports.NewMockResultReporter(ctrl), nil)

		_, err := svc.Submit(ctx, domain.NewJobRequest{
			Kind:        "bonus_claim",
			Platform:    "gamevault",
			PlayerRef:   "P1",
			Amount:      "10",
			BonusID:     "B-1",
			RequestedBy: "ops-1",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidJob)
	})

	t.Run("Unknown platform", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := service.NewIntakeService(mock_ports.NewMockJobQueue(ctrl), mock_ports.NewMockRecordStore(ctrl), mock_ports.NewMockResultReporter(ctrl), nil)

		_, err := svc.Submit(ctx, domain.NewJobRequest{Kind: "deposit", Platform: "nowhere", PlayerRef: "P1", Amount: "1", RequestedBy: "ops"})

		assert.ErrorIs(t, err, domain.ErrInvalidJob)
	})

	t.Run("Storage unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_ports.NewMockRecordStore(ctrl)
		svc := service.NewIntakeService(mock_ports.NewMockJobQueue(ctrl), store, mock_ports.NewMockResultReporter(ctrl), nil)

		store.EXPECT().CreatePending(gomock.Any(), gomock.Any()).Return(domain.ErrStorageUnavailable)

		_, err := svc.Submit(ctx, domain.NewJobRequest{Kind: "withdraw", Platform: "os", PlayerRef: "P1", Amount: "5", RequestedBy: "ops"})

		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})

	t.Run("Enqueue error but job is queued", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		queue := mock_ports.NewMockJobQueue(ctrl)
		store := mock_ports.NewMockRecordStore(ctrl)
		reporter := mock_ports.NewMockResultReporter(ctrl)
		svc := service.NewIntakeService(queue, store, reporter, nil)

		var enqueued *domain.Job
		store.EXPECT().CreatePending(gomock.Any(), gomock.Any()).Return(nil)
		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, j *domain.Job) error {
				enqueued = j
				return errors.New("i/o timeout")
			})
		queue.EXPECT().Get(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, id string) (*domain.Job, error) {
				assert.Equal(t, enqueued.ID, id)
				return &domain.Job{ID: id, State: domain.JobStateQueued}, nil
			})

		job, err := svc.Submit(ctx, domain.NewJobRequest{Kind: "deposit", Platform: "mw", PlayerRef: "P1", Amount: "20", RequestedBy: "ops"})

		require.NoError(t, err)
		assert.Equal(t, enqueued.ID, job.ID)
		assert.Equal(t, domain.JobStateQueued, job.State)
	})

	t.Run("Enqueue failure is reported as failed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		queue := mock_ports.NewMockJobQueue(ctrl)
		store := mock_ports.NewMockRecordStore(ctrl)
		reporter := mock_ports.NewMockResultReporter(ctrl)
		svc := service.NewIntakeService(queue, store, reporter, nil)

		store.EXPECT().CreatePending(gomock.Any(), gomock.Any()).Return(nil)
		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
		queue.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, domain.ErrJobNotFound)
		reporter.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, j *domain.Job, o domain.ActionOutcome) (bool, error) {
				assert.Equal(t, domain.JobKindBonusClaim, j.Kind)
				assert.Equal(t, "ops", j.RequestedBy)
				assert.Equal(t, domain.OutcomeRetryableFailure, o.Kind)
				assert.Contains(t, o.Reason, "redis down")
				return true, nil
			})

		_, err := svc.Submit(ctx, domain.NewJobRequest{Kind: "bonus_claim", Platform: "gv", PlayerRef: "P1", BonusID: "B-9", RequestedBy: "ops"})

		assert.ErrorContains(t, err, "redis down")
	})

	t.Run("Unconfirmed enqueue leaves the record pending", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		queue := mock_ports.NewMockJobQueue(ctrl)
		store := mock_ports.NewMockRecordStore(ctrl)
		svc := service.NewIntakeService(queue, store, mock_ports.NewMockResultReporter(ctrl), nil)

		store.EXPECT().CreatePending(gomock.Any(), gomock.Any()).Return(nil)
		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
		queue.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))

		_, err := svc.Submit(ctx, domain.NewJobRequest{Kind: "withdraw", Platform: "os", PlayerRef: "P1", Amount: "5", RequestedBy: "ops"})

		assert.Error(t, err)
	})
}

func TestIntakeService_Queries(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := mock_ports.NewMockJobQueue(ctrl)
	store := mock_ports.NewMockRecordStore(ctrl)
	svc := service.NewIntakeService(queue, store, mock_ports.NewMockResultReporter(ctrl), nil)

	queue.EXPECT().Get(gomock.Any(), "job-1").Return(&domain.Job{ID: "job-1"}, nil)
	store.EXPECT().FindByJobID(gomock.Any(), "job-1").Return(&domain.RecordStatus{JobID: "job-1", Status: "pending"}, nil)

	job, err := svc.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)

	rec, err := svc.GetRecord(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "pending", rec.Status)
}
