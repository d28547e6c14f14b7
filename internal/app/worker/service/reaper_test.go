package service_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/JoeShih716/go-platform-automation/internal/app/worker/service"
	mock_ports "github.com/JoeShih716/go-platform-automation/test/mocks/core/ports"
)

type fakeLocker struct {
	grant    bool
	err      error
	released []string
}

func (l *fakeLocker) AcquireLock(_ context.Context, _ string, _ string, _ time.Duration) (bool, error) {
	return l.grant, l.err
}

func (l *fakeLocker) ReleaseLock(_ context.Context, key string, _ string) error {
	l.released = append(l.released, key)
	return nil
}

func TestReaper_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("Lock held elsewhere", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := mock_ports.NewMockJobQueue(ctrl)
		locker := &fakeLocker{grant: false}

		n, err := service.NewReaper(q, locker, "reaper", slog.Default()).RunOnce(ctx)

		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, locker.released)
	})

	t.Run("Reaps and releases the lock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := mock_ports.NewMockJobQueue(ctrl)
		q.EXPECT().ReapExpired(gomock.Any()).Return(2, nil)
		locker := &fakeLocker{grant: true}

		n, err := service.NewReaper(q, locker, "reaper", slog.Default()).RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"reaper"}, locker.released)
	})

	t.Run("Lock error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := mock_ports.NewMockJobQueue(ctrl)
		locker := &fakeLocker{err: errors.New("redis down")}

		_, err := service.NewReaper(q, locker, "reaper", slog.Default()).RunOnce(ctx)

		assert.Error(t, err)
	})

	t.Run("Invalid schedule", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		r := service.NewReaper(mock_ports.NewMockJobQueue(ctrl), &fakeLocker{}, "reaper", slog.Default())

		assert.Error(t, r.Start("not a schedule"))
	})
}
