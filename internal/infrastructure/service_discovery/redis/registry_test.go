package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	registry "github.com/JoeShih716/go-platform-automation/internal/infrastructure/service_discovery/redis"
	"github.com/JoeShih716/go-platform-automation/pkg/redis"
)

func setup(t *testing.T) (*registry.Registry, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rds, err := redis.NewClient(redis.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rds.Close() })
	return registry.NewRedisRegistry(rds, "test", nil), mr
}

func TestRegistry_Lifecycle(t *testing.T) {
	ctx := context.Background()
	reg, _ := setup(t)

	leaseID, err := reg.Register(ctx, registry.WorkerInfo{
		Hostname:  "worker-0",
		Endpoint:  ":8080",
		Platforms: []domain.Platform{domain.PlatformMilkyway},
		Workers:   4,
	})
	require.NoError(t, err)
	require.NotEmpty(t, leaseID)

	require.NoError(t, reg.Heartbeat(ctx, leaseID, 3))

	workers, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, "worker-0", workers[0].Hostname)
	assert.EqualValues(t, 3, workers[0].InFlight)
	assert.False(t, workers[0].StartedAt.IsZero())

	require.NoError(t, reg.Deregister(ctx, leaseID))
	workers, err = reg.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, workers)
}

func TestRegistry_ExpiredLease(t *testing.T) {
	ctx := context.Background()
	reg, mr := setup(t)

	leaseID, err := reg.Register(ctx, registry.WorkerInfo{Hostname: "worker-1"})
	require.NoError(t, err)

	mr.FastForward(registry.DefaultTTL + time.Second)

	assert.ErrorIs(t, reg.Heartbeat(ctx, leaseID, 0), registry.ErrLeaseNotFound)

	workers, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, workers)

	members, err := mr.SMembers("test:workers")
	if err == nil {
		assert.Empty(t, members, "zombie lease must be removed from the set")
	}
}
