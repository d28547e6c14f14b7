package di

import (
	"context"
	"log/slog"

	"github.com/JoeShih716/go-platform-automation/internal/config"
	queue "github.com/JoeShih716/go-platform-automation/internal/infrastructure/queue/redis"
	infraRedis "github.com/JoeShih716/go-platform-automation/internal/infrastructure/redis"
	registry "github.com/JoeShih716/go-platform-automation/internal/infrastructure/service_discovery/redis"
)

// InitializeRedisProvider initializes the Redis provider with config
func InitializeRedisProvider(_ context.Context, cfg *config.Config) (*infraRedis.Provider, error) {
	return infraRedis.NewProvider(cfg.Redis)
}

// ProvideJobQueue creates the durable job queue on the 'queue' Redis DB
func ProvideJobQueue(cfg *config.Config, redisProvider *infraRedis.Provider, logger *slog.Logger) *queue.Queue {
	queueRedisClient := redisProvider.GetQueue()
	if queueRedisClient == nil {
		panic("Redis Queue DB (key: 'queue') not found in config")
	}
	return queue.NewQueue(queueRedisClient, queue.Options{
		Namespace: cfg.Queue.Namespace,
		LeaseTTL:  cfg.Queue.LeaseTTL.Duration,
	}, logger)
}

// ProvideWorkerRegistry creates the worker presence registry on the 'queue' Redis DB
func ProvideWorkerRegistry(cfg *config.Config, redisProvider *infraRedis.Provider, logger *slog.Logger) *registry.Registry {
	return registry.NewRedisRegistry(redisProvider.GetQueue(), cfg.Queue.Namespace, logger)
}
