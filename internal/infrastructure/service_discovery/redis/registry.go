package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/pkg/redis"
)

const (
	// Key Pattern: {ns}:workers -> Set of LeaseIDs
	KeyWorkerSet = "%s:workers"
	// Key Pattern: {ns}:workers:lease:{LeaseID} -> WorkerInfo (JSON)
	KeyLease = "%s:workers:lease:%s"

	DefaultTTL = 15 * time.Second
)

// ErrLeaseNotFound 租約已過期，需重新註冊
var ErrLeaseNotFound = errors.New("lease not found")

// WorkerInfo 儲存於 Redis 的 worker 資訊
type WorkerInfo struct {
	LeaseID   string            `json:"lease_id"`
	Hostname  string            `json:"hostname"`
	Endpoint  string            `json:"endpoint"` // ops HTTP 位址
	Platforms []domain.Platform `json:"platforms"`
	Workers   int               `json:"workers"`
	InFlight  int64             `json:"in_flight"`
	StartedAt time.Time         `json:"started_at"`
	SeenAt    time.Time         `json:"seen_at"`
}

// Registry 負責管理所有活躍的 worker 副本
type Registry struct {
	rds       *redis.Client
	namespace string
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func NewRedisRegistry(rds *redis.Client, namespace string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		rds:       rds,
		namespace: namespace,
		ttl:       DefaultTTL,
		now:       time.Now,
		logger:    logger.With("component", "worker_registry"),
	}
}

// Register 註冊 worker，回傳 LeaseID
func (r *Registry) Register(ctx context.Context, info WorkerInfo) (string, error) {
	info.LeaseID = uuid.New().String()
	now := r.now().UTC()
	if info.StartedAt.IsZero() {
		info.StartedAt = now
	}
	info.SeenAt = now

	if err := r.rds.SetStruct(ctx, r.leaseKey(info.LeaseID), info, r.ttl); err != nil {
		return "", fmt.Errorf("failed to set lease: %w", err)
	}
	if err := r.rds.SAdd(ctx, r.setKey(), info.LeaseID); err != nil {
		return "", fmt.Errorf("failed to add to worker set: %w", err)
	}
	return info.LeaseID, nil
}

// Heartbeat 更新 Lease 內容與 TTL，租約不存在時回傳 ErrLeaseNotFound
func (r *Registry) Heartbeat(ctx context.Context, leaseID string, inFlight int64) error {
	var info WorkerInfo
	if err := r.rds.GetStruct(ctx, r.leaseKey(leaseID), &info); err != nil {
		if redis.IsNil(err) {
			return ErrLeaseNotFound
		}
		return err
	}
	info.InFlight = inFlight
	info.SeenAt = r.now().UTC()
	return r.rds.SetStruct(ctx, r.leaseKey(leaseID), info, r.ttl)
}

// Deregister 主動移除 worker
func (r *Registry) Deregister(ctx context.Context, leaseID string) error {
	_ = r.rds.Del(ctx, r.leaseKey(leaseID))
	return r.rds.SRem(ctx, r.setKey(), leaseID)
}

// List 列出活躍的 worker，同時清理已過期的成員 (Zombie)
func (r *Registry) List(ctx context.Context) ([]WorkerInfo, error) {
	ids, err := r.rds.SMembers(ctx, r.setKey())
	if err != nil {
		return nil, err
	}

	out := make([]WorkerInfo, 0, len(ids))
	for _, id := range ids {
		var info WorkerInfo
		err := r.rds.GetStruct(ctx, r.leaseKey(id), &info)
		switch {
		case err == nil:
			out = append(out, info)
		case redis.IsNil(err):
			r.logger.Info("Removing zombie worker lease", "lease_id", id)
			_ = r.rds.SRem(ctx, r.setKey(), id)
		default:
			return nil, err
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

// KeepAlive 註冊後定期心跳，租約遺失時重新註冊；ctx 結束時登出
// 阻塞直到 ctx 結束
func (r *Registry) KeepAlive(ctx context.Context, info WorkerInfo, load func() int64) {
	interval := r.ttl / 3
	leaseID, err := r.Register(ctx, info)
	if err != nil {
		r.logger.Warn("worker register failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if leaseID != "" {
				_ = r.Deregister(context.WithoutCancel(ctx), leaseID)
			}
			return
		case <-ticker.C:
		}

		if leaseID != "" {
			err = r.Heartbeat(ctx, leaseID, load())
			if err == nil {
				continue
			}
			if !errors.Is(err, ErrLeaseNotFound) {
				r.logger.Warn("worker heartbeat failed", "lease_id", leaseID, "error", err)
				continue
			}
		}
		if leaseID, err = r.Register(ctx, info); err != nil {
			r.logger.Warn("worker re-register failed", "error", err)
		}
	}
}

func (r *Registry) setKey() string {
	return fmt.Sprintf(KeyWorkerSet, r.namespace)
}

func (r *Registry) leaseKey(id string) string {
	return fmt.Sprintf(KeyLease, r.namespace, id)
}
