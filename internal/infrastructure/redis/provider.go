package redis

import (
	"fmt"
	"log/slog"

	"github.com/JoeShih716/go-platform-automation/internal/config"
	pkgRedis "github.com/JoeShih716/go-platform-automation/pkg/redis"
)

type DBName string

const (
	// DBNameQueue 工作佇列、租約回收鎖與喚醒通知
	DBNameQueue DBName = "queue"
)

// DBSupplier defines the interface for retrieving specific Redis DB clients
type DBSupplier interface {
	GetQueue() *pkgRedis.Client
	Close() error
}

type Provider struct {
	databases map[DBName]*pkgRedis.Client
}

var _ DBSupplier = (*Provider)(nil)

// NewProvider creates clients for all configured redis databases
func NewProvider(globalCfg config.RedisGlobalConfig) (*Provider, error) {
	clients := make(map[DBName]*pkgRedis.Client)

	dbs := globalCfg.DB
	if len(dbs) == 0 {
		dbs = map[string]config.RedisDBConfig{string(DBNameQueue): {Index: 0}}
	}

	for dbKey, dbConfig := range dbs {
		client, err := pkgRedis.NewClient(pkgRedis.Config{
			Addr:     globalCfg.Addr,
			Password: globalCfg.Password,
			DB:       dbConfig.Index,
		})
		if err != nil {
			for _, c := range clients {
				_ = c.Close()
			}
			return nil, fmt.Errorf("failed to init redis db '%s': %w", dbKey, err)
		}
		clients[DBName(dbKey)] = client
	}

	return &Provider{databases: clients}, nil
}

// NewProviderWithClients 直接指定 client (測試用)
func NewProviderWithClients(clients map[DBName]*pkgRedis.Client) *Provider {
	return &Provider{databases: clients}
}

func (p *Provider) GetQueue() *pkgRedis.Client {
	if client, ok := p.databases[DBNameQueue]; ok {
		return client
	}
	slog.Warn("Redis Queue DB not found in config")
	return nil
}

func (p *Provider) Close() error {
	for _, client := range p.databases {
		_ = client.Close()
	}
	return nil
}
