package di

import (
	"context"
	"fmt"

	"github.com/JoeShih716/go-platform-automation/internal/config"
	"github.com/JoeShih716/go-platform-automation/internal/infrastructure/persistence/gormstore"
	"github.com/JoeShih716/go-platform-automation/pkg/database"
)

// InitializeDatabase opens the record database and migrates the tables when enabled
func InitializeDatabase(ctx context.Context, cfg *config.Config) (*database.Client, error) {
	db := cfg.Database
	client, err := database.NewClient(database.Config{
		Driver:          db.Driver,
		DSN:             db.DSN,
		Host:            db.Host,
		Port:            db.Port,
		User:            db.User,
		Password:        db.Password,
		DBName:          db.DBName,
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxIdleConns,
		ConnMaxLifetime: db.ConnMaxLifetime.Duration,
	})
	if err != nil {
		return nil, err
	}

	if db.AutoMigrate {
		if err := gormstore.NewStore(client).AutoMigrate(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	return client, nil
}

// ProvideRecordStore creates the gorm record store
func ProvideRecordStore(client *database.Client) *gormstore.Store {
	return gormstore.NewStore(client)
}
