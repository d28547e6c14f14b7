package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/JoeShih716/go-platform-automation/api/automationrpc"
	"github.com/JoeShih716/go-platform-automation/internal/app/intake/handler"
	"github.com/JoeShih716/go-platform-automation/internal/di"
	infraRedis "github.com/JoeShih716/go-platform-automation/internal/infrastructure/redis"
	"github.com/JoeShih716/go-platform-automation/internal/kit/bootstrap"
	"github.com/JoeShih716/go-platform-automation/pkg/database"
)

func main() {
	// 1. 初始化 App (載入 Config, Logger)
	app := bootstrap.NewApp("intake")
	ctx := context.Background()

	// 2. 並行初始化資源 (Redis, DB)
	redisChan := make(chan *infraRedis.Provider, 1)
	dbChan := make(chan *database.Client, 1)
	errChan := make(chan error, 2)

	go func() {
		provider, err := di.InitializeRedisProvider(ctx, app.Config)
		if err != nil {
			errChan <- fmt.Errorf("redis init failed: %w", err)
			return
		}
		redisChan <- provider
	}()

	go func() {
		client, err := di.InitializeDatabase(ctx, app.Config)
		if err != nil {
			errChan <- fmt.Errorf("database init failed: %w", err)
			return
		}
		dbChan <- client
	}()

	var redisProvider *infraRedis.Provider
	var dbClient *database.Client
	const numTasks = 2
	for i := 0; i < numTasks; i++ {
		select {
		case provider := <-redisChan:
			redisProvider = provider
		case client := <-dbChan:
			dbClient = client
		case err := <-errChan:
			slog.Error("Dependency initialization failed", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("Dependencies initialized")

	defer func() {
		_ = redisProvider.Close()
		_ = dbClient.Close()
	}()

	// 3. 組裝 (Wiring)
	jobQueue := di.ProvideJobQueue(app.Config, redisProvider, app.Logger)
	store := di.ProvideRecordStore(dbClient)
	publisher, closePublisher := di.ProvideEventPublisher(app.Config, app.Logger)
	defer closePublisher()
	reporter := di.ProvideReporter(store, publisher, app.Logger)
	intakeSvc := di.ProvideIntakeService(jobQueue, store, reporter, app.Logger)
	grpcHandler := handler.NewGRPCHandler(intakeSvc)

	// 4. 啟動服務
	port := app.Config.App.GrpcPort
	grpcServer := grpc.NewServer(
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	)
	automationrpc.RegisterAutomationRPCServer(grpcServer, grpcHandler)

	app.Run(func() error {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			return fmt.Errorf("failed to listen: %w", err)
		}
		slog.Info("Intake Service listening", "port", port)
		return grpcServer.Serve(lis)
	}, func(ctx context.Context) {
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			grpcServer.Stop()
		}
	})
}
