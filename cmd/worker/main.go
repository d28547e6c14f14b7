package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/JoeShih716/go-platform-automation/internal/app/worker/handler"
	"github.com/JoeShih716/go-platform-automation/internal/app/worker/service"
	"github.com/JoeShih716/go-platform-automation/internal/di"
	infraRedis "github.com/JoeShih716/go-platform-automation/internal/infrastructure/redis"
	registry "github.com/JoeShih716/go-platform-automation/internal/infrastructure/service_discovery/redis"
	"github.com/JoeShih716/go-platform-automation/internal/kit/bootstrap"
	"github.com/JoeShih716/go-platform-automation/pkg/database"
)

func main() {
	// 1. 初始化 App (載入 Config, Logger)
	app := bootstrap.NewApp("worker")
	ctx := context.Background()

	slog.InfoContext(ctx, "Initializing dependencies concurrently...")

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

	// 3. 收集初始化結果
	var redisProvider *infraRedis.Provider
	var dbClient *database.Client
	const numTasks = 2
	for i := 0; i < numTasks; i++ {
		select {
		case provider := <-redisChan:
			redisProvider = provider
			slog.Info("Redis initialized")
		case client := <-dbChan:
			dbClient = client
			slog.Info("Database initialized", "driver", app.Config.Database.Driver)
		case err := <-errChan:
			slog.Error("Dependency initialization failed", "error", err)
			os.Exit(1)
		}
	}

	defer func() {
		_ = redisProvider.Close()
		_ = dbClient.Close()
	}()

	// 4. 組裝 (Wiring)
	logger := app.Logger
	jobQueue := di.ProvideJobQueue(app.Config, redisProvider, logger)
	store := di.ProvideRecordStore(dbClient)
	publisher, closePublisher := di.ProvideEventPublisher(app.Config, logger)
	defer closePublisher()
	reporter := di.ProvideReporter(store, publisher, logger)

	classifier, err := di.ProvideClassifier(app.Config)
	if err != nil {
		slog.Error("Invalid classification rules", "error", err)
		os.Exit(1)
	}
	solver := di.ProvideCaptchaSolver(app.Config, logger)
	adapters, err := di.ProvidePlatformRegistry(app.Config, solver, classifier, logger)
	if err != nil {
		slog.Error("Platform registry init failed", "error", err)
		os.Exit(1)
	}
	sessions, err := di.ProvideSessionManager(app.Config, adapters, logger)
	if err != nil {
		slog.Error("Session manager init failed", "error", err)
		os.Exit(1)
	}
	workers := di.ProvideWorkerService(app.Config, jobQueue, sessions, adapters, reporter, logger)

	// 任務: 定期回收租約過期的工作
	reaper := service.NewReaper(jobQueue, redisProvider.GetQueue(), app.Config.Queue.Namespace+":lock:reaper", logger)
	if err := reaper.Start(app.Config.Queue.ReaperSchedule); err != nil {
		slog.Error("Reaper schedule invalid", "schedule", app.Config.Queue.ReaperSchedule, "error", err)
		os.Exit(1)
	}

	// 5. 啟動 Worker Pool (關機時等待進行中的工作完成)
	workerCtx, stopWorkers := context.WithCancel(ctx)
	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		workers.Run(workerCtx)
	}()

	// 任務: 向 Redis 回報存活 (維運查詢各副本狀態)
	replicas := di.ProvideWorkerRegistry(app.Config, redisProvider, logger)
	hostname, _ := os.Hostname()
	go replicas.KeepAlive(workerCtx, registry.WorkerInfo{
		Hostname:  hostname,
		Endpoint:  fmt.Sprintf(":%d", app.Config.App.HTTPPort),
		Platforms: adapters.Platforms(),
		Workers:   app.Config.Queue.Workers,
	}, func() int64 { return workers.Stats().InFlight })

	// Handler Layer
	opsHandler := handler.NewHTTPHandler(handler.Deps{
		Checks: map[string]handler.HealthCheck{
			"redis":    redisProvider.GetQueue().Ping,
			"database": dbClient.Ping,
		},
		Platforms: adapters.Platforms,
		Sessions:  sessions.Sessions,
		Stats:     workers.Stats,
		Jobs:      jobQueue,
		Records:   store,
		Replicas:  replicas,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Config.App.HTTPPort),
		Handler:           opsHandler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	app.Run(func() error {
		slog.Info("Worker ops HTTP listening", "port", app.Config.App.HTTPPort, "platforms", adapters.Platforms())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(ctx context.Context) {
		<-reaper.Stop().Done()
		stopWorkers()
		select {
		case <-workersDone:
		case <-ctx.Done():
			slog.Warn("Shutdown timeout, abandoning in-flight jobs to the lease reaper")
		}
		_ = server.Shutdown(ctx)
	})
}
