package bootstrap

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JoeShih716/go-platform-automation/internal/config"
)

// ShutdownTimeout 收到停止信號後等待清理的上限
const ShutdownTimeout = 6 * time.Minute

// App 封裝了應用程式的基礎組件
type App struct {
	Name   string
	Config *config.Config
	Logger *slog.Logger
}

// NewApp 建立一個新的應用程式實例
//
// 1. 初始化 Default Logger
// 2. 載入 Config (.env + config.yaml + Env Override)
// 3. 依環境切換 Logger 格式
func NewApp(appName string) *App {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	return &App{
		Name:   appName,
		Config: cfg,
		Logger: NewLogger(cfg.App.Env, appName),
	}
}

// NewLogger Production -> JSON，其他環境 -> Text，並設為 Default Logger
func NewLogger(env, appName string) *slog.Logger {
	var handler slog.Handler
	switch env {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, nil)
	default:
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	logger := slog.New(handler).With("app", appName)
	slog.SetDefault(logger)
	return logger
}

// Run 啟動應用程式並等待停止信號
//
// startFunc: 啟動服務的邏輯 (Blocking，例如 grpc.Serve 或 http.Server.ListenAndServe)
// cleanupFunc: 收到停止信號後的清理邏輯，ctx 在 ShutdownTimeout 後逾時
func (a *App) Run(startFunc func() error, cleanupFunc func(ctx context.Context)) {
	go func() {
		a.Logger.Info("Starting service", "env", a.Config.App.Env)
		if err := startFunc(); err != nil {
			a.Logger.Error("Service startup failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.Logger.Info("Shutting down service...")
	if cleanupFunc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		cleanupFunc(ctx)
	}
	a.Logger.Info("Service exited")
}
