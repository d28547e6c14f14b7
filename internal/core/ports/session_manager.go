package ports

import (
	"context"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
)

// SessionManager 負責平台瀏覽器會話的取得與釋放
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_session_manager.go -package=mock_ports github.com/JoeShih716/go-platform-automation/internal/core/ports SessionManager,SessionLease
type SessionManager interface {
	// Acquire 取得已登入的會話，呼叫端必須呼叫 Release
	Acquire(ctx context.Context, platform domain.Platform) (SessionLease, error)

	// Active 目前開啟中的瀏覽器 context 數量
	Active() int64
}

// SessionLease 一次會話租用，Release 與 Abort 可重複呼叫
type SessionLease interface {
	Session() *domain.PlatformSession

	// Release 正常登出並關閉瀏覽器
	Release()

	// Abort 不登出，直接關閉瀏覽器 (逾時強制回收)
	Abort()
}
