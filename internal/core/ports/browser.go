package ports

import (
	"context"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
)

// BrowserLauncher 開啟新的瀏覽器分頁 (每個分頁擁有獨立的瀏覽器 context)
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_browser_launcher.go -package=mock_ports github.com/JoeShih716/go-platform-automation/internal/core/ports BrowserLauncher
type BrowserLauncher interface {
	Open(ctx context.Context, platform domain.Platform, mode domain.RunMode) (domain.Page, error)
}

// CaptchaSolver 辨識登入頁的圖形驗證碼
type CaptchaSolver interface {
	// SolveImage 回傳辨識結果 (純數字)
	SolveImage(ctx context.Context, png []byte) (string, error)
}
