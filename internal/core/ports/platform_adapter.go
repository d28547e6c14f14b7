package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
)

// PlatformAdapter 定義單一外部平台的自動化操作
//
// 所有動作都必須回傳三種 ActionOutcome 之一，平台上的錯誤一律在 Adapter 內分類，
// 不得以未分類的 error 形式往外拋。
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_platform_adapter.go -package=mock_ports github.com/JoeShih716/go-platform-automation/internal/core/ports PlatformAdapter
type PlatformAdapter interface {
	// Platform 此 Adapter 負責的平台
	Platform() domain.Platform

	// Login 在分頁上登入後台，失敗回傳 *domain.AuthError
	Login(ctx context.Context, page domain.Page, creds domain.Credentials) error

	// Deposit 為玩家儲值
	Deposit(ctx context.Context, sess *domain.PlatformSession, ref domain.ActionRef, amount decimal.Decimal) domain.ActionOutcome

	// Withdraw 為玩家提款
	Withdraw(ctx context.Context, sess *domain.PlatformSession, ref domain.ActionRef, amount decimal.Decimal) domain.ActionOutcome

	// ClaimBonus 為玩家領取紅利
	ClaimBonus(ctx context.Context, sess *domain.PlatformSession, ref domain.ActionRef, bonusID string) domain.ActionOutcome

	// Logout 登出後台
	Logout(ctx context.Context, sess *domain.PlatformSession) error
}

// AdapterResolver 依平台取得 Adapter (啟動時建立的註冊表)
type AdapterResolver interface {
	Adapter(platform domain.Platform) (PlatformAdapter, error)
}
