package domain

import "time"

// LoginState 平台會話的登入狀態
type LoginState string

const (
	LoginStateLoggedOut LoginState = "logged_out"
	LoginStateLoggingIn LoginState = "logging_in"
	LoginStateLoggedIn  LoginState = "logged_in"
	LoginStateExpired   LoginState = "expired"
)

// PlatformSession 代表一個平台的瀏覽器會話。
// 不持久化，僅在一個 Job 執行期間由 Session Manager 持有。
type PlatformSession struct {
	ID         string
	Platform   Platform
	Credential string // 後台帳號 (不含密碼)
	Mode       RunMode
	Page       Page
	LoginState LoginState
	OpenedAt   time.Time
}

// NewPlatformSession 建立一個尚未登入的會話
func NewPlatformSession(id string, platform Platform, credential string, mode RunMode, page Page) *PlatformSession {
	return &PlatformSession{
		ID:         id,
		Platform:   platform,
		Credential: credential,
		Mode:       mode,
		Page:       page,
		LoginState: LoginStateLoggedOut,
		OpenedAt:   time.Now(),
	}
}
