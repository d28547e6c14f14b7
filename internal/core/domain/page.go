package domain

import "context"

// Page 定義瀏覽器分頁上的基本操作。
// 核心層只依賴此介面，具體實作 (chromedp) 由基礎設施層負責。
// 所有 selector 皆為 CSS selector。
type Page interface {
	// Navigate 前往指定網址並等待頁面載入
	Navigate(ctx context.Context, url string) error

	// WaitVisible 等待元素出現並可見
	WaitVisible(ctx context.Context, selector string) error

	// SetValue 清空輸入框後填入文字
	SetValue(ctx context.Context, selector string, value string) error

	// Click 點擊元素
	Click(ctx context.Context, selector string) error

	// Text 讀取元素文字
	Text(ctx context.Context, selector string) (string, error)

	// TextAll 讀取所有符合元素的文字 (例如歷史紀錄的每一列)
	TextAll(ctx context.Context, selector string) ([]string, error)

	// Exists 立即檢查元素是否存在，不等待
	Exists(ctx context.Context, selector string) (bool, error)

	// Screenshot 擷取元素畫面 (PNG)，用於驗證碼辨識
	Screenshot(ctx context.Context, selector string) ([]byte, error)

	// URL 目前網址
	URL(ctx context.Context) (string, error)

	// ClearCookies 清除瀏覽器 Cookie (登出時使用)
	ClearCookies(ctx context.Context) error

	// Close 關閉分頁並釋放瀏覽器資源，可重複呼叫
	Close() error
}
