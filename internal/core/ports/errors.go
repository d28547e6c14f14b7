package ports

import "errors"

// 定義 Ports 層級通用的錯誤
var (
	ErrNoAdapter       = errors.New("no adapter registered for platform")
	ErrNoCredentials   = errors.New("no credentials configured for platform")
	ErrSessionReleased = errors.New("session already released")
)
