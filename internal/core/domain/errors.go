package domain

import (
	"errors"
	"fmt"
)

// 定義 Domain 層級通用的錯誤
var (
	ErrInvalidJob         = errors.New("invalid job")
	ErrJobNotFound        = errors.New("job not found")
	ErrRecordNotFound     = errors.New("record not found")
	ErrUnknownPlatform    = errors.New("unknown platform")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrQueueEmpty         = errors.New("queue empty")
)

// AuthError 代表平台登入失敗，重試次數用盡後需人工介入
type AuthError struct {
	Platform Platform
	Attempts int
	Reason   string
	// CredentialsRejected 平台明確拒絕帳密，再試也不會成功
	CredentialsRejected bool
	Err                 error
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf("auth failed on %s after %d attempt(s): %s", e.Platform, e.Attempts, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsAuthError 判斷錯誤鏈中是否包含 AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
