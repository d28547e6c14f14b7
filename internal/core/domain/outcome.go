package domain

import "fmt"

// OutcomeKind 平台動作結果的三種分類，決定是否可重試
type OutcomeKind string

const (
	OutcomeSuccess          OutcomeKind = "success"
	OutcomeRetryableFailure OutcomeKind = "retryable_failure"
	OutcomePermanentFailure OutcomeKind = "permanent_failure"
)

// ActionOutcome 平台 Adapter 的唯一回傳型態
//
// Success 帶 ConfirmationRef，兩種 Failure 帶 Reason。
// Auth 標記此失敗來自登入重試用盡 (AuthError)。
type ActionOutcome struct {
	Kind            OutcomeKind `json:"kind"`
	ConfirmationRef string      `json:"confirmation_ref,omitempty"`
	Reason          string      `json:"reason,omitempty"`
	Auth            bool        `json:"auth,omitempty"`
}

// Success 建立成功結果
func Success(confirmationRef string) ActionOutcome {
	return ActionOutcome{Kind: OutcomeSuccess, ConfirmationRef: confirmationRef}
}

// RetryableFailure 建立可重試的失敗結果
func RetryableFailure(reason string) ActionOutcome {
	return ActionOutcome{Kind: OutcomeRetryableFailure, Reason: reason}
}

// PermanentFailure 建立不可重試的失敗結果
func PermanentFailure(reason string) ActionOutcome {
	return ActionOutcome{Kind: OutcomePermanentFailure, Reason: reason}
}

// AuthFailure 登入失敗視為永久失敗，需人工處理
func AuthFailure(err *AuthError) ActionOutcome {
	return ActionOutcome{Kind: OutcomePermanentFailure, Reason: err.Error(), Auth: true}
}

func (o ActionOutcome) IsSuccess() bool   { return o.Kind == OutcomeSuccess }
func (o ActionOutcome) IsRetryable() bool { return o.Kind == OutcomeRetryableFailure }
func (o ActionOutcome) IsPermanent() bool { return o.Kind == OutcomePermanentFailure }

func (o ActionOutcome) String() string {
	if o.IsSuccess() {
		return fmt.Sprintf("success(%s)", o.ConfirmationRef)
	}
	return fmt.Sprintf("%s(%s)", o.Kind, o.Reason)
}
