package classify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
)

// OutcomeAuth 登入訊息規則: 帳密被拒，不再重試登入
const OutcomeAuth domain.OutcomeKind = "auth"

// Rule 以不分大小寫的子字串比對平台訊息
type Rule struct {
	Match   string
	Outcome domain.OutcomeKind // Retryable / Permanent，或登入用的 OutcomeAuth
}

// defaultRules 內建規則，長字串優先比對
var defaultRules = []Rule{
	{Match: "already claimed", Outcome: domain.OutcomePermanentFailure},
	{Match: "already been claimed", Outcome: domain.OutcomePermanentFailure},
	{Match: "insufficient", Outcome: domain.OutcomePermanentFailure},
	{Match: "not enough balance", Outcome: domain.OutcomePermanentFailure},
	{Match: "invalid player", Outcome: domain.OutcomePermanentFailure},
	{Match: "player not found", Outcome: domain.OutcomePermanentFailure},
	{Match: "user not found", Outcome: domain.OutcomePermanentFailure},
	{Match: "account not exist", Outcome: domain.OutcomePermanentFailure},
	{Match: "account does not exist", Outcome: domain.OutcomePermanentFailure},
	{Match: "bonus expired", Outcome: domain.OutcomePermanentFailure},
	{Match: "not eligible", Outcome: domain.OutcomePermanentFailure},
	{Match: "exceeds limit", Outcome: domain.OutcomePermanentFailure},
	{Match: "exceed the limit", Outcome: domain.OutcomePermanentFailure},
	{Match: "frozen", Outcome: domain.OutcomePermanentFailure},
	{Match: "rejected", Outcome: domain.OutcomePermanentFailure},
	{Match: "server error", Outcome: domain.OutcomeRetryableFailure},
	{Match: "runtime error", Outcome: domain.OutcomeRetryableFailure},
	{Match: "timeout", Outcome: domain.OutcomeRetryableFailure},
	{Match: "timed out", Outcome: domain.OutcomeRetryableFailure},
	{Match: "try again", Outcome: domain.OutcomeRetryableFailure},
	{Match: "busy", Outcome: domain.OutcomeRetryableFailure},
}

// defaultLoginRules 登入錯誤訊息，驗證碼錯誤排在帳密關鍵字之前
var defaultLoginRules = []Rule{
	{Match: "captcha", Outcome: domain.OutcomeRetryableFailure},
	{Match: "verification code", Outcome: domain.OutcomeRetryableFailure},
	{Match: "code", Outcome: domain.OutcomeRetryableFailure},
	{Match: "password", Outcome: OutcomeAuth},
	{Match: "username", Outcome: OutcomeAuth},
	{Match: "account", Outcome: OutcomeAuth},
	{Match: "disabled", Outcome: OutcomeAuth},
	{Match: "locked", Outcome: OutcomeAuth},
}

// Classifier 將平台畫面訊息分類為可重試或永久失敗
// 未知訊息一律視為可重試 (UI 改版先重試，確認後再補規則)
type Classifier struct {
	rules      []Rule
	loginRules []Rule
}

// New 建立分類器，custom 規則排在內建規則之前 (先比對者優先)
//
// 參數:
//
//	custom: []Rule - 來自設定檔的規則
//
// 回傳值:
//
//	*Classifier: 分類器
//	error: 規則格式錯誤
func New(custom []Rule) (*Classifier, error) {
	rules := make([]Rule, 0, len(custom)+len(defaultRules))
	var loginRules []Rule
	for i, r := range custom {
		match := strings.ToLower(strings.TrimSpace(r.Match))
		if match == "" {
			return nil, fmt.Errorf("rule %d: empty match", i)
		}
		switch r.Outcome {
		case domain.OutcomeRetryableFailure, domain.OutcomePermanentFailure:
			rules = append(rules, Rule{Match: match, Outcome: r.Outcome})
		case OutcomeAuth:
			loginRules = append(loginRules, Rule{Match: match, Outcome: r.Outcome})
		default:
			return nil, fmt.Errorf("rule %d: outcome must be retryable, permanent or auth, got %q", i, r.Outcome)
		}
	}
	loginRules = append(loginRules, defaultLoginRules...)

	defaults := make([]Rule, len(defaultRules))
	copy(defaults, defaultRules)
	sort.SliceStable(defaults, func(i, j int) bool {
		return len(defaults[i].Match) > len(defaults[j].Match)
	})
	rules = append(rules, defaults...)

	return &Classifier{rules: rules, loginRules: loginRules}, nil
}

// Default 只使用內建規則
func Default() *Classifier {
	c, _ := New(nil)
	return c
}

// ParseOutcome 將設定檔的 "permanent"/"retryable"/"auth" 轉成 OutcomeKind
func ParseOutcome(raw string) (domain.OutcomeKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "permanent":
		return domain.OutcomePermanentFailure, nil
	case "retryable":
		return domain.OutcomeRetryableFailure, nil
	case "auth":
		return OutcomeAuth, nil
	}
	return "", fmt.Errorf("unknown outcome %q", raw)
}

// Kind 回傳訊息的分類與命中的規則 (未命中時 rule 為空字串)
func (c *Classifier) Kind(message string) (domain.OutcomeKind, string) {
	text := strings.ToLower(message)
	for _, r := range c.rules {
		if strings.Contains(text, r.Match) {
			return r.Outcome, r.Match
		}
	}
	return domain.OutcomeRetryableFailure, ""
}

// CredentialsRejected 登入錯誤訊息是否代表帳密被拒 (驗證碼錯誤不算)
func (c *Classifier) CredentialsRejected(message string) bool {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return false
	}
	for _, r := range c.loginRules {
		if strings.Contains(text, r.Match) {
			return r.Outcome == OutcomeAuth
		}
	}
	return false
}

// Message 將平台錯誤訊息轉為失敗結果
func (c *Classifier) Message(message string) domain.ActionOutcome {
	message = strings.TrimSpace(message)
	kind, _ := c.Kind(message)
	if kind == domain.OutcomePermanentFailure {
		return domain.PermanentFailure(message)
	}
	if message == "" {
		message = "unrecognized platform response"
	}
	return domain.RetryableFailure(message)
}

// Error 將自動化過程的錯誤轉為失敗結果
// 逾時與找不到元素屬於 UI 暫時性問題，除非錯誤文字命中永久規則
func (c *Classifier) Error(step string, err error) domain.ActionOutcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.RetryableFailure(step + ": timeout")
	}
	if errors.Is(err, context.Canceled) {
		return domain.RetryableFailure(step + ": canceled")
	}
	kind, _ := c.Kind(err.Error())
	reason := step + ": " + err.Error()
	if kind == domain.OutcomePermanentFailure {
		return domain.PermanentFailure(reason)
	}
	return domain.RetryableFailure(reason)
}
