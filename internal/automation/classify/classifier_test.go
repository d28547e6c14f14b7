package classify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
)

func TestClassifier_Message(t *testing.T) {
	c := Default()

	tests := []struct {
		msg  string
		want domain.OutcomeKind
	}{
		{"Bonus already claimed", domain.OutcomePermanentFailure},
		{"ERROR: Insufficient balance", domain.OutcomePermanentFailure},
		{"Player not found", domain.OutcomePermanentFailure},
		{"Server Error in '/' Application.", domain.OutcomeRetryableFailure},
		{"Runtime Error", domain.OutcomeRetryableFailure},
		{"something nobody has seen before", domain.OutcomeRetryableFailure},
		{"", domain.OutcomeRetryableFailure},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			out := c.Message(tt.msg)
			assert.Equal(t, tt.want, out.Kind)
			assert.False(t, out.IsSuccess())
		})
	}
}

func TestClassifier_CustomRulesWin(t *testing.T) {
	c, err := New([]Rule{
		{Match: "Rejected by risk control, try again", Outcome: domain.OutcomeRetryableFailure},
		{Match: "account is locked", Outcome: domain.OutcomePermanentFailure},
	})
	require.NoError(t, err)

	kind, rule := c.Kind("Order rejected by risk control, try again later")
	assert.Equal(t, domain.OutcomeRetryableFailure, kind)
	assert.Equal(t, "rejected by risk control, try again", rule)

	kind, _ = c.Kind("Account is LOCKED")
	assert.Equal(t, domain.OutcomePermanentFailure, kind)

	// 內建規則仍然有效
	kind, _ = c.Kind("request rejected")
	assert.Equal(t, domain.OutcomePermanentFailure, kind)
}

func TestClassifier_InvalidRules(t *testing.T) {
	_, err := New([]Rule{{Match: "  ", Outcome: domain.OutcomePermanentFailure}})
	assert.Error(t, err)

	_, err = New([]Rule{{Match: "ok", Outcome: domain.OutcomeSuccess}})
	assert.Error(t, err)
}

func TestClassifier_Error(t *testing.T) {
	c := Default()

	out := c.Error("search player", fmt.Errorf("wait visible: %w", context.DeadlineExceeded))
	assert.True(t, out.IsRetryable())
	assert.Equal(t, "search player: timeout", out.Reason)

	out = c.Error("submit", errors.New("dialog says: player not found"))
	assert.True(t, out.IsPermanent())

	out = c.Error("click", errors.New("node not found"))
	assert.True(t, out.IsRetryable())
}

func TestParseOutcome(t *testing.T) {
	k, err := ParseOutcome("Permanent")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomePermanentFailure, k)

	k, err = ParseOutcome("retryable")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRetryableFailure, k)

	k, err = ParseOutcome(" AUTH ")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAuth, k)

	_, err = ParseOutcome("maybe")
	assert.Error(t, err)
}

func TestClassifier_CredentialsRejected(t *testing.T) {
	c := Default()

	tests := []struct {
		msg  string
		want bool
	}{
		{"Account or password error", true},
		{"The account has been disabled", true},
		{"Username does not exist", true},
		{"Verification code error", false},
		{"Captcha expired, account login failed", false},
		{"Server Error in '/' Application.", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CredentialsRejected(tt.msg))
		})
	}
}

func TestClassifier_CustomAuthRules(t *testing.T) {
	c, err := New([]Rule{{Match: "Agent suspended", Outcome: OutcomeAuth}})
	require.NoError(t, err)

	assert.True(t, c.CredentialsRejected("agent SUSPENDED by operator"))
	assert.True(t, c.CredentialsRejected("wrong password"))

	// 登入規則不影響動作訊息的分類
	kind, rule := c.Kind("agent suspended by operator")
	assert.Equal(t, domain.OutcomeRetryableFailure, kind)
	assert.Empty(t, rule)
}
