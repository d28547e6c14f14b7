// Package platform 實作各後台平台的自動化流程 (登入、儲值、提款、領取紅利)。
//
// 三個平台的流程相同，只有網址與畫面元素不同，差異集中在 Profile。
package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-platform-automation/internal/automation/classify"
	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
)

// Options 流程中的等待時間與重試次數
type Options struct {
	ActionTimeout   time.Duration // 單一步驟 (搜尋、送出) 的上限
	CaptchaAttempts int           // 單次登入內驗證碼重試次數
	VerifyPolls     int           // 送出後確認餘額的輪詢次數
	VerifyInterval  time.Duration
	MessageWait     time.Duration // 等待平台跳出訊息框的時間
}

// DefaultOptions 預設值
func DefaultOptions() Options {
	return Options{
		ActionTimeout:   30 * time.Second,
		CaptchaAttempts: 7,
		VerifyPolls:     5,
		VerifyInterval:  time.Second,
		MessageWait:     3 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ActionTimeout <= 0 {
		o.ActionTimeout = d.ActionTimeout
	}
	if o.CaptchaAttempts <= 0 {
		o.CaptchaAttempts = d.CaptchaAttempts
	}
	if o.VerifyPolls <= 0 {
		o.VerifyPolls = d.VerifyPolls
	}
	if o.VerifyInterval <= 0 {
		o.VerifyInterval = d.VerifyInterval
	}
	if o.MessageWait <= 0 {
		o.MessageWait = d.MessageWait
	}
	return o
}

type direction int

const (
	directionDeposit direction = iota
	directionWithdraw
)

func (d direction) String() string {
	if d == directionWithdraw {
		return "withdraw"
	}
	return "deposit"
}

// Adapter 以 Profile 驅動的後台 Adapter，實作 ports.PlatformAdapter
type Adapter struct {
	profile    Profile
	baseURL    string
	solver     ports.CaptchaSolver
	classifier *classify.Classifier
	opts       Options
	logger     *slog.Logger
}

var _ ports.PlatformAdapter = (*Adapter)(nil)

// NewAdapter 建立平台 Adapter
//
// 參數:
//
//	profile: Profile - 平台畫面描述
//	baseURL: string - 後台網址 (不含路徑)
//	solver: ports.CaptchaSolver - 驗證碼辨識
//	classifier: *classify.Classifier - 平台訊息分類 (nil 時使用內建規則)
//	opts: Options - 等待時間設定
//	logger: *slog.Logger - 日誌
func NewAdapter(profile Profile, baseURL string, solver ports.CaptchaSolver, classifier *classify.Classifier, opts Options, logger *slog.Logger) *Adapter {
	if classifier == nil {
		classifier = classify.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		profile:    profile,
		baseURL:    strings.TrimRight(baseURL, "/"),
		solver:     solver,
		classifier: classifier,
		opts:       opts.withDefaults(),
		logger:     logger.With("platform", profile.Platform.String()),
	}
}

// Platform 實作 ports.PlatformAdapter
func (a *Adapter) Platform() domain.Platform {
	return a.profile.Platform
}

// Login 登入後台
// 已在首頁 (cookie 仍有效) 時直接成功；驗證碼錯誤會在同一次登入內重試。
func (a *Adapter) Login(ctx context.Context, page domain.Page, creds domain.Credentials) error {
	sel := a.profile.Login

	if err := a.step(ctx, func(ctx context.Context) error {
		return page.Navigate(ctx, a.url(a.profile.LoginPath))
	}); err != nil {
		return a.authError("open login page", err)
	}
	if a.atHome(ctx, page) {
		return nil
	}

	if err := a.step(ctx, func(ctx context.Context) error {
		if err := page.WaitVisible(ctx, sel.Username); err != nil {
			return err
		}
		if err := page.SetValue(ctx, sel.Username, creds.Username); err != nil {
			return err
		}
		return page.SetValue(ctx, sel.Password, creds.Password)
	}); err != nil {
		return a.authError("fill credentials", err)
	}

	attempts := a.opts.CaptchaAttempts
	if sel.CaptchaImage == "" {
		attempts = 1
	}

	reason := "login not confirmed"
	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if sel.CaptchaImage != "" {
			code, err := a.solveCaptcha(ctx, page)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				reason = "captcha: " + err.Error()
				a.logger.Warn("captcha solve failed", "attempt", i, "error", err)
				a.refreshCaptcha(ctx, page)
				continue
			}
			if err := a.step(ctx, func(ctx context.Context) error {
				return page.SetValue(ctx, sel.CaptchaInput, code)
			}); err != nil {
				return a.authError("fill captcha", err)
			}
		}

		if err := a.step(ctx, func(ctx context.Context) error {
			return page.Click(ctx, sel.Submit)
		}); err != nil {
			return a.authError("submit login", err)
		}

		ok, msg := a.awaitLogin(ctx, page)
		if ok {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if a.classifier.CredentialsRejected(msg) {
			return &domain.AuthError{Platform: a.profile.Platform, Reason: msg, CredentialsRejected: true}
		}
		if msg != "" {
			reason = msg
		}
		a.logger.Info("login attempt rejected", "attempt", i, "message", msg)
		a.refreshCaptcha(ctx, page)
	}

	return &domain.AuthError{Platform: a.profile.Platform, Reason: reason}
}

// Deposit 實作 ports.PlatformAdapter
func (a *Adapter) Deposit(ctx context.Context, sess *domain.PlatformSession, ref domain.ActionRef, amount decimal.Decimal) domain.ActionOutcome {
	return a.transfer(ctx, sess.Page, ref, amount, directionDeposit)
}

// Withdraw 實作 ports.PlatformAdapter
func (a *Adapter) Withdraw(ctx context.Context, sess *domain.PlatformSession, ref domain.ActionRef, amount decimal.Decimal) domain.ActionOutcome {
	return a.transfer(ctx, sess.Page, ref, amount, directionWithdraw)
}

// transfer 儲值/提款共用流程
//
// 備註欄寫入 ref.Tag()，重試時先查紀錄，已存在就直接視為成功，避免重複入帳；
// 紀錄查不到 (頁面錯誤、逾時) 時不送出，交由下一次嘗試再查。
// 送出後以餘額變化確認結果，餘額未變代表平台沒有執行。
func (a *Adapter) transfer(ctx context.Context, page domain.Page, ref domain.ActionRef, amount decimal.Decimal, dir direction) domain.ActionOutcome {
	if !amount.IsPositive() {
		return domain.PermanentFailure("amount must be positive")
	}
	log := a.logger.With("job_id", ref.JobID, "player", ref.PlayerRef, "action", dir.String(), "attempt", ref.Attempt)

	if ref.Attempt > 1 {
		confirmation, found, err := a.findHistory(ctx, page, ref)
		if err != nil {
			log.Warn("history lookup failed; not resubmitting", "error", err)
			// 查不到紀錄無法判斷是否已入帳，一律可重試
			return domain.RetryableFailure(a.classifier.Error("history lookup", err).Reason)
		}
		if found {
			log.Info("previous attempt already applied", "confirmation", confirmation)
			return domain.Success(confirmation)
		}
	}

	before, failure, ok := a.searchPlayer(ctx, page, ref.PlayerRef)
	if !ok {
		return failure
	}
	if dir == directionWithdraw && before.LessThan(amount) {
		return domain.PermanentFailure(fmt.Sprintf("insufficient balance: %s < %s", before.StringFixed(2), amount.StringFixed(2)))
	}

	dlg := a.profile.Dialog
	tab := dlg.RechargeTab
	if dir == directionWithdraw {
		tab = dlg.RedeemTab
	}
	if err := a.step(ctx, func(ctx context.Context) error {
		if err := page.Click(ctx, a.profile.Grid.UpdateButton); err != nil {
			return err
		}
		if err := page.WaitVisible(ctx, dlg.Container); err != nil {
			return err
		}
		if err := page.Click(ctx, tab); err != nil {
			return err
		}
		if err := page.SetValue(ctx, dlg.Amount, amount.StringFixed(2)); err != nil {
			return err
		}
		if err := page.SetValue(ctx, dlg.Note, ref.Tag()); err != nil {
			return err
		}
		ref.MarkSubmitted()
		return page.Click(ctx, dlg.Submit)
	}); err != nil {
		return a.classifier.Error("submit "+dir.String(), err)
	}

	if msg, shown := a.readMessage(ctx, page); shown {
		if _, rule := a.classifier.Kind(msg); rule != "" {
			log.Info("platform rejected action", "message", msg, "rule", rule)
			return a.classifier.Message(msg)
		}
	}

	expected := before.Add(amount)
	if dir == directionWithdraw {
		expected = before.Sub(amount)
	}

	after := before
	for i := 0; i < a.opts.VerifyPolls; i++ {
		if i > 0 {
			if err := sleep(ctx, a.opts.VerifyInterval); err != nil {
				return a.classifier.Error("verify balance", err)
			}
		}
		balance, failure, ok := a.searchPlayer(ctx, page, ref.PlayerRef)
		if !ok {
			return failure
		}
		after = balance
		if after.Equal(expected) {
			confirmation, found, err := a.findHistory(ctx, page, ref)
			if err != nil || !found {
				confirmation = ref.Tag()
			}
			log.Info("action confirmed", "before", before.StringFixed(2), "after", after.StringFixed(2), "confirmation", confirmation)
			return domain.Success(confirmation)
		}
	}

	if confirmation, found, err := a.findHistory(ctx, page, ref); err == nil && found {
		return domain.Success(confirmation)
	}
	if after.Equal(before) {
		return domain.RetryableFailure("balance unchanged after submit")
	}
	return domain.RetryableFailure(fmt.Sprintf("balance mismatch: expected %s, got %s", expected.StringFixed(2), after.StringFixed(2)))
}

// ClaimBonus 實作 ports.PlatformAdapter
func (a *Adapter) ClaimBonus(ctx context.Context, sess *domain.PlatformSession, ref domain.ActionRef, bonusID string) domain.ActionOutcome {
	page := sess.Page
	log := a.logger.With("job_id", ref.JobID, "player", ref.PlayerRef, "bonus_id", bonusID, "attempt", ref.Attempt)

	claimed, found, err := a.bonusStatus(ctx, page, ref.PlayerRef, bonusID)
	if err != nil {
		return a.classifier.Error("bonus lookup", err)
	}
	if !found {
		return domain.PermanentFailure("bonus not found: " + bonusID)
	}
	if claimed {
		// 只有先前的嘗試確實按過領取，才視為本工作領取成功
		if ref.Attempt > 1 && ref.Submitted {
			log.Info("bonus claimed by previous attempt")
			return domain.Success(bonusID)
		}
		return domain.PermanentFailure("bonus already claimed")
	}

	ref.MarkSubmitted()
	if err := a.step(ctx, func(ctx context.Context) error {
		return page.Click(ctx, a.bonusSelector(a.profile.Bonus.Claim, bonusID))
	}); err != nil {
		return a.classifier.Error("claim bonus", err)
	}

	if msg, shown := a.readMessage(ctx, page); shown {
		if _, rule := a.classifier.Kind(msg); rule != "" {
			log.Info("platform rejected claim", "message", msg, "rule", rule)
			return a.classifier.Message(msg)
		}
	}

	for i := 0; i < a.opts.VerifyPolls; i++ {
		if i > 0 {
			if err := sleep(ctx, a.opts.VerifyInterval); err != nil {
				return a.classifier.Error("verify bonus", err)
			}
		}
		claimed, _, err := a.bonusStatus(ctx, page, ref.PlayerRef, bonusID)
		if err != nil {
			return a.classifier.Error("verify bonus", err)
		}
		if claimed {
			return domain.Success(bonusID)
		}
	}
	return domain.RetryableFailure("bonus status unchanged after claim")
}

// Logout 登出並清除 Cookie
func (a *Adapter) Logout(ctx context.Context, sess *domain.PlatformSession) error {
	page := sess.Page
	var errs []error
	if a.profile.LogoutButton != "" {
		exists, err := page.Exists(ctx, a.profile.LogoutButton)
		if err != nil {
			errs = append(errs, err)
		} else if exists {
			if err := page.Click(ctx, a.profile.LogoutButton); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := page.ClearCookies(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// searchPlayer 搜尋玩家並讀取餘額
// ok=false 時 failure 為已分類的失敗結果
func (a *Adapter) searchPlayer(ctx context.Context, page domain.Page, player string) (balance decimal.Decimal, failure domain.ActionOutcome, ok bool) {
	grid := a.profile.Grid

	var account, rawBalance string
	var empty bool
	err := a.step(ctx, func(ctx context.Context) error {
		if err := page.Navigate(ctx, a.url(a.profile.PlayersPath)); err != nil {
			return err
		}
		if err := page.WaitVisible(ctx, grid.Search); err != nil {
			return err
		}
		if err := page.SetValue(ctx, grid.Search, player); err != nil {
			return err
		}
		if err := page.Click(ctx, grid.SearchButton); err != nil {
			return err
		}
		hasRow, err := a.waitAny(ctx, page, grid.Row, grid.Empty)
		if err != nil {
			return err
		}
		if !hasRow {
			empty = true
			return nil
		}
		if account, err = page.Text(ctx, grid.AccountCell); err != nil {
			return err
		}
		rawBalance, err = page.Text(ctx, grid.BalanceCell)
		return err
	})
	if err != nil {
		return decimal.Zero, a.classifier.Error("search player", err), false
	}
	if empty || !strings.EqualFold(strings.TrimSpace(account), strings.TrimSpace(player)) {
		return decimal.Zero, domain.PermanentFailure("player not found: " + player), false
	}

	balance, err = parseBalance(rawBalance)
	if err != nil {
		return decimal.Zero, domain.RetryableFailure(fmt.Sprintf("unreadable balance %q", rawBalance)), false
	}
	return balance, domain.ActionOutcome{}, true
}

// findHistory 在儲值/提款紀錄中尋找帶有 ref.Tag() 的紀錄，回傳平台單號 (第一欄)
func (a *Adapter) findHistory(ctx context.Context, page domain.Page, ref domain.ActionRef) (string, bool, error) {
	hist := a.profile.History
	var rows []string
	err := a.step(ctx, func(ctx context.Context) error {
		if err := page.Navigate(ctx, a.url(a.profile.HistoryPath)); err != nil {
			return err
		}
		if err := page.WaitVisible(ctx, hist.Search); err != nil {
			return err
		}
		if err := page.SetValue(ctx, hist.Search, ref.PlayerRef); err != nil {
			return err
		}
		if err := page.Click(ctx, hist.SearchButton); err != nil {
			return err
		}
		var err error
		rows, err = page.TextAll(ctx, hist.Rows)
		return err
	})
	if err != nil {
		return "", false, err
	}

	tag := ref.Tag()
	for _, row := range rows {
		if !strings.Contains(row, tag) {
			continue
		}
		fields := strings.Fields(row)
		if len(fields) > 0 && fields[0] != tag {
			return fields[0], true, nil
		}
		return tag, true, nil
	}
	return "", false, nil
}

// bonusStatus 讀取紅利狀態
func (a *Adapter) bonusStatus(ctx context.Context, page domain.Page, player, bonusID string) (claimed bool, found bool, err error) {
	b := a.profile.Bonus
	err = a.step(ctx, func(ctx context.Context) error {
		if err := page.Navigate(ctx, a.url(a.profile.BonusPath)); err != nil {
			return err
		}
		if err := page.WaitVisible(ctx, b.Search); err != nil {
			return err
		}
		if err := page.SetValue(ctx, b.Search, player); err != nil {
			return err
		}
		if err := page.Click(ctx, b.SearchButton); err != nil {
			return err
		}
		exists, err := page.Exists(ctx, a.bonusSelector(b.Row, bonusID))
		if err != nil || !exists {
			return err
		}
		found = true
		status, err := page.Text(ctx, a.bonusSelector(b.Status, bonusID))
		if err != nil {
			return err
		}
		claimed = strings.Contains(strings.ToLower(status), strings.ToLower(b.ClaimedText))
		return nil
	})
	return claimed, found, err
}

// readMessage 等待平台訊息框，讀取後按下確定
func (a *Adapter) readMessage(ctx context.Context, page domain.Page) (string, bool) {
	msgSel := a.profile.Message
	waitCtx, cancel := context.WithTimeout(ctx, a.opts.MessageWait)
	defer cancel()

	for {
		exists, err := page.Exists(waitCtx, msgSel.Box)
		if err == nil && exists {
			text, err := page.Text(waitCtx, msgSel.Box)
			if err != nil {
				return "", false
			}
			if msgSel.OK != "" {
				if err := page.Click(waitCtx, msgSel.OK); err != nil {
					a.logger.Debug("dismiss message failed", "error", err)
				}
			}
			return strings.TrimSpace(text), true
		}
		if sleep(waitCtx, a.opts.VerifyInterval/4+time.Millisecond) != nil {
			return "", false
		}
	}
}

// awaitLogin 送出登入後等待跳轉首頁或錯誤訊息
func (a *Adapter) awaitLogin(ctx context.Context, page domain.Page) (bool, string) {
	waitCtx, cancel := context.WithTimeout(ctx, a.opts.ActionTimeout)
	defer cancel()

	for {
		if a.atHome(waitCtx, page) {
			return true, ""
		}
		if exists, err := page.Exists(waitCtx, a.profile.Login.Error); err == nil && exists {
			if text, err := page.Text(waitCtx, a.profile.Login.Error); err == nil && strings.TrimSpace(text) != "" {
				return false, strings.TrimSpace(text)
			}
		}
		if msg, shown := a.readMessage(waitCtx, page); shown && msg != "" {
			return false, msg
		}
		if waitCtx.Err() != nil {
			return false, ""
		}
	}
}

func (a *Adapter) solveCaptcha(ctx context.Context, page domain.Page) (string, error) {
	if a.solver == nil {
		return "", errors.New("no captcha solver configured")
	}
	var img []byte
	if err := a.step(ctx, func(ctx context.Context) error {
		if err := page.WaitVisible(ctx, a.profile.Login.CaptchaImage); err != nil {
			return err
		}
		var err error
		img, err = page.Screenshot(ctx, a.profile.Login.CaptchaImage)
		return err
	}); err != nil {
		return "", err
	}
	return a.solver.SolveImage(ctx, img)
}

// refreshCaptcha 點擊驗證碼圖片換一張
func (a *Adapter) refreshCaptcha(ctx context.Context, page domain.Page) {
	if a.profile.Login.CaptchaImage == "" {
		return
	}
	_ = a.step(ctx, func(ctx context.Context) error {
		return page.Click(ctx, a.profile.Login.CaptchaImage)
	})
}

// waitAny 等待 primary 或 alt 其中一個元素出現，回傳是否為 primary
func (a *Adapter) waitAny(ctx context.Context, page domain.Page, primary, alt string) (bool, error) {
	for {
		ok, err := page.Exists(ctx, primary)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		if alt != "" {
			if ok, err := page.Exists(ctx, alt); err == nil && ok {
				return false, nil
			}
		}
		if err := sleep(ctx, a.opts.VerifyInterval/4+time.Millisecond); err != nil {
			return false, err
		}
	}
}

func (a *Adapter) atHome(ctx context.Context, page domain.Page) bool {
	cur, err := page.URL(ctx)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(cur), strings.ToLower(a.profile.HomeMarker))
}

// step 以 ActionTimeout 限制單一步驟
func (a *Adapter) step(ctx context.Context, fn func(ctx context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, a.opts.ActionTimeout)
	defer cancel()
	return fn(stepCtx)
}

func (a *Adapter) authError(stage string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &domain.AuthError{Platform: a.profile.Platform, Reason: stage, Err: err}
}

func (a *Adapter) url(path string) string {
	return a.baseURL + path
}

func (a *Adapter) bonusSelector(pattern, bonusID string) string {
	return fmt.Sprintf(pattern, bonusID)
}

// parseBalance 解析 "$1,234.50" 這類格式
func parseBalance(raw string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	return decimal.NewFromString(clean)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
