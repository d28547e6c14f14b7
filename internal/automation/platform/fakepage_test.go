package platform_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-platform-automation/internal/automation/platform"
	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
)

const testBaseURL = "https://backoffice.test"

// fakeBackoffice 模擬 Store.aspx 後台的 domain.Page
type fakeBackoffice struct {
	p platform.Profile

	url      string
	loggedIn bool
	closed   bool

	username    string
	password    string
	captchaCode string
	loginErr    string

	values map[string]string
	query  string
	tab    string

	players map[string]decimal.Decimal
	history []string
	orders  int

	// 儲值/提款送出後的行為
	applies       bool
	submitMessage string
	submits       int

	bonuses      map[string]string // bonus id -> 狀態文字
	claimWorks   bool
	claimMessage string
	claims       int

	message string
	missing map[string]bool
	clicks  []string
}

func newFakeBackoffice() *fakeBackoffice {
	return &fakeBackoffice{
		p:           platform.Profiles()[domain.PlatformMilkyway],
		username:    "agent",
		password:    "secret",
		captchaCode: "1234",
		values:      map[string]string{},
		players:     map[string]decimal.Decimal{},
		bonuses:     map[string]string{},
		missing:     map[string]bool{},
		applies:     true,
		claimWorks:  true,
	}
}

var _ domain.Page = (*fakeBackoffice)(nil)

func (f *fakeBackoffice) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.url = url
	if strings.HasSuffix(url, f.p.LoginPath) && f.loggedIn {
		f.url = testBaseURL + "/Store.aspx"
	}
	return nil
}

func (f *fakeBackoffice) WaitVisible(ctx context.Context, selector string) error {
	if f.missing[selector] {
		<-ctx.Done()
		return ctx.Err()
	}
	return ctx.Err()
}

func (f *fakeBackoffice) SetValue(_ context.Context, selector string, value string) error {
	f.values[selector] = value
	return nil
}

func (f *fakeBackoffice) Click(_ context.Context, selector string) error {
	f.clicks = append(f.clicks, selector)
	switch selector {
	case f.p.Login.Submit:
		f.submitLogin()
	case f.p.Login.CaptchaImage:
		f.loginErr = ""
	case f.p.Grid.SearchButton:
		f.search()
	case f.p.Dialog.RechargeTab, f.p.Dialog.RedeemTab:
		f.tab = selector
	case f.p.Dialog.Submit:
		f.submitTransfer()
	case f.p.Message.OK:
		f.message = ""
	case f.p.LogoutButton:
		f.loggedIn = false
	default:
		for id := range f.bonuses {
			if selector == fmt.Sprintf(f.p.Bonus.Claim, id) {
				f.claim(id)
			}
		}
	}
	return nil
}

func (f *fakeBackoffice) submitLogin() {
	if f.values[f.p.Login.CaptchaInput] != f.captchaCode {
		f.loginErr = "Verification code error"
		return
	}
	if f.values[f.p.Login.Username] != f.username || f.values[f.p.Login.Password] != f.password {
		f.loginErr = "Account or password error"
		return
	}
	f.loginErr = ""
	f.loggedIn = true
	f.url = testBaseURL + "/Store.aspx"
}

// search 三個列表頁的搜尋按鈕是同一個 selector，依目前頁面決定讀哪個輸入框
func (f *fakeBackoffice) search() {
	switch {
	case strings.HasSuffix(f.url, f.p.PlayersPath):
		f.query = f.values[f.p.Grid.Search]
	case strings.HasSuffix(f.url, f.p.HistoryPath):
		f.query = f.values[f.p.History.Search]
	default:
		f.query = f.values[f.p.Bonus.Search]
	}
}

func (f *fakeBackoffice) submitTransfer() {
	f.submits++
	if f.submitMessage != "" {
		f.message = f.submitMessage
	}
	if !f.applies {
		return
	}
	amount, err := decimal.NewFromString(f.values[f.p.Dialog.Amount])
	if err != nil {
		f.message = "Invalid amount"
		return
	}
	if f.tab == f.p.Dialog.RedeemTab {
		amount = amount.Neg()
	}
	f.players[f.query] = f.players[f.query].Add(amount)
	f.orders++
	f.history = append(f.history, fmt.Sprintf("ORD-%d %s %s %s", f.orders, f.query, amount.StringFixed(2), f.values[f.p.Dialog.Note]))
}

func (f *fakeBackoffice) claim(id string) {
	f.claims++
	if f.claimMessage != "" {
		f.message = f.claimMessage
	}
	if f.claimWorks {
		f.bonuses[id] = "Claimed"
	}
}

func (f *fakeBackoffice) Text(_ context.Context, selector string) (string, error) {
	switch selector {
	case f.p.Grid.AccountCell:
		return f.query, nil
	case f.p.Grid.BalanceCell:
		return "$" + f.players[f.query].StringFixed(2), nil
	case f.p.Message.Box:
		return f.message, nil
	case f.p.Login.Error:
		return f.loginErr, nil
	}
	for id, status := range f.bonuses {
		if selector == fmt.Sprintf(f.p.Bonus.Status, id) {
			return status, nil
		}
	}
	return "", fmt.Errorf("no text for %s", selector)
}

func (f *fakeBackoffice) TextAll(_ context.Context, selector string) ([]string, error) {
	if selector != f.p.History.Rows {
		return nil, nil
	}
	var rows []string
	for _, row := range f.history {
		if strings.Contains(row, " "+f.query+" ") {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeBackoffice) Exists(_ context.Context, selector string) (bool, error) {
	_, known := f.players[f.query]
	switch selector {
	case f.p.Grid.Row:
		return known, nil
	case f.p.Grid.Empty:
		return !known, nil
	case f.p.Message.Box:
		return f.message != "", nil
	case f.p.Login.Error:
		return f.loginErr != "", nil
	case f.p.LogoutButton:
		return f.loggedIn, nil
	}
	for id := range f.bonuses {
		if selector == fmt.Sprintf(f.p.Bonus.Row, id) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBackoffice) Screenshot(_ context.Context, _ string) ([]byte, error) {
	return []byte("png"), nil
}

func (f *fakeBackoffice) URL(_ context.Context) (string, error) {
	return f.url, nil
}

func (f *fakeBackoffice) ClearCookies(_ context.Context) error {
	f.loggedIn = false
	return nil
}

func (f *fakeBackoffice) Close() error {
	f.closed = true
	return nil
}

func (f *fakeBackoffice) clicked(selector string) int {
	n := 0
	for _, c := range f.clicks {
		if c == selector {
			n++
		}
	}
	return n
}

// scriptedSolver 依序回傳預設的驗證碼
type scriptedSolver struct {
	codes []string
	calls int
}

func (s *scriptedSolver) SolveImage(_ context.Context, _ []byte) (string, error) {
	code := s.codes[len(s.codes)-1]
	if s.calls < len(s.codes) {
		code = s.codes[s.calls]
	}
	s.calls++
	return code, nil
}
