package platform

import "github.com/JoeShih716/go-platform-automation/internal/core/domain"

// Profile 描述一個平台後台的網址與畫面元素 (CSS selector)。
// 平台改版時只需要調整 Profile，流程邏輯不變。
type Profile struct {
	Platform domain.Platform

	LoginPath   string
	HomeMarker  string // 登入成功後網址會包含此字串
	PlayersPath string
	HistoryPath string
	BonusPath   string

	Login   LoginSelectors
	Grid    GridSelectors
	Dialog  DialogSelectors
	Message MessageSelectors
	History HistorySelectors
	Bonus   BonusSelectors

	LogoutButton string
}

type LoginSelectors struct {
	Username     string
	Password     string
	CaptchaInput string
	CaptchaImage string // 空字串代表沒有驗證碼
	Submit       string
	Error        string
}

// GridSelectors 玩家列表 (搜尋後只看第一列)
type GridSelectors struct {
	Search       string
	SearchButton string
	Row          string
	AccountCell  string
	BalanceCell  string
	UpdateButton string
	Empty        string
}

// DialogSelectors 儲值/提款視窗
type DialogSelectors struct {
	Container   string
	RechargeTab string
	RedeemTab   string
	Amount      string
	Note        string
	Submit      string
}

type MessageSelectors struct {
	Box string
	OK  string
}

// HistorySelectors 儲值/提款紀錄，每列第一欄為平台單號
type HistorySelectors struct {
	Search       string
	SearchButton string
	Rows         string
}

// BonusSelectors 紅利列表；Row/Status/Claim 以 %q 帶入 bonus id
type BonusSelectors struct {
	Search       string
	SearchButton string
	Row          string
	Status       string
	Claim        string
	ClaimedText  string
}

// storeProfile Milkyway 與 Orion Stars 使用同一套 Store.aspx 後台
func storeProfile(p domain.Platform) Profile {
	return Profile{
		Platform:    p,
		LoginPath:   "/default.aspx",
		HomeMarker:  "store.aspx",
		PlayersPath: "/Module/AccountManager/AccountsList.aspx",
		HistoryPath: "/Module/AccountManager/RechargeRecord.aspx",
		BonusPath:   "/Module/Activity/BonusList.aspx",
		Login: LoginSelectors{
			Username:     "input#txtLoginName",
			Password:     "input#txtLoginPass",
			CaptchaInput: "input#txtVerifyCode",
			CaptchaImage: "img#ImageCheck",
			Submit:       "input#btnLogin",
			Error:        "span#lblMsg",
		},
		Grid: GridSelectors{
			Search:       "input[placeholder='ID or Account']",
			SearchButton: "input#btnSearch",
			Row:          "table#item tbody tr.rows",
			AccountCell:  "table#item tbody tr.rows:first-child td:nth-child(2)",
			BalanceCell:  "table#item tbody tr.rows:first-child td:nth-child(5)",
			UpdateButton: "table#item tbody tr.rows:first-child a.update",
			Empty:        "table#item tbody tr.empty",
		},
		Dialog: DialogSelectors{
			Container:   "div#dialogRecharge",
			RechargeTab: "div#dialogRecharge a#tabRecharge",
			RedeemTab:   "div#dialogRecharge a#tabRedeem",
			Amount:      "div#dialogRecharge input#txtAmount",
			Note:        "div#dialogRecharge textarea#txtRemark",
			Submit:      "div#dialogRecharge input#btnSubmit",
		},
		Message: MessageSelectors{
			Box: "div.layui-layer-dialog .layui-layer-content",
			OK:  "div.layui-layer-dialog a.layui-layer-btn0",
		},
		History: HistorySelectors{
			Search:       "input#txtAccounts",
			SearchButton: "input#btnSearch",
			Rows:         "table#item tbody tr.rows",
		},
		Bonus: BonusSelectors{
			Search:       "input#txtAccounts",
			SearchButton: "input#btnSearch",
			Row:          "table#item tr[data-bonus-id=%q]",
			Status:       "table#item tr[data-bonus-id=%q] td.status",
			Claim:        "table#item tr[data-bonus-id=%q] a.claim",
			ClaimedText:  "claimed",
		},
		LogoutButton: "a#btnLogout",
	}
}

// gameVaultProfile GameVault 為 Element UI 單頁後台
func gameVaultProfile() Profile {
	return Profile{
		Platform:    domain.PlatformGameVault,
		LoginPath:   "/login",
		HomeMarker:  "/home",
		PlayersPath: "/#/user/list",
		HistoryPath: "/#/user/rechargeRecord",
		BonusPath:   "/#/activity/bonus",
		Login: LoginSelectors{
			Username:     "form input[placeholder*='account' i]",
			Password:     "form input[type='password']",
			CaptchaInput: "form input[placeholder*='code' i]",
			CaptchaImage: "form .el-input-group__append img",
			Submit:       "form button.el-button--primary",
			Error:        ".el-message--error .el-message__content",
		},
		Grid: GridSelectors{
			Search:       ".filter-container input[placeholder*='account' i]",
			SearchButton: ".filter-container button.el-button--primary",
			Row:          ".el-table__body tr.el-table__row",
			AccountCell:  ".el-table__body tr.el-table__row:first-child td:nth-child(2) .cell",
			BalanceCell:  ".el-table__body tr.el-table__row:first-child td:nth-child(4) .cell",
			UpdateButton: ".el-table__body tr.el-table__row:first-child button.btn-recharge",
			Empty:        ".el-table__empty-block",
		},
		Dialog: DialogSelectors{
			Container:   ".el-dialog.recharge-dialog",
			RechargeTab: ".el-dialog.recharge-dialog .el-radio-button:nth-child(1)",
			RedeemTab:   ".el-dialog.recharge-dialog .el-radio-button:nth-child(2)",
			Amount:      ".el-dialog.recharge-dialog input[placeholder*='amount' i]",
			Note:        ".el-dialog.recharge-dialog textarea",
			Submit:      ".el-dialog.recharge-dialog .el-dialog__footer button.el-button--primary",
		},
		Message: MessageSelectors{
			Box: ".el-message .el-message__content, .el-message-box__message",
			OK:  ".el-message-box__btns button.el-button--primary",
		},
		History: HistorySelectors{
			Search:       ".filter-container input[placeholder*='account' i]",
			SearchButton: ".filter-container button.el-button--primary",
			Rows:         ".el-table__body tr.el-table__row",
		},
		Bonus: BonusSelectors{
			Search:       ".filter-container input[placeholder*='account' i]",
			SearchButton: ".filter-container button.el-button--primary",
			Row:          ".el-table__body tr[data-bonus-id=%q]",
			Status:       ".el-table__body tr[data-bonus-id=%q] .bonus-status",
			Claim:        ".el-table__body tr[data-bonus-id=%q] button.btn-claim",
			ClaimedText:  "claimed",
		},
		LogoutButton: ".navbar .logout",
	}
}

// Profiles 回傳所有內建平台的 Profile
func Profiles() map[domain.Platform]Profile {
	return map[domain.Platform]Profile{
		domain.PlatformGameVault:  gameVaultProfile(),
		domain.PlatformMilkyway:   storeProfile(domain.PlatformMilkyway),
		domain.PlatformOrionStars: storeProfile(domain.PlatformOrionStars),
	}
}
