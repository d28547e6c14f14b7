package domain

import (
	"fmt"
	"strings"
)

// Platform 代表一個只提供網頁後台的外部遊戲平台
type Platform string

const (
	PlatformGameVault  Platform = "gamevault"
	PlatformMilkyway   Platform = "milkyway"
	PlatformOrionStars Platform = "orionstars"
)

// platformAliases 允許後台人員以常見別名指定平台
var platformAliases = map[string]Platform{
	"gamevault":   PlatformGameVault,
	"game_vault":  PlatformGameVault,
	"gv":          PlatformGameVault,
	"milkyway":    PlatformMilkyway,
	"milky_way":   PlatformMilkyway,
	"mw":          PlatformMilkyway,
	"orionstars":  PlatformOrionStars,
	"orion_stars": PlatformOrionStars,
	"os":          PlatformOrionStars,
}

// Platforms 回傳所有支援的平台 (固定順序)
func Platforms() []Platform {
	return []Platform{PlatformGameVault, PlatformMilkyway, PlatformOrionStars}
}

// ParsePlatform 解析平台名稱 (不分大小寫，支援別名)
//
// 參數:
//
//	raw: string - 平台名稱或別名
//
// 回傳值:
//
//	Platform: 標準化後的平台
//	error: 不支援的平台回傳 ErrUnknownPlatform
func ParsePlatform(raw string) (Platform, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	if p, ok := platformAliases[key]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, raw)
}

func (p Platform) String() string {
	return string(p)
}

// RunMode 瀏覽器執行模式，由設定決定後明確傳入
type RunMode int

const (
	RunModeHeadless RunMode = iota
	RunModeHeaded
)

func (m RunMode) String() string {
	if m == RunModeHeaded {
		return "headed"
	}
	return "headless"
}

// Credentials 平台後台帳號
type Credentials struct {
	Username string
	Password string
}
