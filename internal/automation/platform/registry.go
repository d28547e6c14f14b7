package platform

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/JoeShih716/go-platform-automation/internal/automation/classify"
	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
)

// Registry 平台 -> Adapter 註冊表，啟動後唯讀
type Registry struct {
	adapters map[domain.Platform]ports.PlatformAdapter
}

var _ ports.AdapterResolver = (*Registry)(nil)

// NewRegistry 建立註冊表，同一平台重複註冊會回傳錯誤
func NewRegistry(adapters ...ports.PlatformAdapter) (*Registry, error) {
	r := &Registry{adapters: make(map[domain.Platform]ports.PlatformAdapter, len(adapters))}
	for _, a := range adapters {
		p := a.Platform()
		if _, exists := r.adapters[p]; exists {
			return nil, fmt.Errorf("duplicate adapter for platform %s", p)
		}
		r.adapters[p] = a
	}
	return r, nil
}

// Build 依各平台的後台網址建立內建 Adapter
//
// 參數:
//
//	baseURLs: map[domain.Platform]string - 啟用的平台與後台網址
//	solver: ports.CaptchaSolver - 驗證碼辨識
//	classifier: *classify.Classifier - 訊息分類
//	opts: Options - 等待時間設定
//	logger: *slog.Logger - 日誌
//
// 回傳值:
//
//	*Registry: 註冊表
//	error: 平台沒有對應的 Profile
func Build(baseURLs map[domain.Platform]string, solver ports.CaptchaSolver, classifier *classify.Classifier, opts Options, logger *slog.Logger) (*Registry, error) {
	profiles := Profiles()
	adapters := make([]ports.PlatformAdapter, 0, len(baseURLs))
	for p, baseURL := range baseURLs {
		profile, ok := profiles[p]
		if !ok {
			return nil, fmt.Errorf("%w: no profile for %s", domain.ErrUnknownPlatform, p)
		}
		if baseURL == "" {
			return nil, fmt.Errorf("platform %s: base url is empty", p)
		}
		adapters = append(adapters, NewAdapter(profile, baseURL, solver, classifier, opts, logger))
	}
	return NewRegistry(adapters...)
}

// Adapter 實作 ports.AdapterResolver
func (r *Registry) Adapter(p domain.Platform) (ports.PlatformAdapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrNoAdapter, p)
	}
	return a, nil
}

// Platforms 已註冊的平台 (排序後)
func (r *Registry) Platforms() []domain.Platform {
	out := make([]domain.Platform, 0, len(r.adapters))
	for p := range r.adapters {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
