package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
)

// Access 平台的登入帳密與瀏覽器模式
type Access struct {
	Credentials domain.Credentials
	Mode        domain.RunMode
}

// Config Session Manager 設定
type Config struct {
	MaxLoginAttempts int
	LoginTimeout     time.Duration // 單次登入嘗試的上限
	LogoutTimeout    time.Duration
}

// SessionInfo 會話快照 (維運查詢用)
type SessionInfo struct {
	ID         string            `json:"id"`
	Platform   domain.Platform   `json:"platform"`
	Credential string            `json:"credential"`
	Mode       string            `json:"mode"`
	LoginState domain.LoginState `json:"login_state"`
	OpenedAt   time.Time         `json:"opened_at"`
}

// Manager 負責平台瀏覽器會話的開啟、登入與回收
// 它是 Thread-Safe 的；同一組帳密同時只會有一個會話 (平台會踢掉重複登入)。
type Manager struct {
	launcher ports.BrowserLauncher
	adapters ports.AdapterResolver
	access   map[domain.Platform]Access
	cfg      Config
	logger   *slog.Logger

	locks    sync.Map // Map[string]chan struct{}，key 為 platform:username
	sessions sync.Map // Map[string]*entry
	count    int64    // 開啟中的瀏覽器 context 數量
}

var _ ports.SessionManager = (*Manager)(nil)

type entry struct {
	sess  *domain.PlatformSession
	mu    sync.Mutex
	state domain.LoginState
}

func (e *entry) setState(s domain.LoginState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	e.sess.LoginState = s
}

func (e *entry) info() SessionInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SessionInfo{
		ID:         e.sess.ID,
		Platform:   e.sess.Platform,
		Credential: e.sess.Credential,
		Mode:       e.sess.Mode.String(),
		LoginState: e.state,
		OpenedAt:   e.sess.OpenedAt,
	}
}

// NewManager 建立新的 Session 管理器
//
// 參數:
//
//	launcher: ports.BrowserLauncher - 開啟瀏覽器分頁
//	adapters: ports.AdapterResolver - 平台 Adapter (負責登入/登出流程)
//	access: map[domain.Platform]Access - 各平台帳密
//	cfg: Config - 登入重試設定
//	logger: *slog.Logger - 日誌
func NewManager(launcher ports.BrowserLauncher, adapters ports.AdapterResolver, access map[domain.Platform]Access, cfg Config, logger *slog.Logger) *Manager {
	if cfg.MaxLoginAttempts <= 0 {
		cfg.MaxLoginAttempts = 3
	}
	if cfg.LoginTimeout <= 0 {
		cfg.LoginTimeout = 60 * time.Second
	}
	if cfg.LogoutTimeout <= 0 {
		cfg.LogoutTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		launcher: launcher,
		adapters: adapters,
		access:   access,
		cfg:      cfg,
		logger:   logger.With("component", "session_manager"),
	}
}

// Acquire 開啟瀏覽器並登入，回傳的 lease 必須 Release 或 Abort
//
// 同一組帳密的呼叫會依序排隊；登入失敗時會在 MaxLoginAttempts 內重試，
// 用盡後回傳 *domain.AuthError 並關閉瀏覽器。
func (m *Manager) Acquire(ctx context.Context, platform domain.Platform) (ports.SessionLease, error) {
	acc, ok := m.access[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrNoCredentials, platform)
	}
	adapter, err := m.adapters.Adapter(platform)
	if err != nil {
		return nil, err
	}

	lock := m.lockFor(platform, acc.Credentials.Username)
	select {
	case lock <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	page, err := m.launcher.Open(ctx, platform, acc.Mode)
	if err != nil {
		<-lock
		return nil, fmt.Errorf("open browser for %s: %w", platform, err)
	}
	atomic.AddInt64(&m.count, 1)

	e := &entry{sess: domain.NewPlatformSession(uuid.NewString(), platform, acc.Credentials.Username, acc.Mode, page)}
	e.setState(domain.LoginStateLoggingIn)
	m.sessions.Store(e.sess.ID, e)
	l := &lease{manager: m, entry: e, adapter: adapter, lock: lock}

	log := m.logger.With("platform", platform.String(), "session_id", e.sess.ID)

	var lastErr error
	attempts := 0
	for attempts < m.cfg.MaxLoginAttempts {
		attempts++
		loginCtx, cancel := context.WithTimeout(ctx, m.cfg.LoginTimeout)
		err := adapter.Login(loginCtx, page, acc.Credentials)
		cancel()
		if err == nil {
			e.setState(domain.LoginStateLoggedIn)
			log.Info("session logged in", "attempts", attempts, "mode", acc.Mode.String())
			return l, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			l.Abort()
			return nil, ctx.Err()
		}
		log.Warn("login attempt failed", "attempt", attempts, "error", err)

		var authErr *domain.AuthError
		if errors.As(err, &authErr) && authErr.CredentialsRejected {
			break
		}
	}

	l.Abort()
	authErr := &domain.AuthError{Platform: platform, Attempts: attempts, Reason: "login failed", Err: lastErr}
	var inner *domain.AuthError
	if errors.As(lastErr, &inner) {
		authErr.Reason = inner.Reason
		authErr.CredentialsRejected = inner.CredentialsRejected
		authErr.Err = inner.Err
	} else if errors.Is(lastErr, context.DeadlineExceeded) {
		authErr.Reason = "login timeout"
	}
	log.Error("login attempts exhausted", "attempts", attempts, "error", authErr)
	return nil, authErr
}

// Active 取得目前開啟中的瀏覽器 context 數量
func (m *Manager) Active() int64 {
	return atomic.LoadInt64(&m.count)
}

// Sessions 目前所有會話的快照 (依開啟時間排序)
func (m *Manager) Sessions() []SessionInfo {
	var out []SessionInfo
	m.sessions.Range(func(_, value any) bool {
		out = append(out, value.(*entry).info())
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.Before(out[j].OpenedAt) })
	return out
}

func (m *Manager) lockFor(platform domain.Platform, username string) chan struct{} {
	key := platform.String() + ":" + username
	val, _ := m.locks.LoadOrStore(key, make(chan struct{}, 1))
	return val.(chan struct{})
}

// lease 實作 ports.SessionLease
type lease struct {
	manager *Manager
	entry   *entry
	adapter ports.PlatformAdapter
	lock    chan struct{}
	once    sync.Once
}

func (l *lease) Session() *domain.PlatformSession {
	return l.entry.sess
}

// Release 已登入時先登出，再關閉瀏覽器
func (l *lease) Release() {
	l.once.Do(func() {
		if l.entry.info().LoginState == domain.LoginStateLoggedIn {
			ctx, cancel := context.WithTimeout(context.Background(), l.manager.cfg.LogoutTimeout)
			if err := l.adapter.Logout(ctx, l.entry.sess); err != nil {
				l.manager.logger.Warn("logout failed", "session_id", l.entry.sess.ID, "error", err)
			}
			cancel()
		}
		l.close()
	})
}

// Abort 不登出，直接關閉瀏覽器
func (l *lease) Abort() {
	l.once.Do(l.close)
}

func (l *lease) close() {
	l.entry.setState(domain.LoginStateLoggedOut)
	if err := l.entry.sess.Page.Close(); err != nil {
		l.manager.logger.Warn("close browser failed", "session_id", l.entry.sess.ID, "error", err)
	}
	l.manager.sessions.Delete(l.entry.sess.ID)
	atomic.AddInt64(&l.manager.count, -1)
	<-l.lock
}
