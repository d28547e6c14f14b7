package session_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/JoeShih716/go-platform-automation/internal/automation/session"
	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
	mock_ports "github.com/JoeShih716/go-platform-automation/test/mocks/core/ports"
)

// stubPage 只記錄 Close 次數
type stubPage struct {
	domain.Page
	closed int32
}

func (p *stubPage) Close() error {
	atomic.AddInt32(&p.closed, 1)
	return nil
}

type resolverFunc func(domain.Platform) (ports.PlatformAdapter, error)

func (f resolverFunc) Adapter(p domain.Platform) (ports.PlatformAdapter, error) { return f(p) }

var access = map[domain.Platform]session.Access{
	domain.PlatformMilkyway: {
		Credentials: domain.Credentials{Username: "agent", Password: "secret"},
		Mode:        domain.RunModeHeadless,
	},
}

func newManager(t *testing.T, launcher ports.BrowserLauncher, adapter ports.PlatformAdapter) *session.Manager {
	t.Helper()
	resolver := resolverFunc(func(p domain.Platform) (ports.PlatformAdapter, error) {
		if p != domain.PlatformMilkyway {
			return nil, ports.ErrNoAdapter
		}
		return adapter, nil
	})
	return session.NewManager(launcher, resolver, access, session.Config{
		MaxLoginAttempts: 3,
		LoginTimeout:     20 * time.Millisecond,
		LogoutTimeout:    time.Second,
	}, nil)
}

func TestManager_AcquireRelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mock_ports.NewMockBrowserLauncher(ctrl)
	adapter := mock_ports.NewMockPlatformAdapter(ctrl)
	page := &stubPage{}

	launcher.EXPECT().Open(gomock.Any(), domain.PlatformMilkyway, domain.RunModeHeadless).Return(page, nil)
	adapter.EXPECT().Login(gomock.Any(), page, access[domain.PlatformMilkyway].Credentials).Return(nil)
	adapter.EXPECT().Logout(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	m := newManager(t, launcher, adapter)
	lease, err := m.Acquire(context.Background(), domain.PlatformMilkyway)
	require.NoError(t, err)

	sess := lease.Session()
	assert.Equal(t, domain.LoginStateLoggedIn, sess.LoginState)
	assert.Equal(t, "agent", sess.Credential)
	assert.EqualValues(t, 1, m.Active())
	require.Len(t, m.Sessions(), 1)
	assert.Equal(t, domain.LoginStateLoggedIn, m.Sessions()[0].LoginState)

	lease.Release()
	lease.Release()
	lease.Abort()

	assert.EqualValues(t, 0, m.Active())
	assert.Empty(t, m.Sessions())
	assert.EqualValues(t, 1, atomic.LoadInt32(&page.closed))
}

func TestManager_LoginTimeoutExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mock_ports.NewMockBrowserLauncher(ctrl)
	adapter := mock_ports.NewMockPlatformAdapter(ctrl)
	page := &stubPage{}

	launcher.EXPECT().Open(gomock.Any(), gomock.Any(), gomock.Any()).Return(page, nil)
	adapter.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ domain.Page, _ domain.Credentials) error {
			<-ctx.Done()
			return ctx.Err()
		}).Times(3)

	m := newManager(t, launcher, adapter)
	lease, err := m.Acquire(context.Background(), domain.PlatformMilkyway)

	assert.Nil(t, lease)
	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 3, authErr.Attempts)
	assert.Equal(t, "login timeout", authErr.Reason)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.EqualValues(t, 0, m.Active())
	assert.EqualValues(t, 1, atomic.LoadInt32(&page.closed))
}

func TestManager_CredentialsRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mock_ports.NewMockBrowserLauncher(ctrl)
	adapter := mock_ports.NewMockPlatformAdapter(ctrl)

	launcher.EXPECT().Open(gomock.Any(), gomock.Any(), gomock.Any()).Return(&stubPage{}, nil)
	adapter.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.AuthError{Platform: domain.PlatformMilkyway, Reason: "Account or password error", CredentialsRejected: true}).
		Times(1)

	m := newManager(t, launcher, adapter)
	_, err := m.Acquire(context.Background(), domain.PlatformMilkyway)

	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.True(t, authErr.CredentialsRejected)
	assert.Equal(t, 1, authErr.Attempts)
	assert.Equal(t, "Account or password error", authErr.Reason)
	assert.EqualValues(t, 0, m.Active())
}

func TestManager_NoCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newManager(t, mock_ports.NewMockBrowserLauncher(ctrl), mock_ports.NewMockPlatformAdapter(ctrl))

	_, err := m.Acquire(context.Background(), domain.PlatformGameVault)

	assert.ErrorIs(t, err, ports.ErrNoCredentials)
}

func TestManager_LaunchFailureReleasesLock(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mock_ports.NewMockBrowserLauncher(ctrl)
	adapter := mock_ports.NewMockPlatformAdapter(ctrl)

	gomock.InOrder(
		launcher.EXPECT().Open(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("chrome not found")),
		launcher.EXPECT().Open(gomock.Any(), gomock.Any(), gomock.Any()).Return(&stubPage{}, nil),
	)
	adapter.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	m := newManager(t, launcher, adapter)
	_, err := m.Acquire(context.Background(), domain.PlatformMilkyway)
	require.Error(t, err)
	assert.EqualValues(t, 0, m.Active())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	lease, err := m.Acquire(ctx, domain.PlatformMilkyway)
	require.NoError(t, err)
	lease.Abort()
}

func TestManager_SerializesSameCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mock_ports.NewMockBrowserLauncher(ctrl)
	adapter := mock_ports.NewMockPlatformAdapter(ctrl)

	launcher.EXPECT().Open(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.Platform, domain.RunMode) (domain.Page, error) {
			return &stubPage{}, nil
		}).Times(2)
	adapter.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	m := newManager(t, launcher, adapter)
	first, err := m.Acquire(context.Background(), domain.PlatformMilkyway)
	require.NoError(t, err)

	acquired := make(chan ports.SessionLease, 1)
	go func() {
		l, err := m.Acquire(context.Background(), domain.PlatformMilkyway)
		if err == nil {
			acquired <- l
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire should wait for the first lease")
	case <-time.After(50 * time.Millisecond):
	}
	assert.EqualValues(t, 1, m.Active())

	first.Abort()

	select {
	case second := <-acquired:
		assert.EqualValues(t, 1, m.Active())
		second.Abort()
	case <-time.After(time.Second):
		t.Fatal("second acquire did not proceed after release")
	}
	assert.EqualValues(t, 0, m.Active())
}

func TestManager_AcquireCanceledWhileWaiting(t *testing.T) {
	ctrl := gomock.NewController(t)
	launcher := mock_ports.NewMockBrowserLauncher(ctrl)
	adapter := mock_ports.NewMockPlatformAdapter(ctrl)

	launcher.EXPECT().Open(gomock.Any(), gomock.Any(), gomock.Any()).Return(&stubPage{}, nil)
	adapter.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	m := newManager(t, launcher, adapter)
	held, err := m.Acquire(context.Background(), domain.PlatformMilkyway)
	require.NoError(t, err)
	defer held.Abort()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m.Acquire(ctx, domain.PlatformMilkyway)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
