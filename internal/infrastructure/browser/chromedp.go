package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
)

// ensure interface compliance
var (
	_ ports.BrowserLauncher = (*Launcher)(nil)
	_ domain.Page           = (*Page)(nil)
)

// Launcher starts one Chrome process per page so that a session teardown
// never affects another platform's browser.
type Launcher struct {
	userAgents map[domain.Platform]string
	execPath   string
	logger     *slog.Logger
}

// NewLauncher creates a chromedp launcher. userAgents may be nil.
func NewLauncher(userAgents map[domain.Platform]string, execPath string, logger *slog.Logger) *Launcher {
	return &Launcher{
		userAgents: userAgents,
		execPath:   execPath,
		logger:     logger.With("component", "browser_launcher"),
	}
}

// Open allocates a browser and a tab. The browser lives until Page.Close,
// ctx only bounds the startup.
func (l *Launcher) Open(ctx context.Context, platform domain.Platform, mode domain.RunMode) (domain.Page, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", mode == domain.RunModeHeadless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1366, 900),
	)
	if ua := l.userAgents[platform]; ua != "" {
		opts = append(opts, chromedp.UserAgent(ua))
	}
	if l.execPath != "" {
		opts = append(opts, chromedp.ExecPath(l.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	page := &Page{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
	}

	// The first Run must use the tab context itself, a derived context
	// with a deadline would kill the browser when it expires.
	started := make(chan error, 1)
	go func() {
		started <- chromedp.Run(tabCtx, network.Enable())
	}()

	select {
	case err := <-started:
		if err != nil {
			_ = page.Close()
			return nil, fmt.Errorf("start browser for %s: %w", platform, err)
		}
	case <-ctx.Done():
		_ = page.Close()
		return nil, fmt.Errorf("start browser for %s: %w", platform, ctx.Err())
	}

	l.logger.Debug("Browser started", "platform", platform, "mode", mode.String())
	return page, nil
}

// Page is a chromedp tab. All selectors are CSS (chromedp.ByQuery).
type Page struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	closeOnce   sync.Once
}

// run executes actions on the tab bounded by ctx's deadline and cancellation.
func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.tabCtx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ctx.Err(), err)
	}
	return err
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.run(ctx, chromedp.Navigate(url))
}

func (p *Page) WaitVisible(ctx context.Context, selector string) error {
	return p.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (p *Page) SetValue(ctx context.Context, selector string, value string) error {
	return p.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
}

func (p *Page) Click(ctx context.Context, selector string) error {
	return p.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

func (p *Page) Text(ctx context.Context, selector string) (string, error) {
	var text string
	err := p.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery, chromedp.NodeVisible))
	return text, err
}

func (p *Page) TextAll(ctx context.Context, selector string) ([]string, error) {
	quoted, err := json.Marshal(selector)
	if err != nil {
		return nil, err
	}
	var texts []string
	script := fmt.Sprintf(`Array.from(document.querySelectorAll(%s)).map(e => (e.innerText || "").trim())`, quoted)
	err = p.run(ctx, chromedp.Evaluate(script, &texts))
	return texts, err
}

func (p *Page) Exists(ctx context.Context, selector string) (bool, error) {
	quoted, err := json.Marshal(selector)
	if err != nil {
		return false, err
	}
	var found bool
	script := fmt.Sprintf(`(() => { const el = document.querySelector(%s); return !!el && el.offsetParent !== null; })()`, quoted)
	err = p.run(ctx, chromedp.Evaluate(script, &found))
	return found, err
}

func (p *Page) Screenshot(ctx context.Context, selector string) ([]byte, error) {
	var buf []byte
	err := p.run(ctx, chromedp.Screenshot(selector, &buf, chromedp.ByQuery, chromedp.NodeVisible))
	return buf, err
}

func (p *Page) URL(ctx context.Context) (string, error) {
	var location string
	err := p.run(ctx, chromedp.Location(&location))
	return location, err
}

func (p *Page) ClearCookies(ctx context.Context) error {
	return p.run(ctx, network.ClearBrowserCookies())
}

// Close shuts the browser down. Safe to call more than once.
func (p *Page) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = chromedp.Cancel(p.tabCtx)
		p.tabCancel()
		p.allocCancel()
	})
	return err
}
