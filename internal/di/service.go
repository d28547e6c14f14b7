package di

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	intake "github.com/JoeShih716/go-platform-automation/internal/app/intake/service"
	"github.com/JoeShih716/go-platform-automation/internal/app/worker/service"
	"github.com/JoeShih716/go-platform-automation/internal/automation/classify"
	"github.com/JoeShih716/go-platform-automation/internal/automation/platform"
	"github.com/JoeShih716/go-platform-automation/internal/automation/report"
	"github.com/JoeShih716/go-platform-automation/internal/automation/session"
	"github.com/JoeShih716/go-platform-automation/internal/config"
	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
	"github.com/JoeShih716/go-platform-automation/internal/infrastructure/browser"
	"github.com/JoeShih716/go-platform-automation/internal/infrastructure/captcha"
	"github.com/JoeShih716/go-platform-automation/internal/infrastructure/events"
	"github.com/JoeShih716/go-platform-automation/pkg/rabbitmq"
)

// ProvideEventPublisher connects to RabbitMQ, or falls back to a log-only publisher
// when no url is configured or the broker is unreachable
func ProvideEventPublisher(cfg *config.Config, logger *slog.Logger) (ports.EventPublisher, func()) {
	var producer rabbitmq.Publisher = &rabbitmq.FallbackProducer{Logger: logger}
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewProducer(cfg.RabbitMQ.URL, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, outcome events disabled", "error", err)
		} else {
			producer = p
		}
	}
	return events.NewOutcomePublisher(producer, cfg.RabbitMQ.Exchange), producer.Close
}

// ProvideReporter creates the result reporter
func ProvideReporter(store ports.RecordStore, publisher ports.EventPublisher, logger *slog.Logger) *report.Reporter {
	return report.NewReporter(store, publisher, logger)
}

// ProvideClassifier builds the outcome classifier from config rules (custom first)
func ProvideClassifier(cfg *config.Config) (*classify.Classifier, error) {
	rules := make([]classify.Rule, 0, len(cfg.Classification))
	for _, r := range cfg.Classification {
		outcome, err := classify.ParseOutcome(r.Outcome)
		if err != nil {
			return nil, err
		}
		rules = append(rules, classify.Rule{Match: r.Match, Outcome: outcome})
	}
	return classify.New(rules)
}

// ProvideCaptchaSolver returns nil when no API key is configured
func ProvideCaptchaSolver(cfg *config.Config, logger *slog.Logger) ports.CaptchaSolver {
	if cfg.Captcha.APIKey == "" {
		logger.Warn("CAPTCHA_API_KEY not set, captcha login disabled")
		return nil
	}
	return captcha.NewTwoCaptcha(captcha.Config{
		APIKey:       cfg.Captcha.APIKey,
		BaseURL:      cfg.Captcha.BaseURL,
		PollInterval: cfg.Captcha.PollInterval.Duration,
		Timeout:      cfg.Captcha.Timeout.Duration,
	}, &http.Client{Timeout: 30 * time.Second}, logger)
}

// enabledPlatforms 解析設定中啟用的平台
func enabledPlatforms(cfg *config.Config) (map[domain.Platform]config.PlatformConfig, error) {
	out := make(map[domain.Platform]config.PlatformConfig, len(cfg.Platforms))
	for name, pc := range cfg.Platforms {
		if !pc.Enabled {
			continue
		}
		p, err := domain.ParsePlatform(name)
		if err != nil {
			return nil, fmt.Errorf("platforms.%s: %w", name, err)
		}
		out[p] = pc
	}
	return out, nil
}

// ProvidePlatformRegistry resolves the adapters once at startup
func ProvidePlatformRegistry(cfg *config.Config, solver ports.CaptchaSolver, classifier *classify.Classifier, logger *slog.Logger) (*platform.Registry, error) {
	enabled, err := enabledPlatforms(cfg)
	if err != nil {
		return nil, err
	}
	baseURLs := make(map[domain.Platform]string, len(enabled))
	for p, pc := range enabled {
		baseURLs[p] = pc.BaseURL
	}
	opts := platform.DefaultOptions()
	opts.ActionTimeout = cfg.Session.ActionTimeout.Duration
	opts.CaptchaAttempts = cfg.Session.CaptchaAttempts
	return platform.Build(baseURLs, solver, classifier, opts, logger)
}

// ProvideSessionManager creates the chromedp launcher and the browser session manager
func ProvideSessionManager(cfg *config.Config, adapters ports.AdapterResolver, logger *slog.Logger) (*session.Manager, error) {
	enabled, err := enabledPlatforms(cfg)
	if err != nil {
		return nil, err
	}
	access := make(map[domain.Platform]session.Access, len(enabled))
	userAgents := make(map[domain.Platform]string, len(enabled))
	for p, pc := range enabled {
		mode := domain.RunModeHeadless
		if !pc.IsHeadless() {
			mode = domain.RunModeHeaded
		}
		if pc.Username != "" {
			access[p] = session.Access{
				Credentials: domain.Credentials{Username: pc.Username, Password: pc.Password},
				Mode:        mode,
			}
		}
		userAgents[p] = pc.UserAgent
	}

	launcher := browser.NewLauncher(userAgents, cfg.Session.ChromePath, logger)
	return session.NewManager(launcher, adapters, access, session.Config{
		MaxLoginAttempts: cfg.Session.MaxLoginAttempts,
		LoginTimeout:     cfg.Session.LoginTimeout.Duration,
		LogoutTimeout:    cfg.Session.LogoutTimeout.Duration,
	}, logger), nil
}

// ProvideWorkerService assembles the worker pool
func ProvideWorkerService(cfg *config.Config, queue ports.JobQueue, sessions ports.SessionManager, adapters ports.AdapterResolver, reporter ports.ResultReporter, logger *slog.Logger) *service.WorkerService {
	q := cfg.Queue
	return service.NewWorkerService(queue, sessions, adapters, reporter, service.Config{
		Workers:      q.Workers,
		MaxAttempts:  q.MaxAttempts,
		BackoffBase:  q.BackoffBase.Duration,
		BackoffMax:   q.BackoffMax.Duration,
		JobTimeout:   q.JobTimeout.Duration,
		PollInterval: q.PollInterval.Duration,
	}, logger)
}

// ProvideIntakeService creates the job intake service
func ProvideIntakeService(queue ports.JobQueue, store ports.RecordStore, reporter ports.ResultReporter, logger *slog.Logger) *intake.IntakeService {
	return intake.NewIntakeService(queue, store, reporter, logger)
}
