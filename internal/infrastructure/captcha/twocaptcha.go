package captcha

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
)

var _ ports.CaptchaSolver = (*TwoCaptcha)(nil)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("captcha solver not configured")

const notReady = "CAPCHA_NOT_READY"

// Config for the 2Captcha client.
type Config struct {
	APIKey       string
	BaseURL      string // default https://2captcha.com
	PollInterval time.Duration
	Timeout      time.Duration
}

// TwoCaptcha solves numeric image captchas through the 2Captcha in.php/res.php API.
type TwoCaptcha struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTwoCaptcha creates a solver. httpClient may be nil.
func NewTwoCaptcha(cfg Config, httpClient *http.Client, logger *slog.Logger) *TwoCaptcha {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://2captcha.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TwoCaptcha{cfg: cfg, httpClient: httpClient, logger: logger.With("component", "captcha")}
}

// SolveImage uploads the PNG and polls until the digits are ready.
// The platforms show 3-5 digit codes; five digits keep the last four.
func (c *TwoCaptcha) SolveImage(ctx context.Context, png []byte) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	id, err := c.upload(ctx, png)
	if err != nil {
		return "", err
	}

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("2captcha: waiting for %s: %w", id, ctx.Err())
		case <-ticker.C:
		}

		answer, ready, err := c.result(ctx, id)
		if err != nil {
			return "", err
		}
		if !ready {
			continue
		}

		digits := digitsOnly(answer)
		if len(digits) < 3 || len(digits) > 5 {
			return "", fmt.Errorf("2captcha: invalid answer %q", answer)
		}
		if len(digits) > 4 {
			digits = digits[len(digits)-4:]
		}
		return digits, nil
	}
}

func (c *TwoCaptcha) upload(ctx context.Context, png []byte) (string, error) {
	form := url.Values{
		"key":     {c.cfg.APIKey},
		"method":  {"base64"},
		"body":    {base64.StdEncoding.EncodeToString(png)},
		"numeric": {"1"},
		"min_len": {"3"},
		"max_len": {"5"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/in.php", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("2captcha upload: %w", err)
	}
	id, ok := strings.CutPrefix(body, "OK|")
	if !ok {
		return "", fmt.Errorf("2captcha upload failed: %s", body)
	}
	c.logger.Debug("Captcha uploaded", "captcha_id", id)
	return id, nil
}

func (c *TwoCaptcha) result(ctx context.Context, id string) (string, bool, error) {
	q := url.Values{"key": {c.cfg.APIKey}, "action": {"get"}, "id": {id}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/res.php?"+q.Encode(), nil)
	if err != nil {
		return "", false, err
	}
	body, err := c.do(req)
	if err != nil {
		return "", false, fmt.Errorf("2captcha result: %w", err)
	}
	if body == notReady {
		return "", false, nil
	}
	answer, ok := strings.CutPrefix(body, "OK|")
	if !ok {
		return "", false, fmt.Errorf("2captcha error: %s", body)
	}
	return answer, true, nil
}

func (c *TwoCaptcha) do(req *http.Request) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return strings.TrimSpace(string(data)), nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
