package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 總配置結構
type Config struct {
	App            AppConfig                 `yaml:"app"`
	Redis          RedisGlobalConfig         `yaml:"redis"`
	Database       DatabaseConfig            `yaml:"database"`
	RabbitMQ       RabbitMQConfig            `yaml:"rabbitmq"`
	Queue          QueueConfig               `yaml:"queue"`
	Session        SessionConfig             `yaml:"session"`
	Captcha        CaptchaConfig             `yaml:"captcha"`
	Platforms      map[string]PlatformConfig `yaml:"platforms"`
	Classification []ClassificationRule      `yaml:"classification"`
	Services       map[string]string         `yaml:"services"`
}

type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	HTTPPort int    `yaml:"http_port"` // Ops HTTP (worker)
	GrpcPort int    `yaml:"grpc_port"` // Intake gRPC
}

// RedisGlobalConfig 共用連線設定，DB 依用途切分 (queue, ...)
type RedisGlobalConfig struct {
	Addr     string                   `yaml:"addr"`
	Password string                   `yaml:"password"`
	DB       map[string]RedisDBConfig `yaml:"db"`
}

type RedisDBConfig struct {
	Index int `yaml:"index"`
}

// DatabaseConfig 紀錄資料庫，driver 為 mysql、postgres 或 sqlite (本機開發)
type DatabaseConfig struct {
	Driver          string   `yaml:"driver"`
	DSN             string   `yaml:"dsn"` // 有值時優先於 Host/Port...
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	User            string   `yaml:"user"`
	Password        string   `yaml:"password"`
	DBName          string   `yaml:"dbname"`
	MaxOpenConns    int      `yaml:"max_open_conns"`
	MaxIdleConns    int      `yaml:"max_idle_conns"`
	ConnMaxLifetime Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool     `yaml:"auto_migrate"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"` // 空字串則使用 fallback publisher
	Exchange string `yaml:"exchange"`
}

type QueueConfig struct {
	Namespace      string   `yaml:"namespace"`
	Workers        int      `yaml:"workers"`
	MaxAttempts    int      `yaml:"max_attempts"`
	BackoffBase    Duration `yaml:"backoff_base"`
	BackoffMax     Duration `yaml:"backoff_max"`
	JobTimeout     Duration `yaml:"job_timeout"`
	LeaseTTL       Duration `yaml:"lease_ttl"`
	PollInterval   Duration `yaml:"poll_interval"`
	ReaperSchedule string   `yaml:"reaper_schedule"`
}

type SessionConfig struct {
	MaxLoginAttempts int      `yaml:"max_login_attempts"`
	LoginTimeout     Duration `yaml:"login_timeout"`
	LogoutTimeout    Duration `yaml:"logout_timeout"`
	ActionTimeout    Duration `yaml:"action_timeout"`
	CaptchaAttempts  int      `yaml:"captcha_attempts"`
	ChromePath       string   `yaml:"chrome_path"` // 空字串時由 chromedp 自動尋找
}

type CaptchaConfig struct {
	APIKey       string   `yaml:"api_key"`
	BaseURL      string   `yaml:"base_url"`
	PollInterval Duration `yaml:"poll_interval"`
	Timeout      Duration `yaml:"timeout"`
}

// PlatformConfig 單一平台設定，Headless 每個平台獨立切換
type PlatformConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BaseURL   string `yaml:"base_url"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Headless  *bool  `yaml:"headless"` // 未設定視為 true
	UserAgent string `yaml:"user_agent"`
}

// IsHeadless 未設定時預設 headless
func (p PlatformConfig) IsHeadless() bool {
	return p.Headless == nil || *p.Headless
}

// ClassificationRule 平台訊息分類規則 (不分大小寫的子字串比對)
type ClassificationRule struct {
	Match   string `yaml:"match"`
	Outcome string `yaml:"outcome"` // permanent | retryable | auth (登入時帳密被拒)
}

// Duration 讓 yaml 可以寫 "30s", "5m"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

// Load 讀取設定檔
// 先載入 .env (若存在)，再讀取 config/config.yaml，最後使用環境變數覆蓋
func Load(configPath ...string) (*Config, error) {
	// 1. 決定設定檔路徑
	dir := "./config"
	if len(configPath) > 0 {
		dir = configPath[0]
	}
	fullPath := filepath.Join(dir, "config.yaml")

	// 2. .env 只補上尚未設定的環境變數
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config

	// 3. 讀取 YAML 檔案
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at %s: %w", fullPath, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml at %s: %w", fullPath, err)
	}

	// 4. 環境變數覆蓋 (Environment Variable Override)
	overrideWithEnv(&cfg)

	// 5. 預設值與檢查
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 填入預設值並檢查必要欄位
func (c *Config) Validate() error {
	if c.App.Env == "" {
		c.App.Env = "local"
	}
	if c.App.HTTPPort == 0 {
		c.App.HTTPPort = 8080
	}
	if c.App.GrpcPort == 0 {
		c.App.GrpcPort = 8090
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "automation.events"
	}

	q := &c.Queue
	if q.Namespace == "" {
		q.Namespace = "automation"
	}
	if q.Workers <= 0 {
		q.Workers = 4
	}
	if q.MaxAttempts <= 0 {
		q.MaxAttempts = 10
	}
	setDefault(&q.BackoffBase, 25*time.Second)
	setDefault(&q.BackoffMax, 10*time.Minute)
	setDefault(&q.JobTimeout, 300*time.Second)
	setDefault(&q.LeaseTTL, 360*time.Second)
	setDefault(&q.PollInterval, 2*time.Second)
	if q.ReaperSchedule == "" {
		q.ReaperSchedule = "@every 30s"
	}
	if q.LeaseTTL.Duration <= q.JobTimeout.Duration {
		return fmt.Errorf("queue.lease_ttl (%s) must be longer than queue.job_timeout (%s)", q.LeaseTTL, q.JobTimeout)
	}

	s := &c.Session
	if s.MaxLoginAttempts <= 0 {
		s.MaxLoginAttempts = 3
	}
	if s.CaptchaAttempts <= 0 {
		s.CaptchaAttempts = 7
	}
	setDefault(&s.LoginTimeout, 60*time.Second)
	setDefault(&s.LogoutTimeout, 10*time.Second)
	setDefault(&s.ActionTimeout, 30*time.Second)

	if c.Captcha.BaseURL == "" {
		c.Captcha.BaseURL = "https://2captcha.com"
	}
	setDefault(&c.Captcha.PollInterval, 5*time.Second)
	setDefault(&c.Captcha.Timeout, 120*time.Second)

	for i, rule := range c.Classification {
		if strings.TrimSpace(rule.Match) == "" {
			return fmt.Errorf("classification rule %d: empty match", i)
		}
		switch rule.Outcome {
		case "permanent", "retryable", "auth":
		default:
			return fmt.Errorf("classification rule %d: outcome must be permanent, retryable or auth, got %q", i, rule.Outcome)
		}
	}

	if c.Services == nil {
		c.Services = make(map[string]string)
	}
	return nil
}

func setDefault(d *Duration, v time.Duration) {
	if d.Duration <= 0 {
		d.Duration = v
	}
}

func overrideWithEnv(cfg *Config) {
	// App
	if env := os.Getenv(EnvAppEnv); env != "" {
		cfg.App.Env = env
	}
	if val := os.Getenv(EnvHTTPPort); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.App.HTTPPort = p
		}
	}
	if val := os.Getenv(EnvGrpcPort); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.App.GrpcPort = p
		}
	}

	// Redis
	if val := os.Getenv(EnvRedisAddr); val != "" {
		cfg.Redis.Addr = val
	}
	if val := os.Getenv(EnvRedisPassword); val != "" {
		cfg.Redis.Password = val
	}

	// Database
	if val := os.Getenv(EnvDBDriver); val != "" {
		cfg.Database.Driver = val
	}
	if val := os.Getenv(EnvDBDSN); val != "" {
		cfg.Database.DSN = val
	}
	if val := os.Getenv(EnvDBHost); val != "" {
		cfg.Database.Host = val
	}
	if val := os.Getenv(EnvDBPort); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Database.Port = p
		}
	}
	if val := os.Getenv(EnvDBUser); val != "" {
		cfg.Database.User = val
	}
	if val := os.Getenv(EnvDBPassword); val != "" {
		cfg.Database.Password = val
	}
	if val := os.Getenv(EnvDBName); val != "" {
		cfg.Database.DBName = val
	}

	// RabbitMQ
	if val := os.Getenv(EnvRabbitMQURL); val != "" {
		cfg.RabbitMQ.URL = val
	}

	if val := os.Getenv(EnvChromePath); val != "" {
		cfg.Session.ChromePath = val
	}

	// Queue
	if val := os.Getenv(EnvWorkerCount); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Queue.Workers = n
		}
	}

	// Captcha
	if val := os.Getenv(EnvCaptchaAPIKey); val != "" {
		cfg.Captcha.APIKey = val
	}

	// Platforms
	if cfg.Platforms == nil {
		cfg.Platforms = make(map[string]PlatformConfig)
	}
	for name, keys := range platformEnvKeys {
		p := cfg.Platforms[name]
		if val := os.Getenv(keys.headless); val != "" {
			if b, ok := parseBool(val); ok {
				p.Headless = &b
			}
		}
		if val := os.Getenv(keys.username); val != "" {
			p.Username = val
		}
		if val := os.Getenv(keys.password); val != "" {
			p.Password = val
		}
		if val := os.Getenv(keys.baseURL); val != "" {
			p.BaseURL = val
		}
		if _, exists := cfg.Platforms[name]; exists || p.Username != "" {
			cfg.Platforms[name] = p
		}
	}

	// Services
	if cfg.Services == nil {
		cfg.Services = make(map[string]string)
	}
	if val := os.Getenv(EnvIntakeAddr); val != "" {
		cfg.Services["intake"] = val
	}
}

// parseBool 接受 1/0, true/false, yes/no, on/off
func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
