package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-platform-automation/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoad_DefaultsAndEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
app:
  name: worker
database:
  driver: mysql
platforms:
  milkyway:
    enabled: true
    base_url: https://mw.example
queue:
  job_timeout: 2m
classification:
  - match: "player locked"
    outcome: permanent
  - match: "agent suspended"
    outcome: auth
`)
	t.Setenv(config.EnvDBDriver, "sqlite")
	t.Setenv("MW_HEADLESS", "false")
	t.Setenv("MW_USERNAME", "agent01")
	t.Setenv("GV_USERNAME", "gvagent")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "automation", cfg.Queue.Namespace)
	assert.Equal(t, 10, cfg.Queue.MaxAttempts)
	assert.Equal(t, 25*time.Second, cfg.Queue.BackoffBase.Duration)
	assert.Equal(t, 2*time.Minute, cfg.Queue.JobTimeout.Duration)
	assert.Equal(t, 3, cfg.Session.MaxLoginAttempts)
	assert.Equal(t, "automation.events", cfg.RabbitMQ.Exchange)

	mw := cfg.Platforms["milkyway"]
	assert.Equal(t, "agent01", mw.Username)
	assert.Equal(t, "https://mw.example", mw.BaseURL)
	assert.False(t, mw.IsHeadless())

	gv, ok := cfg.Platforms["gamevault"]
	require.True(t, ok, "platform with env credentials is added")
	assert.True(t, gv.IsHeadless())

	_, ok = cfg.Platforms["orionstars"]
	assert.False(t, ok)

	require.Len(t, cfg.Classification, 2)
	assert.Equal(t, "auth", cfg.Classification[1].Outcome)
	assert.Equal(t, "player locked", cfg.Classification[0].Match)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Unknown driver", "database:\n  driver: oracle\n"},
		{"Lease shorter than job timeout", "queue:\n  job_timeout: 5m\n  lease_ttl: 1m\n"},
		{"Bad classification outcome", "classification:\n  - match: busy\n    outcome: maybe\n"},
		{"Empty classification match", "classification:\n  - match: \"\"\n    outcome: permanent\n"},
		{"Bad duration", "queue:\n  job_timeout: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(config.EnvDBDriver, "")
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(t.TempDir())
	assert.Error(t, err)
}
