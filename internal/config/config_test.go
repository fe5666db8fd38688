package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thushan/ladder/internal/core/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ladder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.FileOutput)
	assert.False(t, cfg.Audit.Enabled)
	require.Len(t, cfg.Chain.Handlers, 3)
	assert.Equal(t, []string{"level1", "level2", "level3"}, []string{
		cfg.Chain.Handlers[0].Name, cfg.Chain.Handlers[1].Name, cfg.Chain.Handlers[2].Name,
	})
	assert.NoError(t, Validate(cfg))
}

func TestLoad_WithoutFile(t *testing.T) {
	t.Setenv(EnvConfigFile, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Filename)
	assert.Equal(t, DefaultConfig().Chain, cfg.Chain)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  file_output: true
  dir: /tmp/ladder-logs
audit:
  enabled: true
  dir: /tmp/ladder-audit
chain:
  handlers:
    - name: frontline
      severities: [1, 2]
    - name: escalations
      kind: range
      label: Escalations Team
      min: 3
      max: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Filename)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.FileOutput)
	assert.Equal(t, 100, cfg.Logging.MaxSize)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, "/tmp/ladder-audit", cfg.Audit.Dir)

	require.Len(t, cfg.Chain.Handlers, 2)
	first := cfg.Chain.Handlers[0]
	assert.Equal(t, "frontline", first.Name)
	assert.Empty(t, first.Label, "defaults must not leak into configured handlers")
	assert.Equal(t, []int{1, 2}, first.Severities)

	descs := cfg.Chain.Descriptors()
	require.Len(t, descs, 2)
	assert.Equal(t, []domain.Severity{1, 2}, descs[0].Severities)
	assert.Equal(t, domain.HandlerKindRange, descs[1].Kind)
	assert.Equal(t, domain.SeverityRange{Min: 3, Max: 10}, descs[1].Range)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LADDER_LOGGING_LEVEL", "warn")
	t.Setenv("LADDER_AUDIT_ENABLED", "true")
	path := writeConfig(t, "logging:\n  level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Audit.Enabled)
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	path := writeConfig(t, "chain:\n  handlers:\n    - name: solo\n      severities: [5]\n")
	t.Setenv(EnvConfigFile, path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Len(t, cfg.Chain.Handlers, 1)
	assert.Equal(t, "solo", cfg.Chain.Handlers[0].Name)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmptyChainIsValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, "chain:\n  handlers: []\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Chain.Handlers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad theme", func(c *Config) { c.Logging.Theme = "neon" }, "logging.theme"},
		{"file output without dir", func(c *Config) { c.Logging.FileOutput = true; c.Logging.Dir = "" }, "logging.dir"},
		{"audit without dir", func(c *Config) { c.Audit.Enabled = true; c.Audit.Dir = "" }, "audit.dir"},
		{"unnamed handler", func(c *Config) { c.Chain.Handlers[1].Name = "" }, "chain.handlers[1].name"},
		{"unknown kind", func(c *Config) { c.Chain.Handlers[0].Kind = "psychic" }, "chain.handlers[0].kind"},
		{"severity out of bounds", func(c *Config) { c.Chain.Handlers[0].Severities = []int{11} }, "chain.handlers[0].severities[0]"},
		{"tier without severities", func(c *Config) { c.Chain.Handlers[2].Severities = nil }, "chain.handlers[2].severities"},
		{"range without bounds", func(c *Config) {
			c.Chain.Handlers[0] = HandlerConfig{Name: "r", Kind: "range", Min: 2}
		}, "chain.handlers[0].min"},
		{"range inverted", func(c *Config) {
			c.Chain.Handlers[0] = HandlerConfig{Name: "r", Kind: "range", Min: 5, Max: 2}
		}, "chain.handlers[0].min"},
		{"duplicate names", func(c *Config) { c.Chain.Handlers[2].Name = "level1" }, "chain.handlers[2].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var cve *domain.ConfigValidationError
			require.True(t, errors.As(err, &cve), "got %T: %v", err, err)
			assert.Equal(t, tt.field, cve.Field)
			assert.NotEmpty(t, cve.Reason)
		})
	}
}

func TestLoadWithWatch_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "chain:\n  handlers:\n    - name: first\n      severities: [1]\n")

	var mu sync.Mutex
	var latest *Config
	cfg, err := LoadWithWatch(path, func(c *Config) {
		mu.Lock()
		latest = c
		mu.Unlock()
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", cfg.Chain.Handlers[0].Name)

	require.NoError(t, os.WriteFile(path, []byte("chain:\n  handlers:\n    - name: second\n      severities: [2]\n"), 0644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return latest != nil && len(latest.Chain.Handlers) == 1 && latest.Chain.Handlers[0].Name == "second"
	}, 5*time.Second, 20*time.Millisecond)
}
