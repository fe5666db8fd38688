package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultConfigName = "config"
	DefaultLogDir     = "./logs"
	DefaultAuditDir   = "./audit"
	EnvPrefix         = "LADDER"
	EnvConfigFile     = "LADDER_CONFIG_FILE"
)

// DefaultConfig returns a configuration with sensible defaults: the
// classic three tier support desk where each level takes one severity.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Theme:      "default",
			Dir:        DefaultLogDir,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
		},
		Audit: AuditConfig{
			Enabled: false,
			Dir:     DefaultAuditDir,
		},
		Chain: ChainConfig{
			Handlers: []HandlerConfig{
				{Name: "level1", Kind: "tier", Label: "Level 1 Support", Severities: []int{1}},
				{Name: "level2", Kind: "tier", Label: "Level 2 Support", Severities: []int{2}},
				{Name: "level3", Kind: "tier", Label: "Level 3 Support", Severities: []int{3}},
			},
		},
	}
}

// Load reads configFile (or config.yaml from . and ./config, or the file
// named by LADDER_CONFIG_FILE) over the defaults, applies LADDER_ env
// overrides (including any from ./.env) and validates the result. A missing
// config file is fine.
func Load(configFile string) (*Config, error) {
	cfg, _, err := load(configFile)
	return cfg, err
}

// LoadWithWatch loads like Load and then calls onChange with every
// subsequent valid revision of the file. Invalid revisions go to onError
// and the previous config stays in effect.
func LoadWithWatch(configFile string, onChange func(*Config), onError func(error)) (*Config, error) {
	cfg, v, err := load(configFile)
	if err != nil {
		return nil, err
	}

	if v.ConfigFileUsed() == "" {
		return cfg, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		if err := v.ReadInConfig(); err != nil {
			if onError != nil {
				onError(fmt.Errorf("error re-reading config file %s: %w", e.Name, err))
			}
			return
		}
		updated, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onChange != nil {
			onChange(updated)
		}
	})
	v.WatchConfig()

	return cfg, nil
}

func load(configFile string) (*Config, *viper.Viper, error) {
	// A .env next to the binary may carry LADDER_ overrides; absent is fine.
	_ = godotenv.Load()

	v := newViper()

	if configFile == "" {
		configFile = os.Getenv(EnvConfigFile)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only sees keys viper already knows about, so register
	// every scalar. The handler list comes from the file or the default.
	defaults := DefaultConfig()
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.theme", defaults.Logging.Theme)
	v.SetDefault("logging.dir", defaults.Logging.Dir)
	v.SetDefault("logging.max_size", defaults.Logging.MaxSize)
	v.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	v.SetDefault("logging.max_age", defaults.Logging.MaxAge)
	v.SetDefault("logging.file_output", defaults.Logging.FileOutput)
	v.SetDefault("audit.enabled", defaults.Audit.Enabled)
	v.SetDefault("audit.dir", defaults.Audit.Dir)
	v.SetDefault("audit.log_records", defaults.Audit.LogRecords)

	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	// mapstructure merges into existing slice elements, so a configured
	// chain must start from nothing rather than from the default tiers.
	if v.IsSet("chain.handlers") {
		cfg.Chain.Handlers = nil
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Filename = v.ConfigFileUsed()

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
