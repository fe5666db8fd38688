package config

import (
	"github.com/thushan/ladder/internal/core/domain"
)

// Config holds all configuration for the application
type Config struct {
	Filename string        `mapstructure:"-"`
	Logging  LoggingConfig `mapstructure:"logging"`
	Audit    AuditConfig   `mapstructure:"audit"`
	Chain    ChainConfig   `mapstructure:"chain"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required,oneof=debug info warn warning error"`
	Theme      string `mapstructure:"theme" validate:"omitempty,oneof=default dark light"`
	Dir        string `mapstructure:"dir" validate:"required_if=FileOutput true"`
	MaxSize    int    `mapstructure:"max_size" validate:"min=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"min=0"`
	FileOutput bool   `mapstructure:"file_output"`
}

// AuditConfig controls the JSONL service record journal
type AuditConfig struct {
	Dir        string `mapstructure:"dir" validate:"required_if=Enabled true"`
	Enabled    bool   `mapstructure:"enabled"`
	LogRecords bool   `mapstructure:"log_records"`
}

// ChainConfig lists handlers from lowest to highest tier
type ChainConfig struct {
	Handlers []HandlerConfig `mapstructure:"handlers" yaml:"handlers" validate:"dive"`
}

// HandlerConfig describes one handler. Tier handlers list the exact
// severities they accept, range handlers use min and max.
type HandlerConfig struct {
	Name       string `mapstructure:"name" yaml:"name" validate:"required"`
	Kind       string `mapstructure:"kind" yaml:"kind,omitempty" validate:"omitempty,oneof=tier range"`
	Label      string `mapstructure:"label" yaml:"label,omitempty"`
	Severities []int  `mapstructure:"severities" yaml:"severities,omitempty,flow" validate:"dive,min=1,max=10"`
	Min        int    `mapstructure:"min" yaml:"min,omitempty" validate:"omitempty,min=1,max=10"`
	Max        int    `mapstructure:"max" yaml:"max,omitempty" validate:"omitempty,min=1,max=10"`
}

// Descriptor converts the config entry into what the handler factory
// builds from.
func (h HandlerConfig) Descriptor() domain.HandlerDescriptor {
	severities := make([]domain.Severity, 0, len(h.Severities))
	for _, s := range h.Severities {
		severities = append(severities, domain.Severity(s))
	}

	return domain.HandlerDescriptor{
		Name:       h.Name,
		Kind:       h.Kind,
		Label:      h.Label,
		Severities: severities,
		Range: domain.SeverityRange{
			Min: domain.Severity(h.Min),
			Max: domain.Severity(h.Max),
		},
	}
}

// Descriptors returns the chain's handlers in order
func (c ChainConfig) Descriptors() []domain.HandlerDescriptor {
	descs := make([]domain.HandlerDescriptor, 0, len(c.Handlers))
	for _, h := range c.Handlers {
		descs = append(descs, h.Descriptor())
	}
	return descs
}
