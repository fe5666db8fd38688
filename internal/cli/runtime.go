package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thushan/ladder/internal/app"
	"github.com/thushan/ladder/internal/config"
	"github.com/thushan/ladder/internal/logger"
)

// runtime is everything a command needs once config is loaded.
type runtime struct {
	cfg     *config.Config
	log     logger.StyledLogger
	app     *app.Application
	cleanup func()
}

func (r *runtime) Close() {
	if r.app != nil {
		r.app.Close()
	}
	if r.cleanup != nil {
		r.cleanup()
	}
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	o.applyOverrides(cfg)
	return cfg, nil
}

func (o *globalOptions) applyOverrides(cfg *config.Config) {
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.quiet {
		cfg.Logging.Level = logger.LogLevelError
	}
}

// bootstrap loads config, sets up logging to the command's stderr and
// builds the application. Callers must Close the runtime.
func (o *globalOptions) bootstrap(cmd *cobra.Command) (*runtime, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return o.bootstrapWith(cmd, cfg)
}

func (o *globalOptions) bootstrapWith(cmd *cobra.Command, cfg *config.Config) (*runtime, error) {
	logInstance, styledLogger, cleanup, err := logger.NewWithTheme(app.LoggerConfig(cfg, cmd.ErrOrStderr()))
	if err != nil {
		return nil, fmt.Errorf("failed to initialise logger: %w", err)
	}
	slog.SetDefault(logInstance)

	styledLogger.Debug("Configuration loaded",
		"file", cfg.Filename,
		"handlers", len(cfg.Chain.Handlers),
		"audit", cfg.Audit.Enabled)

	application, err := app.New(cfg, styledLogger)
	if err != nil {
		cleanup()
		return nil, err
	}

	return &runtime{
		cfg:     cfg,
		log:     styledLogger,
		app:     application,
		cleanup: cleanup,
	}, nil
}
