package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/thushan/ladder/internal/adapter/audit"
	"github.com/thushan/ladder/internal/adapter/escalation"
	"github.com/thushan/ladder/internal/adapter/handler"
	"github.com/thushan/ladder/internal/adapter/stats"
	"github.com/thushan/ladder/internal/config"
	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/core/ports"
	"github.com/thushan/ladder/internal/logger"
	"github.com/thushan/ladder/pkg/eventbus"
)

// Application owns one active chain and the sinks every dispatch reports
// to. The chain can be replaced at any time; dispatches already walking the
// old chain finish on it.
type Application struct {
	config     *config.Config
	logger     logger.StyledLogger
	builder    *escalation.Builder
	dispatcher *escalation.Dispatcher
	stats      *stats.Collector
	events     *eventbus.EventBus[domain.DispatchEvent]
	journal    *audit.Journal
	chain      atomic.Pointer[escalation.Chain]
	configMu   sync.RWMutex
}

func New(cfg *config.Config, log logger.StyledLogger) (*Application, error) {
	factory := handler.NewFactory()
	collector := stats.NewCollector(log)
	events := eventbus.New[domain.DispatchEvent]()

	var recorders []ports.ServiceRecorder
	var journal *audit.Journal
	if cfg.Audit.Enabled {
		journal = audit.NewJournal(cfg.Audit.Dir, log)
		recorders = append(recorders, journal)
	}
	if cfg.Audit.LogRecords {
		recorders = append(recorders, audit.NewLogRecorder(log))
	}

	var recorder ports.ServiceRecorder
	if len(recorders) > 0 {
		recorder = audit.NewMultiRecorder(recorders...)
	}

	app := &Application{
		config:     cfg,
		logger:     log,
		builder:    escalation.NewBuilder(factory, log),
		dispatcher: escalation.NewDispatcher(recorder, collector, events, log),
		stats:      collector,
		events:     events,
		journal:    journal,
	}

	chain, err := app.builder.BuildFromDescriptors(cfg.Chain.Descriptors())
	if err != nil {
		events.Shutdown()
		return nil, fmt.Errorf("failed to build escalation chain: %w", err)
	}
	app.chain.Store(chain)

	return app, nil
}

// Dispatch submits req to whichever chain is active right now.
func (a *Application) Dispatch(ctx context.Context, req domain.Request) domain.Outcome {
	return a.dispatcher.Dispatch(ctx, a.chain.Load(), req)
}

// Reload builds a chain from cfg and swaps it in. On error the active
// chain is untouched. Logging and audit settings only apply on restart.
func (a *Application) Reload(cfg *config.Config) error {
	chain, err := a.builder.BuildFromDescriptors(cfg.Chain.Descriptors())
	if err != nil {
		a.logger.Error("Rejected chain reload, keeping current chain", "error", err)
		return err
	}

	previous := a.chain.Swap(chain)
	a.setConfig(cfg)

	a.logger.InfoWithCount("Reloaded escalation chain", chain.Len(),
		"previous", previous.Len(),
		"handlers", chain.Names())
	return nil
}

func (a *Application) Chain() *escalation.Chain {
	return a.chain.Load()
}

func (a *Application) Stats() ports.StatsCollector {
	return a.stats
}

func (a *Application) Events() *eventbus.EventBus[domain.DispatchEvent] {
	return a.events
}

// Journal is nil unless audit is enabled.
func (a *Application) Journal() *audit.Journal {
	return a.journal
}

func (a *Application) Config() *config.Config {
	a.configMu.RLock()
	defer a.configMu.RUnlock()
	return a.config
}

func (a *Application) setConfig(cfg *config.Config) {
	a.configMu.Lock()
	defer a.configMu.Unlock()
	a.config = cfg
}

func (a *Application) Close() {
	a.events.Shutdown()
}

// LoggerConfig maps the logging section onto the logger's own config.
func LoggerConfig(cfg *config.Config, out io.Writer) *logger.Config {
	return &logger.Config{
		Output:     out,
		Level:      cfg.Logging.Level,
		Theme:      cfg.Logging.Theme,
		LogDir:     cfg.Logging.Dir,
		FileOutput: cfg.Logging.FileOutput,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
	}
}
