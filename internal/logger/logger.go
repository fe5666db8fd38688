package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/thushan/ladder/internal/util"
	"github.com/thushan/ladder/theme"
)

type Config struct {
	// Output receives terminal logs, stderr when nil so stdout stays free
	// for command output.
	Output     io.Writer
	Level      string
	LogDir     string
	Theme      string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	FileOutput bool
}

const (
	DefaultLogOutputName = "ladder.log"

	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"

	timestampKey    = "timestamp"
	timestampFormat = "2006-01-02 15:04:05"
)

// New builds the root logger. With FileOutput every record is also written
// as JSON to a rotating file under LogDir, and records logged through Trace
// stay out of the terminal.
func New(cfg *Config) (*slog.Logger, func(), error) {
	level := parseLevel(cfg.Level)

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	terminal := newTerminalHandler(out, level, theme.GetTheme(cfg.Theme))

	if !cfg.FileOutput {
		return slog.New(terminal), func() {}, nil
	}

	file, closeFile, err := newFileHandler(cfg, level)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(&routingHandler{terminal: terminal, file: file}), closeFile, nil
}

func newTerminalHandler(out io.Writer, level slog.Level, appTheme *theme.Theme) slog.Handler {
	if !util.ShouldUseColors() {
		return newJSONHandler(out, level)
	}

	plogger := pterm.DefaultLogger.
		WithLevel(ptermLevel(level)).
		WithWriter(out).
		WithFormatter(pterm.LogFormatterColorful).
		WithKeyStyles(map[string]pterm.Style{
			"level": *appTheme.Info,
			"msg":   *appTheme.Info,
			"time":  *appTheme.Muted,
		})
	return pterm.NewSlogHandler(plogger)
}

func newFileHandler(cfg *Config, level slog.Level) (slog.Handler, func(), error) {
	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, DefaultLogOutputName),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   true,
	}
	return newJSONHandler(rotator, level), func() { _ = rotator.Close() }, nil
}

func newJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: plainAttr,
	})
}

// plainAttr keeps JSON output readable: a flat timestamp, no colour codes
// left over from the pretty logger and values rendered as text.
func plainAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.String(timestampKey, a.Value.Time().Format(timestampFormat))
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if s := a.Value.String(); strings.ContainsRune(s, '\x1b') {
			return slog.String(a.Key, pterm.RemoveColorFromString(s))
		}
	case slog.KindAny:
		return slog.String(a.Key, fmt.Sprint(a.Value.Any()))
	}
	return a
}

func parseLevel(level string) slog.Level {
	if strings.EqualFold(level, LogLevelWarning) {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func ptermLevel(level slog.Level) pterm.LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return pterm.LogLevelTrace
	case level < slog.LevelWarn:
		return pterm.LogLevelInfo
	case level < slog.LevelError:
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelError
	}
}
