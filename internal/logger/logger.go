package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/oggyb/elite-connect/internal/config"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config describes the process logger. Service and Env are attached to every
// record when set; Output defaults to stdout.
type Config struct {
	Level      string
	Format     Format
	Component  string
	Service    string
	Env        string
	WithSource bool
	Output     io.Writer
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
	level  = new(slog.LevelVar)
)

// InitFromConfig builds the process logger from the app config.
func InitFromConfig(c *config.Config) {
	if c == nil {
		Init(nil)
		return
	}
	Init(&Config{
		Level:      c.Log.Level,
		Format:     Format(strings.ToLower(c.Log.Format)),
		Component:  c.Log.Component,
		Service:    c.App.Name,
		Env:        c.App.ENV,
		WithSource: c.Log.Source,
	})
}

// Init replaces the process logger and makes it the slog default. A nil
// config means text output at info level.
func Init(c *Config) {
	var lc Config
	if c != nil {
		lc = *c
	}
	if lc.Output == nil {
		lc.Output = os.Stdout
	}

	mu.Lock()
	defer mu.Unlock()

	level.Set(ParseLevel(lc.Level))
	logger = slog.New(newHandler(lc)).With(baseAttrs(lc)...)
	slog.SetDefault(logger)
}

func newHandler(lc Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: lc.WithSource,
	}
	if lc.Format == FormatJSON {
		return slog.NewJSONHandler(lc.Output, opts)
	}

	// shorter timestamps for humans
	opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey && len(groups) == 0 {
			return slog.String(slog.TimeKey, a.Value.Time().Format(time.DateTime))
		}
		return a
	}
	return slog.NewTextHandler(lc.Output, opts)
}

func baseAttrs(lc Config) []any {
	var attrs []any
	if lc.Component != "" {
		attrs = append(attrs, "component", lc.Component)
	}
	if lc.Service != "" {
		attrs = append(attrs, "service", lc.Service)
	}
	if lc.Env != "" {
		attrs = append(attrs, "env", lc.Env)
	}
	return attrs
}

// L returns the process logger, initializing the default one on first use.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}

	Init(nil)

	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLevel changes the minimum level of the running logger.
func SetLevel(s string) { level.Set(ParseLevel(s)) }

// Enabled reports whether records at s would be written.
func Enabled(s string) bool { return ParseLevel(s) >= level.Level() }

// StdLogger adapts the process logger for libraries that want a *log.Logger.
func StdLogger(lvl slog.Level) *log.Logger {
	return slog.NewLogLogger(L().Handler(), lvl)
}

func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

// ParseLevel maps a config string onto a slog level; unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
