package halftone

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetLevel(level Level)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// Named returns a logger for a subsystem that shares this one's output
	// and level.
	Named(name string) Logger
}

// Level is a log severity. The zero Level is LevelInfo.
type Level int

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

var levels = []Level{LevelDebug, LevelInfo, LevelWarn, LevelError}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel accepts the level names in any case.
func ParseLevel(s string) (Level, error) {
	for _, l := range levels {
		if strings.EqualFold(l.String(), strings.TrimSpace(s)) {
			return l, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// logSink is shared by a logger and everything Named from it.
type logSink struct {
	mu    sync.Mutex
	level Level
	out   *log.Logger
	err   *log.Logger
}

// DefaultLogger writes debug and info to one stream, warnings and errors to
// the other, each line tagged with the level and the subsystem name.
type DefaultLogger struct {
	sink   *logSink
	prefix string
}

// NewDefaultLogger logs to stdout and stderr.
func NewDefaultLogger(prefix string, level Level) *DefaultLogger {
	return NewLogger(os.Stdout, os.Stderr, prefix, level)
}

func NewLogger(out, err io.Writer, prefix string, level Level) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		sink: &logSink{
			level: level,
			out:   log.New(out, "", flags),
			err:   log.New(err, "", flags),
		},
		prefix: prefix,
	}
}

func (l *DefaultLogger) Level() Level {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

func (l *DefaultLogger) SetLevel(level Level) {
	l.sink.mu.Lock()
	l.sink.level = level
	l.sink.mu.Unlock()
}

func (l *DefaultLogger) DebugEnabled() bool { return l.Level() <= LevelDebug }

func (l *DefaultLogger) Named(name string) Logger {
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &DefaultLogger{sink: l.sink, prefix: prefix}
}

func (l *DefaultLogger) logf(level Level, format string, args ...any) {
	if level < l.Level() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = fmt.Sprintf("[%s] %s: %s", l.prefix, level, msg)
	} else {
		msg = fmt.Sprintf("%s: %s", level, msg)
	}
	dst := l.sink.out
	if level >= LevelWarn {
		dst = l.sink.err
	}
	dst.Print(msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any) { l.logf(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any) { l.logf(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

// LoggingModule installs a DefaultLogger as a resource. Debug lowers Level to
// LevelDebug; Output replaces both streams when set.
type LoggingModule struct {
	Prefix string
	Level  Level
	Debug  bool
	Output io.Writer
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	level := m.Level
	if m.Debug {
		level = LevelDebug
	}
	logger := NewDefaultLogger(m.Prefix, level)
	if m.Output != nil {
		logger = NewLogger(m.Output, m.Output, m.Prefix, level)
	}
	cmd.AddResources(logger)
}

// NopLogger discards everything. Systems asking for a Logger get one when no
// logger resource is installed.
type NopLogger struct{}

func NewNopLogger() Logger { return NopLogger{} }

func (NopLogger) DebugEnabled() bool { return false }
func (NopLogger) SetLevel(Level) {}
func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any) {}
func (NopLogger) Warnf(string, ...any) {}
func (NopLogger) Errorf(string, ...any) {}
func (n NopLogger) Named(string) Logger { return n }

// Logger returns the installed DefaultLogger, or a NopLogger.
func (app *App) Logger() Logger {
	if app == nil {
		return NopLogger{}
	}
	if l, ok := Resource[DefaultLogger](app); ok {
		return l
	}
	return NopLogger{}
}
