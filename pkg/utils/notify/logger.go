package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// DefaultName is the logger name used when none is configured.
const DefaultName = "azdhooks"

// nameField is the logrus field that carries the logger name.
const nameField = "logger"

// Logger writes symbol-prefixed, timestamped records to a single output.
// It is safe to copy; children created with Named share the output and level.
type Logger struct {
	entry *logrus.Entry
	color bool
}

// Option configures a Logger built by NewLogger.
type Option func(*options)

type options struct {
	out   io.Writer
	level logrus.Level
	name  string
	color *bool
	exit  func(int)
}

// WithOutput sets the destination of log records. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithLevel sets the minimum level that is written. Defaults to info.
func WithLevel(level logrus.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithName sets the logger name printed in each record.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithColor forces color on or off instead of detecting a terminal.
func WithColor(enabled bool) Option {
	return func(o *options) {
		o.color = &enabled
	}
}

// WithExitFunc replaces os.Exit for fatal write failures.
func WithExitFunc(exit func(int)) Option {
	return func(o *options) {
		if exit != nil {
			o.exit = exit
		}
	}
}

// NewLogger creates a Logger. Call it once at process start and pass the
// handle to the components that need it.
func NewLogger(opts ...Option) *Logger {
	cfg := options{
		out:   os.Stdout,
		level: logrus.InfoLevel,
		name:  DefaultName,
		exit:  os.Exit,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	base := logrus.New()
	base.ExitFunc = cfg.exit
	base.SetLevel(cfg.level)
	base.SetFormatter(&LineFormatter{})
	base.SetOutput(&fatalWriter{out: cfg.out, exit: base.Exit})

	return &Logger{
		entry: base.WithField(nameField, cfg.name),
		color: resolveColor(cfg),
	}
}

// ParseLevel converts a level name (debug, info, warning, error) to a logrus level.
func ParseLevel(name string) (logrus.Level, error) {
	level, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("parse log level: %w", err)
	}

	return level, nil
}

// Named returns a child logger that prints name instead of the parent's name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		entry: l.entry.WithField(nameField, name),
		color: l.color,
	}
}

// Name returns the name printed in each record.
func (l *Logger) Name() string {
	name, _ := l.entry.Data[nameField].(string)

	return name
}

// Info logs an informational message.
func (l *Logger) Info(message string) { l.write(InfoType, message) }

// Success logs a success message.
func (l *Logger) Success(message string) { l.write(SuccessType, message) }

// Warning logs a warning message.
func (l *Logger) Warning(message string) { l.write(WarningType, message) }

// Error logs an error message.
func (l *Logger) Error(message string) { l.write(ErrorType, message) }

// Start logs the opening line of a hook.
func (l *Logger) Start(message string) { l.write(StartType, message) }

// Debug logs a trace message that is hidden unless the level is debug.
func (l *Logger) Debug(message string) { l.write(DebugType, message) }

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...any) { l.Info(fmt.Sprintf(format, args...)) }

// Successf logs a formatted success message.
func (l *Logger) Successf(format string, args ...any) { l.Success(fmt.Sprintf(format, args...)) }

// Warningf logs a formatted warning message.
func (l *Logger) Warningf(format string, args ...any) { l.Warning(fmt.Sprintf(format, args...)) }

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...any) { l.Error(fmt.Sprintf(format, args...)) }

// Debugf logs a formatted trace message.
func (l *Logger) Debugf(format string, args ...any) { l.Debug(fmt.Sprintf(format, args...)) }

// Exception logs message at error level followed by the diagnostic trace on
// the lines below it.
func (l *Logger) Exception(message, trace string) {
	trace = strings.TrimRight(trace, "\n")
	if trace == "" {
		l.Error(message)

		return
	}

	l.Error(message + "\n" + trace)
}

func (l *Logger) write(msgType MessageType, content string) {
	config := getMessageConfig(msgType)
	if !l.entry.Logger.IsLevelEnabled(config.level) {
		return
	}

	text := config.symbol + indentMultilineContent(content, config.symbol)
	if l.color && config.symbol != "" {
		config.color.EnableColor()
		text = config.color.Sprint(text)
	}

	l.entry.Log(config.level, text)
}

// resolveColor decides whether records are colored. An explicit option wins,
// then NO_COLOR, then terminal detection on the output.
func resolveColor(cfg options) bool {
	if cfg.color != nil {
		return *cfg.color
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	file, ok := cfg.out.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd())) //nolint:gosec // fd fits in int on supported platforms
}
