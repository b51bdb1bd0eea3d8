package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	FormatPretty  = "pretty"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Logger wraps zerolog.Logger with additional context.
type Logger struct {
	logger  zerolog.Logger
	service string
}

// New creates a new logger instance with configuration.
func New(cfg *Config, serviceName string) *Logger {
	cfg.ApplyDefaults()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	output := outputWriter(cfg)

	var zl zerolog.Logger
	if isConsole(cfg.Format) {
		zl = newConsoleLogger(cfg, output, serviceName)
	} else {
		zl = zerolog.New(output)
		if cfg.Timestamp {
			zl = zl.With().Timestamp().Logger()
		}
	}

	return &Logger{
		logger:  zl.Level(level),
		service: serviceName,
	}
}

// NewDefault creates a console logger on stderr at info level.
func NewDefault(serviceName string) *Logger {
	return New(&Config{
		Level:     "info",
		Format:    FormatConsole,
		Output:    "stderr",
		Timestamp: true,
	}, serviceName)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		logger:  l.logger.With().Str(FieldComponent, name).Logger(),
		service: l.service,
	}
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zc := l.logger.With()
	for k, v := range fields {
		zc = zc.Interface(k, v)
	}
	return &Logger{logger: zc.Logger(), service: l.service}
}

// WithError returns a logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		logger:  l.logger.With().Err(err).Logger(),
		service: l.service,
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	event := l.logger.Debug()
	addFields(event, fields...)
	event.Msg(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	event := l.logger.Info()
	addFields(event, fields...)
	event.Msg(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	event := l.logger.Warn()
	addFields(event, fields...)
	event.Msg(msg)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	event := l.logger.Error()
	addFields(event, fields...)
	event.Msg(msg)
}

// --- internal helpers ---

func addFields(event *zerolog.Event, fields ...map[string]interface{}) {
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
}

func isConsole(format string) bool {
	f := strings.ToLower(format)
	return f == FormatConsole || f == FormatPretty || f == "text"
}

func outputWriter(cfg *Config) io.Writer {
	if cfg.Writer != nil {
		return cfg.Writer
	}
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		return os.Stdout
	default:
		return os.Stderr
	}
}

func newConsoleLogger(cfg *Config, output io.Writer, serviceName string) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor,
		FormatLevel: func(i interface{}) string {
			lvl := strings.ToUpper(fmt.Sprintf("%s", i))
			tag, color := levelTag(lvl)
			if cfg.NoColor || color == "" {
				return tag
			}
			return color + tag + "\033[0m"
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%s", i)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s=", i)
		},
		FormatFieldValue: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%s", i)
		},
	}
	if !cfg.Timestamp {
		cw.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	return zerolog.New(cw).With().Timestamp().Logger()
}

func levelTag(lvl string) (tag, color string) {
	switch lvl {
	case "DEBUG":
		return "[DBG]", "\033[36m"
	case "INFO":
		return "[INF]", "\033[32m"
	case "WARN":
		return "[WRN]", "\033[33m"
	case "ERROR":
		return "[ERR]", "\033[31m"
	case "FATAL":
		return "[FTL]", "\033[35m"
	default:
		return fmt.Sprintf("[%s]", lvl), ""
	}
}
