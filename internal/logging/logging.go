// Package logging wraps logrus with the small level vocabulary and
// pretty text formatter the rest of the module uses, so call sites
// never import logrus directly.
package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level is the module's own level vocabulary, kept distinct from
// logrus.Level so the rest of the codebase never needs to import logrus.
type Level int

const (
	Error Level = iota
	Warn
	Info
	Debug
)

func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warn:
		return "warn"
	case Info:
		return "info"
	case Debug:
		return "debug"
	default:
		return "info"
	}
}

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case Error:
		return logrus.ErrorLevel
	case Warn:
		return logrus.WarnLevel
	case Debug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel parses a level name, defaulting to Info on an empty string.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return Debug, nil
	case "", "info":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	default:
		return Info, fmt.Errorf("logging: invalid level %q", level)
	}
}

// Fields is a map of structured logging fields, mirroring logrus.Fields.
type Fields map[string]interface{}

// Logger is the structured logger every component is handed. It never
// panics or exits the process on its own.
type Logger struct {
	entry *logrus.Entry
}

// New builds a Logger at the given level, writing format "text",
// "json", or "json-pretty" (default "json").
func New(level Level, format string) *Logger {
	base := logrus.New()
	base.SetLevel(level.logrusLevel())
	base.SetFormatter(formatterFor(format))
	return &Logger{entry: logrus.NewEntry(base)}
}

func formatterFor(format string) logrus.Formatter {
	switch format {
	case "text":
		return &prettyFormatter{}
	case "json-pretty":
		return &logrus.JSONFormatter{PrettyPrint: true}
	default:
		return &logrus.JSONFormatter{}
	}
}

// WithFields returns a derived Logger carrying extra structured fields.
func (l *Logger) WithFields(fields Fields) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *Logger) Debug(msg string) { l.entry.Debug(msg) }
func (l *Logger) Info(msg string)  { l.entry.Info(msg) }
func (l *Logger) Warn(msg string)  { l.entry.Warn(msg) }
func (l *Logger) Error(msg string) { l.entry.Error(msg) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// prettyFormatter is a simple human-oriented alternative to
// logrus.TextFormatter: one line for the message, then each field
// indented on its own line.
type prettyFormatter struct{}

func (p *prettyFormatter) Format(e *logrus.Entry) ([]byte, error) {
	b := new(bytes.Buffer)
	level := strings.ToUpper(e.Level.String())
	fmt.Fprintf(b, "[%s] %s\n", level, e.Message)
	for k, v := range e.Data {
		jsonVal, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(b, "  %s = %s\n", k, jsonVal)
	}
	return b.Bytes(), nil
}
