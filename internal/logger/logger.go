// Package logger provides the process-wide structured logger.
//
// Output goes to stderr: stdout is reserved for the MCP protocol stream.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger = New(os.Stderr, os.Getenv("SHILAVAKYA_LOG_LEVEL"))

// New returns a JSON logger writing to out at the named level.
// Unknown or empty levels fall back to info.
func New(out io.Writer, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(ParseLevel(level))
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return l
}

// ParseLevel maps debug, info, warn and error to logrus levels.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// SetLevel changes the level of the shared logger.
func SetLevel(level string) {
	Logger.SetLevel(ParseLevel(level))
}

// WithFields creates a new entry with the given fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithField creates a new entry with a single field
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithError creates a new entry with an error field
func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}

func Info(msg string) {
	Logger.Info(msg)
}

func Error(msg string) {
	Logger.Error(msg)
}

func Debug(msg string) {
	Logger.Debug(msg)
}

func Warn(msg string) {
	Logger.Warn(msg)
}
