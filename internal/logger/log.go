// Package logger provides the shared logrus-backed logger. Logging is silent
// unless DEBUG_CFGTREE is set to debug, warn or error, or a caller raises the
// level with SetLevel.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// EnvVar enables logging when set
const EnvVar = "DEBUG_CFGTREE"

var (
	log  *Logger
	once sync.Once
)

type Logger struct {
	*logrus.Logger
}

type Entry struct {
	*logrus.Entry
}

func (l *Logger) WithField(key string, value interface{}) *Entry {
	return &Entry{l.Logger.WithField(key, value)}
}

func (l *Logger) WithFields(fields logrus.Fields) *Entry {
	return &Entry{l.Logger.WithFields(fields)}
}

func (l *Logger) WithError(err error) *Entry {
	return &Entry{l.Logger.WithError(err)}
}

// SetLevel parses level ("debug", "info", "warn", "error", "off") and enables
// output to stderr for anything other than "off".
func (l *Logger) SetLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "off", "none":
		l.SetOutput(io.Discard)
		l.Logger.SetLevel(logrus.PanicLevel)
		return
	case "debug":
		l.Logger.SetLevel(logrus.DebugLevel)
	case "info":
		l.Logger.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		l.Logger.SetLevel(logrus.WarnLevel)
	case "error":
		l.Logger.SetLevel(logrus.ErrorLevel)
	default:
		l.Logger.SetLevel(logrus.DebugLevel)
	}
	l.SetOutput(os.Stderr)
}

func initialize() {
	once.Do(func() {
		log = &Logger{logrus.New()}
		// We do not want to log by default
		log.SetOutput(io.Discard)
		log.Logger.SetLevel(logrus.PanicLevel)
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		if level := os.Getenv(EnvVar); level != "" {
			log.SetLevel(level)
			log.WithField("level", log.GetLevel()).Debug("Logging enabled.")
		}
	})
}

// GetLogger returns the initialized Logger
func GetLogger() *Logger {
	initialize()
	return log
}
