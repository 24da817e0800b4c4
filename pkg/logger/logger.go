// Package logger provides component-tagged structured logging for tgrelay.
//
// Every call names the component that emits it ("relay", "telegram",
// "webhook", ...) and may carry a field map. The backend is logrus so the
// output format can be switched between text and JSON at startup.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

var (
	mu      sync.RWMutex
	current = INFO
	base    = newBase(os.Stderr, false)
)

func newBase(w io.Writer, jsonFormat bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	if jsonFormat {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// Configure replaces the output writer and format. Level is kept.
func Configure(w io.Writer, format string) {
	mu.Lock()
	defer mu.Unlock()
	base = newBase(w, strings.EqualFold(format, "json"))
}

func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	current = level
}

func GetLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// ParseLevel maps a case-insensitive level name to a LogLevel. Unknown names
// yield INFO.
func ParseLevel(name string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

func logMessage(level LogLevel, component, message string, fields map[string]any) {
	mu.RLock()
	l := base
	enabled := level >= current
	mu.RUnlock()
	if !enabled {
		return
	}

	entry := l.WithFields(logrus.Fields(fields))
	if component != "" {
		entry = entry.WithField("component", component)
	}

	switch level {
	case DEBUG:
		entry.Debug(message)
	case INFO:
		entry.Info(message)
	case WARN:
		entry.Warn(message)
	case ERROR:
		entry.Error(message)
	case FATAL:
		entry.Fatal(message)
	}
}

func Debug(message string) { logMessage(DEBUG, "", message, nil) }

func DebugC(component, message string) { logMessage(DEBUG, component, message, nil) }

func DebugCF(component, message string, fields map[string]any) {
	logMessage(DEBUG, component, message, fields)
}

func Info(message string) { logMessage(INFO, "", message, nil) }

func InfoC(component, message string) { logMessage(INFO, component, message, nil) }

func InfoCF(component, message string, fields map[string]any) {
	logMessage(INFO, component, message, fields)
}

func WarnC(component, message string) { logMessage(WARN, component, message, nil) }

func WarnCF(component, message string, fields map[string]any) {
	logMessage(WARN, component, message, fields)
}

func Error(message string) { logMessage(ERROR, "", message, nil) }

func ErrorC(component, message string) { logMessage(ERROR, component, message, nil) }

func ErrorCF(component, message string, fields map[string]any) {
	logMessage(ERROR, component, message, fields)
}

func FatalCF(component, message string, fields map[string]any) {
	logMessage(FATAL, component, message, fields)
}
