// Package utils provides logging and identifier helpers for webtrail
//
//nolint:revive // utils is a common pattern for internal utilities
package utils

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/crewjam/rfc5424"
)

// Logger defines the interface for logging operations
type Logger interface {
	LogInfo(message string, meta map[string]string)
	LogWarn(message string, meta map[string]string)
	LogError(message string, meta map[string]string)
	LogDebug(message string, meta map[string]string)
}

// RFC5424Logger implements Logger with RFC 5424 compliant syslog format using crewjam/rfc5424
type RFC5424Logger struct {
	appName   string
	hostname  string
	processID string
	facility  rfc5424.Priority
	minLevel  rfc5424.Priority // messages less severe than this are dropped

	mu   sync.Mutex
	out  io.Writer
	logs []string
}

// NewRFC5424Logger creates a logger writing to w. Severities below level are discarded.
func NewRFC5424Logger(appName string, w io.Writer, level string) *RFC5424Logger {
	if w == nil {
		w = os.Stderr
	}
	return &RFC5424Logger{
		appName:   appName,
		hostname:  getHostname(),
		processID: strconv.Itoa(os.Getpid()),
		facility:  rfc5424.User,
		minLevel:  ParseLevel(level),
		out:       w,
		logs:      make([]string, 0),
	}
}

// ParseLevel maps a level name to a syslog severity. Unknown names map to Warning.
func ParseLevel(level string) rfc5424.Priority {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return rfc5424.Debug
	case "info":
		return rfc5424.Info
	case "error":
		return rfc5424.Error
	default:
		return rfc5424.Warning
	}
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return hostname
}

func (l *RFC5424Logger) createMessage(severity rfc5424.Priority, message string, meta map[string]string) *rfc5424.Message {
	msg := &rfc5424.Message{
		Priority:  l.facility | severity,
		Timestamp: time.Now().UTC(),
		Hostname:  l.hostname,
		AppName:   l.appName,
		ProcessID: l.processID,
		MessageID: fmt.Sprintf("ID%d", time.Now().UnixNano()%100000),
		Message:   []byte(message),
	}

	for key, value := range meta {
		msg.AddDatum("meta@1", key, value)
	}

	return msg
}

func (l *RFC5424Logger) writeLog(severity rfc5424.Priority, message string, meta map[string]string) {
	if severity > l.minLevel {
		return
	}

	msg := l.createMessage(severity, message, meta)
	line, err := msg.MarshalBinary()
	if err != nil {
		line = []byte(fmt.Sprintf("<%d>1 %s %s %s %s - - %s",
			int(l.facility|severity),
			msg.Timestamp.Format(time.RFC3339),
			l.hostname, l.appName, l.processID, message))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintln(l.out, string(line))
	l.logs = append(l.logs, string(line))
}

// LogInfo logs an informational message (severity Info)
func (l *RFC5424Logger) LogInfo(message string, meta map[string]string) {
	l.writeLog(rfc5424.Info, message, meta)
}

// LogWarn logs a warning message (severity Warning)
func (l *RFC5424Logger) LogWarn(message string, meta map[string]string) {
	l.writeLog(rfc5424.Warning, message, meta)
}

// LogError logs an error message (severity Error)
func (l *RFC5424Logger) LogError(message string, meta map[string]string) {
	l.writeLog(rfc5424.Error, message, meta)
}

// LogDebug logs a debug message (severity Debug)
func (l *RFC5424Logger) LogDebug(message string, meta map[string]string) {
	l.writeLog(rfc5424.Debug, message, meta)
}

// GetLogs returns a copy of all captured logs
func (l *RFC5424Logger) GetLogs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	logsCopy := make([]string, len(l.logs))
	copy(logsCopy, l.logs)
	return logsCopy
}

// ClearLogs clears the in-memory log buffer
func (l *RFC5424Logger) ClearLogs() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = make([]string, 0)
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *RFC5424Logger
)

// InitDefaultLogger installs the process-wide logger used by the Log* helpers
func InitDefaultLogger(w io.Writer, level string) *RFC5424Logger {
	logger := NewRFC5424Logger("webtrail", w, level)
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
	return logger
}

func current() *RFC5424Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// LogInfo logs an informational message using the default logger
func LogInfo(message string, meta map[string]string) {
	if l := current(); l != nil {
		l.LogInfo(message, meta)
	}
}

// LogWarn logs a warning message using the default logger
func LogWarn(message string, meta map[string]string) {
	if l := current(); l != nil {
		l.LogWarn(message, meta)
	}
}

// LogError logs an error message using the default logger
func LogError(message string, meta map[string]string) {
	if l := current(); l != nil {
		l.LogError(message, meta)
	}
}

// LogDebug logs a debug message using the default logger
func LogDebug(message string, meta map[string]string) {
	if l := current(); l != nil {
		l.LogDebug(message, meta)
	}
}

// GetLogs returns logs from the default logger
func GetLogs() []string {
	if l := current(); l != nil {
		return l.GetLogs()
	}
	return []string{}
}

// ClearLogs clears logs from the default logger
func ClearLogs() {
	if l := current(); l != nil {
		l.ClearLogs()
	}
}
