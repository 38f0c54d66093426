package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// New creates a logger writing entries in the given format.
func New(writer io.Writer, level Level, format Format) *StreamLogger {
	return &StreamLogger{
		out:   &sink{writer: writer, format: format},
		level: level,
	}
}

// NewJSONLogger creates a logger that writes one JSON object per line
func NewJSONLogger(writer io.Writer, level Level) *StreamLogger {
	return New(writer, level, FormatJSON)
}

// NewTextLogger creates a logger that writes human-readable lines
func NewTextLogger(writer io.Writer, level Level) *StreamLogger {
	return New(writer, level, FormatText)
}

func (l *StreamLogger) log(level Level, msg string, fields ...Field) {
	l.mu.RLock()
	if level < l.level {
		l.mu.RUnlock()
		return
	}
	preset := l.fields
	l.mu.RUnlock()

	entry := LogEntry{
		Time:    time.Now().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if n := len(preset) + len(fields); n > 0 {
		entry.Fields = make(map[string]any, n)
		// Call-site fields override preset ones
		for _, f := range preset {
			entry.Fields[f.Key] = f.Value
		}
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	l.out.write(&entry)
}

func (s *sink) write(entry *LogEntry) {
	var line []byte
	switch s.format {
	case FormatText:
		line = encodeText(entry)
	default:
		data, err := json.Marshal(entry)
		if err != nil {
			line = fmt.Appendf(nil, `{"level":"ERROR","msg":"unencodable log entry","error":%q}`, err.Error())
		} else {
			line = data
		}
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer.Write(line)
}

func encodeText(entry *LogEntry) []byte {
	var b strings.Builder
	b.WriteString(entry.Time)
	b.WriteByte(' ')
	fmt.Fprintf(&b, "%-5s", entry.Level)
	b.WriteByte(' ')
	b.WriteString(entry.Message)
	for _, k := range slices.Sorted(maps.Keys(entry.Fields)) {
		v := entry.Fields[k]
		if s, ok := v.(string); ok && strings.ContainsAny(s, " \t\"=") {
			fmt.Fprintf(&b, " %s=%q", k, s)
			continue
		}
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	return []byte(b.String())
}

// Debug logs a debug-level message
func (l *StreamLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs an info-level message
func (l *StreamLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs a warning-level message
func (l *StreamLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs an error-level message
func (l *StreamLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// With creates a child logger with the given fields pre-set. The child
// shares the parent's writer but has its own level.
func (l *StreamLogger) With(fields ...Field) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &StreamLogger{
		out:    l.out,
		level:  l.level,
		fields: slices.Concat(l.fields, fields),
	}
}

// SetLevel sets the minimum log level
func (l *StreamLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *StreamLogger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// Global default logger
var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
	defaultOnce   sync.Once
)

// DefaultLogger returns the process-wide logger. It writes JSON to stderr,
// leaving stdout for results; LOG_LEVEL and LOG_FORMAT override the level
// and format.
func DefaultLogger() Logger {
	defaultOnce.Do(func() {
		level, err := ParseLevel(os.Getenv("LOG_LEVEL"))
		if err != nil {
			level = InfoLevel
		}
		format, err := ParseFormat(os.Getenv("LOG_FORMAT"))
		if err != nil {
			format = FormatJSON
		}
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = New(os.Stderr, level, format)
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// Info logs an info-level message using the default logger
func Info(msg string, fields ...Field) {
	DefaultLogger().Info(msg, fields...)
}

// Warn logs a warning-level message using the default logger
func Warn(msg string, fields ...Field) {
	DefaultLogger().Warn(msg, fields...)
}

// With creates a child of the default logger
func With(fields ...Field) Logger {
	return DefaultLogger().With(fields...)
}

// StartTimer begins timing a stage
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the timer started
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the stage at debug level with its duration and any extra fields
func (t *TimedOperation) End(extra ...Field) time.Duration {
	elapsed := t.Elapsed()
	t.logger.Debug(t.msg, slices.Concat(t.fields, extra, []Field{Latency(elapsed)})...)
	return elapsed
}

// EndInfo logs the stage at info level with its duration and any extra fields
func (t *TimedOperation) EndInfo(extra ...Field) time.Duration {
	elapsed := t.Elapsed()
	t.logger.Info(t.msg, slices.Concat(t.fields, extra, []Field{Latency(elapsed)})...)
	return elapsed
}

// EndError logs the stage as failed
func (t *TimedOperation) EndError(err error) time.Duration {
	elapsed := t.Elapsed()
	t.logger.Error(t.msg, slices.Concat(t.fields, []Field{Latency(elapsed), Error(err)})...)
	return elapsed
}
