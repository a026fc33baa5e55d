// Package logging provides file-based logging for toru.
// It outputs logs to both a vault log file (<vault>/logs/toru.log)
// and task-specific log files (<vault>/logs/task-N.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/runoshun/toru/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes mutation records under a vault's logs directory and mirrors
// warnings and errors to an optional console.
// Fields are ordered to minimize memory padding.
type Logger struct {
	globalFile *os.File
	taskFiles  map[int]*os.File
	console    *charmlog.Logger
	clock      domain.Clock
	vaultDir   string
	mu         sync.Mutex
	level      slog.Level
}

// New creates a new Logger that writes to the vault's logs directory.
// If vaultDir is empty, file logging is disabled.
func New(vaultDir string, level slog.Level) *Logger {
	return &Logger{
		vaultDir:  vaultDir,
		level:     level,
		clock:     domain.RealClock{},
		taskFiles: make(map[int]*os.File),
	}
}

// WithClock sets the clock used to timestamp entries.
func (l *Logger) WithClock(clock domain.Clock) *Logger {
	l.clock = clock
	return l
}

// WithConsole mirrors warnings and errors to w.
func (l *Logger) WithConsole(w io.Writer) *Logger {
	l.console = NewConsole(w, slog.LevelWarn)
	return l
}

// NewConsole creates a human-facing logger for terminal output.
func NewConsole(w io.Writer, level slog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		Level:  charmlog.Level(level),
		Prefix: "toru",
	})
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureLogsDir creates the logs directory if it doesn't exist.
func (l *Logger) ensureLogsDir() error {
	return os.MkdirAll(filepath.Join(l.vaultDir, domain.LogsDirName), 0o750)
}

// ensureGlobalFile opens or returns the vault log file.
func (l *Logger) ensureGlobalFile() (*os.File, error) {
	if l.globalFile != nil {
		return l.globalFile, nil
	}

	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := domain.GlobalLogPath(l.vaultDir)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open vault log file: %w", err)
	}
	l.globalFile = f
	return f, nil
}

// ensureTaskFile opens or returns the task log file.
func (l *Logger) ensureTaskFile(taskID int) (*os.File, error) {
	if f, ok := l.taskFiles[taskID]; ok {
		return f, nil
	}

	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := domain.TaskLogPath(l.vaultDir, taskID)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open task log file: %w", err)
	}
	l.taskFiles[taskID] = f
	return f, nil
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, f := range l.taskFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.taskFiles, id)
	}
	return lastErr
}

// formatLog formats a log entry.
// Format: [2026-04-01 09:30:00] [INFO] [task-1] [create] message
func formatLog(t time.Time, level slog.Level, taskID int, category, msg string) string {
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		scope(taskID),
		category,
		msg,
	)
}

func scope(taskID int) string {
	if taskID > 0 {
		return fmt.Sprintf("task-%d", taskID)
	}
	return "global"
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// log writes a log entry to appropriate files based on taskID.
// If taskID is 0, logs only to the vault log.
// If taskID > 0, logs to both the vault log and the task log.
func (l *Logger) log(level slog.Level, taskID int, category, msg string) {
	if level < l.level {
		return
	}

	if l.console != nil && level >= slog.LevelWarn {
		keyvals := []any{"scope", scope(taskID), "category", category}
		if level >= slog.LevelError {
			l.console.Error(msg, keyvals...)
		} else {
			l.console.Warn(msg, keyvals...)
		}
	}

	if l.vaultDir == "" {
		return
	}

	entry := formatLog(l.clock.Now(), level, taskID, category, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gf, err := l.ensureGlobalFile(); err == nil {
		_, _ = io.WriteString(gf, entry)
	}

	if taskID > 0 {
		if tf, err := l.ensureTaskFile(taskID); err == nil {
			_, _ = io.WriteString(tf, entry)
		}
	}
}

// Info logs an info message.
func (l *Logger) Info(taskID int, category, msg string) {
	l.log(slog.LevelInfo, taskID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(taskID int, category, msg string) {
	l.log(slog.LevelDebug, taskID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(taskID int, category, msg string) {
	l.log(slog.LevelWarn, taskID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(taskID int, category, msg string) {
	l.log(slog.LevelError, taskID, category, msg)
}
