package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levels = []struct {
	name          string
	consolePrefix string
}{
	LevelDebug: {"DEBUG", "[DEBUG] "},
	LevelInfo:  {"INFO", ""},
	LevelWarn:  {"WARN", "⚠️  "},
	LevelError: {"ERROR", "❌ "},
}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levels) {
		return "UNKNOWN"
	}
	return levels[l].name
}

// Logger writes every message to the run log and a clean subset to the console.
// The operator reads the console; the log file is what gets attached to a
// support request.
type Logger struct {
	console  *log.Logger
	file     *log.Logger
	logFile  *os.File
	minLevel Level
}

var globalLogger *Logger

// Init opens (appending) the run log at logFilePath and routes console
// output to consoleOutput. verbose lowers the console level to DEBUG.
func Init(consoleOutput io.Writer, logFilePath string, verbose bool) error {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	minLevel := LevelInfo
	if verbose {
		minLevel = LevelDebug
	}

	globalLogger = &Logger{
		console:  log.New(consoleOutput, "", 0),
		file:     log.New(logFile, "", log.LstdFlags),
		logFile:  logFile,
		minLevel: minLevel,
	}
	globalLogger.file.Printf("---- run started (pid %d) ----", os.Getpid())
	return nil
}

// Close ends the run log. Later calls fall back to plain console output.
func Close() {
	if globalLogger == nil {
		return
	}
	globalLogger.file.Printf("---- run finished ----")
	globalLogger.logFile.Close()
	globalLogger = nil
}

// Debug logs to the file, and to the console with -v
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info logs to console and file
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

func Error(format string, args ...any) {
	logf(LevelError, format, args...)
}

func logf(level Level, format string, args ...any) {
	message := fmt.Sprintf(format, args...)

	if globalLogger == nil {
		// Not initialized yet (config loading) or already closed
		if level == LevelDebug {
			return
		}
		if level != LevelInfo {
			message = level.String() + ": " + message
		}
		fmt.Println(message)
		return
	}
	globalLogger.write(level, message)
}

func (l *Logger) write(level Level, message string) {
	l.file.Printf("[%s] %s", level, message)
	if level >= l.minLevel {
		l.console.Print(levels[level].consolePrefix + message)
	}
}

// InfoClean prints to the console only, without prefix.
// Used for the run summary, which the manifest already records.
func InfoClean(format string, args ...any) {
	if globalLogger == nil {
		fmt.Printf(format+"\n", args...)
		return
	}
	globalLogger.console.Printf(format, args...)
}

// LogSpanError records the full context of a failed group (file only).
// The console gets the short form through Error.
func LogSpanError(label, region string, err error) {
	if globalLogger == nil {
		return
	}
	globalLogger.file.Printf("[SPAN_ERROR] label=%s region=%s: %v", label, region, err)
	if globalLogger.minLevel == LevelDebug {
		globalLogger.console.Printf("[DEBUG] group %s (%s) failed: %v", label, region, err)
	}
}

// Group returns a logger that prefixes messages with a group label
func Group(label string) Scoped {
	return Scoped{prefix: "[" + label + "] "}
}

// Scoped prefixes every message, see Group
type Scoped struct {
	prefix string
}

func (s Scoped) Debug(format string, args ...any) {
	logf(LevelDebug, "%s", s.prefix+fmt.Sprintf(format, args...))
}

func (s Scoped) Warn(format string, args ...any) {
	logf(LevelWarn, "%s", s.prefix+fmt.Sprintf(format, args...))
}

// GetLogFilePath returns the path of the run log, or "" when closed
func GetLogFilePath() string {
	if globalLogger == nil {
		return ""
	}
	return globalLogger.logFile.Name()
}

// IsVerbose reports whether DEBUG reaches the console
func IsVerbose() bool {
	return globalLogger != nil && globalLogger.minLevel == LevelDebug
}
