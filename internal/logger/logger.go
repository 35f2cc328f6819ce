// Package logger holds the process-wide structured logger used by the CLI,
// the plugin host, the scheduler and the run store.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Logger is the global logger instance.
var Logger *log.Logger

var output io.Writer = os.Stderr

func init() {
	Logger = log.New(os.Stderr)
	Logger.SetTimeFormat("")
	Logger.SetLevel(log.InfoLevel)
}

// Configure sets the level and destination. The flag wins over HRSIM_LOG_LEVEL.
// An empty logFile keeps stderr.
func Configure(logLevel string, logFile string) error {
	level := logLevel
	if level == "" {
		level = strings.ToLower(os.Getenv("HRSIM_LOG_LEVEL"))
	}

	var w io.Writer = os.Stderr
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return err
		}
		w = file
	}

	SetOutput(w)
	Logger.SetLevel(ParseLevel(level))
	return nil
}

// SetOutput rebuilds the global logger on w, keeping its level.
func SetOutput(w io.Writer) {
	level := Logger.GetLevel()
	output = w
	Logger = log.New(w)
	Logger.SetTimeFormat("")
	Logger.SetLevel(level)
}

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

func Debug(msg interface{}, keyvals ...interface{}) { Logger.Debug(msg, keyvals...) }
func Info(msg interface{}, keyvals ...interface{})  { Logger.Info(msg, keyvals...) }
func Warn(msg interface{}, keyvals ...interface{})  { Logger.Warn(msg, keyvals...) }
func Error(msg interface{}, keyvals ...interface{}) { Logger.Error(msg, keyvals...) }

// Fatal logs and exits.
func Fatal(msg interface{}, keyvals ...interface{}) { Logger.Fatal(msg, keyvals...) }

// RunEvent logs a run lifecycle transition.
func RunEvent(event string, runID string, keyvals ...interface{}) {
	Debug("run "+event, append([]interface{}{"run", runID}, keyvals...)...)
}

// NewStyledLogger returns a component logger with the given prefix that
// writes where the global logger writes, at its level.
func NewStyledLogger(prefix string) *log.Logger {
	styles := log.DefaultStyles()

	level := func(name, bg string) lipgloss.Style {
		return lipgloss.NewStyle().
			SetString(name).
			Padding(0, 1, 0, 1).
			Background(lipgloss.Color(bg)).
			Foreground(lipgloss.Color("15"))
	}
	styles.Levels[log.DebugLevel] = level("DEBUG", "240")
	styles.Levels[log.InfoLevel] = level("INFO", "33")
	styles.Levels[log.WarnLevel] = level("WARN", "214")
	styles.Levels[log.ErrorLevel] = level("ERROR", "196")
	styles.Levels[log.FatalLevel] = level("FATAL", "88")

	styles.Keys["variant"] = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	styles.Keys["handle"] = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	styles.Keys["run"] = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styles.Values["err"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	l := log.NewWithOptions(output, log.Options{Prefix: prefix})
	l.SetStyles(styles)
	l.SetLevel(Logger.GetLevel())
	return l
}
