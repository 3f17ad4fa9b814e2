// Package logger owns the process-wide structured logger. Records go to a
// rotating file under the config directory and, for debug runs or the HTTP
// server, to stderr as well.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/sitelit/internal/constants"
)

var (
	// Logger is nil until Init or UseWriter; the helpers below are no-ops then.
	Logger *log.Logger

	rotator *lumberjack.Logger
)

type Config struct {
	Debug     bool
	ConfigDir string
	// Stderr mirrors records to stderr without enabling debug output.
	Stderr bool
	// JSON switches the formatter, for log collectors in front of serve.
	JSON bool
}

func (c Config) level() log.Level {
	if c.Debug {
		return log.DebugLevel
	}
	return log.InfoLevel
}

func (c Config) formatter() log.Formatter {
	if c.JSON {
		return log.JSONFormatter
	}
	return log.TextFormatter
}

// Init replaces the global logger. A previous log file is closed first.
func Init(cfg Config) error {
	dir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	Close()

	rotator = &lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.AppName+".log"),
		MaxSize:    5, // MB
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}

	var w io.Writer = rotator
	if cfg.Debug || cfg.Stderr {
		w = io.MultiWriter(os.Stderr, rotator)
	}

	Logger = log.NewWithOptions(w, log.Options{
		Level:           cfg.level(),
		Formatter:       cfg.formatter(),
		Prefix:          constants.AppName,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

// UseWriter points the global logger at w with debug level and no file.
func UseWriter(w io.Writer) {
	Close()
	Logger = log.NewWithOptions(w, log.Options{Level: log.DebugLevel})
}

// Close flushes and releases the log file, if any.
func Close() {
	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
}

// With returns a child logger carrying keyvals, or nil before Init.
func With(keyvals ...any) *log.Logger {
	if Logger == nil {
		return nil
	}
	return Logger.With(keyvals...)
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
