// Package logging hands out component loggers that share one logrus
// configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Options configures the shared logger.
type Options struct {
	// Level is the minimum level ("debug", "info", "warn", "error").
	// MOREEVER_LOG_LEVEL overrides it.
	Level string
	// File, when set, receives the log output instead of stderr.
	File string
	// JSON switches to the logrus JSON formatter.
	JSON bool
}

var (
	base      = newBase()
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	sink      io.Closer
)

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(levelFrom(""))
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors: !isatty.IsTerminal(os.Stderr.Fd()),
		FullTimestamp: true,
	})
	return l
}

func levelFrom(configured string) logrus.Level {
	levelStr := "info"
	if env := os.Getenv("MOREEVER_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if configured != "" {
		levelStr = configured
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// NewLogger returns the logger for a component. Loggers are created once per
// component and follow later calls to Configure.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}
	entry := base.WithField("component", component)
	loggers[component] = entry
	return entry
}

// Configure applies opts to every component logger.
func Configure(opts Options) error {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	base.SetLevel(levelFrom(opts.Level))

	if opts.JSON {
		base.SetFormatter(&logrus.JSONFormatter{})
	}

	if opts.File == "" {
		return nil
	}

	path := expandPath(opts.File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if sink != nil {
		sink.Close()
	}
	sink = file
	base.SetOutput(file)
	base.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	if opts.JSON {
		base.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

// Discard silences all output, used when the terminal belongs to the TUI and
// no log file was configured.
func Discard() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	base.SetOutput(io.Discard)
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	base.SetOutput(w)
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
