// Package logging writes session activity to a rotating file under the
// workspace's .cobalt directory. Nothing here reaches the terminal; the ui
// package owns user-facing output.
package logging

import (
	"log"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger records agent activity to the session log file.
type Logger struct {
	logger *log.Logger
	sink   *lumberjack.Logger
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the singleton session logger, creating the log file under
// workspace/.cobalt on first use. Later calls ignore the workspace argument.
func Get(workspace string) *Logger {
	once.Do(func() {
		sink := &lumberjack.Logger{
			Filename:   filepath.Join(workspace, ".cobalt", "session.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = &Logger{
			logger: log.New(sink, "", log.LstdFlags),
			sink:   sink,
		}
	})
	return globalLogger
}

// Close flushes and closes the underlying log file.
func (l *Logger) Close() error {
	return l.sink.Close()
}

// Logf records a formatted message.
func (l *Logger) Logf(format string, v ...any) {
	l.logger.Printf(format, v...)
}
