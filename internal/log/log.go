package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var initOnce sync.Once

// Setup routes the default slog logger to a rotating JSON log file. The
// terminal belongs to the TUI, so nothing is written to stderr.
func Setup(logFile string, debug bool) {
	initOnce.Do(func() {
		logRotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 0,
			MaxAge:     30,
			Compress:   false,
		}

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}

		logger := slog.NewJSONHandler(logRotator, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})

		slog.SetDefault(slog.New(logger))
	})
}

// RecoverPanic logs a panic, writes its stack trace next to the working
// directory and runs cleanup. Use it as a deferred call.
func RecoverPanic(name string, cleanup func()) {
	r := recover()
	if r == nil {
		return
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := filepath.Join(".", fmt.Sprintf("togglelist-panic-%s-%s.log", name, timestamp))

	slog.Error("Panic recovered", "name", name, "panic", r, "file", filename)

	file, err := os.Create(filename)
	if err == nil {
		defer file.Close()
		fmt.Fprintf(file, "Panic in %s: %v\n\n", name, r)
		fmt.Fprintf(file, "Time: %s\n\n", time.Now().Format(time.RFC3339))
		fmt.Fprintf(file, "Stack Trace:\n%s\n", debug.Stack())
	} else {
		slog.Error("Failed to create panic log", "error", err)
	}

	if cleanup != nil {
		cleanup()
	}
}
