// ABOUTME: Routes the default slog logger to a file while the TUI owns the terminal
// ABOUTME: Avoids interfering with terminal display while capturing errors

package debuglog

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/painel-f1/painel/internal/logger"
)

// FileName is the log file created inside the config directory
const FileName = "debug.log"

var (
	logFile  *os.File
	previous *slog.Logger
	mu       sync.Mutex
)

// Init sends the default logger to <configDir>/debug.log.
// If configDir is empty, log records are discarded.
func Init(configDir, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if previous == nil {
		previous = slog.Default()
	}

	if configDir == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return err
	}

	f, err := os.OpenFile(filepath.Join(configDir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return err
	}

	logFile = f
	slog.SetDefault(logger.New(f, level, "text"))
	return nil
}

// Close closes the log file and restores the logger that was active before Init
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if previous != nil {
		slog.SetDefault(previous)
		previous = nil
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
