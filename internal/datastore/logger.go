// Package-level logging for datastore operations
package datastore

import (
	"io"
	"log/slog"
	"sync"

	"github.com/wildsnap/wildsnap-go/internal/logging"
)

var (
	datastoreLogger   *slog.Logger
	datastoreLevelVar = new(slog.LevelVar)
	loggerCloseFunc   func() error
	loggerOnce        sync.Once
)

const defaultLogPath = "logs/datastore.log"

// getLogger returns the datastore file logger, initializing it on first use.
// When file logging cannot be set up the logger discards output rather than
// failing datastore operations.
func getLogger() *slog.Logger {
	loggerOnce.Do(func() {
		datastoreLevelVar.Set(slog.LevelInfo)

		var err error
		datastoreLogger, loggerCloseFunc, err = logging.NewFileLogger(defaultLogPath, "datastore", datastoreLevelVar)
		if err != nil {
			fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: datastoreLevelVar})
			datastoreLogger = slog.New(fbHandler).With("service", "datastore")
			loggerCloseFunc = func() error { return nil }
		}
	})
	return datastoreLogger
}

// CloseLogger closes the datastore log file, if one was opened.
func CloseLogger() error {
	if loggerCloseFunc != nil {
		return loggerCloseFunc()
	}
	return nil
}
