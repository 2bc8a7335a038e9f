// Package logging sets up the file-backed logger. Stdout belongs to the
// TUI, so all diagnostics go to a log file under the state directory.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

const (
	appName     = "stratus"
	logFileName = "stratus.log"
)

// Open creates the application logger writing to the state directory.
// The returned closer flushes and closes the underlying file.
func Open(level string) (zerolog.Logger, io.Closer, error) {
	logPath := filepath.Join(xdg.StateHome, appName, logFileName)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	log := zerolog.New(f).Level(parseLevel(level)).With().Timestamp().Logger()
	return log, f, nil
}

func parseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}
