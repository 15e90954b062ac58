package config

import (
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ecobazaarx/ecoimpact/internal/logging"
)

// Logger is used for configuration diagnostics before the CLI has built its
// own logger from the loaded configuration.
//
//nolint:gochecknoglobals // Logger is intentionally global for application-wide structured logging
var (
	logger   = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	loggerMu sync.RWMutex
)

// SetLogger replaces the config package logger.
func SetLogger(l zerolog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// GetLogger returns the config package logger.
func GetLogger() *zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	l := logger
	return &l
}

// ToLoggingConfig converts the YAML logging section to logging.Config.
// A configured file switches output to the file; otherwise logs go to stderr.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = outputTypeFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the global Logging section. Flag
// overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
