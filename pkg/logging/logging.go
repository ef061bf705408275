// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"os"

	"github.com/marketbayes/market-bayes/pkg/config"
	"github.com/phuslu/log"
)

// Setup installs the default logger described by cfg, writing to stderr
func Setup(cfg config.LoggingConfig) {
	SetupWriter(cfg, os.Stderr)
}

// SetupWriter installs the default logger described by cfg, writing to w
func SetupWriter(cfg config.LoggingConfig, w io.Writer) {
	var writer log.Writer
	switch cfg.Format {
	case "json":
		writer = &log.IOWriter{Writer: w}
	default:
		writer = &log.ConsoleWriter{
			Writer:         w,
			ColorOutput:    false,
			EndWithMessage: true,
		}
	}

	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(cfg.Level),
		TimeFormat: "15:04:05",
		Writer:     writer,
	}
}
