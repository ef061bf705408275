package logging

import (
	"bytes"
	"testing"

	"github.com/marketbayes/market-bayes/pkg/config"
	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupLevelFilters(t *testing.T) {
	defer func(l log.Logger) { log.DefaultLogger = l }(log.DefaultLogger)

	var buf bytes.Buffer
	SetupWriter(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	log.Info().Msg("hidden")
	log.Warn().Int("row", 3).Msg("skipping row")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"row":3`)
	assert.Contains(t, out, "skipping row")
}

func TestSetupConsole(t *testing.T) {
	defer func(l log.Logger) { log.DefaultLogger = l }(log.DefaultLogger)

	var buf bytes.Buffer
	SetupWriter(config.LoggingConfig{Level: "debug", Format: "console"}, &buf)

	log.Debug().Str("path", "trg.csv").Msg("loaded records")
	assert.Contains(t, buf.String(), "loaded records")
	assert.Contains(t, buf.String(), "trg.csv")
}
