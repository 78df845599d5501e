package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmsapi/internal/config"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Error().Str("component", "test").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "cmsapi", entry["service"])
	assert.Equal(t, "test", entry["component"])
}

func TestNewWithWriter_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "loud"}, &buf)

	log.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Info().Msg("kept")
	assert.NotZero(t, buf.Len())
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, Location(config.LogConfig{}))
	assert.Equal(t, time.UTC, Location(config.LogConfig{Timezone: "Not/AZone"}))
	assert.Equal(t, "Asia/Jakarta", Location(config.LogConfig{Timezone: "Asia/Jakarta"}).String())
}
