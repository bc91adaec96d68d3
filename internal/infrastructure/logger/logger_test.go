package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifirstlegal/masterclass-server/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		"bogus": zerolog.InfoLevel,
		"error": zerolog.ErrorLevel,
	}
	for raw, want := range cases {
		assert.Equal(t, want, parseLevel(raw), raw)
	}
}

func TestNewAppliesLevel(t *testing.T) {
	log := New(&config.Config{ServiceName: "svc", Environment: "test", LogLevel: "warn"})
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestNewWithWriterAddsServiceFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{ServiceName: "masterclass-server", Environment: "production", LogPIILevel: "hashed"}, &buf)

	log.Info().Msg("ready")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "masterclass-server", line["service"])
	assert.Equal(t, "production", line["environment"])
	assert.Equal(t, "hashed", line["pii_level"])
	assert.Equal(t, "ready", line["message"])
}
