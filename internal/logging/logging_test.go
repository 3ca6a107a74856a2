package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordhunt/internal/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "json", false)
	l.Warn().Str("word", "meow").Msg("could not place word")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "meow", rec["word"])
	assert.Contains(t, rec, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "console", false)
	l.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "INF")
}

func TestSetupWritesToFile(t *testing.T) {
	prevLevel, prevLogger := zerolog.GlobalLevel(), log.Logger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(prevLevel)
		log.Logger = prevLogger
	})

	path := filepath.Join(t.TempDir(), "wordhunt.log")
	l, closer := Setup(config.LoggingConfig{Level: "debug", Format: "json", File: path})
	l.Debug().Msg("to file")
	require.NoError(t, closer.Close())

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
