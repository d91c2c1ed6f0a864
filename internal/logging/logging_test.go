package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerJSONFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", Writer: buf, Component: "spell"})
	require.NoError(t, err)

	log.Debug().Str("lang", "en").Msg("dictionary loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "dictionary loaded", entry["message"])
	require.Equal(t, "en", entry["lang"])
	require.Equal(t, "spell", entry["component"])
	require.Equal(t, "debug", entry["level"])
	require.Contains(t, entry, "time")
}

func TestLoggerRespectsLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "WARN", Writer: buf})
	require.NoError(t, err)

	log.Info().Msg("hidden")
	require.Equal(t, "", strings.TrimSpace(buf.String()))

	log.Warn().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestLoggerHumanReadable(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{HumanReadable: true, Writer: buf})
	require.NoError(t, err)

	log.Info().Msg("hello")
	require.Contains(t, buf.String(), "hello")
	require.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestLoggerInvalidLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}
