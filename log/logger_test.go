package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/authkit/errors"
	"github.com/kochabx/authkit/log/desensitize"
)

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, WithLevel(zerolog.InfoLevel), WithField("service", "authkit"))

	logger.Debug().Msg("dropped")
	logger.Info().Int64("user_id", 7).Msg("signed in")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "signed in", entry["message"])
	assert.Equal(t, "authkit", entry["service"])
	assert.EqualValues(t, 7, entry["user_id"])
}

func TestDesensitizedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, WithDesensitize(desensitize.NewHook(desensitize.BuiltinRules()...)))

	logger.Info().
		Str("email", "alice@example.com").
		Str("password", "hunter2").
		Str("refresh_token", "eyJa.eyJb.c").
		Msg("sign in")

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "eyJa.eyJb.c")
	assert.NotContains(t, out, "alice@")
	assert.Contains(t, out, "a***@example.com")
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf).Component("auth")
	logger.Warn().Err(errors.ErrStoreUnavailable).Msg("cache evict failed")

	assert.Contains(t, buf.String(), `"component":"auth"`)
	assert.Contains(t, buf.String(), "store_unavailable")
}

func TestNewFromConfig(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewFromConfig(Config{
		Level:  "debug",
		Output: "file",
		File:   &FileConfig{Dir: dir, Filename: "test.log"},
	})
	require.NoError(t, err)

	logger.Debug().Msg("to file")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNewFromConfigInvalidLevel(t *testing.T) {
	_, err := NewFromConfig(Config{Level: "loud"})
	assert.Error(t, err)
}
