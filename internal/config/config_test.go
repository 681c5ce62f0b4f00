package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name  string `kdl:"name"`
	Count int    `kdl:"count"`
}

func TestUnmarshalKeepsDefaults(t *testing.T) {
	cfg, err := Unmarshal[testConfig]([]byte(`name "crackd"`), testConfig{Name: "default", Count: 4})
	require.NoError(t, err)
	assert.Equal(t, &testConfig{Name: "crackd", Count: 4}, cfg)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.kdl")
	require.NoError(t, os.WriteFile(path, []byte("count 9\n"), 0o600))

	cfg, err := Load[testConfig](path, testConfig{Name: "default"})
	require.NoError(t, err)
	assert.Equal(t, &testConfig{Name: "default", Count: 9}, cfg)

	_, err = Load[testConfig](filepath.Join(dir, "missing.kdl"), testConfig{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err = LoadOptional[testConfig](filepath.Join(dir, "missing.kdl"), testConfig{Count: 1})
	require.NoError(t, err)
	assert.Equal(t, &testConfig{Count: 1}, cfg)
}

func TestSetupLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var out bytes.Buffer

	SetupLogger(&LogConfig{LogLevel: "error"}, &out)
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
	log.Warn().Msg("hidden")
	assert.Empty(t, out.String())

	SetupLogger(struct{}{}, &out)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	log.Info().Msg("visible")
	assert.Contains(t, out.String(), "visible")
}
