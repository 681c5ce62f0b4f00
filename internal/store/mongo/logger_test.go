package mongo

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	l.Info(1, "connected", "host", "db:27017")
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), `"host":"db:27017"`)

	buf.Reset()
	l.Info(2, "command started", "odd")
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"odd":null`)

	buf.Reset()
	l.Info(3, "ignored")
	assert.Empty(t, buf.String())

	l.Error(errors.New("timeout"), "failed", 42, "skipped key")
	assert.Contains(t, buf.String(), `"error":"timeout"`)
	assert.NotContains(t, buf.String(), "skipped key")
}

func TestEnabled(t *testing.T) {
	var cfg *Config
	assert.False(t, cfg.Enabled())
	assert.False(t, DefaultConfig().Enabled())
	assert.True(t, (&Config{URI: "mongodb://localhost"}).Enabled())
}
