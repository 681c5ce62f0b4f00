package config

import (
	"io"

	"github.com/ykhdr/dictcrack/internal/logging"
)

type LogConfig struct {
	LogLevel string `kdl:"log-level"`
}

func (c *LogConfig) GetLogLevel() string {
	return c.LogLevel
}

type hasLogLevel interface {
	GetLogLevel() string
}

// SetupLogger configures the global logger from any config exposing a log level,
// falling back to info.
func SetupLogger(cfg any, out io.Writer) {
	logLevel := logging.InfoLevel
	if logCfg, ok := cfg.(hasLogLevel); ok {
		logLevel = logging.ParseLevel(logCfg.GetLogLevel())
	}
	logging.Setup(logLevel, out)
}
