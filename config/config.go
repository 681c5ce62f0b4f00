package config

import (
	"github.com/ykhdr/dictcrack/internal/config"
	"github.com/ykhdr/dictcrack/internal/consul"
	"github.com/ykhdr/dictcrack/internal/dispatcher"
	"github.com/ykhdr/dictcrack/internal/hashcrack/strategy"
	"github.com/ykhdr/dictcrack/internal/queue"
	"github.com/ykhdr/dictcrack/internal/server/api"
	"github.com/ykhdr/dictcrack/internal/store/mongo"
)

// DefaultCLIConfigPath must not point at the crackd config.
const DefaultCLIConfigPath = "./config/dictcrack.kdl"

type CrackConfig struct {
	Algorithm string `kdl:"algorithm"`
	Strategy  string `kdl:"strategy"`
	Workers   int    `kdl:"workers"`
	BatchSize int    `kdl:"batch-size"`
}

// StrategyOptions converts the worker settings; zero values mean defaults.
func (c *CrackConfig) StrategyOptions() strategy.Options {
	return strategy.Options{
		Workers:   c.Workers,
		BatchSize: c.BatchSize,
	}
}

func defaultCrackConfig() *CrackConfig {
	return &CrackConfig{
		Algorithm: "md5",
		Strategy:  strategy.DefaultStrategyStr(),
		BatchSize: strategy.DefaultBatchSize,
	}
}

// CLIConfig is read by the command line crackers.
type CLIConfig struct {
	config.LogConfig
	Crack *CrackConfig `kdl:"crack"`
}

func DefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		LogConfig: config.LogConfig{LogLevel: "warn"},
		Crack:     defaultCrackConfig(),
	}
}

// DaemonConfig is read by crackd.
type DaemonConfig struct {
	config.LogConfig
	Crack            *CrackConfig       `kdl:"crack"`
	ServerConfig     *api.Config        `kdl:"server"`
	DispatcherConfig *dispatcher.Config `kdl:"dispatcher"`
	AmqpConfig       *queue.Config      `kdl:"amqp"`
	MongoDBConfig    *mongo.Config      `kdl:"mongo"`
	ConsulConfig     *consul.Config     `kdl:"consul"`
}

func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		LogConfig:        config.LogConfig{LogLevel: "info"},
		Crack:            defaultCrackConfig(),
		ServerConfig:     api.DefaultConfig(),
		DispatcherConfig: dispatcher.DefaultConfig(),
		AmqpConfig:       queue.DefaultConfig(),
		MongoDBConfig:    mongo.DefaultConfig(),
		ConsulConfig:     consul.DefaultConfig(),
	}
}

func InitializeDaemonConfig(args []string) (*DaemonConfig, error) {
	return config.InitializeConfig[DaemonConfig](args, *DefaultDaemonConfig())
}

// LoadCLIConfig reads path over the CLI defaults. A missing file at the default
// location is not an error; an explicitly named one is.
func LoadCLIConfig(path string, explicit bool) (*CLIConfig, error) {
	if explicit {
		return config.Load[CLIConfig](path, *DefaultCLIConfig())
	}
	return config.LoadOptional[CLIConfig](path, *DefaultCLIConfig())
}
