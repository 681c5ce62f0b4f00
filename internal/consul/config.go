package consul

import "github.com/hashicorp/consul/api"

type HealthConfig struct {
	Interval string `kdl:"interval"`
	Timeout  string `kdl:"timeout"`
	Path     string `kdl:"path"`
}

type Config struct {
	Address     string        `kdl:"address"`
	ServiceName string        `kdl:"service-name"`
	Health      *HealthConfig `kdl:"health"`
}

// Enabled reports whether an agent address is configured.
func (c *Config) Enabled() bool {
	return c != nil && c.Address != ""
}

func DefaultConfig() *Config {
	return &Config{
		ServiceName: "dictcrack",
		Health: &HealthConfig{
			Interval: "10s",
			Timeout:  "2s",
			Path:     "/api/health",
		},
	}
}

func (c *Config) toApiConfig() *api.Config {
	cfg := api.DefaultConfig()
	cfg.Address = c.Address
	return cfg
}
