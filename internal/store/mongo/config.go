package mongo

type Config struct {
	URI      string `kdl:"uri"`
	Username string `kdl:"username"`
	Password string `kdl:"password"`
	Database string `kdl:"database"`
}

// Enabled reports whether requests should be persisted in MongoDB.
func (c *Config) Enabled() bool {
	return c != nil && c.URI != ""
}

func DefaultConfig() *Config {
	return &Config{Database: "dictcrack"}
}
