package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sblinch/kdl-go"
)

const DefaultConfigPath = "./config/config.kdl"

// InitializeConfig reads the KDL file named by the first argument (or the default
// path) over defaultCfg and sets up the global logger from the result.
func InitializeConfig[T any](args []string, defaultCfg T) (*T, error) {
	configPath := DefaultConfigPath
	if len(args) > 0 {
		configPath = args[0]
	}
	cfg, err := Load[T](configPath, defaultCfg)
	if err != nil {
		return nil, err
	}
	SetupLogger(cfg, os.Stdout)
	return cfg, nil
}

func Load[T any](path string, defaultCfg T) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Unmarshal[T](data, defaultCfg)
	if err != nil {
		return nil, errors.Wrapf(err, "unmarshal kdl %s", path)
	}
	return cfg, nil
}

// LoadOptional behaves like Load but returns the defaults untouched when the file
// does not exist.
func LoadOptional[T any](path string, defaultCfg T) (*T, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &defaultCfg, nil
	}
	return Load[T](path, defaultCfg)
}

func Unmarshal[T any](data []byte, defaultCfg T) (*T, error) {
	if err := kdl.Unmarshal(data, &defaultCfg); err != nil {
		return nil, err
	}
	return &defaultCfg, nil
}
