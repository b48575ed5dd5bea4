package config

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/BurntSushi/toml"
)

type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

type Config struct {
	Environment Environment `toml:"environment"`

	// ConfigDirectory is where the sqlite database lives.
	ConfigDirectory string `toml:"config_directory"`
	LogDirectory    string `toml:"log_directory"`

	ListenAddress string `toml:"listen_address"`
}

func defaultConfig(configDir string) Config {
	return Config{
		Environment:     EnvironmentDevelopment,
		ConfigDirectory: configDir,
		LogDirectory:    path.Join(configDir, "logs"),
		ListenAddress:   "localhost:8080",
	}
}

// ReadConfig reads a config from configFile, or from the default location
// under the user's config directory when configFile is empty. A missing file
// is not an error: defaults are returned instead.
func ReadConfig(configFile string) (Config, error) {
	var conf Config

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return conf, fmt.Errorf("os.UserHomeDir: %w", err)
	}
	configDir := path.Join(homeDir, ".config", "sharedrive")
	if err = os.MkdirAll(configDir, 0755); err != nil {
		return conf, fmt.Errorf("os.MkdirAll: %w", err)
	}

	if configFile == "" {
		configFile = path.Join(configDir, "default.toml")
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return defaultConfig(configDir), nil
	}

	file, err := os.Open(configFile)
	if err != nil {
		return conf, fmt.Errorf("os.Open: %w", err)
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		return conf, fmt.Errorf("io.ReadAll: %w", err)
	}

	conf = defaultConfig(configDir)
	if _, err := toml.Decode(string(contents), &conf); err != nil {
		return conf, fmt.Errorf("toml.Decode: %w", err)
	}

	return conf, nil
}
