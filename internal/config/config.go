package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound);
// a missing rawload.yaml is not an error, the loader falls back to
// environment variables and defaults.
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode,omitempty"`
}

type ProjectConfig struct {
	Connection  ConnectionConfig `yaml:"connection"`
	DataPath    string           `yaml:"data_path,omitempty"`
	ForceReload bool             `yaml:"force_reload,omitempty"`
	Timeout     string           `yaml:"timeout,omitempty"`
}

const ConfigFileName = "rawload.yaml"

// Load reads rawload.yaml from dir. Returns ErrConfigNotFound if absent.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
