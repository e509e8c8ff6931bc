package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/rawload/internal/config"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// Flags represents connection parameters from CLI flags.
// Password is intentionally absent: for security it is only accepted via
// $DB_PASSWORD (or a .env file), never on the command line where it would
// be visible in shell history and the process list.
type Flags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// EnvVars holds the environment variables the loader recognizes.
// Names and defaults match the bundled container setup.
type EnvVars struct {
	DBHost     string // DB_HOST
	DBPort     string // DB_PORT
	DBName     string // DB_NAME
	DBUser     string // DB_USER
	DBPassword string // DB_PASSWORD

	DataPath    string // DATA_PATH
	ForceReload string // FORCE_RELOAD ("1" enables)
}

// LoadFromEnvironment reads the recognized environment variables.
// Call godotenv.Load first so a .env file can populate them.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      os.Getenv("DB_PORT"),
		DBName:      os.Getenv("DB_NAME"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DataPath:    os.Getenv("DATA_PATH"),
		ForceReload: os.Getenv("FORCE_RELOAD"),
	}
}

// ForceReloadEnabled reports whether $FORCE_RELOAD requests a truncate-and-
// reload run, matching the original pipeline's "FORCE_RELOAD=1" convention.
func (e *EnvVars) ForceReloadEnabled() bool {
	return e.ForceReload == "1"
}

// ResolveConnectionParams resolves connection parameters with precedence:
//
//	CLI flag > environment variable > rawload.yaml > default
//
// Every parameter has a default matching the bundled container, so the
// loader runs with no arguments at all.
func ResolveConnectionParams(
	flags *Flags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*rawload.ConnectionConfig, error) {
	if flags == nil {
		flags = &Flags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	var yamlConn config.ConnectionConfig
	if projectConfig != nil {
		yamlConn = projectConfig.Connection
	}

	cfg := &rawload.ConnectionConfig{
		Host:     firstNonEmpty(flags.Host, envVars.DBHost, yamlConn.Host, rawload.DefaultHost),
		Database: firstNonEmpty(flags.Database, envVars.DBName, yamlConn.Database, rawload.DefaultDatabase),
		Username: firstNonEmpty(flags.Username, envVars.DBUser, yamlConn.Username, rawload.DefaultUsername),
		Password: firstNonEmpty(envVars.DBPassword, rawload.DefaultPassword),
		SSLMode:  firstNonEmpty(flags.SSLMode, yamlConn.SSLMode, rawload.DefaultSSLMode),
		AppName:  "rawload",
	}

	port, err := resolvePort(flags.Port, envVars.DBPort, yamlConn.Port)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	return cfg, nil
}

func resolvePort(flagPort int, envPort string, yamlPort int) (int, error) {
	if flagPort != 0 {
		return flagPort, nil
	}
	if envPort != "" {
		p, err := strconv.Atoi(envPort)
		if err != nil || p <= 0 || p > 65535 {
			return 0, fmt.Errorf("invalid DB_PORT %q: %w", envPort, rawload.ErrInvalidConfig)
		}
		return p, nil
	}
	if yamlPort != 0 {
		return yamlPort, nil
	}
	return rawload.DefaultPort, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
