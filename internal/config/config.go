// Package config loads mekmount.json through viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/JustinWhittecar/mekmount/internal/game"
)

// FileName is the config file looked up in the config directory.
const FileName = "mekmount.json"

// Settings is the typed view of the loaded configuration.
type Settings struct {
	LogLevel    string       `mapstructure:"logLevel"`
	CatalogPath string       `mapstructure:"catalogPath"`
	Snapshot    Snapshot     `mapstructure:"snapshot"`
	Metrics     Metrics      `mapstructure:"metrics"`
	Rules       game.Options `mapstructure:"rules"`
}

// Snapshot selects and configures the snapshot store.
type Snapshot struct {
	Backend     string `mapstructure:"backend"`
	SQLitePath  string `mapstructure:"sqlitePath"`
	PostgresDSN string `mapstructure:"postgresDsn"`
}

// Metrics configures the HTTP listener for /metrics and the inspection API.
type Metrics struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("catalogPath", "")

	v.SetDefault("snapshot.backend", "sqlite")
	v.SetDefault("snapshot.sqlitePath", "./mekmount.db")
	v.SetDefault("snapshot.postgresDsn", "")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9464")

	v.SetDefault("rules.shieldsResetEachPhase", false)
}

// Load reads mekmount.json from configDir on top of the defaults. A missing
// file is not an error; the defaults apply. MEKMOUNT_* environment variables
// override both.
func Load(configDir string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("json")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("mekmount")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) validate() error {
	switch s.Snapshot.Backend {
	case "sqlite", "postgres", "none":
	default:
		return fmt.Errorf("snapshot.backend %q: want sqlite, postgres or none", s.Snapshot.Backend)
	}
	if s.Snapshot.Backend == "postgres" && s.Snapshot.PostgresDSN == "" {
		return errors.New("snapshot.postgresDsn is required for the postgres backend")
	}
	return nil
}
