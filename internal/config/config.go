package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Rules    RulesConfig    `mapstructure:"rules"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
}

// ServerConfig configures the listening gateway.
type ServerConfig struct {
	Name     string `mapstructure:"name"`
	Address  string `mapstructure:"address"`
	MaxGames int    `mapstructure:"max_games"`
}

// RulesConfig is the rule-table section: player counts and life totals that
// are data, not code.
type RulesConfig struct {
	MinPlayers int `mapstructure:"min_players"`
	MaxPlayers int `mapstructure:"max_players"`
	BaseLife   int `mapstructure:"base_life"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig configures the optional game archive. An empty DSN disables
// persistence entirely.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "bang-server")
	v.SetDefault("server.address", ":8220")
	v.SetDefault("server.max_games", 64)
	v.SetDefault("rules.min_players", 4)
	v.SetDefault("rules.max_players", 7)
	v.SetDefault("rules.base_life", 4)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.dsn", "")
}

// Load reads the configuration file at path, applying defaults and BANG_
// environment overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BANG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Rules.MinPlayers < 4 {
		return fmt.Errorf("rules.min_players must be at least 4, got %d", c.Rules.MinPlayers)
	}
	if c.Rules.MaxPlayers < c.Rules.MinPlayers {
		return fmt.Errorf("rules.max_players %d below rules.min_players %d", c.Rules.MaxPlayers, c.Rules.MinPlayers)
	}
	// the role table stops at 7 seats
	if c.Rules.MaxPlayers > 7 {
		return fmt.Errorf("rules.max_players must be at most 7, got %d", c.Rules.MaxPlayers)
	}
	if c.Rules.BaseLife < 1 {
		return fmt.Errorf("rules.base_life must be positive, got %d", c.Rules.BaseLife)
	}
	return nil
}
