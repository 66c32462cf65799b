package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by Load.
// KOTOBA_SERVER_PORT maps to server.port, and so on.
const envPrefix = "KOTOBA"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file.
// Returns a populated Config struct or an error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; the environment can carry
		// everything. Any other read error is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the default value for every setting so a bare
// environment still produces a runnable configuration (aside from the
// database URL, which has no sensible default).
func setDefaults(v *viper.Viper) {
	// The empty database URL default exists so AutomaticEnv can bind the
	// key; validation rejects it if nothing fills it in.
	v.SetDefault("database.url", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("progression.max_interval_days", 365.0)
	v.SetDefault("progression.queue_limit", 100)
	v.SetDefault("progression.streak_sweep_hour", 0)
	v.SetDefault("progression.passing_quality", 3)
	v.SetDefault("progression.min_ease_factor", 1.3)
	v.SetDefault("progression.max_ease_factor", 3.0)
	v.SetDefault("progression.streak_bonus_rate", 0.02)
	v.SetDefault("progression.streak_bonus_cap", 2.0)
}
