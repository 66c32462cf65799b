package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"      validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"    validate:"required"`
	Progression ProgressionConfig `mapstructure:"progression" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// ProgressionConfig contains tunables for the progression engine and the
// nightly streak sweep. Zero values are replaced by defaults at load time.
type ProgressionConfig struct {
	// MaxIntervalDays caps the spacing between reviews of a single item.
	MaxIntervalDays float64 `mapstructure:"max_interval_days" validate:"required,gt=0"`

	// QueueLimit is the maximum number of due items returned per queue request.
	QueueLimit int `mapstructure:"queue_limit" validate:"required,gt=0,lte=500"`

	// StreakSweepHour is the UTC hour at which the nightly streak sweep runs.
	StreakSweepHour int `mapstructure:"streak_sweep_hour" validate:"gte=0,lt=24"`

	// PassingQuality is the lowest review quality grade that counts as a
	// successful recall.
	PassingQuality int `mapstructure:"passing_quality" validate:"required,gte=0,lte=5"`

	// MinEaseFactor and MaxEaseFactor bound the SM-2 ease factor.
	MinEaseFactor float64 `mapstructure:"min_ease_factor" validate:"required,gte=1.3"`
	MaxEaseFactor float64 `mapstructure:"max_ease_factor" validate:"required,gtfield=MinEaseFactor"`

	// StreakBonusRate is the XP bonus per streak day; StreakBonusCap caps
	// the resulting multiplier.
	StreakBonusRate float64 `mapstructure:"streak_bonus_rate" validate:"required,gt=0"`
	StreakBonusCap  float64 `mapstructure:"streak_bonus_cap"  validate:"required,gte=1"`
}
