// Package config loads and validates application configuration from
// environment variables and optional config files.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Study    StudyConfig    `mapstructure:"study"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret         string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMins int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
	BcryptCost        int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// StudyConfig contains settings for the scheduling engine.
type StudyConfig struct {
	// Timezone names the IANA location used for calendar-day due
	// computations. Empty means the server's local time zone. Due-ness
	// crosses at midnight in this location, so all users of one server
	// share its day boundary.
	Timezone string `mapstructure:"timezone"`
}
