package config

import "time"

// Config holds the application configuration.
type Config struct {
	Fetchers []string `yaml:"fetchers" json:"fetchers" validate:"required,min=1,dive,required"`
	Logger   Logger   `yaml:"logger" json:"logger"`
	Lyrics   Lyrics   `yaml:"lyrics" json:"lyrics"`
	Server   Server   `yaml:"server" json:"server"`
	Telegram Telegram `yaml:"telegram" json:"telegram"`
	Watch    Watch    `yaml:"watch" json:"watch"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Level   string `yaml:"level" json:"level" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" json:"format" validate:"omitempty,oneof=json text logfmt"`
}

// Lyrics holds the configuration shared by every lyrics source
type Lyrics struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout" validate:"gte=0"`
	UserAgent     string        `yaml:"user_agent" json:"userAgent"`
	Transliterate bool          `yaml:"transliterate" json:"transliterate"` // Fold titles and artists to ASCII before building URLs
}

// Server hold the configuration for the Fiber server
type Server struct {
	PrintRoutes bool   `yaml:"show_routes" json:"showRoutes"`
	Port        uint32 `yaml:"port" json:"port" validate:"omitempty,max=65535"`
}

type Telegram struct {
	Enabled      bool     `yaml:"enabled" json:"enabled"`
	Token        string   `yaml:"token" json:"token"`
	AllowedUsers []string `yaml:"allowedUsers" json:"allowedUsers"`
}

// Watch holds the configuration for the directory watcher
type Watch struct {
	Debounce time.Duration `yaml:"debounce" json:"debounce" validate:"gte=0"`
	NoEmbed  bool          `yaml:"no_embed" json:"noEmbed"` // Only log what would be fetched
}
