package config

import "time"

// DefaultFetchers is the source list written to a fresh configuration file.
var DefaultFetchers = []string{"genius"}

// createDefaultConfig creates a new Config with sensible default values
func createDefaultConfig() *Config {
	return &Config{
		Fetchers: append([]string(nil), DefaultFetchers...),
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		Lyrics: Lyrics{
			Timeout:       10 * time.Second,
			UserAgent:     "lyr/1.0",
			Transliterate: false,
		},
		Server: Server{
			PrintRoutes: false,
			Port:        3535,
		},
		Telegram: Telegram{
			Enabled:      false,
			Token:        "",                                   // Can be obtained with https://t.me/BotFather
			AllowedUsers: []string{"<your_telegram_username>"}, // No @
		},
		Watch: Watch{
			Debounce: 5 * time.Second,
			NoEmbed:  false,
		},
	}
}
