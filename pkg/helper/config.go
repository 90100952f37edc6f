package helper

import (
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds the helper settings read from the environment
type Config struct {
	DownloadDir string     `env:"STEAMCMD_DOWNLOAD_DIR"`
	InstallDir  string     `env:"STEAMCMD_INSTALL_DIR" envDefault:"."`
	LogLevel    slog.Level `env:"STEAMCMD_LOG_LEVEL" envDefault:"info"`
	MaxTries    int        `env:"STEAMCMD_MAX_TRIES" envDefault:"5"`
	Password    string     `env:"STEAM_PASSWORD"`
	Username    string     `env:"STEAM_USERNAME"`
}

// Parses environment variables into the provided config.
// Returns an error if parsing the environment variables fail.
// See: [env.Parse]
func parseConfig(cfg *Config) error {
	return env.Parse(cfg)
}
