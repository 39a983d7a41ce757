// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds the runtime configuration, sourced from the environment
// (a .env file is honored via the godotenv autoload import in main).
type Config struct {
	// Port is the TCP port the HTTP/websocket server listens on.
	Port string
	// BotDelay is how long a bot seat "thinks" before its scheduled move.
	BotDelay time.Duration
	// LogLevel is the logrus level for the process logger.
	LogLevel logrus.Level
}

// FromEnv reads PORT, UNO_BOT_DELAY_MS, and LOG_LEVEL, falling back to
// defaults (and logging a warning) on missing or unparseable values.
func FromEnv() Config {
	cfg := Config{
		Port:     "5174",
		BotDelay: 700 * time.Millisecond,
		LogLevel: logrus.InfoLevel,
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	if raw := os.Getenv("UNO_BOT_DELAY_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			logrus.Warnf("invalid UNO_BOT_DELAY_MS %q, using default %s", raw, cfg.BotDelay)
		} else {
			cfg.BotDelay = time.Duration(ms) * time.Millisecond
		}
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			logrus.Warnf("invalid LOG_LEVEL %q, using info", raw)
		} else {
			cfg.LogLevel = level
		}
	}

	return cfg
}
