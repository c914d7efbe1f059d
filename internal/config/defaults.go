package config

import (
	_ "embed"
	"time"

	"github.com/mcoot/dominoes-go/internal/logging"
	"github.com/mcoot/dominoes-go/internal/services/auth"
	redisstorage "github.com/mcoot/dominoes-go/internal/storage/redis"
)

//go:embed defaults/config.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded configuration. It matches the
// embedded defaults/config.yaml.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:               8080,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       60 * time.Second,
			ShutdownTimeout:    30 * time.Second,
			HubCleanupInterval: time.Minute,
		},
		Storage: StorageConfig{Type: StorageTypeMemory},
		Redis:   redisstorage.DefaultConfig(),
		SQLite:  SQLiteConfig{Path: "dominoes.db"},
		Log: logging.Config{
			Level:  "info",
			Format: logging.FormatJSON,
		},
		Rules: RulesConfig{
			TargetScore:       100,
			ViewportHalfWidth: 13,
			AutoPass:          true,
			AutoNextRound:     true,
			MaxBotIterations:  1000,
		},
		Auth: auth.DefaultConfig(),
	}
}
