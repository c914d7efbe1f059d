package config

import (
	"fmt"
	"time"

	"github.com/mcoot/dominoes-go/internal/logging"
	"github.com/mcoot/dominoes-go/internal/services/auth"
	redisstorage "github.com/mcoot/dominoes-go/internal/storage/redis"
)

// Storage backends
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// Config is the server configuration
type Config struct {
	Server  ServerConfig        `yaml:"server"`
	Storage StorageConfig       `yaml:"storage"`
	Redis   redisstorage.Config `yaml:"redis"`
	SQLite  SQLiteConfig        `yaml:"sqlite"`
	Log     logging.Config      `yaml:"log"`
	Rules   RulesConfig         `yaml:"rules"`
	Auth    auth.Config         `yaml:"auth"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	// HubCleanupInterval is how often realtime hubs without clients are closed
	HubCleanupInterval time.Duration `yaml:"hubCleanupInterval"`
}

// StorageConfig selects the storage backend
type StorageConfig struct {
	Type string `yaml:"type"`
}

// SQLiteConfig holds SQLite settings
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// RulesConfig holds game rule settings
type RulesConfig struct {
	TargetScore       int  `yaml:"targetScore"`
	ViewportHalfWidth int  `yaml:"viewportHalfWidth"`
	AutoPass          bool `yaml:"autoPass"`
	AutoNextRound     bool `yaml:"autoNextRound"`
	MaxBotIterations  int  `yaml:"maxBotIterations"`
}

// Validate checks the configuration for values the server cannot run with
func (c Config) Validate() error {
	switch c.Storage.Type {
	case StorageTypeMemory, StorageTypeSQLite:
	case StorageTypeRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis.url is required when storage.type is %q", StorageTypeRedis)
		}
	default:
		return fmt.Errorf("invalid storage.type %q: must be memory, redis or sqlite", c.Storage.Type)
	}
	if c.Storage.Type == StorageTypeSQLite && c.SQLite.Path == "" {
		return fmt.Errorf("sqlite.path is required when storage.type is %q", StorageTypeSQLite)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Rules.TargetScore <= 0 {
		return fmt.Errorf("rules.targetScore must be positive, got %d", c.Rules.TargetScore)
	}
	if c.Rules.ViewportHalfWidth <= 0 {
		return fmt.Errorf("rules.viewportHalfWidth must be positive, got %d", c.Rules.ViewportHalfWidth)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case logging.FormatJSON, logging.FormatText:
	default:
		return fmt.Errorf("invalid log.format %q: must be json or text", c.Log.Format)
	}
	return nil
}
