package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string `yaml:"url"`

	// KeyPrefix namespaces every key so several deployments can share a server
	KeyPrefix string `yaml:"keyPrefix"`

	// Pool settings
	PoolSize     int `yaml:"poolSize"`
	MinIdleConns int `yaml:"minIdleConns"`

	// TTL settings for different entity types. Zero disables expiry.
	GuestPlayerTTL time.Duration `yaml:"guestPlayerTTL"`
	SessionTTL     time.Duration `yaml:"sessionTTL"`
	GameTTL        time.Duration `yaml:"gameTTL"`
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		KeyPrefix:      "dominoes",
		PoolSize:       10,
		MinIdleConns:   2,
		GuestPlayerTTL: 24 * time.Hour,
		SessionTTL:     24 * time.Hour,
		GameTTL:        72 * time.Hour,
	}
}
