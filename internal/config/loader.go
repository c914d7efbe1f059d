package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load loads the server configuration and applies environment overrides.
// Search order: customPath -> ~/.dominoes/config.yaml -> ./configs/config.yaml -> embedded default
// Keys missing from a file keep their default values.
func Load(customPath string) (Config, error) {
	cfg, err := embedded()
	if err != nil {
		return cfg, err
	}

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return finish(cfg)
	}

	// User config directory, then the local configs directory. Unreadable or
	// malformed files fall through to the next candidate.
	for _, path := range []string{userConfigPath("config.yaml"), filepath.Join("configs", "config.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fileCfg := cfg
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			return finish(fileCfg)
		}
	}

	return finish(cfg)
}

func embedded() (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func finish(cfg Config) (Config, error) {
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides file values with environment variables
func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.SQLite.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("DOMINOES_TARGET_SCORE"); v != "" {
		score, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DOMINOES_TARGET_SCORE %q: %w", v, err)
		}
		cfg.Rules.TargetScore = score
	}
	if v := os.Getenv("DOMINOES_AUTO_PASS"); v != "" {
		autoPass, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DOMINOES_AUTO_PASS %q: %w", v, err)
		}
		cfg.Rules.AutoPass = autoPass
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dominoes", filename)
}
