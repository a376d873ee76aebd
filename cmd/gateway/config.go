// In file: cmd/gateway/config.go
package main

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/cache"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/config"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/llm"
)

// AppConfig holds all configuration for the gateway, loaded from the environment and config files.
type AppConfig struct {
	Port                string
	RedisAddr           string
	CacheTTL            time.Duration
	EnabledProviders    []string
	APIKeys             map[string]string
	ProviderTimeout     time.Duration
	RateLimitRPS        float64
	RateLimitBurst      int
	HealthCheckInterval time.Duration
	File                *config.File
}

// LoadConfig loads all configuration from a .env file, environment variables, and config.yaml.
func LoadConfig() (*AppConfig, error) {
	// In Docker (GIN_MODE=release) the environment is provided directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (*AppConfig, error) {
	cfg := &AppConfig{
		Port:      getenv("PORT"),
		RedisAddr: getenv("REDIS_ADDR"),
		APIKeys:   make(map[string]string),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	var err error
	if cfg.CacheTTL, err = durationEnv(getenv, "CACHE_TTL", cache.DefaultTTL); err != nil {
		return nil, err
	}
	if cfg.ProviderTimeout, err = durationEnv(getenv, "PROVIDER_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HealthCheckInterval, err = durationEnv(getenv, "HEALTH_CHECK_INTERVAL", 0); err != nil {
		return nil, err
	}
	if v := getenv("RATE_LIMIT_RPS"); v != "" {
		if cfg.RateLimitRPS, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", v, err)
		}
	}
	cfg.RateLimitBurst = int(cfg.RateLimitRPS)
	if v := getenv("RATE_LIMIT_BURST"); v != "" {
		if cfg.RateLimitBurst, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST %q: %w", v, err)
		}
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst < 1 {
		cfg.RateLimitBurst = 1
	}

	// An unset ENABLED_PROVIDERS enables every provider that has a key.
	enabled := strings.TrimSpace(getenv("ENABLED_PROVIDERS"))
	for name, env := range llm.APIKeyEnv {
		key := getenv(env)
		if key == "" {
			continue
		}
		cfg.APIKeys[name] = key
	}
	if enabled == "" {
		for name := range cfg.APIKeys {
			cfg.EnabledProviders = append(cfg.EnabledProviders, name)
		}
		slices.Sort(cfg.EnabledProviders)
	} else {
		for _, name := range strings.Split(enabled, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if _, ok := llm.APIKeyEnv[name]; !ok {
				return nil, fmt.Errorf("ENABLED_PROVIDERS: unknown provider %q", name)
			}
			if _, ok := cfg.APIKeys[name]; !ok {
				log.Printf("WARNING: provider %s is enabled but %s is not set, skipping.", name, llm.APIKeyEnv[name])
				continue
			}
			cfg.EnabledProviders = append(cfg.EnabledProviders, name)
		}
	}

	file, err := config.Load(getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	cfg.File = file
	return cfg, nil
}

func durationEnv(getenv func(string) string, name string, def time.Duration) (time.Duration, error) {
	v := getenv(name)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return d, nil
}
