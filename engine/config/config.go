package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig reads configuration from config.json (if present), .env file,
// environment variables, and built-in defaults, in increasing precedence of
// env over file over defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Load .env into the process environment so QDE_API_BASE_URL etc. are
	// visible as real env vars
	if err := godotenv.Load(); err != nil {
		log.Println("Note: no .env file found, relying on system env vars")
	}

	setDefaults(v)

	// A missing config file is fine; a broken one is not
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("QDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v,
		"api.base_url", "api.request_timeout", "api.health_check_interval",
		"market_data.default_symbol",
		"risk.simulations", "risk.confidence", "risk.time_horizon",
		"log.level", "log.max_size",
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultConfig returns the built-in configuration without touching disk or env
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("bad built-in config defaults: %v", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:10000")
	v.SetDefault("api.request_timeout", "30s")
	v.SetDefault("api.health_check_interval", "30s")

	v.SetDefault("market_data.default_symbol", "AAPL")
	v.SetDefault("market_data.default_entry.spot", 100.0)
	v.SetDefault("market_data.default_entry.rate", 0.05)
	v.SetDefault("market_data.default_entry.vol", 0.25)
	v.SetDefault("market_data.default_entry.dividend", 0.0)

	v.SetDefault("risk.simulations", 10000)
	v.SetDefault("risk.confidence", 0.95)
	v.SetDefault("risk.time_horizon", 1.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 500)
}

func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url cannot be empty")
	}
	if cfg.API.RequestTimeout <= 0 {
		return fmt.Errorf("api.request_timeout must be positive")
	}
	if cfg.API.HealthCheckInterval <= 0 {
		return fmt.Errorf("api.health_check_interval must be positive")
	}
	if cfg.MarketData.DefaultSymbol == "" {
		return fmt.Errorf("market_data.default_symbol cannot be empty")
	}
	return nil
}

// bindEnv is a helper to bind multiple keys at once
func bindEnv(v *viper.Viper, keys ...string) {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			log.Printf("Could not bind env var for key %s: %v", key, err)
		}
	}
}
